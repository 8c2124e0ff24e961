package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/leave-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/leave-ledger/internal/domain/user"
	"github.com/cmlabs-hris/leave-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type capabilityContextKey struct{}

// TargetFunc picks the employee a route acts on. An empty result means the
// caller's default scope.
type TargetFunc func(r *http.Request) string

// URLParamTarget targets the employee named by a chi URL parameter.
func URLParamTarget(param string) TargetFunc {
	return func(r *http.Request) string {
		return chi.URLParam(r, param)
	}
}

// RequirePermission asks the guard for a capability to perform action and
// stores it in the request context.
func RequirePermission(guard auth.Guard, action user.Action, target TargetFunc) func(http.Handler) http.Handler {
	return authorize(func(p auth.Principal, r *http.Request) (auth.Capability, error) {
		return guard.Authorize(p, action, resolveTarget(target, r))
	})
}

// RequireView issues list_all to admins and a self-scoped list_own to everyone else.
func RequireView(guard auth.Guard) func(http.Handler) http.Handler {
	return authorize(func(p auth.Principal, r *http.Request) (auth.Capability, error) {
		return guard.AuthorizeView(p, "")
	})
}

func authorize(issue func(p auth.Principal, r *http.Request) (auth.Capability, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrPrincipalNotFound)
				return
			}

			capability, err := issue(principal, r)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), capabilityContextKey{}, capability)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveTarget(target TargetFunc, r *http.Request) string {
	if target == nil {
		return ""
	}
	return target(r)
}

// CapabilityFromContext returns the capability issued for this request. The
// zero Capability allows nothing.
func CapabilityFromContext(ctx context.Context) auth.Capability {
	capability, _ := ctx.Value(capabilityContextKey{}).(auth.Capability)
	return capability
}
