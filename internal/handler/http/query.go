package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/leave-ledger/internal/pkg/validator"
)

// queryParams collects integer and boolean query parameters, remembering
// every malformed value so the handler can answer with one 422.
type queryParams struct {
	r    *http.Request
	errs validator.ValidationErrors
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{r: r}
}

func (q *queryParams) String(key string) string {
	return q.r.URL.Query().Get(key)
}

func (q *queryParams) Int(key string) int {
	raw := q.r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.errs = append(q.errs, validator.ValidationError{Field: key, Message: "must be an integer"})
		return 0
	}
	return v
}

func (q *queryParams) Bool(key string) *bool {
	raw := q.r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.errs = append(q.errs, validator.ValidationError{Field: key, Message: "must be a boolean"})
		return nil
	}
	return &v
}

func (q *queryParams) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return q.errs
}
