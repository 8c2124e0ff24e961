package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrMissingSubject = errors.New("token has no employee_id claim")
	ErrWrongTokenType = errors.New("token is not an access token")
)

// Service verifies identity-provider tokens. Minting exists for trusted
// issuers and tests; credentials are never checked here.
type Service interface {
	GenerateAccessToken(employeeID string) (token string, expiresAt int64, err error)
	EmployeeID(claims map[string]interface{}) (string, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	if accessTokenExpiration <= 0 {
		accessTokenExpiration = time.Hour
	}
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(employeeID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"employee_id": employeeID,
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// EmployeeID extracts the principal identifier from verified claims
func (j *JWTService) EmployeeID(claims map[string]interface{}) (string, error) {
	if tokenType, ok := claims["type"]; ok && tokenType != "access" {
		return "", ErrWrongTokenType
	}

	id, ok := claims["employee_id"].(string)
	if !ok || id == "" {
		return "", ErrMissingSubject
	}
	return id, nil
}
