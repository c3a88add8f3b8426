package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var errMissingSubject = errors.New("token has no subject")

// Authenticate verifies the bearer token with the shared HMAC secret and stores the
// resulting principal in the request context.
func Authenticate(secret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				services.SendDomainError(w, models.NewUnauthorizedError("Authorization header required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				services.SendDomainError(w, models.NewUnauthorizedError("Invalid authorization header format"))
				return
			}

			principal, err := validateToken(parts[1], secret)
			if err != nil {
				logger.Debug("[AUTH] token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				services.SendDomainError(w, models.NewUnauthorizedError("Invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(policy.WithPrincipal(r.Context(), principal)))
		})
	}
}

func validateToken(tokenString string, secret []byte) (*policy.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		if userID, ok := claims["user_id"]; ok && userID != nil {
			subject = fmt.Sprintf("%v", userID)
		}
	}
	if subject == "" {
		return nil, errMissingSubject
	}

	return &policy.Principal{ID: subject, Roles: rolesClaim(claims)}, nil
}

// rolesClaim accepts either a "roles" array or a single "role" string.
func rolesClaim(claims jwt.MapClaims) []string {
	var roles []string
	switch v := claims["roles"].(type) {
	case []any:
		for _, r := range v {
			if s, ok := r.(string); ok && s != "" {
				roles = append(roles, s)
			}
		}
	case string:
		roles = append(roles, v)
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		roles = append(roles, role)
	}
	return roles
}
