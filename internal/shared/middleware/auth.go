package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
)

// Claims is the subset of a Supabase access token this service reads.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// RoleResolver looks up the application role (customer, recycler, admin) of
// an authenticated user.
type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses "Bearer <jwt>" or a bare token and returns its claims.
func (v *TokenVerifier) Verify(header string) (*Claims, error) {
	tokenStr := strings.TrimSpace(header)
	if strings.HasPrefix(tokenStr, "Bearer ") {
		tokenStr = strings.TrimSpace(strings.TrimPrefix(tokenStr, "Bearer "))
	}
	if tokenStr == "" {
		return nil, errors.New("missing token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// Auth validates the bearer token and stores user id, email and application
// role in the request context. A user without a profile row gets an empty
// role; handlers that need one reject the request.
func Auth(verifier *TokenVerifier, roles RoleResolver, logger *util.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				util.WriteJSONError(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				util.WriteJSONError(w, "invalid Authorization format", http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(authHeader)
			if err != nil {
				util.WriteJSONError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			role := ""
			if roles != nil {
				role, err = roles.Role(r.Context(), claims.Subject)
				if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
					logger.Error("AuthMiddleware", err)
					util.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
					return
				}
			}

			ctx := WithUser(r.Context(), claims.Subject, role)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose application role is not one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := Role(r.Context())
			for _, role := range roles {
				if current == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			util.WriteJSONError(w, "forbidden: requires role "+strings.Join(roles, " or "), http.StatusForbidden)
		})
	}
}
