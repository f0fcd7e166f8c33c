package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kevinaaaquil/library/backend/models"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	EmailKey  contextKey = "email"
	NameKey   contextKey = "name"
)

// TokenTTL is how long a login token stays valid.
const TokenTTL = 7 * 24 * time.Hour

type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for the given identity.
func NewToken(secret string, id models.Identity, now time.Time) (string, error) {
	claims := &Claims{
		UserID: id.UID,
		Email:  id.Email,
		Name:   id.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Auth(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, `{"error":"invalid authorization format"}`, http.StatusUnauthorized)
				return
			}
			token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.UserID == "" {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), models.Identity{
				UID:         claims.UserID,
				Email:       claims.Email,
				DisplayName: claims.Name,
			})))
		})
	}
}

// WithIdentity stores the caller on ctx. Auth uses it; tests use it to skip
// token handling.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id.UID)
	ctx = context.WithValue(ctx, EmailKey, id.Email)
	return context.WithValue(ctx, NameKey, id.DisplayName)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	uid, ok := UserIDFromContext(ctx)
	if !ok {
		return models.Identity{}, false
	}
	email, _ := ctx.Value(EmailKey).(string)
	name, _ := ctx.Value(NameKey).(string)
	return models.Identity{UID: uid, Email: email, DisplayName: name}, true
}

// UserLookup resolves a profile by uid; *store.UserStore satisfies it.
type UserLookup interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// RequireAdmin lets the request through only when the caller's stored
// profile has the admin role. It must run after Auth.
func RequireAdmin(users UserLookup) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			user, err := users.GetUser(r.Context(), uid)
			if err != nil {
				http.Error(w, `{"error":"could not load user"}`, http.StatusInternalServerError)
				return
			}
			if user == nil || !user.IsAdmin {
				http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
