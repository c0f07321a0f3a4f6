package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/smartrw/api/internal/auth"
	"github.com/smartrw/api/internal/rbac"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyRole    contextKey = "role"
)

// Auth memvalidasi JWT akses dan menyuntikkan claim ke context.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "token tidak ditemukan")
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "token tidak valid")
				return
			}

			if _, ok := rbac.ParseRole(claims.Role); !ok {
				writeError(w, http.StatusUnauthorized, "peran tidak dikenal")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject mengambil subject dari context.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetRole mengambil peran dari context.
func GetRole(ctx context.Context) rbac.Role {
	val, _ := ctx.Value(ContextKeyRole).(string)
	role, _ := rbac.ParseRole(val)
	return role
}

// RequireRoles membatasi rute ke peran tertentu.
func RequireRoles(roles ...rbac.Role) func(http.Handler) http.Handler {
	allowed := make(map[rbac.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[GetRole(r.Context())]; !ok {
				writeError(w, http.StatusForbidden, "Anda tidak memiliki izin untuk melakukan aksi ini")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
	})
}
