package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/polodash/api/internal/auth"
	"github.com/polodash/api/internal/repo"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyPapel   contextKey = "papel"
)

// Auth valida JWT de acesso e injeta claims no contexto.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente")
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyPapel, claims.Papel)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject recupera subject do contexto.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetPapel recupera o papel do contexto.
func GetPapel(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyPapel).(string)
	return val
}

// RequirePapel exige papel mínimo na hierarquia da agência.
func RequirePapel(minimo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			papel := GetPapel(r.Context())
			if repo.NivelPapel(papel) < repo.NivelPapel(minimo) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "sem acesso")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
