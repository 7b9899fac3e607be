package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/polodash/api/internal/auth"
	"github.com/polodash/api/internal/repo"
)

func TestAuth(t *testing.T) {
	mgr := auth.NewJWTManager("segredo-de-teste-com-32-caracteres!", time.Minute)
	sub := uuid.NewString()

	token, _, err := mgr.GenerateAccessToken(sub, repo.PapelGestor)
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}

	var gotSubject, gotPapel string
	handler := Auth(mgr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = GetSubject(r.Context())
		gotPapel = GetPapel(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	casos := []struct {
		nome   string
		header string
		status int
	}{
		{"token válido", "Bearer " + token, http.StatusOK},
		{"sem header", "", http.StatusUnauthorized},
		{"esquema errado", "Basic abc", http.StatusUnauthorized},
		{"token adulterado", "Bearer " + token + "x", http.StatusUnauthorized},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metricas", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != c.status {
				t.Fatalf("status = %d, esperado %d", rec.Code, c.status)
			}
		})
	}

	if gotSubject != sub {
		t.Errorf("subject no contexto = %q, esperado %q", gotSubject, sub)
	}
	if gotPapel != repo.PapelGestor {
		t.Errorf("papel no contexto = %q, esperado gestor", gotPapel)
	}
}

func TestRequirePapel(t *testing.T) {
	handler := RequirePapel(repo.PapelGestor)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	casos := []struct {
		papel  string
		status int
	}{
		{repo.PapelAtendente, http.StatusForbidden},
		{repo.PapelGestor, http.StatusOK},
		{repo.PapelGerente, http.StatusOK},
		{repo.PapelCIO, http.StatusOK},
		{"", http.StatusForbidden},
	}

	for _, c := range casos {
		t.Run("papel "+c.papel, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
			ctx := context.WithValue(req.Context(), ContextKeyPapel, c.papel)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req.WithContext(ctx))

			if rec.Code != c.status {
				t.Fatalf("papel %q: status = %d, esperado %d", c.papel, rec.Code, c.status)
			}
		})
	}
}
