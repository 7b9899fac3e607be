package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/polodash/api/internal/http/middleware"
	"github.com/polodash/api/internal/repo"
	"github.com/polodash/api/internal/service"
)

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Perfil       service.Profile `json:"perfil"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Senha)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			WriteError(w, http.StatusUnauthorized, "AUTH", "credenciais inválidas", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "conta desativada", nil)
		default:
			log.Error().Err(err).Msg("login falhou")
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Perfil:       result.Profile,
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	result, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshInvalid):
			WriteError(w, http.StatusUnauthorized, "AUTH", "refresh token inválido", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "conta desativada", nil)
		default:
			log.Error().Err(err).Msg("refresh falhou")
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Perfil:       result.Profile,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		log.Error().Err(err).Msg("logout falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	uid, err := subjectAsUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	perfil, err := h.authService.Me(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "usuário não encontrado", nil)
			return
		}
		log.Error().Err(err).Msg("consulta de perfil falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, perfil)
}

func subjectAsUUID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(httpmiddleware.GetSubject(r.Context()))
}
