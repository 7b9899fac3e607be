package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/polodash/api/internal/cliente"
)

type criarClienteRequest struct {
	Nome     string  `json:"nome"`
	Slug     string  `json:"slug"`
	Segmento *string `json:"segmento"`
	GestorID *string `json:"gestor_id"`
}

func (h *Handler) handleListarClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.clientes.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("listagem de clientes falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"clientes": clientes})
}

func (h *Handler) handleGetCliente(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "cliente inválido", nil)
		return
	}

	c, err := h.clientes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, cliente.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "cliente não encontrado", nil)
			return
		}
		log.Error().Err(err).Msg("consulta de cliente falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleCriarCliente(w http.ResponseWriter, r *http.Request) {
	var req criarClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	input := cliente.CreateClienteInput{
		Nome:     req.Nome,
		Slug:     req.Slug,
		Segmento: req.Segmento,
	}
	if req.GestorID != nil && *req.GestorID != "" {
		id, err := uuid.Parse(*req.GestorID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "gestor_id inválido", nil)
			return
		}
		input.GestorID = &id
	}

	c, err := h.clientes.Create(r.Context(), input)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleDesativarCliente(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "cliente inválido", nil)
		return
	}

	if err := h.clientes.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, cliente.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "cliente não encontrado", nil)
			return
		}
		log.Error().Err(err).Msg("desativação de cliente falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
