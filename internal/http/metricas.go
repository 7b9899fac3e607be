package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/polodash/api/internal/http/middleware"
	"github.com/polodash/api/internal/metrica"
	"github.com/polodash/api/internal/repo"
	"github.com/polodash/api/internal/storage"
)

const resumoCacheTTL = 60 * time.Second

func (h *Handler) handleImportar(w http.ResponseWriter, r *http.Request) {
	uid, err := subjectAsUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "arquivo muito grande ou payload inválido", nil)
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "campo 'arquivo' obrigatório", nil)
		return
	}
	defer file.Close()

	conteudo, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "falha ao ler o arquivo", nil)
		return
	}

	resultado := h.importador.ProcessarPlanilha(r.Context(), conteudo, uid)

	if resultado.Sucesso {
		h.arquivarPlanilha(r, conteudo, header.Filename)
		h.invalidarResumo(r)
	}

	WriteJSON(w, http.StatusOK, resultado)
}

// arquivarPlanilha guarda a planilha original para auditoria. Melhor esforço:
// falha de storage nunca afeta o resultado da importação.
func (h *Handler) arquivarPlanilha(r *http.Request, conteudo []byte, nome string) {
	if _, ok := h.uploader.(storage.NoopUploader); ok {
		return
	}

	key := fmt.Sprintf("importacoes/%s-%s", time.Now().UTC().Format("20060102T150405"), uuid.NewString())
	if strings.HasSuffix(strings.ToLower(nome), ".xlsx") {
		key += ".xlsx"
	}

	if _, err := h.uploader.Upload(r.Context(), storage.UploadInput{
		Key:         key,
		Body:        conteudo,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("falha ao arquivar planilha importada")
	}
}

func (h *Handler) handleListarMetricas(w http.ResponseWriter, r *http.Request) {
	uid, err := subjectAsUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	inicio, fim, err := periodoDaQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	usuarioFiltro, err := filtroUsuario(r, uid)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "usuario_id inválido", nil)
		return
	}

	metricas, err := h.metricas.ListPorPeriodo(r.Context(), inicio, fim, usuarioFiltro)
	if err != nil {
		log.Error().Err(err).Msg("listagem de métricas falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"metricas": metricas})
}

func (h *Handler) handleResumo(w http.ResponseWriter, r *http.Request) {
	uid, err := subjectAsUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	inicio, fim, err := periodoDaQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	usuarioFiltro, err := filtroUsuario(r, uid)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "usuario_id inválido", nil)
		return
	}

	key := resumoCacheKey(inicio, fim, usuarioFiltro)
	if h.redis != nil {
		if data, err := h.redis.Get(r.Context(), key).Bytes(); err == nil {
			var resumo metrica.Resumo
			if json.Unmarshal(data, &resumo) == nil {
				WriteJSON(w, http.StatusOK, resumo)
				return
			}
		}
	}

	resumo, err := h.metricas.ResumoPeriodo(r.Context(), inicio, fim, usuarioFiltro)
	if err != nil {
		log.Error().Err(err).Msg("resumo do dashboard falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	if h.redis != nil {
		if payload, err := json.Marshal(resumo); err == nil {
			_ = h.redis.Set(r.Context(), key, payload, resumoCacheTTL).Err()
		}
	}

	WriteJSON(w, http.StatusOK, resumo)
}

func (h *Handler) handleExportar(w http.ResponseWriter, r *http.Request) {
	uid, err := subjectAsUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	inicio, fim, err := periodoDaQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	usuarioFiltro, err := filtroUsuario(r, uid)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "usuario_id inválido", nil)
		return
	}

	metricas, err := h.metricas.ListPorPeriodo(r.Context(), inicio, fim, usuarioFiltro)
	if err != nil {
		log.Error().Err(err).Msg("exportação de métricas falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	usuarios, err := h.usuarios.ListUsuariosAtivos(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("exportação: diretório indisponível")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}
	nomes := make(map[uuid.UUID]string, len(usuarios))
	for _, u := range usuarios {
		nomes[u.ID] = u.Nome
	}

	arquivo, err := metrica.ExportarXLSX(metricas, nomes)
	if err != nil {
		log.Error().Err(err).Msg("geração da planilha falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	nome := fmt.Sprintf("metricas-%s-a-%s.xlsx", inicio.Format("2006-01-02"), fim.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nome))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(arquivo)
}

func (h *Handler) handleListarUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.usuarios.ListUsuariosAtivos(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("listagem de usuários falhou")
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	type usuarioResumo struct {
		ID       uuid.UUID  `json:"id"`
		Nome     string     `json:"nome"`
		Email    string     `json:"email"`
		Papel    string     `json:"papel"`
		GestorID *uuid.UUID `json:"gestor_id,omitempty"`
	}

	out := make([]usuarioResumo, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, usuarioResumo{
			ID:       u.ID,
			Nome:     u.Nome,
			Email:    u.Email,
			Papel:    strings.ToLower(u.Papel),
			GestorID: u.GestorID,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{"usuarios": out})
}

// periodoDaQuery lê ?inicio e ?fim (AAAA-MM-DD); default é o mês corrente.
func periodoDaQuery(r *http.Request) (time.Time, time.Time, error) {
	agora := time.Now().UTC()
	inicio := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, time.UTC)
	fim := inicio.AddDate(0, 1, -1)

	if s := r.URL.Query().Get("inicio"); s != "" {
		d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("inicio inválido")
		}
		inicio = d
	}
	if s := r.URL.Query().Get("fim"); s != "" {
		d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("fim inválido")
		}
		fim = d
	}
	if fim.Before(inicio) {
		return time.Time{}, time.Time{}, fmt.Errorf("período inválido")
	}
	return inicio, fim, nil
}

// filtroUsuario restringe atendentes aos próprios dados; papéis de gestão
// podem filtrar por qualquer usuário ou ver o agregado.
func filtroUsuario(r *http.Request, uid uuid.UUID) (*uuid.UUID, error) {
	papel := httpmiddleware.GetPapel(r.Context())
	if !repo.PapelGerencia(papel) {
		return &uid, nil
	}

	if s := r.URL.Query().Get("usuario_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}
	return nil, nil
}

func resumoCacheKey(inicio, fim time.Time, usuario *uuid.UUID) string {
	key := fmt.Sprintf("dashboard:resumo:%s:%s", inicio.Format("2006-01-02"), fim.Format("2006-01-02"))
	if usuario != nil {
		key += ":" + usuario.String()
	}
	return key
}

// invalidarResumo limpa o cache do dashboard após uma importação bem sucedida.
func (h *Handler) invalidarResumo(r *http.Request) {
	if h.redis == nil {
		return
	}
	iter := h.redis.Scan(r.Context(), 0, "dashboard:resumo:*", 100).Iterator()
	for iter.Next(r.Context()) {
		_ = h.redis.Del(r.Context(), iter.Val()).Err()
	}
}
