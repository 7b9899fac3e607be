package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/polodash/api/internal/cliente"
	"github.com/polodash/api/internal/config"
	httpmiddleware "github.com/polodash/api/internal/http/middleware"
	"github.com/polodash/api/internal/importer"
	"github.com/polodash/api/internal/metrica"
	"github.com/polodash/api/internal/repo"
	"github.com/polodash/api/internal/service"
	"github.com/polodash/api/internal/storage"
)

// Handler concentra as dependências das rotas da API.
type Handler struct {
	cfg           *config.Config
	redis         *redis.Client
	authService   *service.AuthService
	usuarios      *repo.Queries
	metricas      *metrica.Repository
	clientes      *cliente.Service
	importador    *importer.Service
	uploader      storage.Uploader
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService) (http.Handler, error) {
	usuarios := repo.New(pool)
	metricas := metrica.NewRepository(pool)
	clientes := cliente.NewService(cliente.NewRepository(pool))
	importador := importer.NewService(usuarios, metricas)

	var uploader storage.Uploader = storage.NoopUploader{}
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Uploader(storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		uploader = s3
	} else {
		log.Info().Msg("storage não configurado, planilhas importadas não serão arquivadas")
	}

	h := &Handler{
		cfg:           cfg,
		redis:         redisClient,
		authService:   authService,
		usuarios:      usuarios,
		metricas:      metricas,
		clientes:      clientes,
		importador:    importador,
		uploader:      uploader,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.IPRateLimit(h.publicLimiter))
		r.Post("/auth/login", h.handleLogin)
		r.Post("/auth/refresh", h.handleRefresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.Auth(authService.JWT()))
		r.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		r.Post("/auth/logout", h.handleLogout)
		r.Get("/me", h.handleMe)

		r.Post("/metricas/importar", h.handleImportar)
		r.Get("/metricas", h.handleListarMetricas)
		r.Get("/metricas/resumo", h.handleResumo)
		r.Get("/metricas/exportar", h.handleExportar)

		r.With(httpmiddleware.RequirePapel(repo.PapelGestor)).
			Get("/usuarios", h.handleListarUsuarios)

		r.Get("/clientes", h.handleListarClientes)
		r.Get("/clientes/{id}", h.handleGetCliente)
		r.With(httpmiddleware.RequirePapel(repo.PapelGestor)).
			Post("/clientes", h.handleCriarCliente)
		r.With(httpmiddleware.RequirePapel(repo.PapelGerente)).
			Delete("/clientes/{id}", h.handleDesativarCliente)
	})

	return r, nil
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
