package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/biobalance/admin/config"
	"github.com/biobalance/admin/internal/auth"
	"github.com/biobalance/admin/internal/db"
	"github.com/biobalance/admin/internal/handlers"
	"github.com/biobalance/admin/internal/insights"
	"github.com/biobalance/admin/internal/logging"
	"github.com/biobalance/admin/internal/mq"
	"github.com/biobalance/admin/internal/services"
	"github.com/biobalance/admin/internal/storage"
	"github.com/biobalance/admin/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	audit      *services.AuditService
	log        *zap.Logger
}

// Handlers groups the endpoint handlers mounted by NewRouter.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Nutrition *handlers.NutritionHandler
	Chats     *handlers.ChatHandler
	Insights  *handlers.InsightsHandler
	Exports   *handlers.ExportHandler
	Settings  http.HandlerFunc
	Health    http.HandlerFunc
}

// New constructs a Server with its dependencies. Object storage and the
// message broker are optional: when they are missing or unreachable,
// exports answer 503 and audit events are only logged.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	secret, err := auth.ResolveSecret(cfg, logger)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	statRepo := store.NewStatRepository(dbConn)
	mealRepo := store.NewMealRepository(dbConn)
	recipeRepo := store.NewRecipeRepository(dbConn)
	chatRepo := store.NewChatRepository(dbConn)

	objects := OpenStorage(ctx, cfg.Storage, logger)
	broker := OpenBroker(ctx, cfg.MQ, logger)

	auditService := services.NewAuditService(broker, cfg.MQ.AuditChannel, logger.Named("audit"))
	aggregator := insights.NewAggregator(insights.NewGenerator(cfg.OpenAI, logger.Named("insights")))
	verifier := auth.NewVerifier(secret)

	h := Handlers{
		Auth:  handlers.NewAuthHandler(cfg.Auth, verifier, auditService, cfg.IsProduction(), logger),
		Users: handlers.NewUserHandler(services.NewUserService(userRepo, statRepo, mealRepo), logger),
		Nutrition: handlers.NewNutritionHandler(
			services.NewMealService(mealRepo, userRepo),
			services.NewRecipeService(recipeRepo, userRepo),
			services.NewStatService(statRepo, userRepo),
			logger,
		),
		Chats: handlers.NewChatHandler(services.NewChatService(chatRepo, userRepo), logger),
		Insights: handlers.NewInsightsHandler(
			services.NewInsightsService(userRepo, statRepo, mealRepo, chatRepo, aggregator, logger),
			services.NewDashboardService(userRepo, statRepo),
			auditService,
			logger,
		),
		Exports: handlers.NewExportHandler(
			services.NewExportService(objects, userRepo, mealRepo, recipeRepo, statRepo, chatRepo),
			auditService,
			logger,
		),
		Settings: handlers.Settings(cfg),
		Health:   handlers.Healthz(dbConn),
	}

	router := NewRouter(logger, auth.NewGuard(verifier, logger), h)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		audit:      auditService,
		log:        logger,
	}, nil
}

// NewRouter mounts every route behind the session guard.
func NewRouter(logger *zap.Logger, guard *auth.Guard, h Handlers) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logging.RequestLogger(logger),
		middleware.Timeout(60*time.Second),
		guard.Middleware,
	)

	router.Get("/healthz", h.Health)
	router.Get(auth.LoginPath, handlers.LoginPage)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/dashboard", http.StatusSeeOther)
	})

	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, h.Auth)
		r.Get("/dashboard", h.Insights.Dashboard)
		r.Post("/ai-insights", h.Insights.GenerateInsights)
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, h.Users)
		})
		r.Get("/meals", h.Nutrition.ListMeals)
		r.Get("/recipes", h.Nutrition.ListRecipes)
		r.Get("/stats", h.Nutrition.Stats)
		r.Route("/chats", func(r chi.Router) {
			handlers.ChatRouter(r, h.Chats)
		})
		r.Route("/exports", func(r chi.Router) {
			handlers.ExportRouter(r, h.Exports)
		})
		r.Get("/settings", h.Settings)
	})
	return router
}

// OpenStorage returns the configured object store, or nil when exports
// are unavailable.
func OpenStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) storage.ObjectStorage {
	objects, err := storage.Open(ctx, cfg)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Info("object storage not configured; exports disabled")
		return nil
	case err != nil:
		logger.Warn("object storage unavailable; exports disabled", zap.String("backend", cfg.Backend), zap.Error(err))
		return nil
	}
	return objects
}

// OpenBroker returns the configured message broker, or nil when audit
// events are only logged.
func OpenBroker(ctx context.Context, cfg config.MQConfig, logger *zap.Logger) mq.Backend {
	broker, err := mq.Open(ctx, cfg)
	switch {
	case errors.Is(err, mq.ErrNotConfigured):
		logger.Info("message broker not configured; audit events are logged only")
		return nil
	case err != nil:
		logger.Warn("message broker unavailable; audit events are logged only", zap.String("backend", cfg.Backend), zap.Error(err))
		return nil
	}
	return broker
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases the database and broker.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.audit != nil {
		_ = s.audit.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
