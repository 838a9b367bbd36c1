package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/riandyrn/otelchi"

	"github.com/recallio/recall/internal"
	"github.com/recallio/recall/pkg/auth"
	"github.com/recallio/recall/pkg/models"
)

var log = internal.GetLogger()

const ReadHeaderTimeout = 5 * time.Second
const RouterName = "recall"

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", appState.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.CleanPath)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))
	router.Use(otelchi.Middleware(
		RouterName,
		otelchi.WithChiRoutes(router),
		otelchi.WithRequestMethodInSpanName(true),
	))

	if appState.Config.Auth.Required {
		log.Info("JWT authentication required")
		router.Use(auth.JWTVerifier(appState.Config))
		router.Use(jwtauth.Authenticator)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/models", GetModelsHandler(appState))

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", CreateDocumentsHandler(appState))
			r.Post("/search", SearchDocumentsHandler(appState))
		})

		r.Route("/memory", func(r chi.Router) {
			r.Get("/", GetMemoryHandler(appState))
			r.Post("/", PostMemoryHandler(appState))
			r.Delete("/", ClearMemoryHandler(appState))
			r.Delete("/{index}", DeleteMemoryHandler(appState))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", PostChatHandler(appState))
			r.Get("/history", GetChatHistoryHandler(appState))
		})
	})

	return router
}
