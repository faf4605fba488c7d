package api

import (
	"log/slog"
	"net/http"
	"time"

	"dsc_team/internal/api/handler"
	"dsc_team/internal/api/middleware"
	"dsc_team/internal/app/service"
	"dsc_team/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestTimeout bounds each request's context. It must stay below the
// server's WriteTimeout or the response is cut before the timeout fires.
const RequestTimeout = 8 * time.Second

func NewRouter(
	memberService *service.MemberService,
	clubService *service.ClubService,
	m *metrics.Metrics,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(chiMiddleware.Timeout(RequestTimeout))
	r.Use(middleware.CORS())

	infoHandler := handler.NewInfoHandler(memberService, clubService)
	r.Get("/", infoHandler.Root)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(api chi.Router) {
		infoHandler.RegisterRoutes(api)

		memberHandler := handler.NewMemberHandler(memberService)
		api.Route("/team-members", memberHandler.RegisterRoutes)
	})

	return r
}
