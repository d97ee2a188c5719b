package http

import (
	"ChannelTrack-Backend/internal/auth"
	"ChannelTrack-Backend/internal/metrics"
	"ChannelTrack-Backend/internal/repository"
	"ChannelTrack-Backend/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "ChannelTrack-Backend/docs"
)

// Deps зависимости HTTP слоя
type Deps struct {
	Storage        repository.Storage
	Tracker        *service.Tracker
	Links          *service.LinkService
	Stats          *service.StatsService
	Channels       *service.ChannelService
	AuthMiddleware *auth.Middleware
	CORSOrigins    []string
	Log            *zap.Logger
}

// Server HTTP сервер с обработчиками
type Server struct {
	trackingHandler *TrackingHandler
	botHandler      *BotHandler
	linksHandler    *LinksHandler
	healthHandler   *HealthHandler
	authMiddleware  *auth.Middleware
	corsOrigins     []string
	log             *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(deps Deps) *Server {
	return &Server{
		trackingHandler: NewTrackingHandler(deps.Tracker, deps.Log),
		botHandler:      NewBotHandler(deps.Tracker, deps.Channels, deps.Log),
		linksHandler:    NewLinksHandler(deps.Links, deps.Stats, deps.Channels, deps.Log),
		healthHandler:   NewHealthHandler(deps.Storage, deps.Log),
		authMiddleware:  deps.AuthMiddleware,
		corsOrigins:     deps.CORSOrigins,
		log:             deps.Log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(auth.CORS(s.corsOrigins))

	// Health checks (без аутентификации)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/ready", s.healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger документация
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Редирект по отслеживаемой ссылке
	r.Get("/t/{hash}", s.trackingHandler.Redirect)

	r.Route("/api", func(r chi.Router) {
		r.Post("/track/{hash}", s.trackingHandler.Track)

		// Вызовы бота канала
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware.RequireBot)

			r.Post("/bot/channels", s.botHandler.RegisterChannel)
			r.Post("/bot/conversions", s.botHandler.MarkConversion)
			r.Post("/bot/joins", s.botHandler.RecordJoin)
			r.Post("/bot/unsubscriptions", s.botHandler.MarkUnsubscription)
		})

		// Кабинет маркетолога (JWT)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware.RequireAuth)

			r.Route("/channels/{channelID}", func(r chi.Router) {
				r.Post("/links", s.linksHandler.CreateLink)
				r.Get("/links", s.linksHandler.ListLinks)
				r.Get("/stats", s.linksHandler.ChannelStats)
				r.Get("/stats/daily", s.linksHandler.DailyStats)
				r.Get("/stats/daily/export", s.linksHandler.ExportDailyStats)
			})

			r.Patch("/links/{linkID}", s.linksHandler.SetLinkActive)
			r.Get("/links/{linkID}/stats", s.linksHandler.LinkStats)
		})
	})

	return r
}
