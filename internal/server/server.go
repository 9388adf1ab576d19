package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/emilythestrangee/stackit/backend/internal/config"
	"github.com/emilythestrangee/stackit/backend/internal/handlers"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/observability"
)

const serviceName = "stackit-api"

type Server struct {
	cfg      config.Config
	handler  *handlers.Handler
	auth     *middleware.AuthMiddleware
	prom     *observability.Prom
	gatherer prometheus.Gatherer
	log      zerolog.Logger
}

// New bundles everything the router needs.
func New(cfg config.Config, handler *handlers.Handler, auth *middleware.AuthMiddleware, prom *observability.Prom, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		handler:  handler,
		auth:     auth,
		prom:     prom,
		gatherer: gatherer,
		log:      log,
	}
}

// HTTPServer wraps the router in an http.Server listening on cfg.Port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", s.cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	if !s.cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(s.log))
	if s.prom != nil {
		r.Use(s.prom.GinHandleMiddleware())
	}

	// CORS configuration
	r.Use(cors.New(s.corsConfig()))

	r.GET("/health", s.handler.Health.Health)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/register", s.handler.Auth.Register)
		api.POST("/auth/login", s.handler.Auth.Login)

		// Question routes (public reads)
		api.GET("/questions", s.handler.Question.GetQuestions)
		api.GET("/questions/trending-tags", s.handler.Question.GetTrendingTags)
		api.GET("/questions/:id", s.handler.Question.GetQuestion)
		api.GET("/questions/:id/comments", s.handler.Comment.GetComments)

		// User routes (public reads)
		api.GET("/users/search", s.handler.User.SearchUsers)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(s.auth.RequireAuth())
		{
			protected.PUT("/auth/update-profile", s.handler.Auth.UpdateProfile)

			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.PUT("/questions/:id", s.handler.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.PUT("/questions/:id/upvote", s.handler.Vote.UpvoteQuestion)
			protected.PUT("/questions/:id/downvote", s.handler.Vote.DownvoteQuestion)

			protected.POST("/questions/:id/answers", s.handler.Answer.CreateAnswer)
			protected.PUT("/questions/:id/answers/:answerId/accept", s.handler.Answer.AcceptAnswer)
			protected.PUT("/answers/:id/upvote", s.handler.Vote.UpvoteAnswer)
			protected.PUT("/answers/:id/downvote", s.handler.Vote.DownvoteAnswer)

			protected.POST("/questions/:id/comments", s.handler.Comment.CreateComment)
		}
	}

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders: []string{"Content-Length", "X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}

	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
