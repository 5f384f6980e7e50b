// Package server wires repositories, services and handlers into one gin engine.
package server

import (
	"net/http"
	"time"

	"constructhub/internal/middleware"
	"constructhub/internal/modules/auth"
	"constructhub/internal/modules/bid"
	"constructhub/internal/modules/catalog"
	"constructhub/internal/modules/profile"
	"constructhub/internal/modules/project"
	"constructhub/internal/modules/realtime"
	jwtsvc "constructhub/internal/pkg/jwt"
	"constructhub/internal/repository"
	"constructhub/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Options struct {
	DB             *gorm.DB
	Sessions       session.Store
	JWTSecret      string
	JWTTTL         time.Duration
	AllowedOrigins []string
	Log            logrus.FieldLogger
}

// Server holds the router and the realtime hub it publishes through.
type Server struct {
	Engine *gin.Engine
	Hub    *realtime.Hub
}

func New(opts Options) *Server {
	userRepo := repository.NewUserRepository(opts.DB)
	categoryRepo := repository.NewCategoryRepository(opts.DB)
	projectRepo := repository.NewProjectRepository(opts.DB)
	bidRepo := repository.NewBidRepository(opts.DB)

	tokens := jwtsvc.New(opts.JWTSecret, opts.JWTTTL)
	authenticator := middleware.NewAuthenticator(tokens, opts.Sessions)
	hub := realtime.NewHub(opts.Log)

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokens, opts.Sessions, hub, opts.Log))
	catalogHandler := catalog.NewHandler(catalog.NewService(categoryRepo))
	projectHandler := project.NewHandler(project.NewService(projectRepo, categoryRepo, bidRepo, hub, opts.Log))
	bidHandler := bid.NewHandler(bid.NewService(bidRepo, projectRepo, hub, opts.Log))
	profileHandler := profile.NewHandler(profile.NewService(userRepo, opts.Log))
	realtimeHandler := realtime.NewHandler(hub, authenticator, opts.AllowedOrigins)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(opts.Log),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		realtimeHandler.RegisterRoutes(v1)

		optional := v1.Group("")
		optional.Use(authenticator.Optional())

		protected := v1.Group("")
		protected.Use(authenticator.Required())

		authHandler.RegisterProtectedRoutes(protected)
		projectHandler.RegisterRoutes(optional, protected)
		bidHandler.RegisterRoutes(optional, protected)
		profileHandler.RegisterRoutes(protected)
	}

	return &Server{Engine: r, Hub: hub}
}
