package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"constructhub/internal/config"
	"constructhub/internal/database"
	"constructhub/internal/pkg/logger"
	"constructhub/internal/repository"
	"constructhub/internal/server"
	"constructhub/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sessions session.Store
	if cfg.RedisAddr != "" {
		rdb, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.WithError(err).Fatal("connect redis")
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
		log.WithField("addr", cfg.RedisAddr).Info("sessions stored in redis")
	} else {
		sessions = session.NewMemoryStore()
		log.Warn("REDIS_ADDR not set, sessions kept in memory")
	}

	srv := server.New(server.Options{
		DB:             db,
		Sessions:       sessions,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTAccessTTL,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Log:            log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.AppEnv}).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
}
