package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalass/gmao-pro-sub001/common/database"
	"github.com/ghalass/gmao-pro-sub001/common/logger"
	"github.com/ghalass/gmao-pro-sub001/internal/config"
	"github.com/ghalass/gmao-pro-sub001/internal/events"
	httpapi "github.com/ghalass/gmao-pro-sub001/internal/http"
	"github.com/ghalass/gmao-pro-sub001/internal/metrics"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/service"
	"github.com/ghalass/gmao-pro-sub001/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "gmao-data")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient, err := store.OpenRedis(context.Background(), &cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	publisher, err := events.New(cfg.Events, log)
	if err != nil {
		// saisies still work without events
		log.Warn("Event publisher unavailable, events disabled", zap.String("driver", cfg.Events.Driver), zap.Error(err))
		publisher = events.NopPublisher{}
	}

	m := metrics.NewMetrics()
	pg := repository.NewPostgresStore(db)
	repos := pg.Repositories
	loc := cfg.Report.Location()

	sessions := store.NewSessionStore(redisClient, cfg.Auth.SessionTTL)
	authSvc := service.NewAuthService(repos.Users, repos.Entreprises, sessions, cfg.Auth.JWTSecret, log)
	rbacSvc := service.NewRBACService(pg, repos, log)

	h := httpapi.Handlers{
		Auth:        httpapi.NewAuthHandler(authSvc, cfg.Auth.CookieName, cfg.Auth.CookieSecure, log),
		Entreprises: httpapi.NewEntreprisesHandler(service.NewEntrepriseService(repos.Entreprises, log), log),
		Sites:       httpapi.NewSitesHandler(service.NewSiteService(repos.Sites, log), log),
		Parcs:       httpapi.NewParcsHandler(service.NewParcService(repos.Parcs, log), log),
		Engins:      httpapi.NewEnginsHandler(service.NewEnginService(repos, log), log),
		Pannes:      httpapi.NewPannesHandler(service.NewPanneService(repos.Pannes, log), log),
		Lubrifiants: httpapi.NewLubrifiantsHandler(service.NewLubrifiantService(repos.Lubrifiants, log), log),
		Objectifs:   httpapi.NewObjectifsHandler(service.NewObjectifService(repos, log), log),
		Saisies:     httpapi.NewSaisiesHandler(service.NewSaisieService(pg, repos, publisher, m, loc, log), log),
		RJE:         httpapi.NewRJEHandler(service.NewRJEService(repos, m, loc, log), log),
		Import:      httpapi.NewImportHandler(service.NewImportService(pg, repos, m, log), log),
		Users:       httpapi.NewUsersHandler(service.NewUserService(pg, repos, authSvc, log), rbacSvc, log),
	}
	mw := httpapi.NewMiddleware(authSvc, rbacSvc, cfg.Auth.CookieName, log)
	router := httpapi.NewRouter(h, mw, m, httpapi.RouterConfig{CORSOrigins: cfg.HTTP.CORSOrigins}, log)

	srv := httpapi.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
	_ = publisher.Close()
	_ = redisClient.Close()
	_ = database.Close(db)
}
