package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tea-registry/internal/config"
	"tea-registry/internal/database"
	httpapi "tea-registry/internal/http"
	"tea-registry/internal/logger"
	"tea-registry/internal/repository"
	"tea-registry/internal/service"
	"tea-registry/internal/session"
	"tea-registry/internal/storage"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; stderr is all we have.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "tea-registry")
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	sessions := session.NewRedisStore(redisClient, cfg.Session.TTL)

	objects, err := storage.NewDiskStore(cfg.Storage.Dir)
	if err != nil {
		log.Fatal("failed to prepare object storage", zap.Error(err))
	}
	signer := storage.NewURLSigner(cfg.Storage.SigningSecret, cfg.Storage.SignedURLTTL)

	identitiesRepo := repository.NewPostgresIdentitiesRepository(db)
	staffRepo := repository.NewPostgresStaffRepository(db)
	registrantsRepo := repository.NewPostgresRegistrantsRepository(db)
	visitsRepo := repository.NewPostgresVisitNotesRepository(db)

	authService := service.NewAuthService(identitiesRepo, staffRepo, sessions, log)
	staffService := service.NewStaffService(identitiesRepo, staffRepo, sessions, log)
	registrantService := service.NewRegistrantService(registrantsRepo, objects, signer, log)
	visitService := service.NewVisitService(visitsRepo, registrantsRepo, log)
	reportService := service.NewReportService(registrantsRepo, visitsRepo, staffRepo, log)

	gate := httpapi.NewAccessGate(authService, cfg.Session.CookieName, cfg.Session.TTL,
		cfg.IsProduction(), log)

	router := httpapi.NewRouter(log)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(authService, gate, log))
	router.RegisterRegistrantRoutes(httpapi.NewRegistrantHandler(registrantService, log))
	router.RegisterVisitRoutes(httpapi.NewVisitHandler(visitService, log))
	router.RegisterReportRoutes(httpapi.NewReportHandler(reportService, log))
	router.RegisterAdminRoutes(httpapi.NewAdminUsersHandler(authService, staffService, log))
	router.RegisterStorageRoutes(httpapi.NewDocumentHandler(objects, signer, log))

	srv := service.NewServer(cfg.HTTP.Addr, gate.Wrap(router), log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		if err != nil {
			log.Error("server exited", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	_ = db.Close()
}
