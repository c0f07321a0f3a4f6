package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/smartrw/api/internal/assistance"
	"github.com/smartrw/api/internal/auth"
	"github.com/smartrw/api/internal/complaint"
	"github.com/smartrw/api/internal/config"
	"github.com/smartrw/api/internal/db"
	"github.com/smartrw/api/internal/document"
	"github.com/smartrw/api/internal/event"
	"github.com/smartrw/api/internal/family"
	"github.com/smartrw/api/internal/forum"
	internalhttp "github.com/smartrw/api/internal/http"
	"github.com/smartrw/api/internal/notification"
	"github.com/smartrw/api/internal/repo"
	"github.com/smartrw/api/internal/resident"
	"github.com/smartrw/api/internal/rt"
	"github.com/smartrw/api/internal/service"
	"github.com/smartrw/api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api berhenti dengan error")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var store storage.Storage = storage.Noop{}
	if cfg.Storage.Provider == "minio" {
		minioStore, err := storage.NewMinio(ctx, storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		store = minioStore
	}

	var publisher *notification.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = notification.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			return fmt.Errorf("amqp: %w", err)
		}
		defer publisher.Close()
	} else {
		log.Info().Msg("AMQP_URL kosong; event notifikasi hanya ditulis ke Postgres")
	}

	repository := repo.New(pool)
	residentRepo := resident.NewRepository(pool)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	authService := service.NewAuthService(repository, residentRepo, pool, redisClient, jwtManager, cfg.JWTRefreshTTL)

	notifService := notification.NewService(notification.NewRepository(pool), publisher)
	rtService := rt.NewService(rt.NewRepository(pool))
	residentService := resident.NewService(residentRepo, rtService, notifService)
	familyService := family.NewService(family.NewRepository(pool))
	documentService := document.NewService(document.NewRepository(pool), notifService)
	complaintService := complaint.NewService(complaint.NewRepository(pool), notifService)
	assistanceService := assistance.NewService(assistance.NewRepository(pool), residentRepo)
	eventService := event.NewService(event.NewRepository(pool))
	forumService := forum.NewService(forum.NewRepository(pool))

	handler := internalhttp.NewRouter(cfg, pool, redisClient, internalhttp.Services{
		Auth:          authService,
		Residents:     residentService,
		RTs:           rtService,
		Families:      familyService,
		Documents:     documentService,
		Complaints:    complaintService,
		Assistances:   assistanceService,
		Events:        eventService,
		Forums:        forumService,
		Notifications: notifService,
		Storage:       store,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API mendengarkan di :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("mematikan server...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
