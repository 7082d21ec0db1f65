package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vetcare-api/internal/adapters/auth/jwt"
	"vetcare-api/internal/adapters/locks/redislock"
	"vetcare-api/internal/adapters/mail/smtp"
	"vetcare-api/internal/adapters/messaging/amqp"
	"vetcare-api/internal/adapters/objectstore/minio"
	"vetcare-api/internal/adapters/push/ws"
	pg "vetcare-api/internal/adapters/storage/postgres"
	"vetcare-api/internal/config"
	"vetcare-api/internal/domain/notifications"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/scheduler"
	"vetcare-api/internal/ports/storage"
	"vetcare-api/internal/router"
)

// @title VetCare API
// @version 1.0
// @description Backend de la clínica veterinaria.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.NewFromEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	tokens, err := jwt.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Error("jwt", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		if err := pg.Migrate(ctx, db); err != nil {
			log.Error("postgres migrate", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		log.Info("using postgres repositories", nil)
	} else {
		log.Warn("DB_DSN empty, using in-memory repositories", nil)
	}

	var objects storage.ObjectStorage
	if cfg.MinIO.Enabled() {
		store, err := minio.New(minio.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			PublicURL: cfg.MinIO.PublicURL,
		})
		if err != nil {
			log.Error("minio", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		if err := store.EnsureBuckets(ctx, storage.BucketPets, storage.BucketAttachment, storage.BucketUsers); err != nil {
			log.Warn("minio buckets not ready", map[string]any{"error": err.Error()})
		}
		objects = store
	}

	hub := ws.NewHub(log, cfg.CORSAllowedOrigins)
	go hub.Run(ctx)

	var channels []notifications.Channel
	if cfg.SMTP.Enabled() {
		channels = append(channels, smtp.New(smtp.Config{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			Username:   cfg.SMTP.Username,
			Password:   cfg.SMTP.Password,
			From:       cfg.SMTP.From,
			Encryption: cfg.SMTP.Encryption,
		}))
	}
	if cfg.AMQP.Enabled() {
		pub, err := amqp.Connect(ctx, cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Error("rabbitmq", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer pub.Close()
		channels = append(channels, pub)
	}

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	go limiter.RunCleanup(ctx)

	var admin *users.RegisterInput
	if cfg.Admin.Enabled() {
		admin = &users.RegisterInput{
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		}
	}

	app := router.New(router.Options{
		Log:                log,
		Tokens:             tokens,
		DB:                 db,
		Objects:            objects,
		Hub:                hub,
		Channels:           channels,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ClinicLocation:     cfg.ClinicLocation,
		Admin:              admin,
		AuthLimiter:        limiter,
	})

	var locker scheduler.Locker
	if cfg.Redis.Enabled() {
		l, err := redislock.New(cfg.Redis.URL)
		if err != nil {
			log.Error("redis", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer l.Close()
		locker = l
	}

	jobs := scheduler.New(log, locker)
	jobs.Add(&scheduler.Job{
		Name:    "appointment-reminders",
		Trigger: scheduler.Daily(cfg.ReminderHour, cfg.ReminderMinute, cfg.ClinicLocation),
		LockTTL: 10 * time.Minute,
		Run: func(ctx context.Context) error {
			rep, err := app.Appointments.SendReminders(ctx)
			log.Info("reminders sent", map[string]any{
				"appointments": rep.Appointments,
				"notified":     rep.Notified,
				"failed":       rep.Failed,
			})
			return err
		},
	})
	jobs.Add(&scheduler.Job{
		Name:    "quarantine-sweep",
		Trigger: scheduler.Every(cfg.QuarantineSweepInterval),
		LockTTL: cfg.QuarantineSweepInterval,
		Run: func(ctx context.Context) error {
			rep, err := app.Quarantines.Sweep(ctx)
			if rep.Due > 0 {
				log.Info("quarantines swept", map[string]any{
					"due":       rep.Due,
					"completed": rep.Completed,
					"failed":    rep.Failed,
				})
			}
			return err
		},
	})
	jobs.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", map[string]any{"error": err.Error()})
	}
	jobs.Wait()
}
