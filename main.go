package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kevinaaaquil/library/backend/config"
	"github.com/kevinaaaquil/library/backend/docstore"
	"github.com/kevinaaaquil/library/backend/handlers"
	"github.com/kevinaaaquil/library/backend/middleware"
	"github.com/kevinaaaquil/library/backend/service"
	"github.com/kevinaaaquil/library/backend/store"
)

// closableStore is a docstore backend that holds a connection.
type closableStore interface {
	docstore.Store
	Close(ctx context.Context) error
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("config", err)
	}
	cfg.LogSummary()

	ctx := context.Background()
	docs, err := openStore(ctx, cfg)
	if err != nil {
		fatal("store", err)
	}
	defer func() {
		if err := docs.Close(context.Background()); err != nil {
			slog.Error("store close", "error", err)
		}
	}()
	stores := store.New(docs)

	deps := handlers.Deps{
		Stores:        stores,
		JWTSecret:     cfg.JWTSecret,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		CORSOrigins:   cfg.CORSOrigins,
		Metadata:      service.NewMetadataClient(),
	}

	var scheduler *service.ExportScheduler
	if cfg.ExportEnabled() {
		s3Service, err := service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			fatal("s3", err)
		}
		deps.Exporter = &service.Exporter{Source: stores.Books, Storage: s3Service, Prefix: "exports/"}
		scheduler = service.NewExportScheduler(deps.Exporter)
		if err := scheduler.Start(cfg.ExportSchedule); err != nil {
			fatal("export scheduler", err)
		}
	} else {
		slog.Warn("AWS_S3_BUCKET not set; catalog export disabled")
	}

	if cfg.MailEnabled() {
		deps.Notifier = service.NewContactNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.ContactEmail)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()
	deps.RateLimiter = limiter

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal("http server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
}

func openStore(ctx context.Context, cfg *config.Config) (closableStore, error) {
	switch cfg.StoreDriver {
	case config.DriverFirestore:
		return docstore.NewFirestore(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentials)
	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		return docstore.NewMemory(), nil
	default:
		return docstore.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	}
}

func fatal(what string, err error) {
	slog.Error(what, "error", err)
	os.Exit(1)
}
