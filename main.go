package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gracecity/church-backend/internal/blob"
	"github.com/gracecity/church-backend/internal/cache"
	"github.com/gracecity/church-backend/internal/config"
	"github.com/gracecity/church-backend/internal/db"
	"github.com/gracecity/church-backend/internal/maintenance"
	"github.com/gracecity/church-backend/internal/obs"
	"github.com/gracecity/church-backend/internal/payments"
	"github.com/gracecity/church-backend/internal/routes"
	"github.com/gracecity/church-backend/internal/youtube"
)

const shutdownTimeout = 20 * time.Second

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs.Init()

	handle, err := db.Open(cfg.DatabaseURL, cfg.ProbeTimeout)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer handle.Close()

	var ttl cache.TTL = cache.NewMemory()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[cache] redis unavailable, using in-memory cache: %v", err)
		} else {
			defer rc.Close()
			ttl = rc
		}
	}

	blobs, err := blob.NewLocal(cfg.UploadDir, cfg.PublicBaseURL+"/uploads")
	if err != nil {
		log.Fatalf("prepare uploads: %v", err)
	}

	handler, mods := routes.NewRouter(routes.Deps{
		Config:      cfg,
		DB:          handle,
		Maintenance: maintenance.NewState(),
		Cache:       ttl,
		Videos:      youtube.NewClient(cfg.YouTube.APIKey),
		Payments:    payments.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL, cfg.Paystack.CallbackURL),
		Blobs:       blobs,
	})
	if cfg.FallbackSeedFile != "" {
		if err := routes.SeedFallback(cfg.FallbackSeedFile, mods); err != nil {
			log.Fatalf("seed fallback stores: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on port :%s (%s)...", cfg.Port, cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
