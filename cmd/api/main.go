package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubdesk.org/internal/access"
	"clubdesk.org/internal/approval"
	"clubdesk.org/internal/config"
	"clubdesk.org/internal/gateway"
	"clubdesk.org/internal/httpapi"
	"clubdesk.org/internal/obs"
	"clubdesk.org/internal/store/pg"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.DB.DSN == "" {
		log.Fatal("db.dsn is required (CLUBDESK_DB_DSN)")
	}

	store, err := pg.Open(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.CheckSchema(ctx); err != nil {
		cancel()
		log.Fatalf("schema check: %v (run cmd/migrate first)", err)
	}
	cancel()

	resolver, err := access.NewResolver(store)
	if err != nil {
		log.Fatalf("resolver: %v", err)
	}
	gw, err := gateway.New(store, resolver)
	if err != nil {
		log.Fatalf("gateway: %v", err)
	}
	exec, err := approval.NewExecutor(store, resolver)
	if err != nil {
		log.Fatalf("approval executor: %v", err)
	}

	api := httpapi.New(store, resolver, gw, exec,
		httpapi.ReadyProbe{DB: store.DB()},
		httpapi.Options{
			Version:      version,
			TokenTTL:     cfg.Auth.TokenTTL,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
			RatePerSec:   cfg.Rate.PerSecond,
			RateBurst:    cfg.Rate.Burst,
		})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	log.Printf("starting clubdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
