package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bookly/backend/internal/cache"
	"bookly/backend/internal/config"
	"bookly/backend/internal/extraction"
	"bookly/backend/internal/httpapi"
	"bookly/backend/internal/service"
	"bookly/backend/internal/store"
	"bookly/backend/internal/store/memory"
	pgstore "bookly/backend/internal/store/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.Store.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	extractCache := cache.ExtractionCache(cache.NoopExtractionCache{})
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisExtractionCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			extractCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	extractor := extraction.Extractor(extraction.Disabled{})
	if cfg.Extraction.URL != "" {
		extractor = extraction.NewHTTPExtractor(cfg.Extraction.URL)
		log.Println("extraction: http")
	} else {
		log.Println("extraction: disabled")
	}

	svc := service.New(repo, extractor, extractCache, cfg.Extraction.CacheTTL, cfg.Business.DefaultSalesSource)
	api := httpapi.New(svc)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Router(cfg.App.AllowedOrigin),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("bookkeeping backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}
