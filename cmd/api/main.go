package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rusthp/voxelpromo-sub005/internal/api"
	"github.com/rusthp/voxelpromo-sub005/internal/api/middleware"
	"github.com/rusthp/voxelpromo-sub005/internal/awin"
	"github.com/rusthp/voxelpromo-sub005/internal/config"
	"github.com/rusthp/voxelpromo-sub005/internal/feedcache"
)

func main() {
	cfg := config.Load()

	store, err := feedcache.NewStore(cfg.CacheDir)
	if err != nil {
		log.Fatalf("cache store: %v", err)
	}

	service := awin.NewService(cfg.Awin)
	cache := feedcache.NewManager(store, service, cfg.CacheTTL)

	if !service.IsConfigured() {
		log.Println("aviso: integração Awin não configurada; endpoints de rede vão responder vazio")
	}

	handler := api.NewRouter(service, cache)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Mount("/", handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout: 10 * time.Second,
		// A cold-cache product request waits on a full feed download.
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("starting feed service on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}

	<-idleConnsClosed
	log.Println("server stopped")
}
