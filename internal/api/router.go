package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rusthp/voxelpromo-sub005/internal/api/handlers"
	"github.com/rusthp/voxelpromo-sub005/internal/awin"
	"github.com/rusthp/voxelpromo-sub005/internal/feedcache"
	"github.com/rusthp/voxelpromo-sub005/internal/observability"
)

// NewRouter builds the HTTP router for the feed service
func NewRouter(service *awin.Service, cache *feedcache.Manager) http.Handler {
	r := chi.NewRouter()

	feedHandler := handlers.NewFeedHandler(service, cache)

	r.Route("/awin", func(r chi.Router) {
		r.Get("/test", feedHandler.TestConnection)
		r.Get("/advertisers", feedHandler.GetAdvertisers)
		r.Get("/feeds", feedHandler.GetFeedList)
		r.Get("/products/{advertiserID}", feedHandler.GetProducts)

		r.Route("/cache", func(r chi.Router) {
			r.Get("/", feedHandler.GetCachedFeeds)
			r.Get("/stats", feedHandler.GetCacheStats)
			r.Delete("/", feedHandler.ClearCache)
			r.Delete("/{advertiserID}", feedHandler.ClearAdvertiserCache)
		})
	})

	r.Handle("/metrics", observability.Handler())

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
