package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rusthp/voxelpromo-sub005/internal/awin"
	"github.com/rusthp/voxelpromo-sub005/internal/feedcache"
	"github.com/rusthp/voxelpromo-sub005/internal/filter"
)

type FeedHandler struct {
	service *awin.Service
	cache   *feedcache.Manager
}

func NewFeedHandler(service *awin.Service, cache *feedcache.Manager) *FeedHandler {
	return &FeedHandler{service: service, cache: cache}
}

func (h *FeedHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.TestConnection(r.Context()))
}

func (h *FeedHandler) GetAdvertisers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.GetAdvertisers(r.Context()))
}

func (h *FeedHandler) GetFeedList(w http.ResponseWriter, r *http.Request) {
	feeds := h.service.FetchFeedList(r.Context())
	if feeds == nil {
		feeds = []map[string]string{}
	}
	writeJSON(w, http.StatusOK, feeds)
}

// GetProducts serves the cache-aware product listing with the filter
// options taken from the query string.
func (h *FeedHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	advertiserID := chi.URLParam(r, "advertiserID")
	q := r.URL.Query()

	opts := filter.Options{
		MinPrice:    floatParam(q.Get("minPrice")),
		MaxPrice:    floatParam(q.Get("maxPrice")),
		MinDiscount: floatParam(q.Get("minDiscount")),
		MaxProducts: intParam(q.Get("maxProducts")),
	}
	if categories := q.Get("categories"); categories != "" {
		opts.Categories = strings.Split(categories, ",")
	}

	offers := h.cache.GetProducts(
		r.Context(),
		advertiserID,
		opts,
		q.Get("locale"),
		q.Get("refresh") == "true",
	)
	writeJSON(w, http.StatusOK, offers)
}

func (h *FeedHandler) GetCachedFeeds(w http.ResponseWriter, r *http.Request) {
	feeds := h.cache.GetCachedFeeds()
	if feeds == nil {
		feeds = []feedcache.Entry{}
	}
	writeJSON(w, http.StatusOK, feeds)
}

func (h *FeedHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.GetStats())
}

func (h *FeedHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.ClearCache(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache limpo"})
}

func (h *FeedHandler) ClearAdvertiserCache(w http.ResponseWriter, r *http.Request) {
	advertiserID := chi.URLParam(r, "advertiserID")
	if err := h.cache.ClearAdvertiserCache(advertiserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache do anunciante " + advertiserID + " limpo"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func floatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intParam(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
