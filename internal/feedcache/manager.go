package feedcache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rusthp/voxelpromo-sub005/internal/filter"
	"github.com/rusthp/voxelpromo-sub005/internal/model"
	"github.com/rusthp/voxelpromo-sub005/internal/observability"
)

// DefaultTTL is how long a cached feed is served before a re-fetch.
const DefaultTTL = 6 * time.Hour

// DefaultLocale is assumed when callers pass an empty locale.
const DefaultLocale = "BR"

// Fetcher retrieves and normalizes the full feed of one advertiser.
type Fetcher interface {
	FetchAdvertiserFeed(ctx context.Context, advertiserID, locale string) ([]model.Offer, error)
}

// Stats aggregates the currently valid cache entries.
type Stats struct {
	TotalCached   int `json:"totalCached"`
	TotalProducts int `json:"totalProducts"`
}

// Manager decides per advertiser+locale whether to serve cached offers or
// trigger a fresh fetch. An entry is served only while its TTL has not
// passed and its offer file is still on disk; anything else counts as a
// miss, never as an error.
type Manager struct {
	store   *Store
	fetcher Fetcher
	ttl     time.Duration

	// Injected clock; tests move it instead of sleeping.
	now func() time.Time

	mu       sync.Mutex
	inflight map[string]*inflightFetch
}

type inflightFetch struct {
	done   chan struct{}
	offers []model.Offer
	err    error
}

func NewManager(store *Store, fetcher Fetcher, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store:    store,
		fetcher:  fetcher,
		ttl:      ttl,
		now:      time.Now,
		inflight: make(map[string]*inflightFetch),
	}
}

func (m *Manager) valid(e Entry) bool {
	return m.now().Before(e.ExpiresAt) && m.store.HasFile(e)
}

// GetProducts returns the advertiser's offers, from cache when fresh,
// re-fetched otherwise, always routed through the filter. The cache keeps
// the unfiltered feed; filter options never change what gets stored.
// A failed fetch degrades to an empty list with a logged warning.
func (m *Manager) GetProducts(ctx context.Context, advertiserID string, opts filter.Options, locale string, forceRefresh bool) []model.Offer {
	if locale == "" {
		locale = DefaultLocale
	}

	if !forceRefresh {
		if entry, ok := m.store.Get(advertiserID, locale); ok && m.valid(entry) {
			offers, err := m.store.ReadOffers(entry)
			if err == nil {
				observability.FeedCacheHits.Inc()
				return filter.Apply(offers, opts)
			}
			// Corrupt file: fall through and re-fetch.
			log.Printf("[FeedCache] cache read failed for %s/%s: %v", advertiserID, locale, err)
		}
	}

	observability.FeedCacheMisses.Inc()

	offers, err := m.refresh(ctx, advertiserID, locale)
	if err != nil {
		observability.FeedFetchErrors.Inc()
		log.Printf("[FeedCache] feed fetch failed for %s/%s: %v", advertiserID, locale, err)
		return []model.Offer{}
	}

	return filter.Apply(offers, opts)
}

// refresh fetches, normalizes and persists one advertiser feed. Concurrent
// callers for the same key share a single in-flight fetch instead of each
// hitting the network.
func (m *Manager) refresh(ctx context.Context, advertiserID, locale string) ([]model.Offer, error) {
	key := cacheKey(advertiserID, locale)

	m.mu.Lock()
	if call, ok := m.inflight[key]; ok {
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.offers, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflightFetch{done: make(chan struct{})}
	m.inflight[key] = call
	m.mu.Unlock()

	call.offers, call.err = m.fetchAndStore(ctx, advertiserID, locale)

	m.mu.Lock()
	delete(m.inflight, key)
	m.mu.Unlock()
	close(call.done)

	return call.offers, call.err
}

func (m *Manager) fetchAndStore(ctx context.Context, advertiserID, locale string) ([]model.Offer, error) {
	offers, err := m.fetcher.FetchAdvertiserFeed(ctx, advertiserID, locale)
	if err != nil {
		return nil, err
	}

	now := m.now()
	entry := Entry{
		AdvertiserID: advertiserID,
		Locale:       locale,
		LastUpdated:  now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if _, err := m.store.Put(entry, offers); err != nil {
		// The fetch itself succeeded; serve the offers even if the cache
		// write failed.
		log.Printf("[FeedCache] cache write failed for %s/%s: %v", advertiserID, locale, err)
	}

	return offers, nil
}

// GetCachedFeeds lists the entries that would currently be served from cache.
func (m *Manager) GetCachedFeeds() []Entry {
	var out []Entry
	for _, e := range m.store.Entries() {
		if m.valid(e) {
			out = append(out, e)
		}
	}
	return out
}

// GetStats aggregates over the currently valid entries.
func (m *Manager) GetStats() Stats {
	var s Stats
	for _, e := range m.GetCachedFeeds() {
		s.TotalCached++
		s.TotalProducts += e.ProductCount
	}
	return s
}

// ClearCache drops the whole index and persists it empty.
func (m *Manager) ClearCache() error {
	return m.store.Clear()
}

// ClearAdvertiserCache removes the entries of one advertiser across all
// locales and persists the index.
func (m *Manager) ClearAdvertiserCache(advertiserID string) error {
	return m.store.DeleteAdvertiser(advertiserID)
}
