package feedcache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rusthp/voxelpromo-sub005/internal/model"
)

const indexFileName = "feed-cache-index.json"

// Entry is one record of the cache index: which advertiser+locale feed is
// cached, where its offer file lives and until when it is trusted.
type Entry struct {
	AdvertiserID string    `json:"advertiserId"`
	Locale       string    `json:"locale"`
	LastUpdated  time.Time `json:"lastUpdated"`
	ExpiresAt    time.Time `json:"expiresAt"`
	ProductCount int       `json:"productCount"`
	FilePath     string    `json:"filePath"`
}

// Store owns the on-disk cache layout: one index file mapping composite
// keys to entries plus one JSON offer file per cached key. The index is
// loaded once at construction, held in memory, and rewritten whole after
// every mutation.
type Store struct {
	dir       string
	indexPath string

	mu      sync.RWMutex
	entries map[string]Entry
}

func cacheKey(advertiserID, locale string) string {
	return advertiserID + "_" + locale
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}

	s := &Store{
		dir:       dir,
		indexPath: filepath.Join(dir, indexFileName),
		entries:   make(map[string]Entry),
	}

	b, err := os.ReadFile(s.indexPath)
	if err == nil {
		// A corrupt index is a cold cache, not a startup failure.
		_ = json.Unmarshal(b, &s.entries)
	}
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}

	return s, nil
}

func (s *Store) Get(advertiserID, locale string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[cacheKey(advertiserID, locale)]
	return e, ok
}

// Put writes the offer file for a key, replaces its index entry and
// persists the index.
func (s *Store) Put(entry Entry, offers []model.Offer) (Entry, error) {
	name := fmt.Sprintf("%s_%s.json", sanitize(entry.AdvertiserID), sanitize(entry.Locale))
	entry.FilePath = filepath.Join(s.dir, name)
	entry.ProductCount = len(offers)

	b, err := json.Marshal(offers)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal offers: %w", err)
	}
	if err := os.WriteFile(entry.FilePath, b, 0o644); err != nil {
		return Entry{}, fmt.Errorf("failed to write offer file: %w", err)
	}

	s.mu.Lock()
	s.entries[cacheKey(entry.AdvertiserID, entry.Locale)] = entry
	err = s.saveIndexLocked()
	s.mu.Unlock()
	if err != nil {
		return Entry{}, err
	}

	return entry, nil
}

// ReadOffers loads the offer file referenced by an entry.
func (s *Store) ReadOffers(entry Entry) ([]model.Offer, error) {
	b, err := os.ReadFile(entry.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached feed: %w", err)
	}

	var offers []model.Offer
	if err := json.Unmarshal(b, &offers); err != nil {
		return nil, fmt.Errorf("corrupt cached feed %s: %w", entry.FilePath, err)
	}
	return offers, nil
}

// HasFile reports whether the entry's offer file still exists on disk.
func (s *Store) HasFile(entry Entry) bool {
	_, err := os.Stat(entry.FilePath)
	return err == nil
}

// Entries returns a snapshot of every index entry, valid or not.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out
}

// DeleteAdvertiser removes the entries of one advertiser across all locales
// and persists the index.
func (s *Store) DeleteAdvertiser(advertiserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.entries {
		if e.AdvertiserID == advertiserID {
			delete(s.entries, k)
		}
	}
	return s.saveIndexLocked()
}

// Clear drops the whole index. Offer files are left behind; without an
// index entry they are unreachable and get overwritten on the next fetch.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry)
	return s.saveIndexLocked()
}

func (s *Store) saveIndexLocked() error {
	b, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache index: %w", err)
	}
	if err := os.WriteFile(s.indexPath, b, 0o644); err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	return nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, s)
}
