package collector

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/rusthp/voxelpromo-sub005/internal/filter"
	"github.com/rusthp/voxelpromo-sub005/internal/model"
)

// ProductSource yields the offers of one advertiser, cache-aware.
type ProductSource interface {
	GetProducts(ctx context.Context, advertiserID string, opts filter.Options, locale string, forceRefresh bool) []model.Offer
}

// Deduper reports whether an offer is new in the current window.
type Deduper interface {
	MarkNew(ctx context.Context, source, affiliateURL string) bool
}

// Categorizer re-classifies offers whose feed carried no category.
type Categorizer interface {
	Categorize(ctx context.Context, title string) string
}

// Saver persists one offer.
type Saver interface {
	Save(o model.Offer) error
}

// Publisher hands one offer to the downstream publishing bus.
type Publisher interface {
	Publish(o model.Offer) error
}

// Summary counts what one collection run did.
type Summary struct {
	Advertisers int
	Collected   int
	Deduped     int
	Saved       int
	Published   int
}

// Collector runs a collection cycle over a set of advertisers: cache-aware
// retrieval, dedup, optional enrichment, persistence and publish. Every
// stage past retrieval is optional; a nil collaborator skips that stage.
type Collector struct {
	Source      ProductSource
	Seen        Deduper
	Categorizer Categorizer
	Repo        Saver
	Producer    Publisher
	Locale      string
	Options     filter.Options
	Refresh     bool
}

// Run processes the advertisers with a bounded worker fan-out. One
// advertiser's failure never blocks the others.
func (c *Collector) Run(ctx context.Context, advertiserIDs []string, workers int) Summary {
	if workers <= 0 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary Summary
		wg      sync.WaitGroup
	)
	jobs := make(chan string)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				s := c.collectAdvertiser(ctx, id)
				mu.Lock()
				summary.Advertisers++
				summary.Collected += s.Collected
				summary.Deduped += s.Deduped
				summary.Saved += s.Saved
				summary.Published += s.Published
				mu.Unlock()
			}
		}()
	}

	for _, id := range advertiserIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	return summary
}

func (c *Collector) collectAdvertiser(ctx context.Context, advertiserID string) Summary {
	var s Summary

	offers := c.Source.GetProducts(ctx, advertiserID, c.Options, c.Locale, c.Refresh)
	s.Collected = len(offers)

	for _, offer := range offers {
		if c.Seen != nil && !c.Seen.MarkNew(ctx, offer.Source, offer.AffiliateURL) {
			s.Deduped++
			continue
		}

		if c.Categorizer != nil && offer.Category == "outros" {
			offer.Category = c.Categorizer.Categorize(ctx, offer.Title)
		}

		if c.Repo != nil {
			offer.ID = uuid.New().String()
			if err := c.Repo.Save(offer); err != nil {
				log.Printf("[Collector] falha ao salvar oferta %q: %v", offer.Title, err)
			} else {
				s.Saved++
			}
		}

		if c.Producer != nil {
			if err := c.Producer.Publish(offer); err != nil {
				log.Printf("[Collector] falha ao publicar oferta %q: %v", offer.Title, err)
			} else {
				s.Published++
			}
		}
	}

	return s
}
