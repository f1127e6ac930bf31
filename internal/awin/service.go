package awin

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rusthp/voxelpromo-sub005/internal/config"
	"github.com/rusthp/voxelpromo-sub005/internal/model"
	"github.com/rusthp/voxelpromo-sub005/internal/observability"
)

// Advertiser is one joined programme on the publisher account.
type Advertiser struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	Status       string `json:"status"`
}

// TestResult reports the outcome of a connectivity check.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FeedOptions tune a product-feed download.
type FeedOptions struct {
	Locale      string
	MaxProducts int
}

// Service is the Awin integration surface. Network and parse failures are
// downgraded to empty results with a logged diagnostic; one advertiser's
// broken feed must never abort a collection run.
type Service struct {
	cfg    config.AwinConfig
	client *Client
}

func NewService(cfg config.AwinConfig) *Service {
	return &Service{cfg: cfg, client: NewClient(cfg)}
}

func (s *Service) IsConfigured() bool      { return s.cfg.IsConfigured() }
func (s *Service) HasDataFeedAPIKey() bool { return s.cfg.HasDataFeedAPIKey() }

// TestConnection checks credentials against the programmes endpoint.
func (s *Service) TestConnection(ctx context.Context) TestResult {
	if !s.IsConfigured() {
		return TestResult{Success: false, Message: "Awin não configurado: defina AWIN_API_TOKEN e AWIN_PUBLISHER_ID"}
	}

	url := s.client.BuildURL(s.cfg.APILinks.Campaigns, nil)
	var advertisers []Advertiser
	if err := s.client.GetJSON(ctx, url, &advertisers); err != nil {
		return TestResult{Success: false, Message: fmt.Sprintf("falha ao conectar na API Awin: %v", err)}
	}

	return TestResult{Success: true, Message: fmt.Sprintf("conectado: %d programas afiliados", len(advertisers))}
}

// GetAdvertisers lists the joined programmes. Returns an empty list on
// failure or when unconfigured.
func (s *Service) GetAdvertisers(ctx context.Context) []Advertiser {
	if !s.IsConfigured() {
		log.Printf("[Awin] GetAdvertisers ignorado: integração não configurada")
		return []Advertiser{}
	}

	url := s.client.BuildURL(s.cfg.APILinks.Campaigns, nil)
	var advertisers []Advertiser
	if err := s.client.GetJSON(ctx, url, &advertisers); err != nil {
		log.Printf("[Awin] falha ao listar anunciantes: %v", err)
		return []Advertiser{}
	}
	return advertisers
}

// FetchFeedList returns the raw datafeed directory records. Empty on failure.
func (s *Service) FetchFeedList(ctx context.Context) []map[string]string {
	if !s.HasDataFeedAPIKey() {
		log.Printf("[Awin] FetchFeedList ignorado: AWIN_DATAFEED_API_KEY ausente")
		return nil
	}

	records, err := s.client.FetchFeedList(ctx)
	if err != nil {
		log.Printf("[Awin] falha ao baixar lista de feeds: %v", err)
		return nil
	}
	return records
}

// DownloadFeed fetches one feed URL and normalizes its rows into offers,
// truncated to maxProducts when positive. Empty on failure.
func (s *Service) DownloadFeed(ctx context.Context, url string, maxProducts int) []model.Offer {
	raw, err := s.client.FetchFeed(ctx, url)
	if err != nil {
		log.Printf("[Awin] falha ao baixar feed %s: %v", url, err)
		return []model.Offer{}
	}
	return s.parseFeed(string(raw), maxProducts)
}

// GetProductFeed resolves an advertiser's feed URL through the datafeed
// directory and downloads it. Empty on failure.
func (s *Service) GetProductFeed(ctx context.Context, advertiserID string, opts FeedOptions) []model.Offer {
	url, err := s.resolveFeedURL(ctx, advertiserID)
	if err != nil {
		log.Printf("[Awin] feed do anunciante %s indisponível: %v", advertiserID, err)
		return []model.Offer{}
	}
	return s.DownloadFeed(ctx, url, opts.MaxProducts)
}

// FetchAdvertiserFeed retrieves and normalizes the full (untruncated) feed
// of one advertiser. This is the fetch path the cache manager uses, so it
// reports failure as an error rather than degrading.
func (s *Service) FetchAdvertiserFeed(ctx context.Context, advertiserID, locale string) ([]model.Offer, error) {
	url, err := s.resolveFeedURL(ctx, advertiserID)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.FetchFeed(ctx, url)
	if err != nil {
		return nil, err
	}

	return s.parseFeed(string(raw), 0), nil
}

func (s *Service) resolveFeedURL(ctx context.Context, advertiserID string) (string, error) {
	if !s.HasDataFeedAPIKey() {
		return "", fmt.Errorf("datafeed API key not configured")
	}

	records, err := s.client.FetchFeedList(ctx)
	if err != nil {
		return "", err
	}

	for _, record := range records {
		if pick(record, advertiserIDKeys) != advertiserID {
			continue
		}
		if status := pick(record, membershipKeys); status != "" && !strings.EqualFold(status, "active") {
			continue
		}
		if url := pick(record, feedURLKeys); url != "" {
			return url, nil
		}
		if feedID := pick(record, feedIDKeys); feedID != "" {
			return s.client.BuildURL(s.cfg.APILinks.ProductFeed, map[string]string{"feedId": feedID}), nil
		}
	}

	return "", fmt.Errorf("no feed found for advertiser %s", advertiserID)
}

// parseFeed tokenizes a CSV body and normalizes each row. Bad rows are
// skipped, never fatal.
func (s *Service) parseFeed(body string, maxProducts int) []model.Offer {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var headers []string
	offers := []model.Offer{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if headers == nil {
			headers = ParseLine(line)
			continue
		}

		values := ParseLine(line)
		record := make(map[string]string, len(headers))
		for i, v := range values {
			if i >= len(headers) {
				break
			}
			record[headers[i]] = v
		}

		offer := Normalize(record)
		if offer == nil {
			observability.OffersRejected.Inc()
			continue
		}
		observability.OffersParsed.Inc()

		offers = append(offers, *offer)
		if maxProducts > 0 && len(offers) >= maxProducts {
			break
		}
	}

	return offers
}
