package awin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rusthp/voxelpromo-sub005/internal/config"
)

const feedCSV = "aw_product_id,product_name,aw_deep_link,search_price,rrp_price\n" +
	"1,Fone Bluetooth,https://aw.in/1,\"79,90\",\"99,90\"\n" +
	"2,Produto Sem Link,,\"10,00\",\n" +
	"3,Teclado,https://aw.in/3,\"45,00\",\n"

// newFeedServer serves a one-advertiser directory plus its feed, counting
// feed downloads.
func newFeedServer(t *testing.T, downloads *atomic.Int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/list/feedkey", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Advertiser ID,Advertiser Name,Membership Status,URL\n" +
			"123,Loja A,active," + srv.URL + "/feed\n"))
	})
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		if downloads != nil {
			downloads.Add(1)
		}
		w.Write([]byte(feedCSV))
	})

	srv = httptest.NewServer(mux)
	return srv
}

func serviceFor(srvURL string) *Service {
	return NewService(config.AwinConfig{
		Token:          "tok",
		PublisherID:    "1001",
		DataFeedAPIKey: "feedkey",
		Enabled:        true,
		APILinks: config.APILinks{
			FeedList: srvURL + "/list/{dataFeedApiKey}",
		},
	})
}

func TestFetchAdvertiserFeed_EndToEnd(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	service := serviceFor(srv.URL)

	offers, err := service.FetchAdvertiserFeed(context.Background(), "123", "BR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Row 2 has no affiliate link and is dropped.
	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}
	if offers[0].Title != "Fone Bluetooth" || offers[1].Title != "Teclado" {
		t.Fatalf("unexpected offers: %+v", offers)
	}
	if offers[1].CurrentPrice != 45.00 || offers[1].OriginalPrice != 45.00 {
		t.Fatalf("expected backfilled prices on offer 3, got %+v", offers[1])
	}
}

func TestFetchAdvertiserFeed_UnknownAdvertiser(t *testing.T) {
	srv := newFeedServer(t, nil)
	defer srv.Close()

	service := serviceFor(srv.URL)

	if _, err := service.FetchAdvertiserFeed(context.Background(), "999", "BR"); err == nil {
		t.Fatal("expected error for advertiser absent from the directory")
	}
}

func TestGetProductFeed_DegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	service := serviceFor(srv.URL)

	offers := service.GetProductFeed(context.Background(), "123", FeedOptions{})
	if len(offers) != 0 {
		t.Fatalf("expected empty result on upstream failure, got %d offers", len(offers))
	}
}

func TestDownloadFeed_MaxProducts(t *testing.T) {
	var downloads atomic.Int64
	srv := newFeedServer(t, &downloads)
	defer srv.Close()

	service := serviceFor(srv.URL)

	offers := service.DownloadFeed(context.Background(), srv.URL+"/feed", 1)
	if len(offers) != 1 {
		t.Fatalf("expected truncation to 1 offer, got %d", len(offers))
	}
}

func TestService_UnconfiguredShortCircuits(t *testing.T) {
	service := NewService(config.AwinConfig{Enabled: true})

	if service.IsConfigured() {
		t.Fatal("expected unconfigured")
	}
	if service.HasDataFeedAPIKey() {
		t.Fatal("expected no datafeed key")
	}
	if got := service.FetchFeedList(context.Background()); got != nil {
		t.Fatalf("expected nil feed list, got %v", got)
	}
	if got := service.GetAdvertisers(context.Background()); len(got) != 0 {
		t.Fatalf("expected no advertisers, got %v", got)
	}

	result := service.TestConnection(context.Background())
	if result.Success {
		t.Fatal("expected TestConnection failure when unconfigured")
	}
	if result.Message == "" {
		t.Fatal("expected descriptive message")
	}
}

func TestGetAdvertisers_ParsesProgrammes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[{"id":7,"name":"Loja A","currencyCode":"BRL","status":"active"}]`))
	}))
	defer srv.Close()

	service := NewService(config.AwinConfig{
		Token:       "tok",
		PublisherID: "1001",
		Enabled:     true,
		APILinks:    config.APILinks{Campaigns: srv.URL + "/publishers/{publisherId}/programmes"},
	})

	advertisers := service.GetAdvertisers(context.Background())
	if len(advertisers) != 1 || advertisers[0].ID != 7 || advertisers[0].Name != "Loja A" {
		t.Fatalf("unexpected advertisers: %+v", advertisers)
	}
}
