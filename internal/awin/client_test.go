package awin

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rusthp/voxelpromo-sub005/internal/config"
)

func testAwinConfig(feedList string) config.AwinConfig {
	return config.AwinConfig{
		Token:          "tok",
		PublisherID:    "1001",
		DataFeedAPIKey: "feedkey",
		Enabled:        true,
		APILinks: config.APILinks{
			FeedList: feedList,
		},
	}
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestFetchFeed_GzipAndPlainYieldSameBytes(t *testing.T) {
	csv := []byte("product_name,aw_deep_link\nFone,https://aw.in/1\n")

	plainSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(csv)
	}))
	defer plainSrv.Close()

	gzSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipBytes(t, csv))
	}))
	defer gzSrv.Close()

	client := NewClient(testAwinConfig(""))

	plain, err := client.FetchFeed(context.Background(), plainSrv.URL)
	if err != nil {
		t.Fatalf("plain fetch: %v", err)
	}
	unzipped, err := client.FetchFeed(context.Background(), gzSrv.URL)
	if err != nil {
		t.Fatalf("gzip fetch: %v", err)
	}

	if !bytes.Equal(plain, csv) {
		t.Fatalf("plain path altered bytes: %q", plain)
	}
	if !bytes.Equal(unzipped, plain) {
		t.Fatalf("gzip path diverged: %q vs %q", unzipped, plain)
	}
}

func TestFetchFeed_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(testAwinConfig(""))
	if _, err := client.FetchFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestFetchFeed_CorruptGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// gzip magic followed by garbage
		w.Write([]byte{0x1F, 0x8B, 0xFF, 0x00, 0x01})
	}))
	defer srv.Close()

	client := NewClient(testAwinConfig(""))
	if _, err := client.FetchFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on corrupt gzip payload")
	}
}

func TestFetchFeedList_ParsesDirectoryCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list/feedkey" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("Advertiser ID,Advertiser Name,URL\n123,Loja A,https://feeds.example/a.gz\n"))
	}))
	defer srv.Close()

	cfg := testAwinConfig(srv.URL + "/list/{dataFeedApiKey}")
	client := NewClient(cfg)

	records, err := client.FetchFeedList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0]["Advertiser ID"] != "123" {
		t.Fatalf("unexpected record: %v", records[0])
	}
}

func TestBuildURL_UsesCredentials(t *testing.T) {
	client := NewClient(testAwinConfig("https://productdata.example/{dataFeedApiKey}/fid/{feedId}"))

	got := client.BuildURL("https://productdata.example/{dataFeedApiKey}/fid/{feedId}", map[string]string{"feedId": "9"})
	want := "https://productdata.example/feedkey/fid/9"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
