package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// APILinks holds the URL templates used to reach the Awin endpoints.
// Placeholders like {publisherId} are expanded at request time.
type APILinks struct {
	Campaigns   string `json:"campaigns"`
	Coupons     string `json:"coupons"`
	Deeplink    string `json:"deeplink"`
	ProductFeed string `json:"productFeed"`
	FeedList    string `json:"feedList"`
}

// AwinConfig carries the credentials and endpoints of the Awin integration.
type AwinConfig struct {
	Token          string   `json:"token"`
	PublisherID    string   `json:"publisherId"`
	DataFeedAPIKey string   `json:"dataFeedApiKey"`
	Enabled        bool     `json:"enabled"`
	APILinks       APILinks `json:"apiLinks"`
}

type Config struct {
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers string
	KafkaTopic   string
	OpenAIKey    string
	MetricsPort  string
	Port         string
	WorkerCount  int

	CacheDir string
	CacheTTL time.Duration

	Awin AwinConfig
}

func defaultAPILinks() APILinks {
	return APILinks{
		Campaigns:   "https://api.awin.com/publishers/{publisherId}/programmes?relationship=joined",
		Coupons:     "https://api.awin.com/publishers/{publisherId}/promotions",
		Deeplink:    "https://api.awin.com/publishers/{publisherId}/linkbuilder/generate",
		ProductFeed: "https://productdata.awin.com/datafeed/download/apikey/{dataFeedApiKey}/fid/{feedId}/format/csv/delimiter/%2C/compression/gzip/",
		FeedList:    "https://productdata.awin.com/datafeed/list/apikey/{dataFeedApiKey}/",
	}
}

// Load reads configuration from the environment (.env supported) and then
// from the optional JSON file pointed at by CONFIG_FILE. File values win
// over environment values when both are present.
func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "offers.collected"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		MetricsPort:  getEnv("METRICS_PORT", "9090"),
		Port:         getEnv("PORT", "8080"),
		WorkerCount:  getEnvInt("WORKER_COUNT", 5),
		CacheDir:     getEnv("AWIN_CACHE_DIR", "cache/awin-feeds"),
		CacheTTL:     getEnvDuration("AWIN_CACHE_TTL", 6*time.Hour),
		Awin: AwinConfig{
			Token:          os.Getenv("AWIN_API_TOKEN"),
			PublisherID:    os.Getenv("AWIN_PUBLISHER_ID"),
			DataFeedAPIKey: os.Getenv("AWIN_DATAFEED_API_KEY"),
			Enabled:        getEnv("AWIN_ENABLED", "true") == "true",
			APILinks:       defaultAPILinks(),
		},
	}

	applyFileOverrides(cfg, getEnv("CONFIG_FILE", "config/awin.json"))
	return cfg
}

// applyFileOverrides layers a JSON config file on top of the environment.
// A missing or unreadable file is not an error; the env values stand.
func applyFileOverrides(cfg *Config, path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var file AwinConfig
	if err := json.Unmarshal(b, &file); err != nil {
		return
	}

	if file.Token != "" {
		cfg.Awin.Token = file.Token
	}
	if file.PublisherID != "" {
		cfg.Awin.PublisherID = file.PublisherID
	}
	if file.DataFeedAPIKey != "" {
		cfg.Awin.DataFeedAPIKey = file.DataFeedAPIKey
	}
	if file.APILinks.Campaigns != "" {
		cfg.Awin.APILinks.Campaigns = file.APILinks.Campaigns
	}
	if file.APILinks.Coupons != "" {
		cfg.Awin.APILinks.Coupons = file.APILinks.Coupons
	}
	if file.APILinks.Deeplink != "" {
		cfg.Awin.APILinks.Deeplink = file.APILinks.Deeplink
	}
	if file.APILinks.ProductFeed != "" {
		cfg.Awin.APILinks.ProductFeed = file.APILinks.ProductFeed
	}
	if file.APILinks.FeedList != "" {
		cfg.Awin.APILinks.FeedList = file.APILinks.FeedList
	}
}

// IsConfigured reports whether the integration has the credentials needed
// for API calls. Callers must check this before any network operation.
func (a AwinConfig) IsConfigured() bool {
	return a.Enabled && a.Token != "" && a.PublisherID != ""
}

// HasDataFeedAPIKey reports whether product-feed downloads are possible.
func (a AwinConfig) HasDataFeedAPIKey() bool {
	return a.DataFeedAPIKey != ""
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if t, err := time.ParseDuration(v); err == nil {
			return t
		}
	}
	return d
}
