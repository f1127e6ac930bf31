package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rusthp/voxelpromo-sub005/internal/awin"
	"github.com/rusthp/voxelpromo-sub005/internal/collector"
	"github.com/rusthp/voxelpromo-sub005/internal/config"
	"github.com/rusthp/voxelpromo-sub005/internal/db"
	"github.com/rusthp/voxelpromo-sub005/internal/dedup"
	"github.com/rusthp/voxelpromo-sub005/internal/enrich"
	"github.com/rusthp/voxelpromo-sub005/internal/feedcache"
	"github.com/rusthp/voxelpromo-sub005/internal/filter"
	"github.com/rusthp/voxelpromo-sub005/internal/observability"
	"github.com/rusthp/voxelpromo-sub005/internal/producer"
	"github.com/rusthp/voxelpromo-sub005/internal/repository"
)

// go run cmd/collector/main.go -advertisers="12345,67890" -locale=BR
// go run cmd/collector/main.go -advertisers="12345" -refresh -max=100
func main() {
	advertisersArg := flag.String("advertisers", "", "IDs dos anunciantes separados por vírgula")
	locale := flag.String("locale", "BR", "Locale do feed")
	refresh := flag.Bool("refresh", false, "Força novo download mesmo com cache válido")
	maxProducts := flag.Int("max", 0, "Máximo de ofertas por anunciante (0 = sem limite)")
	minDiscount := flag.Float64("min-discount", 0, "Desconto mínimo em % (0 = sem filtro)")
	flag.Parse()

	cfg := config.Load()

	service := awin.NewService(cfg.Awin)
	if !service.IsConfigured() {
		log.Fatal("integração Awin não configurada: defina AWIN_API_TOKEN e AWIN_PUBLISHER_ID")
	}

	store, err := feedcache.NewStore(cfg.CacheDir)
	if err != nil {
		log.Fatalf("cache store: %v", err)
	}
	cache := feedcache.NewManager(store, service, cfg.CacheTTL)

	observability.Start(cfg.MetricsPort)

	opts := filter.Options{MaxProducts: *maxProducts}
	if *minDiscount > 0 {
		opts.MinDiscount = minDiscount
	}

	col := &collector.Collector{
		Source:  cache,
		Locale:  *locale,
		Options: opts,
		Refresh: *refresh,
	}

	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		col.Seen = &dedup.SeenStore{Client: redis.NewClient(redisOpts)}
	}

	if cfg.DatabaseURL != "" {
		dbConn, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer dbConn.Close()
		col.Repo = &repository.OfferRepository{DB: dbConn}
	}

	if cat := enrich.NewCategorizer(cfg.OpenAIKey); cat != nil {
		col.Categorizer = cat
	}

	if cfg.KafkaBrokers != "" {
		p, err := producer.NewOfferProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer p.Close()
		col.Producer = p
	}

	var advertiserIDs []string
	if *advertisersArg != "" {
		for _, id := range strings.Split(*advertisersArg, ",") {
			advertiserIDs = append(advertiserIDs, strings.TrimSpace(id))
		}
	} else {
		// Sem -advertisers, coleta todos os feeds do diretório.
		seen := make(map[string]bool)
		for _, record := range service.FetchFeedList(context.Background()) {
			if id := awin.AdvertiserIDOf(record); id != "" && !seen[id] {
				seen[id] = true
				advertiserIDs = append(advertiserIDs, id)
			}
		}
	}
	if len(advertiserIDs) == 0 {
		log.Fatal("nenhum anunciante para coletar")
	}

	summary := col.Run(context.Background(), advertiserIDs, cfg.WorkerCount)
	log.Printf("coleta finalizada: %d anunciantes, %d ofertas, %d duplicadas, %d salvas, %d publicadas",
		summary.Advertisers, summary.Collected, summary.Deduped, summary.Saved, summary.Published)

	if repo, ok := col.Repo.(*repository.OfferRepository); ok {
		if pending, err := repo.ListUnposted(100); err == nil {
			log.Printf("%d ofertas aguardando publicação", len(pending))
		}
	}
}
