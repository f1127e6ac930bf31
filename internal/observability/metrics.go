package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FeedCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "awin_feed_cache_hits_total",
			Help: "Requisições servidas direto do cache de feeds",
		},
	)
	FeedCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "awin_feed_cache_misses_total",
			Help: "Requisições que exigiram novo download do feed",
		},
	)
	FeedFetchErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "awin_feed_fetch_errors_total",
			Help: "Downloads de feed que falharam",
		},
	)
	OffersParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "awin_offers_parsed_total",
			Help: "Linhas de feed convertidas em ofertas",
		},
	)
	OffersRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "awin_offers_rejected_total",
			Help: "Linhas de feed descartadas na normalização",
		},
	)
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			FeedCacheHits,
			FeedCacheMisses,
			FeedFetchErrors,
			OffersParsed,
			OffersRejected,
		)
	})
}

func Start(port string) {
	register()
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}

// Handler exposes the metrics endpoint for mounting on an existing router.
func Handler() http.Handler {
	register()
	return promhttp.Handler()
}
