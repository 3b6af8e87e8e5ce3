package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FeedFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpwpulse_feed_fetches_total",
			Help: "Feed fetch attempts by feed name and outcome",
		},
		[]string{"feed", "outcome"},
	)
	ArticlesDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpwpulse_articles_dropped_total",
			Help: "Articles dropped during curation by reason",
		},
		[]string{"reason"},
	)
	ArticlesKeptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gpwpulse_articles_kept_total",
			Help: "Articles surviving curation",
		},
	)
	ImageLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpwpulse_image_lookups_total",
			Help: "Open Graph image lookups by outcome",
		},
		[]string{"outcome"},
	)
	AlertsFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpwpulse_alerts_fired_total",
			Help: "Price alerts fired by ticker",
		},
		[]string{"ticker"},
	)
)

func init() {
	prometheus.MustRegister(
		FeedFetchesTotal,
		ArticlesDroppedTotal,
		ArticlesKeptTotal,
		ImageLookupsTotal,
		AlertsFiredTotal,
	)
}
