package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/fscore/internal/contracts"
)

const namespace = "fscore"

var (
	tickersProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickers_processed_total",
		Help:      "Tickers processed, by outcome status.",
	}, []string{"status"})

	tickersUndervalued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickers_undervalued_total",
		Help:      "Tickers that passed the undervaluation screen.",
	})

	scoreRatio = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "score_ratio",
		Help:      "Positive over valid Piotroski criteria of scored tickers.",
		Buckets:   prometheus.LinearBuckets(0, 0.125, 9),
	})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a batch run.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(tickersProcessed, tickersUndervalued, scoreRatio, runDuration)
}

// ObserveTicker records the outcome of one processed ticker
func ObserveTicker(r contracts.TickerReport) {
	tickersProcessed.WithLabelValues(string(r.Status)).Inc()

	if r.Valuation != nil && r.Valuation.Undervalued {
		tickersUndervalued.Inc()
	}

	// 0/0 has no ratio
	if r.Scored() {
		if f, ok := r.Score.Fraction().Get(); ok {
			scoreRatio.Observe(f)
		}
	}
}

// ObserveRun records the duration of a batch
func ObserveRun(d time.Duration) {
	runDuration.Observe(d.Seconds())
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
