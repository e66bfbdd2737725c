package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runDuration  prom.Histogram
	itemDuration prom.Histogram
	published    prom.Counter
	failed       *prom.CounterVec
	readyItems   prom.Gauge
}

// NewPrometheusRecorder constructs and registers metrics on the given
// registry. A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogsmith",
			Name:      "run_duration_seconds",
			Help:      "Total duration of a publishing run",
			Buckets:   prom.DefBuckets,
		}),
		itemDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogsmith",
			Name:      "item_duration_seconds",
			Help:      "Duration of processing one sheet row end to end",
			Buckets:   prom.DefBuckets,
		}),
		published: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogsmith",
			Name:      "posts_published_total",
			Help:      "Articles successfully written",
		}),
		failed: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogsmith",
			Name:      "items_failed_total",
			Help:      "Items that failed, by pipeline stage",
		}, []string{"stage"}),
		readyItems: prom.NewGauge(prom.GaugeOpts{
			Namespace: "blogsmith",
			Name:      "ready_items",
			Help:      "Rows ready to publish at the start of the last run",
		}),
	}
	reg.MustRegister(pr.runDuration, pr.itemDuration, pr.published, pr.failed, pr.readyItems)
	return pr
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveItemDuration(d time.Duration) {
	pr.itemDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncPublished() {
	pr.published.Inc()
}

func (pr *PrometheusRecorder) IncFailed(stage StageLabel) {
	pr.failed.WithLabelValues(string(stage)).Inc()
}

func (pr *PrometheusRecorder) SetReadyItems(n int) {
	pr.readyItems.Set(float64(n))
}

// HTTPHandler serves the registry for scraping.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
