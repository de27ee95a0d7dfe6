package metrics

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxScrapesInFlight bounds concurrent scrapes of the metrics endpoint.
const maxScrapesInFlight = 4

// Handler serves the collector's registry. Scrapers that ask for
// OpenMetrics get it; a failing collector is logged and the remaining
// metrics are still served.
//
//	collector := metrics.NewCollector(cfg, nil)
//	mux.Handle("/metrics", collector.Handler())
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics:   true,
		ErrorHandling:       promhttp.ContinueOnError,
		ErrorLog:            slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		MaxRequestsInFlight: maxScrapesInFlight,
	})
}

// RegisterRuntimeCollectors adds Go runtime and process metrics to the
// registry. The service calls it once at startup; tests leave it out so
// their output stays small.
func (c *Collector) RegisterRuntimeCollectors() error {
	for _, rc := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := c.registry.Register(rc); err != nil {
			return fmt.Errorf("failed to register runtime collector: %w", err)
		}
	}
	return nil
}
