package daemon

import (
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	syncsvc "git.home.luguber.info/inful/notionsync/internal/sync"
)

var (
	promRegistry = prom.NewRegistry()

	syncsTotal       = prom.NewCounter(prom.CounterOpts{Namespace: "notionsync", Name: "syncs_total", Help: "Total sync runs executed by the daemon"})
	syncsFailedTotal = prom.NewCounter(prom.CounterOpts{Namespace: "notionsync", Name: "syncs_failed_total", Help: "Sync runs that ended in an error"})

	// Last completed run snapshot gauges.
	lastRunPages      = prom.NewGauge(prom.GaugeOpts{Namespace: "notionsync", Name: "last_run_pages", Help: "Pages written in the most recent successful sync"})
	lastRunOrphans    = prom.NewGauge(prom.GaugeOpts{Namespace: "notionsync", Name: "last_run_orphans_removed", Help: "Orphaned files removed in the most recent successful sync"})
	lastRunLinkIssues = prom.NewGauge(prom.GaugeOpts{Namespace: "notionsync", Name: "last_run_link_issues", Help: "Unresolved site-relative links found in the most recent successful sync"})
	lastRunSeconds    = prom.NewGauge(prom.GaugeOpts{Namespace: "notionsync", Name: "last_run_duration_seconds", Help: "Duration of the most recent successful sync"})
)

var registerMetricsOnce sync.Once

// registerBaseCollectors registers base collectors once.
func registerBaseCollectors() {
	registerMetricsOnce.Do(func() {
		promRegistry.MustRegister(syncsTotal, syncsFailedTotal)
		promRegistry.MustRegister(lastRunPages, lastRunOrphans, lastRunLinkIssues, lastRunSeconds)
		promRegistry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	})
}

// observeRun copies one run outcome into the Prometheus metrics.
func observeRun(report *syncsvc.Report, err error) {
	syncsTotal.Inc()
	if err != nil {
		syncsFailedTotal.Inc()
		return
	}
	lastRunPages.Set(float64(report.Pages))
	lastRunOrphans.Set(float64(len(report.Removed)))
	lastRunLinkIssues.Set(float64(len(report.LinkIssues)))
	lastRunSeconds.Set(report.Duration.Seconds())
}

// metricsHandler serves the daemon's private registry.
func metricsHandler() http.Handler {
	registerBaseCollectors()
	return promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})
}
