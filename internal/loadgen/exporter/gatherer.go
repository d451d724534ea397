package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/component-base/metrics/legacyregistry"
	_ "k8s.io/component-base/metrics/prometheus/clientgo"
)

// GetMetricsGatherer merges the default registry with the kubernetes component-base registry, which carries the
// client-go request metrics used by the scaler.
func GetMetricsGatherer() prometheus.Gatherer {
	// component-base registers its own go and process collectors; drop ours to avoid duplicate series
	prometheus.DefaultRegisterer.Unregister(prometheus.NewGoCollector())
	prometheus.DefaultRegisterer.Unregister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return prometheus.Gatherers{legacyregistry.DefaultGatherer, prometheus.DefaultGatherer}
}
