package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	// PrometheusNamespace is the metric namespace for chunks binaries.
	PrometheusNamespace = "chunks"
	// PrometheusWorkersSubsystem is the metric subsystem for the chunk workers.
	PrometheusWorkersSubsystem = "workers"
)

var constLabels prometheus.Labels

// SetConstLabels sets the labels attached to every metric created afterwards.
func SetConstLabels(labels prometheus.Labels) {
	constLabels = labels
}

// ConstLabels should be used when creating a prometheus metric as a set of default labels.
// To ensure the correct const labels are used, make sure metrics are not created in init().
func ConstLabels() prometheus.Labels {
	return constLabels
}
