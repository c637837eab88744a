package cmd

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/sky-uk/chunks/util/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureMetricsSetsConstLabels(t *testing.T) {
	defer metrics.SetConstLabels(nil)

	var labels LabelsValue
	require.NoError(t, labels.Set("env=test"))
	ConfigureMetrics(labels)

	assert.Equal(t, prometheus.Labels{"env": "test"}, metrics.ConstLabels())
}

func TestConfigureLoggingAddsHookOnce(t *testing.T) {
	asserter := assert.New(t)
	defer log.SetLevel(log.InfoLevel)

	ConfigureLogging(false)
	hooks := len(log.StandardLogger().Hooks[log.InfoLevel])
	ConfigureLogging(true)
	ConfigureLogging(false)

	asserter.Equal(hooks, len(log.StandardLogger().Hooks[log.InfoLevel]))
	asserter.Equal(log.InfoLevel, log.GetLevel())
}

func TestPushMetricsWithoutPushgateway(t *testing.T) {
	assert.NoError(t, PushMetrics("chunks", prometheus.NewRegistry(), ""))
}

func TestPushMetricsToPushgateway(t *testing.T) {
	var (
		lock   sync.Mutex
		method string
		path   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		defer lock.Unlock()
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "pushed_total", Help: "Test counter."})
	registry.MustRegister(counter)
	counter.Inc()

	require.NoError(t, PushMetrics("chunks-test", registry, server.URL))

	lock.Lock()
	defer lock.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(path, "/metrics/job/chunks-test/instance/"), path)
}
