package cmd

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/onrik/logrus/filename"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
	"github.com/sky-uk/chunks/util/metrics"
)

const pushRetries = 3

var addFilenameHook sync.Once

// ConfigureLogging sets logging to Stdout and manages setting debug level. It can be called
// repeatedly, the source filename hook is only added once.
func ConfigureLogging(debug bool) {
	// logging is the main output, so write it all to stdout
	log.SetOutput(os.Stdout)
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	addFilenameHook.Do(func() {
		filenameHook := filename.NewHook()
		filenameHook.Field = "source"
		log.AddHook(filenameHook)
	})
}

// ConfigureMetrics sets the default labels of every metric. This must be called before any metrics
// are defined.
func ConfigureMetrics(labels LabelsValue) {
	constLabels := make(prometheus.Labels, len(labels))
	for name, value := range labels {
		constLabels[name] = value
	}
	metrics.SetConstLabels(constLabels)
}

// PushMetrics pushes everything gathered by gatherer to a prometheus pushgateway, retrying failed
// requests. Nothing is pushed if pushgatewayURL is empty.
func PushMetrics(job string, gatherer prometheus.Gatherer, pushgatewayURL string) error {
	if pushgatewayURL == "" {
		return nil
	}

	instance, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("unable to lookup hostname for metrics: %v", err)
	}

	start := time.Now()
	err = push.New(pushgatewayURL, job).
		Gatherer(gatherer).
		Grouping("instance", instance).
		Client(newPushClient()).
		Push()
	if err != nil {
		return fmt.Errorf("unable to push metrics to %s: %v", pushgatewayURL, err)
	}

	log.WithFields(log.Fields{"pushgateway": pushgatewayURL, "job": job, "took": time.Since(start)}).
		Debug("Pushed metrics")
	return nil
}

func newPushClient() *pester.Client {
	client := pester.New()
	client.MaxRetries = pushRetries
	client.Backoff = pester.ExponentialBackoff
	return client
}
