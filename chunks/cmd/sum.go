package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"github.com/sky-uk/chunks/chunk"
	"github.com/sky-uk/chunks/util/cmd"
	"github.com/sky-uk/chunks/util/metrics"
	"github.com/sky-uk/chunks/workers"
	"github.com/spf13/cobra"
)

const (
	limitFlag        = "limit"
	printMetricsFlag = "print-metrics"

	defaultSumLength = 1000000
	sumJob           = "chunks-sum"
)

type sumOutput struct {
	Sum         float64 `json:"sum"`
	Chunks      int     `json:"chunks"`
	TookSeconds float64 `json:"took_seconds"`
}

func newSumCommand() *cobra.Command {
	sumCmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum the numbers 0..length-1 in parallel, one worker per chunk",
		Long: `Sum builds the numbers 0..length-1 and sums them with one goroutine per chunk,
reporting the result and how long it took. Without --n or --size one chunk per CPU is used.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			conf, err := newConfig(c)
			if err != nil {
				return err
			}
			spec, err := specFrom(conf)
			if err != nil {
				return err
			}
			if spec.N == 0 && spec.Size == 0 {
				spec.N = runtime.NumCPU()
			}

			result, err := parallelSum(conf.GetInt(lengthFlag), spec, conf.GetInt(limitFlag))
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			if err := printSum(out, conf.GetString(outputFlag), result); err != nil {
				return err
			}
			if conf.GetBool(printMetricsFlag) {
				if err := writeMetrics(out, prometheus.DefaultGatherer); err != nil {
					return err
				}
			}
			return cmd.PushMetrics(sumJob, prometheus.DefaultGatherer, conf.GetString(pushgatewayFlag))
		},
	}

	sumCmd.Flags().Int(lengthFlag, defaultSumLength,
		"Number of values to sum.")
	sumCmd.Flags().Int(limitFlag, 0,
		"Maximum number of chunks summed at the same time. 0 means no limit.")
	sumCmd.Flags().Bool(printMetricsFlag, false,
		"Print the workers' prometheus metrics after summing.")
	addSpecFlags(sumCmd)
	return sumCmd
}

func parallelSum(length int, spec chunk.Spec, limit int) (sumOutput, error) {
	if length < 0 {
		return sumOutput{}, fmt.Errorf("--%s must not be negative, got %d", lengthFlag, length)
	}
	data := make([]float64, length)
	for i := range data {
		data[i] = float64(i)
	}

	chunks, err := chunk.ChunksOf[chunk.View[float64]](chunk.Slice[float64](data), spec)
	if err != nil {
		return sumOutput{}, err
	}

	start := time.Now()
	partials, err := workers.Map(context.Background(), chunks.Plan(),
		func(_ context.Context, i int, _ chunk.Range) (float64, error) {
			view, err := chunks.Chunk(i)
			if err != nil {
				return 0, err
			}
			var partial float64
			for v := range view.Values() {
				partial += v
			}
			return partial, nil
		}, workers.WithLimit(limit), workers.WithJob(sumJob))
	if err != nil {
		return sumOutput{}, err
	}

	var total float64
	for _, partial := range partials {
		total += partial
	}
	took := time.Since(start)
	log.WithFields(log.Fields{"length": length, "chunks": chunks.Len(), "took": took}).Info("Summed values")

	return sumOutput{Sum: total, Chunks: chunks.Len(), TookSeconds: took.Seconds()}, nil
}

func printSum(w io.Writer, format string, result sumOutput) error {
	switch format {
	case outputJSON:
		return json.NewEncoder(w).Encode(result)
	case outputText:
		_, err := fmt.Fprintf(w, "sum: %.0f\nchunks: %d\ntook: %v\n",
			result.Sum, result.Chunks, time.Duration(result.TookSeconds*float64(time.Second)))
		return err
	default:
		return fmt.Errorf("unknown output format %q, expected %s or %s", format, outputText, outputJSON)
	}
}

// writeMetrics prints the chunks metrics of gatherer in the prometheus text format.
func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("unable to gather metrics: %v", err)
	}
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), metrics.PrometheusNamespace+"_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}
