package cmd

import (
	"fmt"
	"os"

	"github.com/sky-uk/chunks/util/cmd"
	"github.com/spf13/cobra"
)

var (
	// version of binary, injected by "go tool link -X"
	version string
	// buildTime of binary, injected by "go tool link -X"
	buildTime string

	rootCmd = newRootCommand()
)

const (
	outputText = "text"
	outputJSON = "json"

	defaultOutput = outputText
)

const (
	debugFlag       = "debug"
	outputFlag      = "output"
	pushgatewayFlag = "pushgateway"
)

func newRootCommand() *cobra.Command {
	var pushgatewayLabels cmd.LabelsValue

	root := &cobra.Command{
		Use:     "chunks",
		Version: printVersion(),
		Short:   "Chunks splits index ranges into chunks for parallel work",
		Long: `Chunks partitions the indices of a collection into a number of consecutive or
round-robin chunks, so that each chunk can be processed independently by a worker.
Every flag can also be set through a CHUNKS_ prefixed environment variable, for
example CHUNKS_SPLIT=roundrobin.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			conf, err := newConfig(c)
			if err != nil {
				return err
			}
			cmd.ConfigureLogging(conf.GetBool(debugFlag))
			cmd.ConfigureMetrics(pushgatewayLabels)
			return nil
		},
	}

	root.PersistentFlags().Bool(debugFlag, false,
		"Enable debug logging.")
	root.PersistentFlags().String(outputFlag, defaultOutput,
		"Output format, either text or json.")
	root.PersistentFlags().String(pushgatewayFlag, "",
		"Prometheus pushgateway URL for pushing metrics. Leave blank to not push metrics.")
	root.PersistentFlags().Var(&pushgatewayLabels, "pushgateway-label",
		"A label=value pair to attach to metrics pushed to prometheus. Specify multiple times for multiple labels.")

	root.AddCommand(newPlanCommand())
	root.AddCommand(newSumCommand())
	return root
}

func printVersion() string {
	return fmt.Sprintf("%s (%s)", version, buildTime)
}

// Execute is the entry point for Cobra commands
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
