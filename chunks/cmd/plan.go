package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/sky-uk/chunks/chunk"
	"github.com/spf13/cobra"
)

const firstFlag = "first"

type chunkOutput struct {
	Chunk int `json:"chunk"`
	Start int `json:"start"`
	Stop  int `json:"stop"`
	Step  int `json:"step"`
	Size  int `json:"size"`
}

func newPlanCommand() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the chunks of an index range",
		Example: `  chunks plan --length 7 --n 3
  chunks plan --length 7 --n 3 --split roundrobin --first 1
  chunks plan --length 7 --size 3 --output json`,
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

			length, first := conf.GetInt(lengthFlag), conf.GetInt(firstFlag)
			if length < 0 {
				return fmt.Errorf("--%s must not be negative, got %d", lengthFlag, length)
			}
			if length > 0 && first > 0 && length-1 > math.MaxInt-first {
				return fmt.Errorf("--%s %d from --%s %d runs past the largest index", lengthFlag, length, firstFlag, first)
			}
			plan, err := chunk.ResolveFor(chunk.Span{First: first, Last: first + length - 1}, spec)
			if err != nil {
				return err
			}
			log.Debugf("Resolved %v", plan)

			return printPlan(c.OutOrStdout(), conf.GetString(outputFlag), plan)
		},
	}

	planCmd.Flags().Int(lengthFlag, 0,
		"Number of indices to split.")
	planCmd.Flags().Int(firstFlag, 0,
		"First index of the range.")
	addSpecFlags(planCmd)
	return planCmd
}

func printPlan(w io.Writer, format string, plan chunk.Plan) error {
	switch format {
	case outputJSON:
		chunks := make([]chunkOutput, 0, plan.Len())
		for i, r := range plan.Enumerate() {
			chunks = append(chunks, chunkOutput{Chunk: i, Start: r.Start, Stop: r.Stop, Step: r.Step, Size: r.Len()})
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(chunks)
	case outputText:
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "CHUNK\tRANGE\tSIZE")
		for i, r := range plan.Enumerate() {
			fmt.Fprintf(tw, "%d\t%v\t%d\n", i, r, r.Len())
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q, expected %s or %s", format, outputText, outputJSON)
	}
}
