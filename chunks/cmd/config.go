package cmd

import (
	"fmt"
	"strings"

	"github.com/sky-uk/chunks/chunk"
	"github.com/sky-uk/chunks/util/cmd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CHUNKS"

const (
	lengthFlag  = "length"
	nFlag       = "n"
	sizeFlag    = "size"
	splitFlag   = "split"
	minSizeFlag = "minsize"
)

// newConfig layers CHUNKS_* environment variables under the flags of c. Flags set on the
// command line always win.
func newConfig(c *cobra.Command) (*viper.Viper, error) {
	conf := viper.New()
	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()
	if err := conf.BindPFlags(c.Flags()); err != nil {
		return nil, fmt.Errorf("unable to bind flags: %v", err)
	}
	return conf, nil
}

// addSpecFlags adds the flags read by specFrom. The split flag is parsed on the command line, while
// viper hands back its canonical name or the raw CHUNKS_SPLIT value.
func addSpecFlags(c *cobra.Command) {
	c.Flags().Int(nFlag, 0,
		"Number of chunks to split into. Mutually exclusive with --size.")
	c.Flags().Int(sizeFlag, 0,
		"Number of indices per chunk, the last chunk may be smaller. Mutually exclusive with --n.")
	c.Flags().Var(new(cmd.SplitValue), splitFlag,
		"How indices are distributed among chunks: consecutive or roundrobin.")
	c.Flags().Int(minSizeFlag, 0,
		"Minimum number of indices per chunk. Lowers the number of chunks if needed, only valid with --n.")
}

func specFrom(conf *viper.Viper) (chunk.Spec, error) {
	split, err := chunk.ParseSplit(conf.GetString(splitFlag))
	if err != nil {
		return chunk.Spec{}, err
	}
	return chunk.Spec{
		N:       conf.GetInt(nFlag),
		Size:    conf.GetInt(sizeFlag),
		Split:   split,
		MinSize: conf.GetInt(minSizeFlag),
	}, nil
}
