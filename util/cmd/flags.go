package cmd

import (
	"errors"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sky-uk/chunks/chunk"
)

// LabelsValue collects repeated 'label=value' flags into prometheus labels.
type LabelsValue prometheus.Labels

func (l *LabelsValue) String() string {
	pairs := make([]string, 0, len(*l))
	for name, value := range *l {
		pairs = append(pairs, name+"="+value)
	}
	sort.Strings(pairs)
	return "[" + strings.Join(pairs, ",") + "]"
}

// Set adds a single 'label=value' pair. A label given twice keeps its last value.
func (l *LabelsValue) Set(pair string) error {
	name, value, ok := strings.Cut(pair, "=")
	if !ok || name == "" {
		return errors.New("must be of format 'label=value'")
	}
	if *l == nil {
		*l = make(LabelsValue)
	}
	(*l)[name] = value
	return nil
}

func (l *LabelsValue) Type() string {
	return "label=value"
}

// SplitValue is a chunk split strategy flag. It holds the canonical strategy name, so reading the
// flag back as a string always parses with chunk.ParseSplit.
type SplitValue chunk.Split

func (s *SplitValue) String() string {
	return chunk.Split(*s).String()
}

// Set parses a split strategy name such as 'consecutive' or 'roundrobin'.
func (s *SplitValue) Set(name string) error {
	split, err := chunk.ParseSplit(name)
	if err != nil {
		return err
	}
	*s = SplitValue(split)
	return nil
}

func (s *SplitValue) Type() string {
	return "split"
}
