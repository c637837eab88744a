package chunk

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Split is the strategy used to distribute indices among chunks.
type Split int

const (
	// Consecutive chunks hold adjacent indices, with sizes differing by at most one.
	Consecutive Split = iota
	// RoundRobin assigns indices to chunks cyclically, so chunk i owns every index
	// congruent to first+i modulo the number of chunks.
	RoundRobin
)

func (s Split) String() string {
	switch s {
	case Consecutive:
		return "consecutive"
	case RoundRobin:
		return "roundrobin"
	default:
		return fmt.Sprintf("Split(%d)", int(s))
	}
}

// ParseSplit converts a split name to a Split. The names used by older releases, "batch" and
// "scatter", are accepted as aliases.
func ParseSplit(name string) (Split, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "consecutive", "batch", "":
		return Consecutive, nil
	case "roundrobin", "round-robin", "scatter":
		return RoundRobin, nil
	}
	return Consecutive, &ConfigurationError{Field: "split", Reason: fmt.Sprintf("unknown strategy %q", name)}
}

// Spec describes how to chunk a collection. Exactly one of N and Size must be set, a zero value
// meaning unset.
type Spec struct {
	// N is the desired number of chunks.
	N int
	// Size is the desired number of indices per chunk. The last chunk may be smaller.
	Size int
	// Split defaults to Consecutive. RoundRobin can't be combined with Size.
	Split Split
	// MinSize lowers the number of chunks until each holds at least MinSize indices. Only valid with N.
	MinSize int
}

func (s Spec) validate(length int) error {
	var errs *multierror.Error
	fail := func(field, reason string) {
		errs = multierror.Append(errs, &ConfigurationError{Field: field, Reason: reason})
	}

	if length < 0 {
		fail("length", fmt.Sprintf("must not be negative, got %d", length))
	}
	if s.N < 0 {
		fail("n", fmt.Sprintf("must be at least 1, got %d", s.N))
	}
	if s.Size < 0 {
		fail("size", fmt.Sprintf("must be at least 1, got %d", s.Size))
	}
	if s.MinSize < 0 {
		fail("minsize", fmt.Sprintf("must be at least 1, got %d", s.MinSize))
	}
	switch {
	case s.N != 0 && s.Size != 0:
		fail("n", "n and size are mutually exclusive")
	case s.N == 0 && s.Size == 0:
		fail("n", "one of n or size must be set")
	}
	if s.Size != 0 && s.MinSize != 0 {
		fail("minsize", "minsize can only be used with n")
	}
	switch s.Split {
	case Consecutive:
	case RoundRobin:
		if s.Size != 0 {
			fail("split", "size-based chunking is not supported for the roundrobin strategy")
		}
	default:
		fail("split", fmt.Sprintf("unknown strategy %v", s.Split))
	}

	if errs == nil {
		return nil
	}
	if len(errs.Errors) == 1 {
		return errs.Errors[0]
	}
	return errs
}

// Plan is a resolved chunking of an index domain. It is an immutable value: chunk bounds are
// computed on demand from their position, so a Plan is safe for concurrent use.
type Plan struct {
	first   int
	length  int
	nchunks int
	split   Split
	// size is the fixed chunk size, zero when the plan was resolved from N.
	size int
	base int
	rem  int
}

// Resolve computes the plan for a domain of length indices starting at 0.
func Resolve(length int, s Spec) (Plan, error) {
	return resolve(0, length, s)
}

// ResolveFor computes the plan for the index domain of c.
func ResolveFor(c Collection, s Spec) (Plan, error) {
	first, length := c.FirstIndex(), c.Len()
	p, err := resolve(first, length, s)
	if err != nil {
		return Plan{}, err
	}
	if length > 0 && first+length-1 != c.LastIndex() {
		return Plan{}, &ConfigurationError{Field: "length",
			Reason: fmt.Sprintf("%d indices from %d do not end at last index %d", length, first, c.LastIndex())}
	}
	return p, nil
}

func resolve(first, length int, s Spec) (Plan, error) {
	if err := s.validate(length); err != nil {
		return Plan{}, err
	}
	// Chunks are half-open, so the index after the domain must be representable.
	if first > 0 && length > math.MaxInt-first {
		return Plan{}, &ConfigurationError{Field: "length",
			Reason: fmt.Sprintf("%d indices from %d overflow the index type", length, first)}
	}

	p := Plan{first: first, length: length, split: s.Split}
	if s.Size > 0 {
		p.size = s.Size
		// An empty domain still yields a single empty chunk.
		p.nchunks = length / s.Size
		if length%s.Size != 0 || length == 0 {
			p.nchunks++
		}
		return p, nil
	}

	n := min(s.N, max(length, 1))
	if s.MinSize > 0 {
		n = max(1, min(n, length/s.MinSize))
	}
	p.nchunks = n
	p.base, p.rem = length/n, length%n
	return p, nil
}

// Len is the number of chunks.
func (p Plan) Len() int {
	return p.nchunks
}

// Length is the number of indices in the chunked domain.
func (p Plan) Length() int {
	return p.length
}

// First is the first index of the chunked domain.
func (p Plan) First() int {
	return p.first
}

// Split is the strategy the plan was resolved with.
func (p Plan) Split() Split {
	return p.split
}

// Chunk returns the range of the i-th chunk, 0 <= i < Len().
func (p Plan) Chunk(i int) (Range, error) {
	if i < 0 || i >= p.nchunks {
		return Range{}, &IndexError{Index: i, Len: p.nchunks}
	}
	return p.chunk(i), nil
}

// MustChunk is like Chunk but panics with an *IndexError if i is out of range.
func (p Plan) MustChunk(i int) Range {
	r, err := p.Chunk(i)
	if err != nil {
		panic(err)
	}
	return r
}

func (p Plan) chunk(i int) Range {
	switch {
	case p.size > 0:
		start := i * p.size
		count := min(p.size, p.length-start)
		return Range{Start: p.first + start, Stop: p.first + start + count, Step: 1}
	case p.split == RoundRobin:
		count := 0
		if i < p.length {
			count = (p.length-i-1)/p.nchunks + 1
		}
		return progression(p.first+i, count, p.nchunks)
	default:
		start := p.first + i*p.base + min(i, p.rem)
		count := p.base
		if i < p.rem {
			count++
		}
		return Range{Start: start, Stop: start + count, Step: 1}
	}
}

// All yields every chunk in order. It can be ranged over any number of times.
func (p Plan) All() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for i := 0; i < p.nchunks; i++ {
			if !yield(p.chunk(i)) {
				return
			}
		}
	}
}

// Enumerate yields every chunk together with its position.
func (p Plan) Enumerate() iter.Seq2[int, Range] {
	return func(yield func(int, Range) bool) {
		for i := 0; i < p.nchunks; i++ {
			if !yield(i, p.chunk(i)) {
				return
			}
		}
	}
}

// Ranges returns all chunks as a slice.
func (p Plan) Ranges() []Range {
	ranges := make([]Range, 0, p.nchunks)
	for r := range p.All() {
		ranges = append(ranges, r)
	}
	return ranges
}

// Sizes returns the number of indices in each chunk.
func (p Plan) Sizes() []int {
	sizes := make([]int, 0, p.nchunks)
	for r := range p.All() {
		sizes = append(sizes, r.Len())
	}
	return sizes
}

func (p Plan) String() string {
	return fmt.Sprintf("%d chunk(s) of %d index(es) from %d, %v", p.nchunks, p.length, p.first, p.split)
}
