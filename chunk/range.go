package chunk

import (
	"fmt"
	"iter"
	"math"
)

// Range represents the indices Start, Start+Step, ... up to but excluding Stop.
// For Step 1 it can be used with a golang slice as [Start:Stop].
type Range struct {
	// Start is inclusive
	Start int
	// Stop is exclusive
	Stop int
	// Step is the distance between consecutive indices, treated as 1 when not positive
	Step int
}

// progression builds the Range of count indices beginning at start.
func progression(start, count, step int) Range {
	if count <= 0 {
		return Range{Start: start, Stop: start, Step: step}
	}
	return Range{Start: start, Stop: start + (count-1)*step + 1, Step: step}
}

func (r Range) step() int {
	if r.Step < 1 {
		return 1
	}
	return r.Step
}

// Len is the number of indices in the range. It saturates at math.MaxInt.
func (r Range) Len() int {
	if r.Stop <= r.Start {
		return 0
	}
	// Stop-Start may not fit in an int, but always fits in a uint.
	n := (uint(r.Stop)-uint(r.Start)-1)/uint(r.step()) + 1
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// Empty is true if the range holds no index.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Last is the largest index in the range, or Start-1 if the range is empty.
func (r Range) Last() int {
	n := r.Len()
	if n == 0 {
		return r.Start - 1
	}
	return r.Start + (n-1)*r.step()
}

// At returns the k-th index of the range. It panics if k is not in [0, Len).
func (r Range) At(k int) int {
	if k < 0 || k >= r.Len() {
		panic(&IndexError{Index: k, Len: r.Len()})
	}
	return r.Start + k*r.step()
}

// Contains reports whether idx is one of the range's indices.
func (r Range) Contains(idx int) bool {
	if idx < r.Start || idx >= r.Stop {
		return false
	}
	return (uint(idx)-uint(r.Start))%uint(r.step()) == 0
}

// Indices yields every index of the range in increasing order.
func (r Range) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		idx, step := r.Start, r.step()
		for n := r.Len(); n > 0; n-- {
			if !yield(idx) {
				return
			}
			idx += step
		}
	}
}

// String formats the range as first:last, or first:step:last when strided.
func (r Range) String() string {
	if r.step() == 1 {
		return fmt.Sprintf("%d:%d", r.Start, r.Last())
	}
	return fmt.Sprintf("%d:%d:%d", r.Start, r.step(), r.Last())
}
