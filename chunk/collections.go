package chunk

import (
	"fmt"
	"iter"
	"math"
)

// Slice adapts a Go slice, indexed from 0, to the chunkable interfaces.
type Slice[E any] []E

func (s Slice[E]) FirstIndex() int { return 0 }
func (s Slice[E]) LastIndex() int  { return len(s) - 1 }
func (s Slice[E]) Len() int        { return len(s) }

// Slice views the elements at indices [start, stop).
func (s Slice[E]) Slice(start, stop int) View[E] {
	return newView([]E(s), 0, Range{Start: start, Stop: stop, Step: 1})
}

// SliceStep views the elements at indices start, start+step, ... < stop.
func (s Slice[E]) SliceStep(start, stop, step int) View[E] {
	return newView([]E(s), 0, Range{Start: start, Stop: stop, Step: step})
}

// Offset is a Go slice whose first element sits at an arbitrary index.
type Offset[E any] struct {
	data  []E
	first int
}

// WithOffset indexes data from first instead of 0. The elements are not copied.
func WithOffset[E any](data []E, first int) Offset[E] {
	return Offset[E]{data: data, first: first}
}

func (o Offset[E]) FirstIndex() int { return o.first }
func (o Offset[E]) LastIndex() int  { return o.first + len(o.data) - 1 }
func (o Offset[E]) Len() int        { return len(o.data) }

// At returns the element at index idx.
func (o Offset[E]) At(idx int) E {
	return o.data[idx-o.first]
}

// Slice views the elements at indices [start, stop).
func (o Offset[E]) Slice(start, stop int) View[E] {
	return newView(o.data, o.first, Range{Start: start, Stop: stop, Step: 1})
}

// SliceStep views the elements at indices start, start+step, ... < stop.
func (o Offset[E]) SliceStep(start, stop, step int) View[E] {
	return newView(o.data, o.first, Range{Start: start, Stop: stop, Step: step})
}

// Span is a bare index domain [First, Last] without elements. It can be chunked but not sliced.
type Span struct {
	First int
	Last  int
}

func (s Span) FirstIndex() int { return s.First }
func (s Span) LastIndex() int  { return s.Last }

// Len is the number of indices in the span. It saturates at math.MaxInt.
func (s Span) Len() int {
	if s.Last < s.First {
		return 0
	}
	n := uint(s.Last) - uint(s.First)
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n) + 1
}

// View is a window onto the elements of a slice selected by a Range. It shares memory with the
// slice it was taken from and none of its methods modify it.
type View[E any] struct {
	data  []E
	first int
	r     Range
}

func newView[E any](data []E, first int, r Range) View[E] {
	r = progression(r.Start, r.Len(), r.step())
	if !r.Empty() && (r.Start < first || uint(r.Last())-uint(first) >= uint(len(data))) {
		panic(fmt.Sprintf("chunk: range %v out of bounds [%d, %d]", r, first, first+len(data)-1))
	}
	return View[E]{data: data, first: first, r: r}
}

// Range is the range of source indices the view selects.
func (v View[E]) Range() Range { return v.r }

func (v View[E]) FirstIndex() int { return 0 }
func (v View[E]) LastIndex() int  { return v.r.Len() - 1 }
func (v View[E]) Len() int        { return v.r.Len() }

// At returns the k-th element of the view.
func (v View[E]) At(k int) E {
	return v.data[v.r.At(k)-v.first]
}

// Values yields the elements of the view in order.
func (v View[E]) Values() iter.Seq[E] {
	return func(yield func(E) bool) {
		for idx := range v.r.Indices() {
			if !yield(v.data[idx-v.first]) {
				return
			}
		}
	}
}

// All yields the elements of the view with their position in the view.
func (v View[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		k := 0
		for idx := range v.r.Indices() {
			if !yield(k, v.data[idx-v.first]) {
				return
			}
			k++
		}
	}
}

// Contiguous returns the view as a sub-slice of the source when its elements are adjacent.
// Writes through the sub-slice change the source, which is how disjoint chunks are filled in
// parallel. The sub-slice's capacity is clipped so appending to it never writes past the chunk.
func (v View[E]) Contiguous() ([]E, bool) {
	if v.r.Len() > 1 && v.r.step() != 1 {
		return nil, false
	}
	if v.r.Empty() {
		return v.data[:0:0], true
	}
	lo, hi := v.r.Start-v.first, v.r.Last()-v.first+1
	return v.data[lo:hi:hi], true
}

// AppendTo appends copies of the view's elements to dst.
func (v View[E]) AppendTo(dst []E) []E {
	for e := range v.Values() {
		dst = append(dst, e)
	}
	return dst
}

// Slice views the elements at view positions [start, stop).
func (v View[E]) Slice(start, stop int) View[E] {
	return v.SliceStep(start, stop, 1)
}

// SliceStep views the elements at view positions start, start+step, ... < stop.
func (v View[E]) SliceStep(start, stop, step int) View[E] {
	inner := Range{Start: start, Stop: stop, Step: step}
	if !inner.Empty() && (start < 0 || inner.Last() >= v.Len()) {
		panic(fmt.Sprintf("chunk: range %v out of bounds [0, %d]", inner, v.Len()-1))
	}
	count := inner.Len()
	if count == 0 {
		return View[E]{data: v.data, first: v.first, r: Range{Start: v.r.Start, Stop: v.r.Start, Step: 1}}
	}
	sub := progression(v.r.Start+start*v.r.step(), count, v.r.step()*inner.step())
	return View[E]{data: v.data, first: v.first, r: sub}
}

func (v View[E]) String() string {
	return fmt.Sprint(v.AppendTo(make([]E, 0, v.Len())))
}
