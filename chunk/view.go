package chunk

import (
	"fmt"
	"iter"
)

const (
	contiguousCapability = "contiguous range slicing"
	stridedCapability    = "strided range slicing"
)

// ViewOf returns the elements of c selected by r, using the RangeSlicer capability of c for
// contiguous ranges and its StridedSlicer capability otherwise.
func ViewOf[V any](c Collection, r Range) (V, error) {
	var zero V
	if r.step() == 1 {
		s, ok := c.(RangeSlicer[V])
		if !ok {
			return zero, unsupported[V](c, contiguousCapability)
		}
		return s.Slice(r.Start, r.Stop), nil
	}

	s, ok := c.(StridedSlicer[V])
	if !ok {
		return zero, unsupported[V](c, stridedCapability)
	}
	return s.SliceStep(r.Start, r.Stop, r.step()), nil
}

func unsupported[V any](c Collection, capability string) error {
	var v V
	return &UnsupportedCollectionError{
		Collection: fmt.Sprintf("%T", c),
		Capability: fmt.Sprintf("%s into %T", capability, v),
	}
}

// ElementChunks exposes the chunks of a Plan as views of a collection's elements.
type ElementChunks[V any] struct {
	coll Sliceable[V]
	plan Plan
}

// ChunksOf resolves s against c and returns its chunks as element views.
func ChunksOf[V any](c Sliceable[V], s Spec) (*ElementChunks[V], error) {
	p, err := ResolveFor(c, s)
	if err != nil {
		return nil, err
	}
	return &ElementChunks[V]{coll: c, plan: p}, nil
}

// Elements returns the chunks of p as element views of c. The plan must have been resolved
// for the index domain of c.
func Elements[V any](c Sliceable[V], p Plan) (*ElementChunks[V], error) {
	if p.first != c.FirstIndex() || p.length != c.Len() {
		return nil, &ConfigurationError{
			Field: "plan",
			Reason: fmt.Sprintf("resolved for %d index(es) from %d, collection has %d from %d",
				p.length, p.first, c.Len(), c.FirstIndex()),
		}
	}
	return &ElementChunks[V]{coll: c, plan: p}, nil
}

// Plan is the index plan behind the element chunks.
func (e *ElementChunks[V]) Plan() Plan {
	return e.plan
}

// Len is the number of chunks.
func (e *ElementChunks[V]) Len() int {
	return e.plan.Len()
}

// Chunk returns a view of the elements of the i-th chunk.
func (e *ElementChunks[V]) Chunk(i int) (V, error) {
	r, err := e.plan.Chunk(i)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.view(r), nil
}

func (e *ElementChunks[V]) view(r Range) V {
	if r.step() == 1 {
		return e.coll.Slice(r.Start, r.Stop)
	}
	return e.coll.SliceStep(r.Start, r.Stop, r.step())
}

// All yields a view of every chunk in order.
func (e *ElementChunks[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for r := range e.plan.All() {
			if !yield(e.view(r)) {
				return
			}
		}
	}
}

// Enumerate yields every chunk view together with its position.
func (e *ElementChunks[V]) Enumerate() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for i, r := range e.plan.Enumerate() {
			if !yield(i, e.view(r)) {
				return
			}
		}
	}
}
