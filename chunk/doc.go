/*
Package chunk splits the index domain of a linearly indexable collection into chunks that can be
processed independently, for example by one goroutine each.

A Plan is resolved once from the collection's length and a Spec. It holds no iteration state:
every chunk's bounds are computed from its position, so a Plan can be shared freely between
goroutines. Chunks of a Plan are pairwise disjoint and together cover every index exactly once.

	plan, err := chunk.ResolveFor(chunk.Slice[float64](xs), chunk.Spec{N: 4})
	if err != nil {
		return err
	}
	for i, r := range plan.Enumerate() {
		go work(i, r)
	}

Collections that can be sliced also yield element views, see ViewOf and ChunksOf. Views share
the memory of the source collection and never copy elements.
*/
package chunk
