package chunk

// Collection is anything with a linear index domain FirstIndex()..LastIndex() holding Len() items.
type Collection interface {
	FirstIndex() int
	LastIndex() int
	Len() int
}

// RangeSlicer is a Collection that can view the indices start, start+1, ... < stop.
type RangeSlicer[V any] interface {
	Collection
	Slice(start, stop int) V
}

// StridedSlicer is a Collection that can view the indices start, start+step, ... < stop.
type StridedSlicer[V any] interface {
	Collection
	SliceStep(start, stop, step int) V
}

// Sliceable collections support element chunks for every split strategy.
type Sliceable[V any] interface {
	RangeSlicer[V]
	StridedSlicer[V]
}
