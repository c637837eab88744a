package chunk

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid chunk configuration")
	// ErrIndex matches every *IndexError.
	ErrIndex = errors.New("chunk index out of range")
	// ErrUnsupportedCollection matches every *UnsupportedCollectionError.
	ErrUnsupportedCollection = errors.New("unsupported collection")
)

// ConfigurationError reports an invalid or conflicting Spec, or an index domain that can't be chunked.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid chunk %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// IndexError reports a chunk position outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("chunk index %d out of range [0, %d)", e.Index, e.Len)
}

// Is lets errors.Is match ErrIndex.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}

// UnsupportedCollectionError reports a collection lacking the slicing capability a chunk needs.
type UnsupportedCollectionError struct {
	Collection string
	Capability string
}

func (e *UnsupportedCollectionError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Collection, e.Capability)
}

// Is lets errors.Is match ErrUnsupportedCollection.
func (e *UnsupportedCollectionError) Is(target error) bool {
	return target == ErrUnsupportedCollection
}
