package test

import (
	"context"

	"github.com/sky-uk/chunks/chunk"
	"github.com/stretchr/testify/mock"
)

// FakeProcessor mocks out the work done for a single chunk
type FakeProcessor struct {
	mock.Mock
}

// Process mocks out calls to Process
func (p *FakeProcessor) Process(ctx context.Context, i int, r chunk.Range) error {
	args := p.Called(ctx, i, r)
	return args.Error(0)
}

func (p *FakeProcessor) String() string {
	return "FakeProcessor"
}
