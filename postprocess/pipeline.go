// Package postprocess rewrites captured clipboard text before it is stored
// in a slot.
package postprocess

import (
	"context"
	"log/slog"
)

// Processor is a function that transforms text
type Processor func(ctx context.Context, text string) (string, error)

// Pipeline runs a series of processors in sequence
type Pipeline struct {
	processors []Processor
}

// NewPipeline creates a new processing pipeline
func NewPipeline(processors ...Processor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// DefaultPipeline returns the pipeline applied to every copy: meeting
// invitations are compacted, then the text is cut to its first line.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		InviteProcessor(),
		SingleLineProcessor(),
	)
}

// Process runs all processors in sequence
func (p *Pipeline) Process(ctx context.Context, text string) (string, error) {
	if p == nil {
		return text, nil
	}

	result := text
	var err error

	for i, proc := range p.processors {
		result, err = proc(ctx, result)
		if err != nil {
			slog.Error("Processor failed", "index", i, "error", err)
			return result, err
		}
	}

	return result, nil
}
