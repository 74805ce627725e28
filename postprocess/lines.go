package postprocess

import (
	"context"
	"strings"
)

// SingleLineProcessor creates a processor that keeps only the first line of
// the text. The slot file stores one line per slot, so a line break in the
// content would be read back as a key line.
func SingleLineProcessor() Processor {
	return func(ctx context.Context, text string) (string, error) {
		if i := strings.IndexAny(text, "\r\n"); i >= 0 {
			text = text[:i]
		}
		return text, nil
	}
}
