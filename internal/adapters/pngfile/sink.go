// Package pngfile is the file-output display sink used for previews and
// as the fallback when no panel hardware is present.
package pngfile

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
)

// Sink writes each presented frame as a PNG file.
type Sink struct {
	path string
}

// NewSink creates a sink writing to path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the output file path.
func (s *Sink) Path() string { return s.path }

// Present encodes the frame to the configured path.
func (s *Sink) Present(_ context.Context, frame image.Image) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}
