package ports

import (
	"context"
	"image"
)

// Display pushes a rendered frame to its destination: the physical panel
// or an image file. Implementations own panel power management; after
// Present returns, the hardware must not be left in an active-drive state.
type Display interface {
	Present(ctx context.Context, frame image.Image) error
}
