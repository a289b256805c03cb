package epaper

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"go.uber.org/zap"
	"periph.io/x/host/v3"

	"habitink/internal/application"
)

// Display is the hardware display sink.
type Display struct {
	log *zap.Logger
}

// Detect probes for panel hardware: the periph host drivers must load
// and the SPI port and control pins must be claimable. Selection between
// hardware and file output happens here at the boundary, never inside
// the renderer.
func Detect(log *zap.Logger) (*Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, &application.DisplayError{Op: "probe", Err: err}
	}
	p, err := Open()
	if err != nil {
		return nil, &application.DisplayError{Op: "probe", Err: err}
	}
	p.Close()
	return &Display{log: log}, nil
}

// Present initializes the panel, transmits the frame and puts the panel
// back to deep sleep, also on error paths.
func (d *Display) Present(ctx context.Context, frame image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bounds := frame.Bounds()
	if bounds.Dx() != PanelWidth || bounds.Dy() != PanelHeight {
		return &application.DisplayError{
			Op: "present",
			Err: fmt.Errorf("frame is %dx%d, panel is %dx%d (rotated frames need the file sink)",
				bounds.Dx(), bounds.Dy(), PanelWidth, PanelHeight),
		}
	}

	p, err := Open()
	if err != nil {
		return &application.DisplayError{Op: "open", Err: err}
	}
	defer p.Close()

	if err := p.Init(); err != nil {
		return &application.DisplayError{Op: "init", Err: err}
	}
	defer func() {
		if err := p.Sleep(); err != nil {
			d.log.Warn("panel sleep failed", zap.Error(err))
		}
	}()

	d.log.Info("updating e-paper display")
	if err := p.Draw(pack(frame)); err != nil {
		return &application.DisplayError{Op: "draw", Err: err}
	}
	return nil
}

// pack converts any monochrome-ish frame to the panel's wire format:
// 8 pixels per byte, MSB first, set bit = white.
func pack(frame image.Image) []byte {
	bounds := frame.Bounds()
	stride := (bounds.Dx() + 7) / 8
	out := make([]byte, stride*bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.GrayModel.Convert(frame.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			if c.Y >= 128 {
				out[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return out
}
