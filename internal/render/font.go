package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Text uses the fixed 7x13 bitmap face so every glyph occupies the same
// cell; layout is pure monospace-cell arithmetic with no dynamic
// measurement, which keeps rendering byte-deterministic.
const (
	glyphWidth  = 7
	glyphHeight = 13
	glyphAscent = 11
)

// TextWidth returns the pixel width of s at the given integer scale.
func TextWidth(s string, scale int) int {
	return len(s) * glyphWidth * scale
}

// Truncate caps s at max characters. The cap is a fixed deterministic
// cut; labels are never wrapped or clipped mid-glyph.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// DrawText draws s with its top-left corner at (x, y), scaled by an
// integer factor. Scaled text is rendered at 1x into a scratch bitmap
// and blitted up with nearest-neighbor blocks, pixel-font style.
func DrawText(dst *Bitmap, x, y int, s string, scale int) {
	if s == "" {
		return
	}
	if scale <= 1 {
		drawText1x(dst, x, y, s)
		return
	}
	scratch := NewBitmap(TextWidth(s, 1), glyphHeight)
	drawText1x(scratch, 0, 0, s)
	blitBlack(dst, scratch, x, y, scale)
}

func drawText1x(dst *Bitmap, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Gray{Y: 0}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+glyphAscent),
	}
	d.DrawString(s)
}

// blitBlack scales up only the black pixels so text can be stamped over
// existing artwork without erasing its background.
func blitBlack(dst *Bitmap, src *Bitmap, x, y, scale int) {
	for sy := 0; sy < src.H; sy++ {
		for sx := 0; sx < src.W; sx++ {
			if !src.Black(sx, sy) {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					dst.SetPx(x+sx*scale+dx, y+sy*scale+dy, true)
				}
			}
		}
	}
}
