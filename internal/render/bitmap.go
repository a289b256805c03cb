package render

import (
	"image"
	"image/color"
)

// Bitmap is a fixed-size 1-bit raster. Pixels are stored one byte per
// pixel (0 = white, 1 = black) so it can implement draw.Image for the
// font drawer; PackedBits produces the panel wire format.
type Bitmap struct {
	W, H int
	pix  []uint8
}

// NewBitmap returns an all-white bitmap.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{W: w, H: h, pix: make([]uint8, w*h)}
}

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model { return color.GrayModel }

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.W, b.H) }

// At implements image.Image.
func (b *Bitmap) At(x, y int) color.Color {
	if b.Black(x, y) {
		return color.Gray{Y: 0}
	}
	return color.Gray{Y: 255}
}

// Set implements draw.Image. Anything darker than mid-gray lands black.
func (b *Bitmap) Set(x, y int, c color.Color) {
	g := color.GrayModel.Convert(c).(color.Gray)
	b.SetPx(x, y, g.Y < 128)
}

// SetPx sets one pixel. Out-of-bounds writes are dropped so drawing
// helpers never need their own clipping.
func (b *Bitmap) SetPx(x, y int, black bool) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	if black {
		b.pix[y*b.W+x] = 1
	} else {
		b.pix[y*b.W+x] = 0
	}
}

// Black reports whether the pixel is black. Out of bounds reads white.
func (b *Bitmap) Black(x, y int) bool {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return false
	}
	return b.pix[y*b.W+x] == 1
}

// HLine draws a horizontal run of the given thickness.
func (b *Bitmap) HLine(x0, x1, y, thickness int) {
	for t := 0; t < thickness; t++ {
		for x := x0; x <= x1; x++ {
			b.SetPx(x, y+t, true)
		}
	}
}

// VLine draws a vertical run of the given thickness.
func (b *Bitmap) VLine(x, y0, y1, thickness int) {
	for t := 0; t < thickness; t++ {
		for y := y0; y <= y1; y++ {
			b.SetPx(x+t, y, true)
		}
	}
}

// Rect draws a rectangle outline with the given stroke width.
func (b *Bitmap) Rect(x0, y0, x1, y1, stroke int) {
	b.HLine(x0, x1, y0, stroke)
	b.HLine(x0, x1, y1-stroke+1, stroke)
	b.VLine(x0, y0, y1, stroke)
	b.VLine(x1-stroke+1, y0, y1, stroke)
}

// FillRect fills a solid rectangle.
func (b *Bitmap) FillRect(x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			b.SetPx(x, y, true)
		}
	}
}

// Line draws a 1px Bresenham line.
func (b *Bitmap) Line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		b.SetPx(x0, y0, true)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Blit copies src onto b at (x, y), scaling each source pixel to a
// scale x scale block. White source pixels are copied too so a blit
// fully overwrites its destination cell.
func (b *Bitmap) Blit(src *Bitmap, x, y, scale int) {
	for sy := 0; sy < src.H; sy++ {
		for sx := 0; sx < src.W; sx++ {
			black := src.Black(sx, sy)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					b.SetPx(x+sx*scale+dx, y+sy*scale+dy, black)
				}
			}
		}
	}
}

// Rotate returns a copy rotated clockwise by 0, 90, 180 or 270 degrees.
// Any other angle returns an unrotated copy.
func (b *Bitmap) Rotate(degrees int) *Bitmap {
	switch degrees {
	case 90:
		out := NewBitmap(b.H, b.W)
		for y := 0; y < b.H; y++ {
			for x := 0; x < b.W; x++ {
				out.SetPx(b.H-1-y, x, b.Black(x, y))
			}
		}
		return out
	case 180:
		out := NewBitmap(b.W, b.H)
		for y := 0; y < b.H; y++ {
			for x := 0; x < b.W; x++ {
				out.SetPx(b.W-1-x, b.H-1-y, b.Black(x, y))
			}
		}
		return out
	case 270:
		out := NewBitmap(b.H, b.W)
		for y := 0; y < b.H; y++ {
			for x := 0; x < b.W; x++ {
				out.SetPx(y, b.W-1-x, b.Black(x, y))
			}
		}
		return out
	default:
		out := NewBitmap(b.W, b.H)
		copy(out.pix, b.pix)
		return out
	}
}

// PackedBits returns the raster packed 8 pixels per byte, MSB first,
// rows padded to whole bytes, with set bits meaning white. This is the
// byte stream the Waveshare 7.5" V2 panel expects.
func (b *Bitmap) PackedBits() []byte {
	stride := (b.W + 7) / 8
	out := make([]byte, stride*b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if !b.Black(x, y) {
				out[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}
	return out
}

// Equal reports pixel-for-pixel equality.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil || b.W != other.W || b.H != other.H {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
