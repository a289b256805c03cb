package render

import "testing"

func TestBitmapSetPxBounds(t *testing.T) {
	b := NewBitmap(4, 4)
	// Out-of-bounds writes must be dropped, not panic.
	b.SetPx(-1, 0, true)
	b.SetPx(0, -1, true)
	b.SetPx(4, 0, true)
	b.SetPx(0, 4, true)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if b.Black(x, y) {
				t.Fatalf("pixel (%d,%d) set by an out-of-bounds write", x, y)
			}
		}
	}
	if b.Black(-1, -1) || b.Black(4, 4) {
		t.Error("out-of-bounds read returned black")
	}
}

func TestBitmapRotate(t *testing.T) {
	b := NewBitmap(3, 2)
	b.SetPx(0, 0, true) // top-left
	b.SetPx(2, 1, true) // bottom-right

	r90 := b.Rotate(90)
	if r90.W != 2 || r90.H != 3 {
		t.Fatalf("90: got %dx%d, want 2x3", r90.W, r90.H)
	}
	if !r90.Black(1, 0) || !r90.Black(0, 2) {
		t.Error("90: corners landed in the wrong place")
	}

	r180 := b.Rotate(180)
	if !r180.Black(2, 1) || !r180.Black(0, 0) {
		t.Error("180: corners landed in the wrong place")
	}

	r270 := b.Rotate(270)
	if r270.W != 2 || r270.H != 3 {
		t.Fatalf("270: got %dx%d, want 2x3", r270.W, r270.H)
	}
	if !r270.Black(0, 2) || !r270.Black(1, 0) {
		t.Error("270: corners landed in the wrong place")
	}

	// Four quarter turns compose back to the identity.
	full := b.Rotate(90).Rotate(90).Rotate(90).Rotate(90)
	if !full.Equal(b) {
		t.Error("four 90-degree rotations changed the raster")
	}
}

func TestBitmapPackedBits(t *testing.T) {
	b := NewBitmap(10, 2)
	b.SetPx(0, 0, true)
	b.SetPx(9, 1, true)

	packed := b.PackedBits()
	if len(packed) != 4 {
		t.Fatalf("len = %d, want 4 (two bytes per padded row)", len(packed))
	}
	// Row 0: pixel 0 black, the rest white. Set bits mean white.
	if packed[0] != 0x7F {
		t.Errorf("packed[0] = %#02x, want 0x7f", packed[0])
	}
	if packed[1] != 0xC0 {
		t.Errorf("packed[1] = %#02x, want 0xc0", packed[1])
	}
	// Row 1: pixel 9 black, second bit of the second byte.
	if packed[2] != 0xFF {
		t.Errorf("packed[2] = %#02x, want 0xff", packed[2])
	}
	if packed[3] != 0x80 {
		t.Errorf("packed[3] = %#02x, want 0x80", packed[3])
	}
}

func TestBitmapEqual(t *testing.T) {
	a := NewBitmap(5, 5)
	b := NewBitmap(5, 5)
	if !a.Equal(b) {
		t.Error("fresh bitmaps of the same size compare unequal")
	}
	b.SetPx(2, 2, true)
	if a.Equal(b) {
		t.Error("differing bitmaps compare equal")
	}
	if a.Equal(NewBitmap(5, 4)) {
		t.Error("differently sized bitmaps compare equal")
	}
	if a.Equal(nil) {
		t.Error("nil comparison returned true")
	}
}
