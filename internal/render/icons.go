package render

// Icon glyphs are fixed 16x16 bitmaps drawn at integer scale. Unknown
// icon names fall back to an outlined placeholder box, the same degrade
// path the panel uses for a deactivated asset.

const iconSize = 16

var iconArt = map[string][]string{
	"water": {
		"................",
		".......#........",
		"......###.......",
		"......###.......",
		".....#####......",
		".....#####......",
		"....#######.....",
		"....#######.....",
		"...#########....",
		"...#########....",
		"..###########...",
		"..###########...",
		"..###########...",
		"...#########....",
		"....#######.....",
		"......###.......",
	},
	"book": {
		"................",
		"................",
		".######..######.",
		".#####....#####.",
		".#..###..###..#.",
		".#..###..###..#.",
		".#..###..###..#.",
		".#..###..###..#.",
		".#..###..###..#.",
		".#..###..###..#.",
		".#..###..###..#.",
		".#..###..###..#.",
		".#####....#####.",
		".######..######.",
		"................",
		"................",
	},
	"chess": {
		"................",
		".....######.....",
		".....######.....",
		".....######.....",
		".......##.......",
		"......####......",
		"......####......",
		".....######.....",
		".....######.....",
		"......####......",
		"......####......",
		".....######.....",
		"....########....",
		"...##########...",
		"...##########...",
		"................",
	},
	"notes": {
		"................",
		"..#########.....",
		"..#.......##....",
		"..#.......###...",
		"..#.......####..",
		"..#..........#..",
		"..#..######..#..",
		"..#..........#..",
		"..#..######..#..",
		"..#..........#..",
		"..#..######..#..",
		"..#..........#..",
		"..#..####....#..",
		"..#..........#..",
		"..############..",
		"................",
	},
	"dog": {
		"................",
		"...##......##...",
		"..####....####..",
		"..####....####..",
		"...##......##...",
		"................",
		".##..........##.",
		"####........####",
		"####........####",
		".##....##....##.",
		"......####......",
		".....######.....",
		"....########....",
		"....########....",
		".....######.....",
		"................",
	},
	"exercise": {
		"................",
		"................",
		"..##........##..",
		"..##........##..",
		".####......####.",
		".####......####.",
		".####......####.",
		".##############.",
		".##############.",
		".####......####.",
		".####......####.",
		".####......####.",
		"..##........##..",
		"..##........##..",
		"................",
		"................",
	},
	"star": {
		"................",
		".......##.......",
		".......##.......",
		"......####......",
		"......####......",
		".#############..",
		"..###########...",
		"...#########....",
		"....#######.....",
		"....#######.....",
		"...####.####....",
		"...###...###....",
		"..###.....###...",
		"..##.......##...",
		"................",
		"................",
	},
}

var icons = buildIcons()

func buildIcons() map[string]*Bitmap {
	out := make(map[string]*Bitmap, len(iconArt))
	for name, rows := range iconArt {
		bm := NewBitmap(iconSize, iconSize)
		for y, row := range rows {
			for x := 0; x < len(row) && x < iconSize; x++ {
				if row[x] == '#' {
					bm.SetPx(x, y, true)
				}
			}
		}
		out[name] = bm
	}
	return out
}

// DrawIcon stamps the named glyph with its top-left corner at (x, y).
func DrawIcon(dst *Bitmap, x, y int, name string, scale int) {
	bm, ok := icons[name]
	if !ok {
		// Placeholder: an outlined box, so a bad icon name is visible
		// on the panel instead of silently blank.
		side := iconSize * scale
		dst.Rect(x+scale, y+scale, x+side-scale-1, y+side-scale-1, scale)
		return
	}
	blitBlack(dst, bm, x, y, scale)
}
