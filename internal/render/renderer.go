package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"habitink/internal/domain"
)

// Canvas dimensions for the Waveshare 7.5" V2 panel.
const (
	Width  = 800
	Height = 480
)

// Layout constants.
const (
	margin       = 20
	headerHeight = 60
	footerHeight = 80
	rowHeight    = 50
	iconScale    = 2 // 16px glyphs drawn at 32px
	checkboxSize = 28

	// Split layout: heatmap panel on the left of a vertical divider.
	heatmapPanelWidth = 340
	dividerX          = heatmapPanelWidth + margin

	barSegments   = 16
	segmentWidth  = 20
	segmentGap    = 2
	labelMaxChars = 22
)

// Row is one habit line on the panel.
type Row struct {
	Icon  string
	Label string
	Done  bool
}

// Model is the fully-resolved, immutable snapshot the renderer consumes.
// Identical models and options always produce byte-identical rasters.
type Model struct {
	Date      time.Time
	Rows      []Row
	Completed int
	Total     int
	Streak    int
	// Heatmap enables the split layout when non-nil.
	Heatmap *domain.Heatmap
}

// Options are presentation switches that do not depend on remote data.
type Options struct {
	Rotation   int // 0, 90, 180 or 270; applied as a final whole-canvas transform
	ShowStreak bool
}

// Render lays out the snapshot onto a fresh 800x480 1-bit canvas.
// It is a pure function of its inputs.
func Render(m Model, opts Options) *Bitmap {
	b := NewBitmap(Width, Height)

	drawBorder(b)
	drawHeader(b, m.Date)

	if m.Heatmap != nil {
		b.VLine(dividerX, headerHeight+5, Height-footerHeight-5, 2)
		drawHeatmap(b, m.Heatmap)
		drawRows(b, m.Rows, dividerX+10, Width-margin-20, headerHeight+15, rowHeight-5)
	} else {
		drawRows(b, m.Rows, margin+30, Width-margin, headerHeight+30, rowHeight)
	}

	drawFooter(b, m, opts)

	if opts.Rotation != 0 {
		return b.Rotate(opts.Rotation)
	}
	return b
}

// FilledSegments computes how many progress-bar segments are filled:
// round(completed/total x segments).
func FilledSegments(completed, total, segments int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * float64(segments)))
}

func drawBorder(b *Bitmap) {
	// Double-line retro border.
	b.Rect(4, 4, Width-5, Height-5, 2)
	b.Rect(10, 10, Width-11, Height-11, 1)
}

func drawHeader(b *Bitmap, date time.Time) {
	DrawText(b, margin+40, 18, "* DAILY QUESTS *", 2)

	dateStr := strings.ToUpper(date.Format("Mon * Jan 02 * 2006"))
	DrawText(b, Width-margin-40-TextWidth(dateStr, 2), 22, dateStr, 2)

	b.HLine(margin, Width-margin, headerHeight, 2)
}

func drawRows(b *Bitmap, rows []Row, startX, endX, startY, maxRowHeight int) {
	if len(rows) == 0 {
		return
	}
	available := Height - startY - footerHeight - 10
	rh := available / len(rows)
	if rh > maxRowHeight {
		rh = maxRowHeight
	}

	for i, row := range rows {
		y := startY + i*rh

		iconY := y + (rh-iconSize*iconScale)/2
		DrawIcon(b, startX, iconY, row.Icon, iconScale)

		label := Truncate(row.Label, labelMaxChars)
		textY := y + (rh-glyphHeight*2)/2
		DrawText(b, startX+iconSize*iconScale+15, textY, label, 2)

		boxY := y + (rh-checkboxSize)/2
		drawCheckbox(b, endX-40, boxY, row.Done)
	}
}

func drawCheckbox(b *Bitmap, x, y int, checked bool) {
	b.Rect(x, y, x+checkboxSize, y+checkboxSize, 2)
	if !checked {
		return
	}
	// Pixel checkmark, thickened by stacking offset strokes.
	for d := -1; d <= 1; d++ {
		b.Line(x+6, y+14+d, x+11, y+20+d)
		b.Line(x+11, y+20+d, x+22, y+8+d)
	}
}

func drawFooter(b *Bitmap, m Model, opts Options) {
	footerY := Height - footerHeight
	b.HLine(margin, Width-margin, footerY, 2)

	centerX := Width / 2
	label := fmt.Sprintf("QUEST PROGRESS  %d/%d DONE", m.Completed, m.Total)
	DrawText(b, centerX-TextWidth(label, 1)/2, footerY+10, label, 1)

	barWidth := barSegments*segmentWidth + (barSegments-1)*segmentGap
	barX := centerX - barWidth/2
	barY := footerY + 28
	barH := 16
	b.Rect(barX-4, barY-4, barX+barWidth+3, barY+barH+3, 2)

	filled := FilledSegments(m.Completed, m.Total, barSegments)
	for i := 0; i < filled; i++ {
		x := barX + i*(segmentWidth+segmentGap)
		b.FillRect(x, barY, x+segmentWidth-1, barY+barH-1)
	}

	if opts.ShowStreak && m.Streak > 0 {
		badge := fmt.Sprintf("* STREAK: %d DAYS *", m.Streak)
		DrawText(b, centerX-TextWidth(badge, 1)/2, barY+barH+9, badge, 1)
	}
}

// Heatmap panel: one column per week, one row per weekday (Sunday
// first), newest week on the right.
func drawHeatmap(b *Bitmap, hm *domain.Heatmap) {
	panelCenter := margin + heatmapPanelWidth/2

	title := fmt.Sprintf("LAST %d WEEKS", hm.Weeks)
	DrawText(b, panelCenter-TextWidth(title, 1)/2, headerHeight+14, title, 1)

	labelX := margin + 10
	gridX := labelX + 16
	gridY := headerHeight + 38

	step := (margin + heatmapPanelWidth - gridX - 4) / hm.Weeks
	if step > 28 {
		step = 28
	}
	cell := step - 3

	dayLabels := [7]string{"S", "M", "T", "W", "T", "F", "S"}
	for d := 0; d < 7; d++ {
		DrawText(b, labelX, gridY+d*step+(cell-glyphHeight)/2, dayLabels[d], 1)
	}

	for w := 0; w < hm.Weeks; w++ {
		for d := 0; d < 7; d++ {
			frac := hm.At(w, d)
			if frac == domain.CellOutside {
				continue
			}
			drawCell(b, gridX+w*step, gridY+d*step, cell, shade(frac))
		}
	}

	// Legend: LESS [0 1 2 3] MORE, centered under the grid.
	legendY := gridY + 7*step + 14
	legendCell := 14
	legendStep := legendCell + 4
	legendW := TextWidth("LESS", 1) + 8 + 4*legendStep + 4 + TextWidth("MORE", 1)
	x := panelCenter - legendW/2
	DrawText(b, x, legendY, "LESS", 1)
	x += TextWidth("LESS", 1) + 8
	for s := 0; s < 4; s++ {
		drawCell(b, x, legendY-1, legendCell, s)
		x += legendStep
	}
	DrawText(b, x+4, legendY, "MORE", 1)
}

// shade quantizes a completion fraction into the 4-step 1-bit palette.
func shade(frac float64) int {
	switch {
	case frac <= 0:
		return 0
	case frac < 0.5:
		return 1
	case frac < 1:
		return 2
	default:
		return 3
	}
}

// drawCell renders one heatmap cell. The physical medium has no
// greyscale, so intermediate shades use hatch patterns: outline only,
// sparse diagonal hatch, dense crosshatch, solid fill.
func drawCell(b *Bitmap, x, y, size, level int) {
	b.Rect(x, y, x+size-1, y+size-1, 1)
	switch level {
	case 1:
		hatch(b, x, y, size, 4, false)
	case 2:
		hatch(b, x, y, size, 3, true)
	case 3:
		b.FillRect(x+1, y+1, x+size-2, y+size-2)
	}
}

// hatch draws diagonals on the anti-diagonal axis (x+y = const), plus
// the main-diagonal axis when cross is set.
func hatch(b *Bitmap, x, y, size, spacing int, cross bool) {
	for i := 0; i < 2*size; i += spacing {
		x0 := max(0, i-size+1)
		y0 := min(i, size-1)
		x1 := min(i, size-1)
		y1 := max(0, i-size+1)
		b.Line(x+x0, y+y0, x+x1, y+y1)
		if cross {
			d := i - (size - 1)
			b.Line(x+max(0, d), y+max(0, -d), x+size-1-max(0, -d), y+size-1-max(0, d))
		}
	}
}
