package compositor

import (
	"image"
	"math"
)

const (
	headerTop      = 20
	headerGap      = 20
	headerFallback = 50
	footerOffset   = 50
	lineSpacing    = 20
	imageReserve   = 450
	imageGap       = 50
	diagramGap     = 50
)

var (
	logoBox    = image.Pt(200, 100)
	imageBox   = image.Pt(600, 400)
	diagramBox = image.Pt(800, 600)
)

// LayoutInput carries the measured pieces of one slide.
type LayoutInput struct {
	Canvas image.Point
	// Logo is the fitted brand mark size; the zero value means no mark.
	Logo image.Point
	// Lines holds the ink size of every display line.
	Lines []image.Point
	// ReserveImage adds the fixed supplementary-image allowance.
	ReserveImage bool
	// Diagram is the fitted diagram size; the zero value means no diagram.
	Diagram image.Point
}

// Layout is the vertical placement computed for a slide.
type Layout struct {
	HeaderBottom  int
	FooterY       int
	ContentHeight int
	ContentStartY int
	// LineTops holds the top y of each line in order.
	LineTops []int
	// AfterText is the y where the first block below the text starts.
	AfterText int
}

// ComputeLayout places the header, footer, and text block.
func ComputeLayout(in LayoutInput) Layout {
	l := Layout{
		HeaderBottom: headerFallback,
		FooterY:      in.Canvas.Y - footerOffset,
	}
	if in.Logo != (image.Point{}) {
		l.HeaderBottom = headerTop + in.Logo.Y + headerGap
	}

	textHeight := 0
	for _, line := range in.Lines {
		textHeight += line.Y + lineSpacing
	}
	l.ContentHeight = textHeight
	if in.ReserveImage {
		l.ContentHeight += imageReserve
	}
	if in.Diagram != (image.Point{}) {
		l.ContentHeight += in.Diagram.Y + diagramGap
	}

	available := l.FooterY - l.HeaderBottom
	l.ContentStartY = l.HeaderBottom + floorDiv(available-l.ContentHeight, 2)

	y := l.ContentStartY
	l.LineTops = make([]int, len(in.Lines))
	for i, line := range in.Lines {
		l.LineTops[i] = y
		y += line.Y + lineSpacing
	}
	l.AfterText = y
	return l
}

// CenterX returns the left edge that centers width on a canvas of canvasWidth.
func CenterX(canvasWidth, width int) int {
	return floorDiv(canvasWidth-width, 2)
}

// FitWithin shrinks size to fit inside box preserving aspect ratio. Sizes that
// already fit are returned unchanged; images are never enlarged.
func FitWithin(size, box image.Point) image.Point {
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}
	}
	if size.X <= box.X && size.Y <= box.Y {
		return size
	}
	scale := math.Min(float64(box.X)/float64(size.X), float64(box.Y)/float64(size.Y))
	w := max(1, int(math.Round(float64(size.X)*scale)))
	h := max(1, int(math.Round(float64(size.Y)*scale)))
	return image.Pt(min(w, box.X), min(h, box.Y))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
