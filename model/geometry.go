package model

import "math"

// BBox is an element's bounding box in a bottom-left-origin space, so
// larger Y values are higher on the page.
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom
	Width  float64
	Height float64
}

// NewBBoxFromCorners creates a bounding box from the (x0, y0, x1, y1) corner
// form used by extraction services. The corners may be given in any order.
func NewBBoxFromCorners(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X:      min(x0, x1),
		Y:      min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y + b.Height
}
