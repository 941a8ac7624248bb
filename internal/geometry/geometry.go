// Package geometry provides the pure window placement math shared by the
// window manager and the desktop input handlers: clamping to the desktop
// area, edge snapping, corner-anchored resizing, and snap layouts.
package geometry

// Rect is a window rectangle in cell coordinates. X/Y is the top-left
// corner; Width/Height are always positive.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the cell at (x, y) falls inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Minimum window dimensions enforced by every resize and clamp operation.
const (
	MinWidth  = 20
	MinHeight = 6
)

// SnapThreshold is how close (in cells) a window edge must be to a desktop
// edge before ClampAndSnap pulls it flush.
const SnapThreshold = 10

// Clamp constrains r to stay fully inside an area of the given size.
// Windows larger than the area are pinned to the top-left edge.
func Clamp(r Rect, areaWidth, areaHeight int) Rect {
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.Width > areaWidth {
		r.X = areaWidth - r.Width
		if r.X < 0 {
			r.X = 0
		}
	}
	if r.Y+r.Height > areaHeight {
		r.Y = areaHeight - r.Height
		if r.Y < 0 {
			r.Y = 0
		}
	}
	return r
}

// ClampAndSnap clamps r to the area and then pulls edges within
// SnapThreshold flush against the corresponding desktop edge.
func ClampAndSnap(r Rect, areaWidth, areaHeight int) Rect {
	r = Clamp(r, areaWidth, areaHeight)

	if r.X < SnapThreshold {
		r.X = 0
	} else if areaWidth-(r.X+r.Width) < SnapThreshold {
		r.X = areaWidth - r.Width
	}

	if r.Y < SnapThreshold {
		r.Y = 0
	} else if areaHeight-(r.Y+r.Height) < SnapThreshold {
		r.Y = areaHeight - r.Height
	}

	return Clamp(r, areaWidth, areaHeight)
}

// Centered returns a rectangle of the given size centered in the area,
// clamped so it never starts off-screen.
func Centered(width, height, areaWidth, areaHeight int) Rect {
	r := Rect{
		X:      (areaWidth - width) / 2,
		Y:      (areaHeight - height) / 2,
		Width:  width,
		Height: height,
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}

// Corner identifies which corner a resize drag is anchored to.
type Corner int

const (
	CornerNone Corner = iota
	CornerTopLeft
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// HitCorner returns which corner of r the cell (x, y) touches, or
// CornerNone. Only the exact corner cells count as resize handles.
func HitCorner(r Rect, x, y int) Corner {
	onLeft := x == r.X
	onRight := x == r.Right()-1
	onTop := y == r.Y
	onBottom := y == r.Bottom()-1
	switch {
	case onTop && onLeft:
		return CornerTopLeft
	case onTop && onRight:
		return CornerTopRight
	case onBottom && onLeft:
		return CornerBottomLeft
	case onBottom && onRight:
		return CornerBottomRight
	}
	return CornerNone
}

// ResizeFromCorner computes new bounds for a resize drag. The original
// rect is the bounds at drag start, (x, y) is the current pointer cell,
// and corner is the handle being dragged. The opposite corner stays
// fixed and dimensions never shrink below the minimums.
func ResizeFromCorner(original Rect, corner Corner, x, y int) Rect {
	r := original
	switch corner {
	case CornerBottomRight:
		r.Width = x - original.X + 1
		r.Height = y - original.Y + 1
	case CornerBottomLeft:
		r.Width = original.Right() - x
		r.Height = y - original.Y + 1
		r.X = x
	case CornerTopRight:
		r.Width = x - original.X + 1
		r.Height = original.Bottom() - y
		r.Y = y
	case CornerTopLeft:
		r.Width = original.Right() - x
		r.Height = original.Bottom() - y
		r.X = x
		r.Y = y
	default:
		return original
	}

	if r.Width < MinWidth {
		r.Width = MinWidth
		// Keep the opposite edge anchored when the left edge moved.
		if corner == CornerTopLeft || corner == CornerBottomLeft {
			r.X = original.Right() - MinWidth
		}
	}
	if r.Height < MinHeight {
		r.Height = MinHeight
		if corner == CornerTopLeft || corner == CornerTopRight {
			r.Y = original.Bottom() - MinHeight
		}
	}
	return r
}

// Quarter identifies a snap layout slot.
type Quarter int

const (
	QuarterNone Quarter = iota
	QuarterLeft
	QuarterRight
	QuarterTopLeft
	QuarterTopRight
	QuarterBottomLeft
	QuarterBottomRight
	QuarterFull
)

// QuarterRect returns the bounds for a snap slot in the given area.
// Odd widths and heights round in favor of the left/top slot.
func QuarterRect(q Quarter, areaWidth, areaHeight int) Rect {
	halfW := areaWidth / 2
	halfH := areaHeight / 2
	switch q {
	case QuarterLeft:
		return Rect{X: 0, Y: 0, Width: halfW, Height: areaHeight}
	case QuarterRight:
		return Rect{X: halfW, Y: 0, Width: areaWidth - halfW, Height: areaHeight}
	case QuarterTopLeft:
		return Rect{X: 0, Y: 0, Width: halfW, Height: halfH}
	case QuarterTopRight:
		return Rect{X: halfW, Y: 0, Width: areaWidth - halfW, Height: halfH}
	case QuarterBottomLeft:
		return Rect{X: 0, Y: halfH, Width: halfW, Height: areaHeight - halfH}
	case QuarterBottomRight:
		return Rect{X: halfW, Y: halfH, Width: areaWidth - halfW, Height: areaHeight - halfH}
	case QuarterFull:
		return Rect{X: 0, Y: 0, Width: areaWidth, Height: areaHeight}
	}
	return Rect{Width: MinWidth, Height: MinHeight}
}
