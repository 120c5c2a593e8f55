package overlay

// VisibleWindow returns the half-open range [first, last) of at most fit
// entries out of total, keeping selected roughly centred.
func VisibleWindow(selected, total, fit int) (first, last int) {
	if total <= 0 {
		return 0, 0
	}
	if fit < 1 {
		fit = 1
	}
	if fit >= total {
		return 0, total
	}
	if selected < 0 {
		selected = 0
	}
	if selected >= total {
		selected = total - 1
	}

	first = selected - fit/2
	if first < 0 {
		first = 0
	}
	if first > total-fit {
		first = total - fit
	}
	return first, first + fit
}

// Rect is an axis-aligned rectangle in overlay pixels
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (px, py) lies inside r, edges included
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px <= r.X+r.W && py >= r.Y && py <= r.Y+r.H
}
