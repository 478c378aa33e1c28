package geometry

// Rect is a world-space rectangle held as its two conventional corners:
// upleft is northwest, lowerright is southeast. A well-formed Rect satisfies
// XUpLeft < XLowerRight and ZUpLeft > ZLowerRight.
type Rect struct {
	XUpLeft     int
	ZUpLeft     int
	XLowerRight int
	ZLowerRight int
}

// Normalized returns the rectangle with corners swapped as needed so the
// upleft/lowerright convention holds. A flipped rectangle is silently
// corrected rather than tolerated.
func (r Rect) Normalized() Rect {
	if r.XUpLeft > r.XLowerRight {
		r.XUpLeft, r.XLowerRight = r.XLowerRight, r.XUpLeft
	}
	if r.ZUpLeft < r.ZLowerRight {
		r.ZUpLeft, r.ZLowerRight = r.ZLowerRight, r.ZUpLeft
	}
	return r
}

// Width is the east-west extent in world units.
func (r Rect) Width() int { return r.XLowerRight - r.XUpLeft }

// Height is the north-south extent in world units.
func (r Rect) Height() int { return r.ZUpLeft - r.ZLowerRight }
