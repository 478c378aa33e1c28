// Package geometry provides the bidirectional mapping between game world
// coordinates and background-image pixel coordinates, and rectangle helpers
// built on it.
package geometry

import (
	"fmt"
	"math"
)

// Transform converts between world units and image pixels for a square world
// rendered onto a square image. World Z increases northward, away from the
// image's top edge, so the Z axis is inverted relative to pixel Y.
type Transform struct {
	WorldSize int
	ImageSize int
}

// NewTransform builds a Transform.
//
// Precondition: worldSize and imageSize must be positive.
// Postcondition: returns a usable Transform or a non-nil error.
func NewTransform(worldSize, imageSize int) (Transform, error) {
	if worldSize <= 0 {
		return Transform{}, fmt.Errorf("world size must be positive, got %d", worldSize)
	}
	if imageSize <= 0 {
		return Transform{}, fmt.Errorf("image size must be positive, got %d", imageSize)
	}
	return Transform{WorldSize: worldSize, ImageSize: imageSize}, nil
}

// Scale returns the pixels-per-world-unit factor.
func (t Transform) Scale() float64 {
	return float64(t.ImageSize) / float64(t.WorldSize)
}

// WorldToPixel maps a world coordinate pair to image pixels.
func (t Transform) WorldToPixel(x, z int) (px, py float64) {
	s := t.Scale()
	return float64(x) * s, float64(t.ImageSize) - float64(z)*s
}

// PixelToWorld maps an image pixel position back to integer world
// coordinates. It is the inverse of WorldToPixel up to rounding: for any
// integer x, z within world bounds the round trip differs by at most one
// world unit.
func (t Transform) PixelToWorld(px, py float64) (x, z int) {
	s := float64(t.WorldSize) / float64(t.ImageSize)
	x = int(math.Round(px * s))
	z = int(math.Round((float64(t.ImageSize) - py) * s))
	return x, z
}

// PixelDeltaToWorld converts a pixel-space displacement to world units.
// Pixel Y grows downward, so a positive dpy moves south (negative world Z).
func (t Transform) PixelDeltaToWorld(dpx, dpy float64) (dx, dz int) {
	s := float64(t.WorldSize) / float64(t.ImageSize)
	dx = int(math.Round(dpx * s))
	dz = int(math.Round(-dpy * s))
	return dx, dz
}
