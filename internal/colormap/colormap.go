// Package colormap turns danger levels into display colors. Two policies are
// provided: a continuous five-stop gradient over the observed danger range,
// and the discrete five-bucket split of the health-table range used by the
// editor. In both, a zero danger level means "no data" and always yields the
// default color, never the lowest bucket.
package colormap

import "fmt"

// NoDataColor is rendered for zones without danger data (zero danger level or
// no health table loaded).
const NoDataColor = "#888888"

// rgb is an 8-bit color triple.
type rgb struct{ r, g, b uint8 }

func (c rgb) hex() string { return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b) }

// The gradient stops: green, yellow, orange, red, dark red.
var gradientStops = [5]rgb{
	{0x00, 0xff, 0x00},
	{0xff, 0xff, 0x00},
	{0xff, 0xa5, 0x00},
	{0xff, 0x00, 0x00},
	{0x8b, 0x00, 0x00},
}

// Scale maps danger levels onto the continuous gradient. Min and Max are the
// global bounds over all zones with nonzero danger level.
type Scale struct {
	Min float64
	Max float64
}

// Hex returns the gradient color for a danger level, or NoDataColor for the
// zero sentinel.
func (s Scale) Hex(value float64) string {
	if value == 0 {
		return NoDataColor
	}
	return GradientHex(Normalize(value, s.Min, s.Max))
}

// Normalize maps value into [0,1] over [min,max]. A degenerate range (all
// values equal) maps to the gradient midpoint rather than dividing by zero.
func Normalize(value, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	n := (value - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// GradientHex maps a normalized value in [0,1] through the piecewise-linear
// green->yellow->orange->red->dark-red ramp. The segment boundaries sit at
// 0.25, 0.5, and 0.75; channels interpolate linearly within each segment, so
// 0 is pure green #00ff00 and 0.25 crosses yellow #ffff00.
func GradientHex(norm float64) string {
	if norm <= 0 {
		return gradientStops[0].hex()
	}
	if norm >= 1 {
		return gradientStops[4].hex()
	}
	seg := int(norm * 4)
	t := norm*4 - float64(seg)
	a, b := gradientStops[seg], gradientStops[seg+1]
	return rgb{
		r: lerp(a.r, b.r, t),
		g: lerp(a.g, b.g, t),
		b: lerp(a.b, b.b, t),
	}.hex()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// Bucket colors for the discrete policy: green, yellow-green, yellow, orange,
// red.
var bucketColors = [5]string{"#2ecc40", "#9acd32", "#ffdc00", "#ff851b", "#ff4136"}

// Buckets is the discrete five-bucket policy computed from the loaded health
// table's min/max range (a fixed proportional split, not true quantiles),
// independent of which zones reference it.
type Buckets struct {
	Min float64
	Max float64
}

// Hex returns the bucket color for a danger level. The zero sentinel and a
// missing health table always yield NoDataColor. A degenerate range collapses
// to the single lowest bucket.
func (b Buckets) Hex(value float64) string {
	if value == 0 {
		return NoDataColor
	}
	if b.Max <= b.Min {
		return bucketColors[0]
	}
	span := b.Max - b.Min
	idx := int((value - b.Min) / span * 5)
	if idx < 0 {
		idx = 0
	}
	if idx > 4 {
		idx = 4
	}
	return bucketColors[idx]
}
