package gesture

import "math"

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Vec2) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// ReferenceAngle returns the angle in degrees of the line from p1 to p2,
// measured with atan2 in screen coordinates (Y down), in (-180, 180].
func ReferenceAngle(p1, p2 Vec2) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X) * 180 / math.Pi
}

// Midpoint returns the point halfway between p1 and p2.
func Midpoint(p1, p2 Vec2) Vec2 {
	return Vec2{(p1.X + p2.X) / 2, (p1.Y + p2.Y) / 2}
}

// Length returns the magnitude of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// normalizeAngle folds an angle delta in degrees into (-180, 180].
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}
