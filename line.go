package orcaswarm

// A Line is a directed line in velocity space.
// The velocities it permits lie on its left side, including the line itself.
type Line struct {
	Point     Vec2 // a point on the line
	Direction Vec2 // unit direction of the line
}

// Permits reports whether v satisfies the half-plane constraint of l
// within the given tolerance.
func (l Line) Permits(v Vec2, tol float64) bool {
	return Det(l.Direction, l.Point.Sub(v)) <= tol
}

// violation returns how far v lies on the forbidden side of l.
// Negative values mean v is permitted.
func (l Line) violation(v Vec2) float64 {
	return Det(l.Direction, l.Point.Sub(v))
}
