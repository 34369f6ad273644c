package orcaswarm

import "math"

// epsilon is the tolerance used by the geometric predicates and the LP solver.
const epsilon = 1e-5

// A Vec2 is a simple 2D vector. Arithmetic never mutates its operands.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns the sum u + v.
func (u Vec2) Add(v Vec2) Vec2 {
	return Vec2{u.X + v.X, u.Y + v.Y}
}

// Sub returns the difference u - v.
func (u Vec2) Sub(v Vec2) Vec2 {
	return Vec2{u.X - v.X, u.Y - v.Y}
}

// Scale returns u scaled by s.
func (u Vec2) Scale(s float64) Vec2 {
	return Vec2{s * u.X, s * u.Y}
}

// Neg returns -u.
func (u Vec2) Neg() Vec2 {
	return Vec2{-u.X, -u.Y}
}

// Dot returns the dot product of u and v.
func (u Vec2) Dot(v Vec2) float64 {
	return u.X*v.X + u.Y*v.Y
}

// AbsSq returns the squared length of u.
func (u Vec2) AbsSq() float64 {
	return u.X*u.X + u.Y*u.Y
}

// Abs returns the length of u.
func (u Vec2) Abs() float64 {
	return math.Sqrt(u.AbsSq())
}

// Normalize returns the unit vector pointing like u,
// or the zero vector if u is zero.
func (u Vec2) Normalize() Vec2 {
	l := u.Abs()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{u.X / l, u.Y / l}
}

// Perp returns u rotated by a quarter turn counterclockwise.
func (u Vec2) Perp() Vec2 {
	return Vec2{-u.Y, u.X}
}

// IsNaN reports whether either coordinate of u is NaN.
func (u Vec2) IsNaN() bool {
	return math.IsNaN(u.X) || math.IsNaN(u.Y)
}

// Det returns the determinant of the 2x2 matrix with rows u and v.
// It is positive when v is counterclockwise from u.
func Det(u, v Vec2) float64 {
	return u.X*v.Y - u.Y*v.X
}

// LeftOf returns a positive value if c lies left of the directed line
// from a to b, a negative value if it lies right of it, and zero if the
// three points are collinear.
func LeftOf(a, b, c Vec2) float64 {
	return Det(a.Sub(c), b.Sub(a))
}

// DistSqPointLineSegment returns the squared distance from c to the segment [a, b].
func DistSqPointLineSegment(a, b, c Vec2) float64 {
	ab := b.Sub(a)
	n := ab.AbsSq()
	if n == 0 {
		return c.Sub(a).AbsSq()
	}
	r := c.Sub(a).Dot(ab) / n
	switch {
	case r < 0:
		return c.Sub(a).AbsSq()
	case r > 1:
		return c.Sub(b).AbsSq()
	}
	return c.Sub(a.Add(ab.Scale(r))).AbsSq()
}

func sqr(x float64) float64 {
	return x * x
}
