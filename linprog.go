package orcaswarm

import "math"

// optMode selects the objective of the linear programs.
type optMode int

const (
	// optClosest finds the velocity closest to the optimization velocity.
	optClosest optMode = iota

	// optDirection finds the velocity farthest along the optimization
	// velocity, which must then be a unit vector.
	optDirection
)

// linearProgram1 solves the one-dimensional program on line i subject to
// lines[:i] and the disc of the given radius.
// It returns false if the feasible interval on line i is empty.
func linearProgram1(lines []Line, i int, radius float64, opt Vec2, mode optMode) (Vec2, bool) {
	l := lines[i]
	dot := l.Point.Dot(l.Direction)
	discriminant := sqr(dot) + sqr(radius) - l.Point.AbsSq()
	if discriminant < 0 {
		// max speed disc fully invalidates line i
		return Vec2{}, false
	}

	sqrtDiscriminant := math.Sqrt(discriminant)
	tLeft := -dot - sqrtDiscriminant
	tRight := -dot + sqrtDiscriminant

	for j := 0; j < i; j++ {
		denominator := Det(l.Direction, lines[j].Direction)
		numerator := Det(lines[j].Direction, l.Point.Sub(lines[j].Point))

		if math.Abs(denominator) <= epsilon {
			// lines i and j are (almost) parallel
			if numerator < 0 {
				return Vec2{}, false
			}
			continue
		}

		t := numerator / denominator
		if denominator >= 0 {
			tRight = math.Min(tRight, t)
		} else {
			tLeft = math.Max(tLeft, t)
		}
		if tLeft > tRight {
			return Vec2{}, false
		}
	}

	var t float64
	switch mode {
	case optDirection:
		if opt.Dot(l.Direction) > 0 {
			t = tRight
		} else {
			t = tLeft
		}
	default:
		t = l.Direction.Dot(opt.Sub(l.Point))
		t = math.Max(tLeft, math.Min(tRight, t))
	}

	result := l.Point.Add(l.Direction.Scale(t))
	if result.IsNaN() {
		return Vec2{}, false
	}
	return result, true
}

// linearProgram2 solves the two-dimensional program over all lines and the
// disc of the given radius. It returns the best velocity found and the index
// of the first line it failed on, or len(lines) on success.
func linearProgram2(lines []Line, radius float64, opt Vec2, mode optMode) (Vec2, int) {
	var result Vec2
	switch {
	case mode == optDirection:
		// opt is a unit vector here
		result = opt.Scale(radius)
	case opt.AbsSq() > sqr(radius):
		result = opt.Normalize().Scale(radius)
	default:
		result = opt
	}

	for i := range lines {
		if lines[i].violation(result) > 0 {
			r, ok := linearProgram1(lines, i, radius, opt, mode)
			if !ok {
				return result, i
			}
			result = r
		}
	}
	return result, len(lines)
}

// linearProgram3 is called when linearProgram2 failed on line begin.
// It keeps the first numObstLines lines as hard constraints and minimizes
// the maximum violation of the remaining ones. projLines is scratch space.
func linearProgram3(lines []Line, numObstLines, begin int, radius float64, result Vec2, projLines []Line) (Vec2, []Line) {
	distance := 0.0

	for i := begin; i < len(lines); i++ {
		if lines[i].violation(result) <= distance {
			continue
		}

		// result does not satisfy line i
		projLines = append(projLines[:0], lines[:numObstLines]...)
		for j := numObstLines; j < i; j++ {
			var line Line
			determinant := Det(lines[i].Direction, lines[j].Direction)
			if math.Abs(determinant) <= epsilon {
				// lines i and j are parallel
				if lines[i].Direction.Dot(lines[j].Direction) > 0 {
					continue
				}
				line.Point = lines[i].Point.Add(lines[j].Point).Scale(0.5)
			} else {
				t := Det(lines[j].Direction, lines[i].Point.Sub(lines[j].Point)) / determinant
				line.Point = lines[i].Point.Add(lines[i].Direction.Scale(t))
			}
			line.Direction = lines[j].Direction.Sub(lines[i].Direction).Normalize()
			projLines = append(projLines, line)
		}

		// the current result is feasible for projLines by construction,
		// failure here only comes from floating point error
		if r, fail := linearProgram2(projLines, radius, lines[i].Direction.Perp(), optDirection); fail == len(projLines) {
			result = r
		}
		distance = lines[i].violation(result)
	}
	return result, projLines
}
