package opengl

import (
	"github.com/PrincetonUniversity/orcaswarm"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Step       func() // go to next step
	ForcePause bool   // step manually only?
	Title      string // window title

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// A viewport is a rectangle delimiting the area of simulation space shown on screen.
// The first point is the bottom left corner, the second point is the top right corner.
type viewport [2]struct{ X, Y float32 }

func defaultViewport(conf *Config) viewport {
	return viewport{{float32(conf.Xmin), float32(conf.Ymin)}, {float32(conf.Xmax), float32(conf.Ymax)}}
}

// zoom scales the viewport by a factor 1-z around the point (x, y)
// given in [0, 1] window coordinates, with y pointing up.
func (vp *viewport) zoom(x, y, z float32) {
	dx, dy := vp[1].X-vp[0].X, vp[1].Y-vp[0].Y
	vp[0].X += z * (x * dx)
	vp[0].Y += z * (y * dy)
	vp[1].X -= z * (1 - x) * dx
	vp[1].Y -= z * (1 - y) * dy
}

// nextFocal cycles through agents then -1 (no focal agent), backward if back is set.
func nextFocal(focal, n int, back bool) int {
	if back {
		focal--
	} else {
		focal++
	}
	return (n+focal+2)%(n+1) - 1
}

// Vertex layouts, in float32 units.
const (
	discStride = 7 // x, y, radius, r, g, b, a
	lineStride = 6 // x, y, r, g, b, a
)

var (
	agentColor   = [4]float32{1, 1, 0, 1}
	relaxedColor = [4]float32{1, 0.5, 0, 1}
	focalColor   = [4]float32{1, 0, 0, 1}
	wallColor    = [4]float32{0.6, 0.6, 0.6, 1}
	orcaColor    = [4]float32{0, 0.8, 1, 0.8}
	velColor     = [4]float32{0, 1, 0, 1}
)

// discVertices appends one vertex per active agent to buf.
func discVertices(buf []float32, s *orcaswarm.Simulator, focal int) []float32 {
	for i := 0; i < s.NumAgents(); i++ {
		if s.AgentRemoved(i) {
			continue
		}
		c := agentColor
		switch {
		case i == focal:
			c = focalColor
		case s.AgentRelaxed(i):
			c = relaxedColor
		}
		p := s.AgentPosition(i)
		buf = append(buf, float32(p.X), float32(p.Y), float32(s.AgentRadius(i)), c[0], c[1], c[2], c[3])
	}
	return buf
}

// orcaLineLength is the drawn length of each ORCA line of the focal agent.
const orcaLineLength = 4

// lineVertices appends two vertices per obstacle edge to buf, then, if
// focal is an active agent, its velocity and its ORCA lines drawn in
// velocity space centered on the agent.
func lineVertices(buf []float32, s *orcaswarm.Simulator, focal int) []float32 {
	add := func(a, b orcaswarm.Vec2, c [4]float32) {
		buf = append(buf,
			float32(a.X), float32(a.Y), c[0], c[1], c[2], c[3],
			float32(b.X), float32(b.Y), c[0], c[1], c[2], c[3])
	}
	for i := 0; i < s.NumObstacleVertices(); i++ {
		add(s.ObstacleVertex(i), s.ObstacleVertex(s.NextObstacleVertexNo(i)), wallColor)
	}

	if focal < 0 || focal >= s.NumAgents() || s.AgentRemoved(focal) {
		return buf
	}
	p := s.AgentPosition(focal)
	add(p, p.Add(s.AgentVelocity(focal)), velColor)
	for _, l := range s.AgentOrcaLines(focal) {
		c := p.Add(l.Point)
		half := l.Direction.Scale(orcaLineLength / 2)
		add(c.Sub(half), c.Add(half), orcaColor)
	}
	return buf
}
