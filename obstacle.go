package orcaswarm

import "go.uber.org/zap"

// An obstacle is one directed edge of a polygonal obstacle.
// Edges of a polygon form a closed cycle through their prev and next ids,
// which index Simulator.obstacles.
type obstacle struct {
	point    Vec2 // first vertex of the edge
	unitDir  Vec2 // unit direction toward the next vertex
	isConvex bool // convexity of the vertex at point
	prev     int
	next     int
	id       int
}

// AddObstacle adds a polygonal obstacle given by its vertices in
// counterclockwise order (clockwise for a bounding wall the agents stay inside).
// Two vertices describe a wall: a degenerate polygon whose two edges are both convex.
// It returns the id of the first vertex, or -1 if fewer than two vertices are given.
//
// ProcessObstacles must be called once all obstacles are added.
func (s *Simulator) AddObstacle(vertices []Vec2) int {
	if len(vertices) < 2 {
		s.log.Debug("obstacle rejected", zap.Int("vertices", len(vertices)))
		return -1
	}

	n := len(vertices)
	first := len(s.obstacles)
	for i, v := range vertices {
		next := vertices[(i+1)%n]
		o := obstacle{
			point:   v,
			unitDir: next.Sub(v).Normalize(),
			prev:    first + (i+n-1)%n,
			next:    first + (i+1)%n,
			id:      first + i,
		}
		if n == 2 {
			o.isConvex = true
		} else {
			o.isConvex = LeftOf(vertices[(i+n-1)%n], v, next) >= 0
		}
		s.obstacles = append(s.obstacles, o)
	}
	return first
}

// NumObstacleVertices returns the number of obstacle vertices,
// including those created by splitting edges in ProcessObstacles.
func (s *Simulator) NumObstacleVertices() int {
	return len(s.obstacles)
}

// ObstacleVertex returns the position of an obstacle vertex.
func (s *Simulator) ObstacleVertex(id int) Vec2 {
	return s.obstacles[id].point
}

// NextObstacleVertexNo returns the id of the vertex following id in its polygon.
func (s *Simulator) NextObstacleVertexNo(id int) int {
	return s.obstacles[id].next
}

// PrevObstacleVertexNo returns the id of the vertex preceding id in its polygon.
func (s *Simulator) PrevObstacleVertexNo(id int) int {
	return s.obstacles[id].prev
}

// ObstacleVertexConvex reports whether the vertex id is convex.
func (s *Simulator) ObstacleVertexConvex(id int) bool {
	return s.obstacles[id].isConvex
}

// splitObstacle splices a synthetic vertex at p into the edge starting at id
// and returns the id of the new vertex.
func (s *Simulator) splitObstacle(id int, p Vec2) int {
	j1 := s.obstacles[id]
	nid := len(s.obstacles)
	s.obstacles = append(s.obstacles, obstacle{
		point:    p,
		unitDir:  j1.unitDir,
		isConvex: true,
		prev:     id,
		next:     j1.next,
		id:       nid,
	})
	s.obstacles[j1.next].prev = nid
	s.obstacles[id].next = nid
	return nid
}
