package orcaswarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(half float64) []Vec2 {
	return []Vec2{{-half, -half}, {half, -half}, {half, half}, {-half, half}}
}

func TestAddObstacleTooFewVertices(t *testing.T) {
	s := NewSimulator(0.25)
	assert.Equal(t, -1, s.AddObstacle(nil))
	assert.Equal(t, -1, s.AddObstacle([]Vec2{{1, 1}}))
	assert.Equal(t, 0, s.NumObstacleVertices())
}

func TestAddObstacleWall(t *testing.T) {
	s := NewSimulator(0.25)
	id := s.AddObstacle([]Vec2{{0, 0}, {4, 0}})
	require.Equal(t, 0, id)
	require.Equal(t, 2, s.NumObstacleVertices())

	assert.Equal(t, 1, s.NextObstacleVertexNo(0))
	assert.Equal(t, 0, s.NextObstacleVertexNo(1))
	assert.Equal(t, 1, s.PrevObstacleVertexNo(0))
	assert.Equal(t, 0, s.PrevObstacleVertexNo(1))
	assert.True(t, s.ObstacleVertexConvex(0))
	assert.True(t, s.ObstacleVertexConvex(1))
	assert.Equal(t, Vec2{1, 0}, s.obstacles[0].unitDir)
	assert.Equal(t, Vec2{-1, 0}, s.obstacles[1].unitDir)
}

func TestAddObstacleConvexity(t *testing.T) {
	s := NewSimulator(0.25)
	first := s.AddObstacle(square(1))
	for i := 0; i < 4; i++ {
		assert.True(t, s.ObstacleVertexConvex(first+i), "vertex %d", i)
	}

	// an L shape has one reflex corner at (1, 1)
	second := s.AddObstacle([]Vec2{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}})
	assert.Equal(t, 4, second)
	for i := 0; i < 6; i++ {
		assert.Equal(t, i != 3, s.ObstacleVertexConvex(second+i), "vertex %d", i)
	}
	assert.Equal(t, second, s.NextObstacleVertexNo(second+5))
	assert.Equal(t, Vec2{1, 1}, s.ObstacleVertex(second+3))
}

// cycleConsistent checks that prev and next of every vertex agree and that
// each cycle closes.
func cycleConsistent(t *testing.T, s *Simulator) {
	t.Helper()
	n := s.NumObstacleVertices()
	for i := 0; i < n; i++ {
		assert.Equal(t, i, s.PrevObstacleVertexNo(s.NextObstacleVertexNo(i)), "vertex %d", i)
		j, steps := s.NextObstacleVertexNo(i), 1
		for j != i && steps <= n {
			j = s.NextObstacleVertexNo(j)
			steps++
		}
		assert.Equal(t, i, j, "cycle from %d does not close", i)
	}
}

func TestProcessObstaclesSplitsCrossingWalls(t *testing.T) {
	s := NewSimulator(0.25)
	s.AddObstacle([]Vec2{{-1, 0}, {1, 0}})
	s.AddObstacle([]Vec2{{0, -1}, {0, 1}})
	s.ProcessObstacles()

	// both edges of the vertical wall are cut at the origin
	require.Equal(t, 6, s.NumObstacleVertices())
	assert.Equal(t, Vec2{0, 0}, s.ObstacleVertex(4))
	assert.Equal(t, Vec2{0, 0}, s.ObstacleVertex(5))
	assert.True(t, s.ObstacleVertexConvex(4))
	cycleConsistent(t, s)

	// the split vertices inherit the direction of the edge they cut
	assert.Equal(t, s.obstacles[2].unitDir, s.obstacles[4].unitDir)
	assert.Equal(t, s.obstacles[3].unitDir, s.obstacles[5].unitDir)
}

func TestProcessObstaclesNoSplit(t *testing.T) {
	s := NewSimulator(0.25)
	s.AddObstacle(square(1))
	s.ProcessObstacles()
	assert.Equal(t, 4, s.NumObstacleVertices())
	cycleConsistent(t, s)
}

func TestQueryVisibility(t *testing.T) {
	s := NewSimulator(0.25)
	assert.True(t, s.QueryVisibility(Vec2{-5, 0}, Vec2{5, 0}, 0.5), "no obstacles")

	s.AddObstacle(square(1))
	s.ProcessObstacles()

	tests := []struct {
		name   string
		q1, q2 Vec2
		radius float64
		want   bool
	}{
		{"through", Vec2{-5, 0}, Vec2{5, 0}, 0.5, false},
		{"above", Vec2{-5, 3}, Vec2{5, 3}, 0.5, true},
		{"grazing", Vec2{-5, 1.2}, Vec2{5, 1.2}, 0.5, false},
		{"grazing thin", Vec2{-5, 1.2}, Vec2{5, 1.2}, 0.1, true},
		{"same side", Vec2{-5, -5}, Vec2{-5, 5}, 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.QueryVisibility(tt.q1, tt.q2, tt.radius))
		})
	}
}

func TestAgentStaysOutOfObstacle(t *testing.T) {
	s := NewSimulator(0.25)
	s.SetAgentDefaults(15, 10, 5, 5, 0.5, 1, Vec2{})
	s.AddObstacle(square(1))
	s.ProcessObstacles()
	i := s.AddAgent(Vec2{0.2, 5})

	for step := 0; step < 100; step++ {
		s.SetAgentPrefVelocity(i, Vec2{0, -1})
		s.Step()
		p := s.AgentPosition(i)
		for v := 0; v < 4; v++ {
			a := s.ObstacleVertex(v)
			b := s.ObstacleVertex(s.NextObstacleVertexNo(v))
			assert.GreaterOrEqual(t, DistSqPointLineSegment(a, b, p), 0.25-1e-3,
				"step %d edge %d", step, v)
		}
	}
	assert.Greater(t, s.AgentNumObstacleNeighbors(i), 0)
	assert.Equal(t, 2, s.AgentObstacleNeighbor(i, 0), "top edge is nearest")
}
