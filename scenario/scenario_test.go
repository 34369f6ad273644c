package scenario

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoAgents = `
timeStep: 0.25
defaults:
  neighborDist: 15
  maxNeighbors: 10
  timeHorizon: 10
  timeHorizonObst: 10
  radius: 1.5
  maxSpeed: 2
agents:
  - position: [-10, 0]
    goal: [10, 0]
  - position: [10, 0]
    radius: 2
    maxSpeed: 1
obstacles:
  - [[-1, 5], [1, 5], [1, 7], [-1, 7]]
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(twoAgents))
	require.NoError(t, err)

	assert.Equal(t, 0.25, sc.TimeStep)
	assert.Equal(t, 10, sc.Defaults.MaxNeighbors)
	require.Len(t, sc.Agents, 2)
	assert.Equal(t, Point{X: -10}, sc.Agents[0].Position)
	require.NotNil(t, sc.Agents[0].Goal)
	assert.Equal(t, Point{X: 10}, *sc.Agents[0].Goal)
	assert.Nil(t, sc.Agents[1].Goal)
	require.NotNil(t, sc.Agents[1].Radius)
	assert.Equal(t, 2.0, *sc.Agents[1].Radius)
	require.Len(t, sc.Obstacles, 1)
	assert.Len(t, sc.Obstacles[0], 4)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"empty", ``, "timeStep"},
		{"unknown key", "timeStep: 1\nspeed: 3\n", "speed"},
		{"short point", "timeStep: 1\nagents:\n  - position: [1]\n", "2 coordinates"},
		{"no radius", "timeStep: 1\ndefaults:\n  timeHorizon: 1\n  timeHorizonObst: 1\n", "radius"},
		{
			"degenerate obstacle",
			"timeStep: 1\ndefaults:\n  radius: 1\n  timeHorizon: 1\n  timeHorizonObst: 1\nobstacles:\n  - [[0, 0]]\n",
			"obstacle 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadWrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeStep: -1\n"), 0644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "circle.yaml")
	want := Circle(4, 20)
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Defaults, got.Defaults)
	require.Len(t, got.Agents, 4)
	for i := range want.Agents {
		assert.InDelta(t, want.Agents[i].Position.X, got.Agents[i].Position.X, 1e-9)
		assert.InDelta(t, want.Agents[i].Position.Y, got.Agents[i].Position.Y, 1e-9)
	}
}

func TestBuild(t *testing.T) {
	sc, err := Parse([]byte(twoAgents))
	require.NoError(t, err)
	s := sc.Build()

	require.Equal(t, 2, s.NumAgents())
	assert.Equal(t, 0.25, s.TimeStep())
	assert.Equal(t, orcaswarm.Vec2{X: 10}, s.AgentGoal(0))
	assert.Equal(t, orcaswarm.Vec2{X: 10}, s.AgentGoal(1), "goal defaults to start")
	assert.Equal(t, 1.5, s.AgentRadius(0))
	assert.Equal(t, 2.0, s.AgentRadius(1))
	assert.Equal(t, 1.0, s.AgentMaxSpeed(1))
	assert.Equal(t, 4, s.NumObstacleVertices())
	assert.False(t, s.QueryVisibility(orcaswarm.Vec2{Y: 0}, orcaswarm.Vec2{Y: 10}, 0.1))
}

func TestCircle(t *testing.T) {
	sc := Circle(8, 50)
	require.Len(t, sc.Agents, 8)
	for _, a := range sc.Agents {
		assert.InDelta(t, 50, a.Position.Vec2().Abs(), 1e-9)
		assert.InDelta(t, 0, a.Position.X+a.Goal.X, 1e-9)
		assert.InDelta(t, 0, a.Position.Y+a.Goal.Y, 1e-9)
	}
	require.NoError(t, sc.Validate())
}

func TestBlocks(t *testing.T) {
	sc := Blocks()
	require.NoError(t, sc.Validate())
	s := sc.Build()
	assert.Equal(t, 100, s.NumAgents())
	assert.GreaterOrEqual(t, s.NumObstacleVertices(), 16)

	lo, hi := sc.Bounds(5)
	assert.Equal(t, orcaswarm.Vec2{X: -100, Y: -100}, lo)
	assert.Equal(t, orcaswarm.Vec2{X: 100, Y: 100}, hi)
}

func TestNamed(t *testing.T) {
	sc, ok := Named("circle", 3, 10)
	require.True(t, ok)
	assert.Len(t, sc.Agents, 3)

	_, ok = Named("spiral", 3, 10)
	assert.False(t, ok)
}

func TestSteerToGoals(t *testing.T) {
	s := orcaswarm.NewSimulator(0.25)
	s.SetAgentDefaults(15, 10, 10, 10, 1, 2, orcaswarm.Vec2{})
	far := s.AddAgent(orcaswarm.Vec2{})
	s.SetAgentGoal(far, orcaswarm.Vec2{X: 30, Y: 40})
	near := s.AddAgent(orcaswarm.Vec2{X: 100})
	s.SetAgentGoal(near, orcaswarm.Vec2{X: 100.5})
	gone := s.AddAgent(orcaswarm.Vec2{X: -100})
	s.SetAgentGoal(gone, orcaswarm.Vec2{X: -200})
	s.RemoveAgent(gone)

	SteerToGoals(s, nil)
	assert.InDelta(t, 0.6, s.AgentPrefVelocity(far).X, 1e-12)
	assert.InDelta(t, 0.8, s.AgentPrefVelocity(far).Y, 1e-12)
	assert.Equal(t, orcaswarm.Vec2{X: 0.5}, s.AgentPrefVelocity(near))
	assert.Equal(t, orcaswarm.Vec2{}, s.AgentPrefVelocity(gone))

	SteerToGoals(s, rand.New(rand.NewSource(1)))
	assert.InDelta(t, 0.5, s.AgentPrefVelocity(near).X, perturbation)
	assert.InDelta(t, 0, s.AgentPrefVelocity(near).Y, perturbation)
}

func TestSwapReachesGoals(t *testing.T) {
	sc := Circle(2, 10)
	s := sc.Build()
	for step := 0; step < 2000 && !s.ReachedGoal(); step++ {
		SteerToGoals(s, nil)
		s.Step()
		d := s.AgentPosition(0).Sub(s.AgentPosition(1)).Abs()
		require.GreaterOrEqual(t, d, 3-1e-4, "step %d", step)
	}
	assert.True(t, s.ReachedGoal())
}
