package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/PrincetonUniversity/orcaswarm/hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record writes 3 steps of an agent moving right past a wall.
func record(t *testing.T) string {
	s := orcaswarm.NewSimulator(1)
	s.SetAgentDefaults(15, 10, 10, 10, 0.5, 1, orcaswarm.Vec2{})
	s.AddAgent(orcaswarm.Vec2{})
	s.AddAgent(orcaswarm.Vec2{X: -20})
	s.SetAgentPrefVelocity(0, orcaswarm.Vec2{X: 1})
	s.AddObstacle([]orcaswarm.Vec2{{X: 0, Y: 5}, {X: 4, Y: 5}})
	s.ProcessObstacles()

	step := func() {
		s.Step()
		if s.GlobalTime() == 1 {
			s.RemoveAgent(1)
		}
	}
	path := filepath.Join(t.TempDir(), "run.h5")
	require.NoError(t, hdf5.Run(s, &hdf5.Config{
		Output:   path,
		Steps:    3,
		Step:     step,
		Datasets: []*hdf5.Dataset{hdf5.Agents(s.NumAgents())},
		Params:   &struct{ Steps int }{3},
	}))
	return path
}

func TestReplay(t *testing.T) {
	r, err := open(record(t), "agents")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 2, r.s.NumAgents())
	assert.Equal(t, 4, r.s.NumObstacleVertices())
	assert.Equal(t, orcaswarm.Vec2{}, r.s.AgentPosition(0))
	assert.Equal(t, 0.5, r.s.AgentRadius(0))
	assert.False(t, r.s.AgentRemoved(1))

	require.NoError(t, r.Next())
	assert.InDelta(t, 1, r.s.AgentPosition(0).X, 1e-12)
	assert.True(t, r.s.AgentRemoved(1))

	require.NoError(t, r.Next())
	assert.InDelta(t, 2, r.s.AgentPosition(0).X, 1e-12)

	// loops back, removal sticks
	require.NoError(t, r.Next())
	assert.Equal(t, orcaswarm.Vec2{}, r.s.AgentPosition(0))
	assert.True(t, r.s.AgentRemoved(1))

	lo, hi := r.Bounds(1)
	assert.Equal(t, orcaswarm.Vec2{X: -21, Y: -1}, lo)
	assert.Equal(t, orcaswarm.Vec2{X: 5, Y: 6}, hi)
}

func TestOpenErrors(t *testing.T) {
	_, err := open(filepath.Join(t.TempDir(), "missing.h5"), "agents")
	assert.Error(t, err)

	_, err = open(record(t), "particles")
	assert.Error(t, err)
}

func TestBoundsEmpty(t *testing.T) {
	r := &replay{}
	lo, hi := r.Bounds(2)
	assert.Equal(t, orcaswarm.Vec2{X: -2, Y: -2}, lo)
	assert.Equal(t, orcaswarm.Vec2{X: 2, Y: 2}, hi)
}

func TestParseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replay.toml")
	require.NoError(t, os.WriteFile(path, []byte("Input = \"run.h5\"\nViewer = \"terminal\"\n"), 0644))
	conf, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "run.h5", conf.Input)
	assert.Equal(t, "terminal", conf.Viewer)
	assert.Equal(t, "agents", conf.Dataset)
	assert.Equal(t, "opengl", DefaultConf.Viewer)
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log, err := newLogger("debug", path)
	require.NoError(t, err)
	log.Debug("hello")
	require.NoError(t, log.Sync())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	_, err = newLogger("loud", "")
	assert.Error(t, err)
}
