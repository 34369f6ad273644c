package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PrincetonUniversity/orcaswarm/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSet(t *testing.T) {
	var b BitSet
	assert.True(t, b.Empty())
	for _, n := range []uint8{0, 63, 64, 255} {
		b.Set(n)
	}
	assert.Equal(t, BitSet{1 | 1<<63, 1, 0, 1 << 63}, b)
	assert.True(t, b.Has(64))
	assert.False(t, b.Has(65))
	assert.False(t, b.Empty())
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, linspace(-1, 1, 5))
	assert.Equal(t, []float64{2, 4}, linspace(2, 4, 2))
}

// wallScene has two agents below a horizontal wall.
func wallScene() *scenario.Scene {
	return &scenario.Scene{
		TimeStep: 0.25,
		Defaults: scenario.Defaults{
			NeighborDist: 15, MaxNeighbors: 10, TimeHorizon: 5, TimeHorizonObst: 5,
			Radius: 0.5, MaxSpeed: 1,
		},
		Agents: []scenario.Agent{
			{Position: scenario.Point{X: -1, Y: -5}},
			{Position: scenario.Point{X: 1, Y: -5}},
		},
		Obstacles: [][]scenario.Point{{{X: -10, Y: 0}, {X: 10, Y: 0}}},
	}
}

func TestVisibility(t *testing.T) {
	sc := wallScene()
	require.NoError(t, sc.Validate())
	s := sc.Build()

	conf := *DefaultConf
	conf.GridXmin, conf.GridXmax, conf.GridXcount = -1, 1, 2
	conf.GridYmin, conf.GridYmax, conf.GridYcount = -4, 4, 2
	d := visibility(s, &conf)
	require.Len(t, d, 4)

	// below the wall both agents see, above none
	for j := 0; j < 2; j++ {
		assert.True(t, d[j].Has(0))
		assert.True(t, d[j].Has(1))
		assert.True(t, d[2+j].Empty())
	}
	assert.InDelta(t, 0.5, coverage(d), 1e-12)

	s.RemoveAgent(0)
	d = visibility(s, &conf)
	assert.False(t, d[0].Has(0))
	assert.True(t, d[0].Has(1))
}

func TestVisibilityProbeRadius(t *testing.T) {
	// the straight path passes 0.3 past the end of the wall
	sc := wallScene()
	sc.Agents = []scenario.Agent{{Position: scenario.Point{X: 0.3, Y: -5}}}
	sc.Obstacles = [][]scenario.Point{{{X: -10, Y: 0}, {X: 0, Y: 0}}}
	s := sc.Build()

	conf := *DefaultConf
	conf.GridXmin, conf.GridXmax, conf.GridXcount = 0.3, 0.3, 2
	conf.GridYmin, conf.GridYmax, conf.GridYcount = 5, 6, 2
	conf.ProbeRadius = 0.1
	assert.Equal(t, 1.0, coverage(visibility(s, &conf)))
	conf.ProbeRadius = 0.4
	assert.Equal(t, 0.0, coverage(visibility(s, &conf)))
}

func TestSetup(t *testing.T) {
	conf := *DefaultConf
	sc, err := setup(&conf)
	require.NoError(t, err)
	assert.Len(t, sc.Agents, 100)

	conf.GridXcount = 1
	_, err = setup(&conf)
	assert.Error(t, err)

	conf = *DefaultConf
	conf.Every = 0
	_, err = setup(&conf)
	assert.Error(t, err)

	conf = *DefaultConf
	conf.Layout = "maze"
	_, err = setup(&conf)
	assert.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visibility.toml")
	require.NoError(t, os.WriteFile(path, []byte("GridXcount = 11\nProbeRadius = 0.5\n"), 0644))
	conf, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 11, conf.GridXcount)
	assert.Equal(t, 0.5, conf.ProbeRadius)
	assert.Equal(t, DefaultConf.GridYcount, conf.GridYcount)
	assert.Equal(t, 101, DefaultConf.GridXcount)
}

func TestAdvance(t *testing.T) {
	s := wallScene().Build()
	advance(s, 4)
	assert.InDelta(t, 1, s.GlobalTime(), 1e-12)
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
