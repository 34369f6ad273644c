package opengl

import (
	"testing"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoomKeepsCursorFixed(t *testing.T) {
	vp := viewport{{0, 0}, {10, 20}}
	vp.zoom(0.25, 0.5, 0.1)
	assert.InDelta(t, 0.25, vp[0].X, 1e-5)
	assert.InDelta(t, 1, vp[0].Y, 1e-5)
	assert.InDelta(t, 9.25, vp[1].X, 1e-5)
	assert.InDelta(t, 19, vp[1].Y, 1e-5)

	// the point under the cursor does not move
	assert.InDelta(t, 2.5, vp[0].X+0.25*(vp[1].X-vp[0].X), 1e-5)
	assert.InDelta(t, 10, vp[0].Y+0.5*(vp[1].Y-vp[0].Y), 1e-5)
}

func TestNextFocal(t *testing.T) {
	assert.Equal(t, 0, nextFocal(-1, 3, false))
	assert.Equal(t, 2, nextFocal(1, 3, false))
	assert.Equal(t, -1, nextFocal(2, 3, false))
	assert.Equal(t, 2, nextFocal(-1, 3, true))
	assert.Equal(t, -1, nextFocal(0, 3, true))
	assert.Equal(t, -1, nextFocal(-1, 0, false))
}

func TestVertices(t *testing.T) {
	s := orcaswarm.NewSimulator(0.25)
	s.SetAgentDefaults(15, 10, 10, 10, 1, 1, orcaswarm.Vec2{})
	s.AddAgent(orcaswarm.Vec2{X: -3})
	s.AddAgent(orcaswarm.Vec2{X: 3})
	s.AddAgent(orcaswarm.Vec2{Y: 9})
	s.RemoveAgent(2)
	s.AddObstacle([]orcaswarm.Vec2{{X: 0, Y: 5}, {X: 1, Y: 5}})
	s.ProcessObstacles()
	s.SetAgentPrefVelocity(0, orcaswarm.Vec2{X: 1})
	s.SetAgentPrefVelocity(1, orcaswarm.Vec2{X: -1})
	s.Step()

	discs := discVertices(nil, s, 1)
	require.Len(t, discs, 2*discStride)
	assert.Equal(t, float32(1), discs[2], "radius")
	assert.Equal(t, focalColor[:], discs[discStride+3:2*discStride])

	lines := lineVertices(nil, s, -1)
	assert.Len(t, lines, 2*2*lineStride, "two obstacle edges")

	lines = lineVertices(nil, s, 0)
	want := 2 + 1 + s.AgentNumOrcaLines(0)
	assert.Len(t, lines, 2*want*lineStride)

	lines = lineVertices(nil, s, 2)
	assert.Len(t, lines, 2*2*lineStride, "removed focal agent")
}
