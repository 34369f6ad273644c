package orcaswarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestNormalize(t *testing.T) {
	n := Vec2{3, 4}.Normalize()
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)
	assert.InDelta(t, 1, n.Abs(), 1e-12)
}

func TestArithmeticDoesNotMutate(t *testing.T) {
	u, v := Vec2{1, 2}, Vec2{3, 5}
	assert.Equal(t, Vec2{4, 7}, u.Add(v))
	assert.Equal(t, Vec2{-2, -3}, u.Sub(v))
	assert.Equal(t, Vec2{2, 4}, u.Scale(2))
	assert.Equal(t, 13.0, u.Dot(v))
	assert.Equal(t, Vec2{1, 2}, u)
	assert.Equal(t, Vec2{3, 5}, v)
}

func TestDet(t *testing.T) {
	assert.Equal(t, 1.0, Det(Vec2{1, 0}, Vec2{0, 1}))
	assert.Equal(t, -1.0, Det(Vec2{0, 1}, Vec2{1, 0}))
	assert.Equal(t, 0.0, Det(Vec2{2, 2}, Vec2{1, 1}))
}

func TestLeftOf(t *testing.T) {
	a, b := Vec2{0, 0}, Vec2{1, 0}
	assert.Greater(t, LeftOf(a, b, Vec2{0.5, 1}), 0.0)
	assert.Less(t, LeftOf(a, b, Vec2{0.5, -1}), 0.0)
	assert.Equal(t, 0.0, LeftOf(a, b, Vec2{5, 0}))
}

func TestDistSqPointLineSegment(t *testing.T) {
	a, b := Vec2{0, 0}, Vec2{2, 0}
	tests := []struct {
		name string
		c    Vec2
		want float64
	}{
		{"before start", Vec2{-1, 2}, 5},
		{"on segment", Vec2{1, 3}, 9},
		{"past end", Vec2{3, 1}, 2},
		{"on the segment itself", Vec2{1.5, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistSqPointLineSegment(a, b, tt.c), 1e-12)
		})
	}
}

func TestDistSqPointLineSegmentDegenerate(t *testing.T) {
	p := Vec2{1, 1}
	d := DistSqPointLineSegment(p, p, Vec2{4, 5})
	assert.Equal(t, 25.0, d)
	assert.False(t, math.IsNaN(d))
}

func TestLinePermits(t *testing.T) {
	// permitted side is left of the direction
	l := Line{Point: Vec2{0, 0}, Direction: Vec2{1, 0}}
	assert.True(t, l.Permits(Vec2{0, 1}, 0))
	assert.True(t, l.Permits(Vec2{3, 0}, 0))
	assert.False(t, l.Permits(Vec2{0, -1}, 0))
	assert.True(t, l.Permits(Vec2{0, -1e-7}, 1e-6))
}
