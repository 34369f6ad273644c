package scenario

import (
	"math"
	"math/rand"

	"github.com/PrincetonUniversity/orcaswarm"
)

// Circle places n agents evenly on a circle of the given radius,
// each heading to the antipodal point.
func Circle(n int, radius float64) *Scene {
	sc := &Scene{
		TimeStep: 0.25,
		Defaults: Defaults{
			NeighborDist:    15,
			MaxNeighbors:    10,
			TimeHorizon:     10,
			TimeHorizonObst: 10,
			Radius:          1.5,
			MaxSpeed:        2,
		},
	}
	for i := 0; i < n; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		p := Point{X: radius * cos, Y: radius * sin}
		goal := Point{X: -p.X, Y: -p.Y}
		sc.Agents = append(sc.Agents, Agent{Position: p, Goal: &goal})
	}
	return sc
}

// Blocks places four 5x5 groups of agents in the corners of a square,
// each crossing to the opposite corner between four square blocks.
func Blocks() *Scene {
	sc := &Scene{
		TimeStep: 0.25,
		Defaults: Defaults{
			NeighborDist:    15,
			MaxNeighbors:    10,
			TimeHorizon:     5,
			TimeHorizonObst: 5,
			Radius:          2,
			MaxSpeed:        2,
		},
		Obstacles: [][]Point{
			{{-10, 40}, {-40, 40}, {-40, 10}, {-10, 10}},
			{{10, 40}, {10, 10}, {40, 10}, {40, 40}},
			{{10, -40}, {40, -40}, {40, -10}, {10, -10}},
			{{-10, -40}, {-10, -10}, {-40, -10}, {-40, -40}},
		},
	}
	corners := []struct{ sx, sy float64 }{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			for _, c := range corners {
				p := Point{X: c.sx * (55 + 10*float64(i)), Y: c.sy * (55 + 10*float64(j))}
				goal := Point{X: -c.sx * 75, Y: -c.sy * 75}
				sc.Agents = append(sc.Agents, Agent{Position: p, Goal: &goal})
			}
		}
	}
	return sc
}

// Named returns a built-in layout by name: "circle" or "blocks".
func Named(name string, agents int, radius float64) (*Scene, bool) {
	switch name {
	case "circle":
		return Circle(agents, radius), true
	case "blocks":
		return Blocks(), true
	}
	return nil, false
}

// perturbation is the largest offset SteerToGoals adds to a preferred velocity.
const perturbation = 1e-4

// SteerToGoals points the preferred velocity of every active agent at its
// goal, at unit speed or less when closer than one unit.
// A non-nil rng adds a tiny random offset that breaks perfect symmetries.
func SteerToGoals(s *orcaswarm.Simulator, rng *rand.Rand) {
	for i := 0; i < s.NumAgents(); i++ {
		if s.AgentRemoved(i) {
			continue
		}
		v := s.AgentGoal(i).Sub(s.AgentPosition(i))
		if v.AbsSq() > 1 {
			v = v.Normalize()
		}
		if rng != nil {
			sin, cos := math.Sincos(2 * math.Pi * rng.Float64())
			d := perturbation * rng.Float64()
			v = v.Add(orcaswarm.Vec2{X: cos, Y: sin}.Scale(d))
		}
		s.SetAgentPrefVelocity(i, v)
	}
}
