// Package scenario describes initial conditions for orcaswarm simulations:
// agent parameters, starting positions, goals and obstacle polygons.
//
// Scenes are read from YAML files or generated by the built-in layouts.
// A YAML scene looks like:
//
//	timeStep: 0.25
//	defaults:
//	  neighborDist: 15
//	  maxNeighbors: 10
//	  timeHorizon: 10
//	  timeHorizonObst: 10
//	  radius: 1.5
//	  maxSpeed: 2
//	agents:
//	  - position: [-10, 0]
//	    goal: [10, 0]
//	  - position: [10, 0]
//	    goal: [-10, 0]
//	    radius: 2
//	obstacles:
//	  - [[-1, -1], [1, -1], [1, 1], [-1, 1]]
package scenario

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A Point is written [x, y] in scene files.
type Point orcaswarm.Vec2

// UnmarshalYAML decodes a two element sequence.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xy []float64
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return errors.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// MarshalYAML encodes p as a flow sequence.
func (p Point) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range []float64{p.X, p.Y} {
		var v yaml.Node
		if err := v.Encode(c); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &v)
	}
	return n, nil
}

// Vec2 converts p back to a simulator vector.
func (p Point) Vec2() orcaswarm.Vec2 { return orcaswarm.Vec2(p) }

// Defaults are the agent parameters applied to every agent of a scene.
type Defaults struct {
	NeighborDist    float64 `yaml:"neighborDist"`
	MaxNeighbors    int     `yaml:"maxNeighbors"`
	TimeHorizon     float64 `yaml:"timeHorizon"`
	TimeHorizonObst float64 `yaml:"timeHorizonObst"`
	Radius          float64 `yaml:"radius"`
	MaxSpeed        float64 `yaml:"maxSpeed"`
	Velocity        Point   `yaml:"velocity,omitempty"`
}

// An Agent places one agent. Nil fields fall back to the defaults,
// and a nil goal keeps the agent where it starts.
type Agent struct {
	Position Point    `yaml:"position"`
	Goal     *Point   `yaml:"goal,omitempty"`
	Radius   *float64 `yaml:"radius,omitempty"`
	MaxSpeed *float64 `yaml:"maxSpeed,omitempty"`
}

// A Scene holds everything needed to build a simulator.
type Scene struct {
	TimeStep  float64   `yaml:"timeStep"`
	Defaults  Defaults  `yaml:"defaults"`
	Agents    []Agent   `yaml:"agents"`
	Obstacles [][]Point `yaml:"obstacles,omitempty"`
}

// Load reads a YAML scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scene")
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %s", path)
	}
	return sc, nil
}

// Parse decodes and validates a YAML scene. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	sc := new(Scene)
	if err := dec.Decode(sc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Save writes the scene as YAML.
func (sc *Scene) Save(path string) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return errors.Wrap(err, "encoding scene")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "writing scene")
}

// Validate checks the parameters that would make a simulation meaningless.
func (sc *Scene) Validate() error {
	switch {
	case sc.TimeStep <= 0:
		return errors.Errorf("timeStep must be positive, got %v", sc.TimeStep)
	case sc.Defaults.Radius <= 0:
		return errors.Errorf("defaults: radius must be positive, got %v", sc.Defaults.Radius)
	case sc.Defaults.MaxSpeed < 0:
		return errors.Errorf("defaults: maxSpeed must not be negative, got %v", sc.Defaults.MaxSpeed)
	case sc.Defaults.MaxNeighbors < 0:
		return errors.Errorf("defaults: maxNeighbors must not be negative, got %v", sc.Defaults.MaxNeighbors)
	case sc.Defaults.TimeHorizon <= 0 || sc.Defaults.TimeHorizonObst <= 0:
		return errors.New("defaults: time horizons must be positive")
	}
	for i, a := range sc.Agents {
		if a.Radius != nil && *a.Radius <= 0 {
			return errors.Errorf("agent %d: radius must be positive, got %v", i, *a.Radius)
		}
		if a.MaxSpeed != nil && *a.MaxSpeed < 0 {
			return errors.Errorf("agent %d: maxSpeed must not be negative, got %v", i, *a.MaxSpeed)
		}
	}
	for i, o := range sc.Obstacles {
		if len(o) < 2 {
			return errors.Errorf("obstacle %d: needs at least 2 vertices, got %d", i, len(o))
		}
	}
	return nil
}

// Build returns a simulator populated with the scene, obstacles processed.
func (sc *Scene) Build(opts ...orcaswarm.Option) *orcaswarm.Simulator {
	s := orcaswarm.NewSimulator(sc.TimeStep, opts...)
	d := sc.Defaults
	s.SetAgentDefaults(d.NeighborDist, d.MaxNeighbors, d.TimeHorizon, d.TimeHorizonObst,
		d.Radius, d.MaxSpeed, d.Velocity.Vec2())

	for _, a := range sc.Agents {
		i := s.AddAgent(a.Position.Vec2())
		if a.Goal != nil {
			s.SetAgentGoal(i, a.Goal.Vec2())
		}
		if a.Radius != nil {
			s.SetAgentRadius(i, *a.Radius)
		}
		if a.MaxSpeed != nil {
			s.SetAgentMaxSpeed(i, *a.MaxSpeed)
		}
	}

	for _, o := range sc.Obstacles {
		vertices := make([]orcaswarm.Vec2, len(o))
		for i, p := range o {
			vertices[i] = p.Vec2()
		}
		s.AddObstacle(vertices)
	}
	s.ProcessObstacles()
	return s
}

// Bounds returns the bounding box of every agent position, goal and
// obstacle vertex, padded by margin.
func (sc *Scene) Bounds(margin float64) (lo, hi orcaswarm.Vec2) {
	first := true
	add := func(p Point) {
		if first {
			lo, hi = p.Vec2(), p.Vec2()
			first = false
			return
		}
		lo = orcaswarm.Vec2{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = orcaswarm.Vec2{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	for _, a := range sc.Agents {
		add(a.Position)
		if a.Goal != nil {
			add(*a.Goal)
		}
	}
	for _, o := range sc.Obstacles {
		for _, p := range o {
			add(p)
		}
	}
	pad := orcaswarm.Vec2{X: margin, Y: margin}
	return lo.Sub(pad), hi.Add(pad)
}
