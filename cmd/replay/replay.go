// Command replay plays back a recording made by swarm or visibility.
//
// Usage
//
// The replay command takes one optional argument:
//
//	replay [config_file]
//
// It is the path to a TOML config file.
// Without one, out/swarm.h5 is replayed in an OpenGL window.
// The recording loops once its last step is shown.
package main

import (
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/PrincetonUniversity/orcaswarm/hdf5"
	"github.com/PrincetonUniversity/orcaswarm/opengl"
	"github.com/PrincetonUniversity/orcaswarm/tui"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const usage = `Usage: replay [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, out/swarm.h5
is replayed in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		conf = DefaultConf
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	log, err := newLogger(conf.LogLevel, conf.LogFile)
	if err != nil {
		Fatal(err)
	}
	defer log.Sync()

	r, err := open(conf.Input, conf.Dataset)
	if err != nil {
		Fatal(err)
	}
	defer r.Close()
	log.Info("replaying",
		zap.String("input", conf.Input),
		zap.Int("steps", r.loader.Steps()),
		zap.Int("agents", r.loader.Agents()))

	step := func() {
		if err := r.Next(); err != nil {
			log.Error("loading step", zap.Error(err))
		}
	}
	lo, hi := r.Bounds(conf.Margin)

	switch conf.Viewer {
	case "opengl":
		err = opengl.Run(r.s, &opengl.Config{
			Step:       step,
			ForcePause: conf.ForcePause,
			Title:      "orcaswarm replay",
			Xmin:       lo.X, Ymin: lo.Y, Xmax: hi.X, Ymax: hi.Y,
		})
	case "terminal":
		err = tui.Run(r.s, &tui.Config{
			Step:       step,
			ForcePause: conf.ForcePause,
			Xmin:       lo.X, Ymin: lo.Y, Xmax: hi.X, Ymax: hi.Y,
		})
	default:
		err = fmt.Errorf("bad viewer %q", conf.Viewer)
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard output and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// newLogger builds a development logger at the given level.
func newLogger(level, file string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	if file != "" {
		cfg.OutputPaths = []string{file}
	}
	return cfg.Build()
}

// A replay mirrors the steps of a recording into a simulator
// that is never stepped, only drawn.
type replay struct {
	loader *hdf5.Loader
	frame  []hdf5.AgentState
	segs   []hdf5.Segment
	s      *orcaswarm.Simulator
}

// open loads the first step and the obstacles of a recording.
func open(path, dataset string) (*replay, error) {
	loader, err := hdf5.NewLoader(path, dataset)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	r := &replay{loader: loader}
	r.segs, err = hdf5.LoadObstacles(path)
	if err != nil {
		loader.Close()
		return nil, errors.Wrapf(err, "obstacles of %s", path)
	}
	if err := loader.Load(&r.frame); err != nil {
		loader.Close()
		return nil, errors.Wrapf(err, "first step of %s", path)
	}
	r.s = newSimulator(r.segs, r.frame)
	return r, nil
}

// newSimulator builds a simulator holding the agents of frame
// and one two-sided wall per segment.
func newSimulator(segs []hdf5.Segment, frame []hdf5.AgentState) *orcaswarm.Simulator {
	s := orcaswarm.NewSimulator(0)
	for _, seg := range segs {
		s.AddObstacle([]orcaswarm.Vec2{seg.A, seg.B})
	}
	for _, a := range frame {
		s.AddAgentWith(a.Pos, orcaswarm.AgentParams{Radius: a.Radius, Velocity: a.Vel})
	}
	apply(s, frame)
	return s
}

// apply copies the recorded state of each agent into s.
// Removal is permanent so it survives the recording looping back.
func apply(s *orcaswarm.Simulator, frame []hdf5.AgentState) {
	for i, a := range frame {
		s.SetAgentPosition(i, a.Pos)
		s.SetAgentVelocity(i, a.Vel)
		s.SetAgentRadius(i, a.Radius)
		if a.Removed != 0 && !s.AgentRemoved(i) {
			s.RemoveAgent(i)
		}
	}
}

// Next shows the following recorded step.
func (r *replay) Next() error {
	if err := r.loader.Load(&r.frame); err != nil {
		return err
	}
	apply(r.s, r.frame)
	return nil
}

// Bounds returns the box holding the current agents and all obstacles,
// grown by margin on every side.
func (r *replay) Bounds(margin float64) (lo, hi orcaswarm.Vec2) {
	lo = orcaswarm.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi = orcaswarm.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(p orcaswarm.Vec2) {
		lo = orcaswarm.Vec2{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = orcaswarm.Vec2{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	for _, a := range r.frame {
		grow(a.Pos)
	}
	for _, seg := range r.segs {
		grow(seg.A)
		grow(seg.B)
	}
	if math.IsInf(lo.X, 1) {
		lo, hi = orcaswarm.Vec2{}, orcaswarm.Vec2{}
	}
	return lo.Sub(orcaswarm.Vec2{X: margin, Y: margin}), hi.Add(orcaswarm.Vec2{X: margin, Y: margin})
}

// Close releases the recording.
func (r *replay) Close() error {
	return r.loader.Close()
}
