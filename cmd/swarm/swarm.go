// Command swarm runs orcaswarm: collision avoidance among agents and obstacles.
//
// Usage
//
// The swarm command takes one optional argument:
//
//	swarm [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, the circle layout
// with default parameters will run in an OpenGL window.
//
// Config file
//
// The config file is written in TOML. If you are not familiar with TOML, fear not!
// It's basically a modern version of INI. Very very simple.
// See https://github.com/toml-lang/toml for the full language spec.
//
// Interactive mode
//
// In interactive mode, the simulation can be paused/resumed with space.
// While in pause, pressing right arrow will perform a single step.
// Tab and shift tab allow to cycle through focal agents,
// whose ORCA lines are then displayed.
// Pressing Esc or closing the window will quit.
//
// The terminal viewer (Viewer = "terminal") has the same bindings
// plus + and - to zoom.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/PrincetonUniversity/orcaswarm/hdf5"
	"github.com/PrincetonUniversity/orcaswarm/opengl"
	"github.com/PrincetonUniversity/orcaswarm/scenario"
	"github.com/PrincetonUniversity/orcaswarm/tui"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const usage = `Usage: swarm [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
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

	sc, err := loadScene(conf)
	if err != nil {
		Fatal(err)
	}
	s := sc.Build(orcaswarm.WithLogger(log), orcaswarm.WithWorkers(conf.Workers))
	step := stepper(s, conf)
	log.Info("scene ready",
		zap.Int("agents", s.NumAgents()),
		zap.Int("obstacleVertices", s.NumObstacleVertices()),
		zap.Float64("timeStep", s.TimeStep()))

	lo, hi := sc.Bounds(10)

	// run interactively or not depending on config
	switch {
	case conf.Output != "":
		err = hdf5.Run(s, &hdf5.Config{
			Output:   conf.Output,
			Steps:    conf.Steps,
			Step:     step,
			Datasets: []*hdf5.Dataset{hdf5.Agents(s.NumAgents()), hdf5.Time()},
			Params:   conf,
			Progress: os.Stdout,
			Log:      log,
		})
	case conf.Viewer == "terminal":
		err = tui.Run(s, &tui.Config{
			Step: step,
			Xmin: lo.X, Ymin: lo.Y, Xmax: hi.X, Ymax: hi.Y,
		})
	case conf.Viewer == "opengl":
		err = opengl.Run(s, &opengl.Config{
			Step:  step,
			Title: "orcaswarm",
			Xmin:  lo.X, Ymin: lo.Y, Xmax: hi.X, Ymax: hi.Y,
		})
	default:
		err = fmt.Errorf("bad viewer %q", conf.Viewer)
	}
	if err != nil {
		Fatal(err)
	}
	log.Info("done", zap.Float64("time", s.GlobalTime()), zap.Bool("goals", s.ReachedGoal()))
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

// loadScene reads the scene file of conf or generates its layout.
func loadScene(conf *Config) (*scenario.Scene, error) {
	if conf.Scene != "" {
		return scenario.Load(conf.Scene)
	}
	sc, ok := scenario.Named(conf.Layout, conf.Agents, conf.CircleRadius)
	if !ok {
		return nil, errors.Errorf("bad layout %q", conf.Layout)
	}
	return sc, sc.Validate()
}

// stepper returns the function advancing s by one step toward the goals.
// Once every goal is reached the simulation is held.
func stepper(s *orcaswarm.Simulator, conf *Config) func() {
	var rng *rand.Rand
	if conf.Perturb {
		seed := conf.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	return func() {
		if s.ReachedGoal() {
			return
		}
		scenario.SteerToGoals(s, rng)
		s.Step()
	}
}
