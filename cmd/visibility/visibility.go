// Command visibility computes which points of a grid each agent
// of an orcaswarm scene can reach in a straight line.
//
// Usage
//
// The visibility command takes one optional argument:
//
//	visibility [config_file]
//
// It is the path to a TOML config file.
//
// Output
//
// Each sample of the "visibility" dataset is a GridYcount×GridXcount grid
// of 256-bit sets: bit k of a point is set when agent k sees the point.
// Agents beyond the 256th are ignored.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/PrincetonUniversity/orcaswarm/hdf5"
	"github.com/PrincetonUniversity/orcaswarm/opengl"
	"github.com/PrincetonUniversity/orcaswarm/scenario"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const usage = `Usage: visibility [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

// maxAgents is the number of agents a BitSet can hold.
const maxAgents = 256

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

	// setup simulation
	sc, err := setup(conf)
	if err != nil {
		Fatal(err)
	}
	s := sc.Build(orcaswarm.WithLogger(log))
	if n := s.NumAgents(); n > maxAgents {
		log.Warn("agents beyond the bit set capacity are ignored",
			zap.Int("agents", n), zap.Int("capacity", maxAgents))
	}
	step := func() { advance(s, conf.Every) }

	// run interactively or not depending on config
	if conf.Output == "" {
		err = opengl.Run(s, &opengl.Config{
			Step: func() {
				step()
				d := visibility(s, conf)
				log.Info("sample", zap.Float64("time", s.GlobalTime()), zap.Float64("coverage", coverage(d)))
			},
			ForcePause: true,
			Title:      "orcaswarm visibility",
			Xmin:       conf.GridXmin,
			Ymin:       conf.GridYmin,
			Xmax:       conf.GridXmax,
			Ymax:       conf.GridYmax,
		})
	} else {
		err = hdf5.Run(s, &hdf5.Config{
			Output: conf.Output,
			Steps:  conf.Samples,
			Step:   step,
			Datasets: []*hdf5.Dataset{
				hdf5.Agents(s.NumAgents()),
				hdf5.Time(),
				{
					Name: "visibility",
					Val:  BitSet{},
					Dims: []int{conf.GridYcount, conf.GridXcount},
					Data: func(s *orcaswarm.Simulator) interface{} {
						d := visibility(s, conf)
						return &d
					},
				},
			},
			Params:   conf,
			Progress: os.Stdout,
			Log:      log,
		})
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

// setup loads or generates the scene and checks the grid.
func setup(conf *Config) (*scenario.Scene, error) {
	if conf.GridXcount < 2 || conf.GridYcount < 2 {
		return nil, errors.Errorf("grid needs at least 2×2 points, got %d×%d", conf.GridXcount, conf.GridYcount)
	}
	if conf.Every < 1 {
		return nil, errors.Errorf("bad sampling interval %d", conf.Every)
	}
	if conf.Scene != "" {
		return scenario.Load(conf.Scene)
	}
	sc, ok := scenario.Named(conf.Layout, conf.Agents, conf.CircleRadius)
	if !ok {
		return nil, errors.Errorf("bad layout %q", conf.Layout)
	}
	return sc, sc.Validate()
}

// advance steers the agents toward their goals for n steps.
func advance(s *orcaswarm.Simulator, n int) {
	for i := 0; i < n; i++ {
		scenario.SteerToGoals(s, nil)
		s.Step()
	}
}

// A BitSet stores up to 256 boolean values.
type BitSet [4]uint64

// Set sets a bit in a BitSet.
func (b *BitSet) Set(n uint8) {
	b[(n&0xc0)>>6] |= 1 << (n & 0x3f)
}

// Has reports whether a bit is set.
func (b *BitSet) Has(n uint8) bool {
	return b[(n&0xc0)>>6]&(1<<(n&0x3f)) != 0
}

// Empty reports whether no bit is set.
func (b *BitSet) Empty() bool {
	return b[0]|b[1]|b[2]|b[3] == 0
}

// visibility returns for each point in a grid the set
// of agents which can see it.
func visibility(s *orcaswarm.Simulator, conf *Config) []BitSet {
	d := make([]BitSet, conf.GridXcount*conf.GridYcount)
	n := min(s.NumAgents(), maxAgents)
	for i, y := range linspace(conf.GridYmin, conf.GridYmax, conf.GridYcount) {
		for j, x := range linspace(conf.GridXmin, conf.GridXmax, conf.GridXcount) {
			q := orcaswarm.Vec2{X: x, Y: y}
			for k := 0; k < n; k++ {
				if s.AgentRemoved(k) {
					continue
				}
				if s.QueryVisibility(s.AgentPosition(k), q, conf.ProbeRadius) {
					d[i*conf.GridXcount+j].Set(uint8(k))
				}
			}
		}
	}
	return d
}

// coverage returns the fraction of grid points seen by at least one agent.
func coverage(d []BitSet) float64 {
	if len(d) == 0 {
		return 0
	}
	seen := 0
	for i := range d {
		if !d[i].Empty() {
			seen++
		}
	}
	return float64(seen) / float64(len(d))
}

// linspace generates count equally spaced points between min and max.
func linspace(min, max float64, count int) []float64 {
	s := make([]float64, count)
	for i := 0; i < count; i++ {
		s[i] = min + (float64(i)/float64(count-1))*(max-min)
	}
	return s
}
