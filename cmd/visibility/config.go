package main

import (
	"github.com/BurntSushi/toml"
)

// Config holds the various parameters required for running a visibility survey.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive OpenGL simulation.
	Output string

	// Scene parameters, see swarm
	Scene        string  // path of a YAML scene file, empty for Layout
	Layout       string  // possible values: circle, blocks
	Agents       int     // number of agents (circle only)
	CircleRadius float64 // unit: distance (circle only)

	Samples int // number of recorded samples
	Every   int // simulation steps between samples

	// ProbeRadius is the radius of the disc whose straight path
	// from an agent to a grid point must be free of obstacles.
	ProbeRadius float64 // unit: distance

	// Grid parameters
	GridXmin   float64 // unit: distance
	GridXmax   float64 // unit: distance
	GridXcount int     // unit: 1
	GridYmin   float64 // unit: distance
	GridYmax   float64 // unit: distance
	GridYcount int     // unit: 1

	LogLevel string // possible values: debug, info, warn, error
	LogFile  string // empty for stderr
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:       "",
	Scene:        "",
	Layout:       "blocks",
	Agents:       100,
	CircleRadius: 100,
	Samples:      100,
	Every:        10,
	ProbeRadius:  0,
	GridXmin:     -100,
	GridXmax:     100,
	GridXcount:   101,
	GridYmin:     -100,
	GridYmax:     100,
	GridYcount:   101,
	LogLevel:     "info",
	LogFile:      "",
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites a copy of the default parameters
	conf := *DefaultConf
	_, err := toml.DecodeFile(path, &conf)
	return &conf, err
}
