package main

import (
	"github.com/BurntSushi/toml"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive simulation.
	Output string

	// Viewer used in interactive mode.
	Viewer string // possible values: opengl, terminal

	// Scene is the path of a YAML scene file.
	// When empty, the built-in Layout is used instead.
	Scene string

	Layout       string  // possible values: circle, blocks
	Agents       int     // number of agents (circle only)
	CircleRadius float64 // unit: distance (circle only)

	Steps   int   // number of time steps (hdf5 only)
	Perturb bool  // add a tiny random offset to preferred velocities
	Seed    int64 // seed of the perturbation PRNG, 0 for the current time
	Workers int   // goroutines computing velocities, 1 for none

	LogLevel string // possible values: debug, info, warn, error
	LogFile  string // empty for stderr
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:       "",
	Viewer:       "opengl",
	Scene:        "",
	Layout:       "circle",
	Agents:       250,
	CircleRadius: 200,
	Steps:        2000,
	Perturb:      true,
	Seed:         0,
	Workers:      1,
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
