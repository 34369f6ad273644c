package main

import (
	"github.com/BurntSushi/toml"
)

// Config holds the various parameters required for replaying a recording.
type Config struct {
	Input   string // path of an HDF5 file written by swarm or visibility
	Dataset string // name of the agents dataset

	Viewer     string  // possible values: opengl, terminal
	ForcePause bool    // step manually only?
	Margin     float64 // unit: distance, added around the first frame

	LogLevel string // possible values: debug, info, warn, error
	LogFile  string // empty for stderr
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Input:      "out/swarm.h5",
	Dataset:    "agents",
	Viewer:     "opengl",
	ForcePause: false,
	Margin:     10,
	LogLevel:   "info",
	LogFile:    "",
}

// ParseConfig parses the TOML config file whose path is provided.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites a copy of the default parameters
	conf := *DefaultConf
	_, err := toml.DecodeFile(path, &conf)
	return &conf, err
}
