package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/baxromumarov/parx/internal/errors"
)

// Environment variables consulted when a setting is not given as a flag.
const (
	envThreads  = "PARX_THREADS"
	envChunk    = "PARX_CHUNK"
	envOrder    = "PARX_ORDER"
	envPool     = "PARX_POOL"
	envLogLevel = "PARX_LOG_LEVEL"
)

// settings are the knobs shared by every subcommand. Each one is resolved
// from, in increasing priority, the config file, the environment and the
// command line.
type settings struct {
	Threads  string `yaml:"threads"`
	Chunk    string `yaml:"chunk"`
	Order    string `yaml:"order"`
	Pool     string `yaml:"pool"`
	LogLevel string `yaml:"log_level"`
}

func defaultSettings() settings {
	return settings{
		Threads:  "auto",
		Chunk:    "auto",
		Order:    "ordered",
		Pool:     "native",
		LogLevel: "warn",
	}
}

// loadFile overlays the non-empty fields of the YAML file at path.
func (s *settings) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New(err)
	}

	var file settings
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.WithStackTraceAndPrefix(err, "parsing %s", path)
	}
	s.overlay(file)
	return nil
}

// loadEnv overlays the settings found in the environment.
func (s *settings) loadEnv() {
	s.overlay(settings{
		Threads:  os.Getenv(envThreads),
		Chunk:    os.Getenv(envChunk),
		Order:    os.Getenv(envOrder),
		Pool:     os.Getenv(envPool),
		LogLevel: os.Getenv(envLogLevel),
	})
}

func (s *settings) overlay(o settings) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.Threads, o.Threads)
	set(&s.Chunk, o.Chunk)
	set(&s.Order, o.Order)
	set(&s.Pool, o.Pool)
	set(&s.LogLevel, o.LogLevel)
}
