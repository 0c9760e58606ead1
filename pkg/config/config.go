// Package config collects the settings shared by the command line tools.
// Values come from the environment; flags in each tool override them.
package config

import (
	"runtime"

	"github.com/xyproto/env/v2"
)

const (
	DefaultStepLimit = 100_000_000
)

// Config holds the tool settings.
type Config struct {
	StepLimit int  // GOACC_STEP_LIMIT
	Trace     bool // GOACC_TRACE: log every executed instruction
	Color     bool // GOACC_COLOR, disabled by NO_COLOR
	Workers   int  // GOACC_WORKERS: parallel compilations in batch mode
	Prompt    bool // GOACC_PROMPT: print "? " before reads and "> " before writes
}

// FromEnv reads the configuration from the environment.
func FromEnv() Config {
	// env caches the environment on first use
	env.Load()
	c := Config{
		StepLimit: env.Int("GOACC_STEP_LIMIT", DefaultStepLimit),
		Trace:     env.Bool("GOACC_TRACE"),
		Color:     env.Bool("GOACC_COLOR"),
		Workers:   env.Int("GOACC_WORKERS", runtime.NumCPU()),
		Prompt:    env.Bool("GOACC_PROMPT"),
	}
	if env.Str("NO_COLOR") != "" {
		c.Color = false
	}
	if c.StepLimit <= 0 {
		c.StepLimit = DefaultStepLimit
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}
