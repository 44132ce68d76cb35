package main

import (
	"github.com/xyproto/env/v2"
)

const defaultMaxSize = 1 << 30

// Settings shared by every command. Defaults come from the environment and
// each command's flags override them.
type config struct {
	// Map input files instead of reading them into memory.
	mmap    bool
	// Inputs (or archive members) larger than this are rejected before
	// decoding.
	maxSize int64
	verbose bool
	// Wrap long descriptive lines.
	wrap    bool
}

func loadConfig() config {
	// Drop the env package's cached copy of the environment.
	env.Load()
	return config{
		mmap:    !env.Bool("ELF_VIEW_NO_MMAP"),
		maxSize: int64(env.Int("ELF_VIEW_MAX_SIZE", defaultMaxSize)),
		verbose: env.Bool("ELF_VIEW_VERBOSE"),
		wrap:    !env.Bool("ELF_VIEW_NO_WRAP"),
	}
}
