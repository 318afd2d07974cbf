// pkg/config/config.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/isrplan/engine/pkg/allocator"
	"github.com/isrplan/engine/pkg/distmatrix"
	"github.com/isrplan/engine/pkg/solver"
)

// Config is the process-wide planning configuration: the knobs every
// pkg/planner entry point reads before it allocates, solves, expands, or
// optimizes a mission. It has no UI of its own (there is none here) but
// follows the same load/save discipline as the teacher's Config.
type Config struct {
	// AllocatorStrategy is the default pkg/planner.Solve uses when its
	// caller doesn't name one explicitly.
	AllocatorStrategy allocator.Strategy

	// VisitedProximity is the largest distance, in world units, between a
	// target and the closest point of a drone's trajectory for a cut to
	// mark that target visited (when that closest point lies at or before
	// the cut's mission distance) rather than carry it into the replan.
	// Resolved here rather than as a constant so a mission with
	// tightly-packed targets can tighten it.
	VisitedProximity float64

	// CandidateCap is the largest per-drone candidate count the exact
	// Held-Karp DP is run against; beyond it, pkg/solver falls back to
	// its greedy heuristic.
	CandidateCap int

	// MaxOptimizerPasses is loaded, saved and defaulted with the rest of
	// the config, but no optimizer reads it: Swap-Closer stops at its own
	// fixed pass limit (or on a repeated state), and Insert-Missed runs
	// until no missed target fits any route.
	MaxOptimizerPasses int

	// MatrixCacheSize is the number of distinct environment hashes whose
	// distance matrices pkg/distmatrix.Cache keeps warm at once.
	MatrixCacheSize int

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogDir is where the rotating log file is written; empty uses the
	// platform's user-config directory.
	LogDir string
}

// Default returns the configuration used when no config file is present
// and no flags override it.
func Default() Config {
	return Config{
		AllocatorStrategy:  allocator.Efficient,
		VisitedProximity:   5.0,
		CandidateCap:       solver.DefaultCandidateCap,
		MaxOptimizerPasses: 50,
		MatrixCacheSize:    distmatrix.DefaultCacheSize,
		LogLevel:           "info",
	}
}

// FilePath returns the default location of the config file, creating its
// containing directory if needed.
func FilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "isrplan")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("config: unable to make directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "config.json"), nil
}

// Encode writes c as indented JSON.
func (c Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

// Save writes c to the default config file path.
func (c Config) Save() error {
	fn, err := FilePath()
	if err != nil {
		return err
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.Encode(f)
}

// LoadOrDefault reads the config file at the default path, falling back
// to Default() with its error reported (not fatal: an isrplan invocation
// on a fresh machine should still plan) when none exists or it's corrupt.
func LoadOrDefault() (Config, error) {
	fn, err := FilePath()
	if err != nil {
		return Default(), err
	}

	contents, err := os.ReadFile(fn)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), err
	}

	c := Default()
	r := bytes.NewReader(contents)
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Default(), fmt.Errorf("config: %s is corrupt: %w", fn, err)
	}
	return fillDefaults(c), nil
}

// fillDefaults repairs zero-valued fields left behind by an older config
// file missing a key this version added.
func fillDefaults(c Config) Config {
	d := Default()
	if c.AllocatorStrategy == "" {
		c.AllocatorStrategy = d.AllocatorStrategy
	}
	if c.VisitedProximity <= 0 {
		c.VisitedProximity = d.VisitedProximity
	}
	if c.CandidateCap <= 0 {
		c.CandidateCap = d.CandidateCap
	}
	if c.MaxOptimizerPasses <= 0 {
		c.MaxOptimizerPasses = d.MaxOptimizerPasses
	}
	if c.MatrixCacheSize <= 0 {
		c.MatrixCacheSize = d.MatrixCacheSize
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}
