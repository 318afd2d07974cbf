// cmd/isrplan/main.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// isrplan is a command-line front end to the planning engine: it reads an
// environment or mission file, solves every segment in order (re-deriving
// each segment's solution the way a segmented mission import always
// does), and writes out either the resulting solutions or a re-exported
// mission file.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goforj/godump"
	"github.com/klauspost/compress/gzip"

	"github.com/isrplan/engine/pkg/allocator"
	"github.com/isrplan/engine/pkg/config"
	"github.com/isrplan/engine/pkg/isrenv"
	"github.com/isrplan/engine/pkg/log"
	"github.com/isrplan/engine/pkg/mission"
	"github.com/isrplan/engine/pkg/planner"

	"github.com/apenwarr/fixconsole"
)

var (
	inputPath    = flag.String("in", "", "environment or mission file to solve (required); a .gz suffix is read as gzip-compressed")
	outputPath   = flag.String("out", "", "where to write the result; a .gz suffix writes gzip-compressed")
	exportMission = flag.Bool("export-mission", false, "write the re-derived mission shape (env + cut info, no solutions) to -out instead of solutions")
	strategyFlag = flag.String("strategy", "", "allocator strategy: efficient, greedy, balanced, geographic, exclusive (default: config)")
	noOptimize   = flag.Bool("no-optimize", false, "skip the Insert-Missed/Swap-Closer/Crossing-Removal post-optimizers")
	dump         = flag.Bool("dump", false, "pretty-print the final segment's solution to stdout")
	logLevel     = flag.String("loglevel", "", "logging level: debug, info, warn, error (default: config)")
	logDir       = flag.String("logdir", "", "log file directory (default: config)")
	saveConfig   = flag.Bool("save-config", false, "persist the resolved configuration (including flag overrides) as the new default")
)

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "FixConsole: %v\n", err)
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "isrplan: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadOrDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "isrplan: loading config: %v\n", err)
	}
	applyFlagOverrides(&cfg)
	if *saveConfig {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "isrplan: saving config: %v\n", err)
		}
	}

	lg := log.New(false, cfg.LogLevel, cfg.LogDir)
	p := planner.New(cfg, lg)

	if err := run(p, cfg); err != nil {
		lg.Errorf("isrplan: %v", err)
		fmt.Fprintf(os.Stderr, "isrplan: %v\n", err)
		os.Exit(1)
	}
}

func applyFlagOverrides(cfg *config.Config) {
	if *strategyFlag != "" {
		cfg.AllocatorStrategy = allocator.Strategy(*strategyFlag)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}
}

func run(p *planner.Planner, cfg config.Config) error {
	raw, err := readInput(*inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *inputPath, err)
	}

	segments, err := planner.ImportAny(raw, filepath.Base(*inputPath))
	if err != nil {
		return fmt.Errorf("importing %s: %w", *inputPath, err)
	}

	var store mission.Store
	var lastSolution isrenv.Solution
	ctx := context.Background()

	for _, seg := range segments {
		opts := planner.SolveOptions{
			Strategy:           cfg.AllocatorStrategy,
			PostOptimize:       !*noOptimize,
			IsCheckpointReplan: seg.IsCheckpointReplan,
			VisitedTargets:     seg.VisitedTargets,
		}
		sol, err := p.Solve(ctx, &seg.Env, seg.Drones, opts)
		if err != nil {
			return fmt.Errorf("solving segment %d: %w", seg.Index, err)
		}
		store.AddSegment(seg.Env, seg.Drones, sol, seg.CutDistance, seg.CutPositions, seg.VisitedTargets, seg.IsCheckpointReplan)
		lastSolution = sol
	}

	if *dump {
		godump.Dump(lastSolution)
	}

	if *outputPath == "" {
		return nil
	}

	var out []byte
	if *exportMission {
		out, err = planner.ExportMission(store.Segments())
	} else {
		out, err = marshalSolutions(store.Segments())
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return writeOutput(*outputPath, out)
}

func marshalSolutions(segments []mission.Segment) ([]byte, error) {
	type solutionOutput struct {
		Index    int              `json:"index"`
		Solution isrenv.Solution  `json:"solution"`
	}
	out := make([]solutionOutput, len(segments))
	for i, seg := range segments {
		out[i] = solutionOutput{Index: seg.Index, Solution: seg.Solution}
	}
	return jsonMarshalIndent(out)
}

func readInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return io.ReadAll(f)
}

func writeOutput(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(f)
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
	_, err = f.Write(data)
	return err
}

func jsonMarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
