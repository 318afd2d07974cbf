// pkg/config/config_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/isrplan/engine/pkg/allocator"
)

func TestDefaultIsFullyPopulated(t *testing.T) {
	d := Default()
	if d.AllocatorStrategy != allocator.Efficient {
		t.Errorf("AllocatorStrategy = %v, want Efficient", d.AllocatorStrategy)
	}
	if d.VisitedProximity != 5.0 {
		t.Errorf("VisitedProximity = %v, want 5.0", d.VisitedProximity)
	}
	if d.CandidateCap <= 0 || d.MaxOptimizerPasses <= 0 || d.MatrixCacheSize <= 0 {
		t.Errorf("Default() left a non-positive knob: %+v", d)
	}
}

func TestEncodeDecodeRoundTrips(t *testing.T) {
	c := Default()
	c.AllocatorStrategy = allocator.Geographic
	c.VisitedProximity = 8.5

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded Config
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.AllocatorStrategy != allocator.Geographic || decoded.VisitedProximity != 8.5 {
		t.Errorf("decoded = %+v, want strategy geographic / proximity 8.5", decoded)
	}
}

func TestFillDefaultsRepairsZeroFields(t *testing.T) {
	partial := Config{AllocatorStrategy: allocator.Greedy}
	filled := fillDefaults(partial)
	if filled.VisitedProximity != Default().VisitedProximity {
		t.Errorf("VisitedProximity not repaired: %v", filled.VisitedProximity)
	}
	if filled.AllocatorStrategy != allocator.Greedy {
		t.Errorf("AllocatorStrategy overwritten: %v", filled.AllocatorStrategy)
	}
}
