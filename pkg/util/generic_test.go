// pkg/util/generic_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"testing"
)

func TestMapSlice(t *testing.T) {
	in := []int{1, 2, 3}
	out := MapSlice(in, func(i int) int { return i * i })
	if !slices.Equal(out, []int{1, 4, 9}) {
		t.Errorf("got %v", out)
	}
}

func TestFilterSlice(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	out := FilterSlice(in, func(i int) bool { return i%2 == 0 })
	if !slices.Equal(out, []int{2, 4}) {
		t.Errorf("got %v", out)
	}
}

func TestInsertSliceElement(t *testing.T) {
	in := []int{1, 2, 4}
	out := InsertSliceElement(in, 2, 3)
	if !slices.Equal(out, []int{1, 2, 3, 4}) {
		t.Errorf("got %v", out)
	}
}

func TestDuplicateSlice(t *testing.T) {
	in := []int{1, 2, 3}
	out := DuplicateSlice(in)
	if !slices.Equal(out, in) {
		t.Errorf("got %v", out)
	}
	out[0] = 99
	if in[0] == 99 {
		t.Error("DuplicateSlice shares backing array with its input")
	}
}

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	if got := SortedMapKeys(m); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("got %v", got)
	}
}

func TestSliceReverseValues(t *testing.T) {
	in := []int{1, 2, 3}
	var out []int
	for v := range SliceReverseValues(in) {
		out = append(out, v)
	}
	if !slices.Equal(out, []int{3, 2, 1}) {
		t.Errorf("got %v", out)
	}
}

func TestStopShouting(t *testing.T) {
	in := "UNITED AIRLINES"
	if got := StopShouting(in); got != "United Airlines" {
		t.Errorf("got %q", got)
	}
}

func TestWrapText(t *testing.T) {
	s, lines := WrapText("the quick brown fox jumps over the lazy dog", 10, 0, false)
	if lines < 2 {
		t.Errorf("expected text to wrap across multiple lines, got %d: %q", lines, s)
	}
}

func TestHashString64(t *testing.T) {
	h1 := HashString64("abc")
	h2 := HashString64("abc")
	h3 := HashString64("abd")
	if h1 != h2 {
		t.Error("expected identical strings to hash identically")
	}
	if h1 == h3 {
		t.Error("expected different strings to hash differently")
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Fatal("expected no errors initially")
	}

	e.Push("drone 1")
	e.Push("route")
	e.ErrorString("missing waypoint %d", 3)
	e.Pop()
	e.Pop()

	if !e.HaveErrors() {
		t.Fatal("expected an accumulated error")
	}
	if got := e.String(); got != "drone 1 / route: missing waypoint 3" {
		t.Errorf("got %q", got)
	}
}
