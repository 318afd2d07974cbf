// pkg/distmatrix/matrix.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package distmatrix computes SAM-aware shortest-path distances and
// polylines between every pair of waypoints in an environment, and caches
// the result keyed by a hash of the environment that produced it.
package distmatrix

import (
	"context"

	"github.com/isrplan/engine/pkg/geom"
	"github.com/isrplan/engine/pkg/sam"
)

// Waypoint is any labeled point the matrix may route between: an airport,
// a target, or a synthetic start.
type Waypoint struct {
	ID  string
	Pos geom.Point
}

// Input is everything compute needs to build a matrix. Hash is the
// caller-supplied environment hash used as the cache key; Compute itself
// never computes it, so that hashing stays the environment's
// responsibility (pkg/isrenv.Environment.Hash).
type Input struct {
	Airports        []Waypoint
	Targets         []Waypoint
	SyntheticStarts []Waypoint
	SAMs            []sam.SAM
	Hash            uint64
}

// Matrix is the computed shortest-path distances and polylines between
// every pair of waypoints in an Input, plus the SAM clusters and excluded
// targets discovered along the way.
type Matrix struct {
	Labels          []string
	Dist            [][]float64
	Paths           map[[2]string][]geom.Point
	ExcludedTargets []string
	WrappedPolygons []sam.WrappedPolygon

	index map[string]int
}

// Index returns the row/column index for a waypoint id.
func (m *Matrix) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Distance returns the shortest-path distance between two waypoint ids, or
// +Inf if either is unknown or unreachable.
func (m *Matrix) Distance(a, b string) float64 {
	ia, oka := m.index[a]
	ib, okb := m.index[b]
	if !oka || !okb {
		return geom.Infinity
	}
	return m.Dist[ia][ib]
}

// Path returns the polyline used to achieve Distance(a, b), if one exists.
func (m *Matrix) Path(a, b string) ([]geom.Point, bool) {
	p, ok := m.Paths[[2]string{a, b}]
	return p, ok
}

// IsExcluded reports whether the given target id lies strictly inside a SAM
// polygon and was therefore excluded from the matrix.
func (m *Matrix) IsExcluded(targetID string) bool {
	for _, id := range m.ExcludedTargets {
		if id == targetID {
			return true
		}
	}
	return false
}

// Compute builds a full shortest-path matrix over all of in's waypoints,
// avoiding in.SAMs's wrapped polygons. Diagonal entries are zero; entries
// touching an excluded target are +Inf.
func Compute(ctx context.Context, in Input) (*Matrix, error) {
	polys := sam.Wrap(in.SAMs)

	var labels []string
	var pts []geom.Point
	add := func(w Waypoint) {
		labels = append(labels, w.ID)
		pts = append(pts, w.Pos)
	}
	for _, a := range in.Airports {
		add(a)
	}
	for _, s := range in.SyntheticStarts {
		add(s)
	}
	for _, t := range in.Targets {
		add(t)
	}

	n := len(labels)
	index := make(map[string]int, n)
	for i, l := range labels {
		index[l] = i
	}

	var excluded []string
	excludedSet := make(map[int]bool)
	for _, t := range in.Targets {
		if _, ok := sam.AnyContains(polys, t.Pos); ok {
			excluded = append(excluded, t.ID)
			excludedSet[index[t.ID]] = true
		}
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	paths := make(map[[2]string][]geom.Point)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			if excludedSet[i] || excludedSet[j] {
				dist[i][j] = geom.Infinity
				dist[j][i] = geom.Infinity
				continue
			}

			path, d, ok := shortestPath(pts[i], pts[j], polys)
			if !ok {
				dist[i][j] = geom.Infinity
				dist[j][i] = geom.Infinity
				continue
			}

			dist[i][j] = d
			dist[j][i] = d
			paths[[2]string{labels[i], labels[j]}] = path

			rev := make([]geom.Point, len(path))
			for k, p := range path {
				rev[len(path)-1-k] = p
			}
			paths[[2]string{labels[j], labels[i]}] = rev
		}
	}

	return &Matrix{
		Labels:          labels,
		Dist:            dist,
		Paths:           paths,
		ExcludedTargets: excluded,
		WrappedPolygons: polys,
		index:           index,
	}, nil
}
