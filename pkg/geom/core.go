// pkg/geom/core.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geom

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Epsilon is the tolerance used for all "are these equal/touching"
// comparisons involving world-space coordinates and distances. The world
// coordinate range is [0,100] on each axis.
const Epsilon = 1e-3

// Mathematical constants, named as in the teacher's pkg/math so that the
// rest of this package reads the same way.
const (
	Pi      = gomath.Pi
	PiOver2 = gomath.Pi / 2
)

var Infinity = gomath.Inf(1)

// Degrees converts an angle expressed in radians to degrees.
func Degrees(r float64) float64 {
	return r * 180 / Pi
}

// Radians converts an angle expressed in degrees to radians.
func Radians(d float64) float64 {
	return d / 180 * Pi
}

func Sqrt(a float64) float64 { return gomath.Sqrt(a) }

// Sign returns 1 if v > 0, -1 if v < 0, or 0 if v == 0.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Abs returns the absolute value of x.
func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

// Clamp restricts x to the range [low, high].
func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Lerp performs linear interpolation between a and b using factor x in [0,1].
func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

// NearlyEqual reports whether a and b are within Epsilon of each other.
func NearlyEqual(a, b float64) bool {
	return Abs(a-b) < Epsilon
}
