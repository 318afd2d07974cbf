// pkg/geom/vecmat.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package geom

import gomath "math"

// Point is a location in the planner's dimensionless [0,100]x[0,100] world.
// Unlike the teacher's Point2LL (always a lat-long pair), a Point here is
// just a plain 2D vector; names on the arithmetic helpers below are kept
// brief, as in the teacher's vecmat.go, since they get used everywhere.
type Point [2]float64

func (p Point) X() float64 { return p[0] }
func (p Point) Y() float64 { return p[1] }

// Add returns a+b.
func Add(a, b Point) Point { return Point{a[0] + b[0], a[1] + b[1]} }

// Sub returns a-b.
func Sub(a, b Point) Point { return Point{a[0] - b[0], a[1] - b[1]} }

// Scale returns a*s.
func Scale(a Point, s float64) Point { return Point{s * a[0], s * a[1]} }

// Mid returns the midpoint of a and b.
func Mid(a, b Point) Point { return Scale(Add(a, b), 0.5) }

func Dot(a, b Point) float64 { return a[0]*b[0] + a[1]*b[1] }

// LerpPoint linearly interpolates x of the way between a and b.
func LerpPoint(x float64, a, b Point) Point {
	return Point{(1-x)*a[0] + x*b[0], (1-x)*a[1] + x*b[1]}
}

// Length returns the length of v.
func Length(v Point) float64 { return Sqrt(Dot(v, v)) }

// Distance returns the distance between two points.
func Distance(a, b Point) float64 { return Length(Sub(a, b)) }

// Normalize returns a unit vector in the direction of a, or the zero
// vector if a is degenerate.
func Normalize(a Point) Point {
	l := Length(a)
	if l == 0 {
		return Point{0, 0}
	}
	return Scale(a, 1/l)
}

// Perp returns the vector v rotated 90 degrees counterclockwise.
func Perp(v Point) Point { return Point{-v[1], v[0]} }

// Cross2D returns the z-component of the 3D cross product of a and b,
// treated as vectors in the z=0 plane; its sign indicates the turn
// direction from a to b.
func Cross2D(a, b Point) float64 { return a[0]*b[1] - a[1]*b[0] }

// AngleBetween returns the angle, in radians, between v1 and v2.
// Equivalent to acos(Dot(normalize(v1), normalize(v2))) but more
// numerically stable for small angles.
// via http://www.plunk.org/~hatch/rightway.html
func AngleBetween(v1, v2 Point) float64 {
	n1, n2 := Normalize(v1), Normalize(v2)
	asin := func(a float64) float64 {
		return gomath.Asin(Clamp(a, -1, 1))
	}
	if Dot(n1, n2) < 0 {
		return Pi - 2*asin(Length(Add(n1, n2))/2)
	}
	return 2 * asin(Length(Sub(n2, n1))/2)
}
