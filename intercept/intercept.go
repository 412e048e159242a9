// Package intercept implements boolean operations on closed triangle meshes
// by Marching Intersections. A solid is sampled as the exact, sorted list of
// surface crossings along every grid line parallel to each of the three
// axes. Boolean operations are one dimensional interval operations on those
// lists, and the result is turned back into a mesh by walking the cells that
// contain crossings.
//
// Distances along grid lines are exact rationals, so rasterizing a mesh
// never loses or duplicates a crossing on shared edges and vertices.
package intercept

import (
	"fmt"
	"math/big"

	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// Intercept is the crossing of a grid line with the surface of a solid.
type Intercept struct {
	// Dist is the position along the line in grid units. It must not be
	// modified once the intercept is built.
	Dist *big.Rat
	// Norm is the unit surface normal at the crossing.
	Norm r3.Vec
	// SortNorm is the component of Norm along the line's axis. It breaks
	// ties between crossings at the same distance.
	SortNorm float64
	// Quality is the surface quality interpolated at the crossing.
	Quality float64
}

// Key identifies an intercept within a Volume: the axis of its grid line,
// the line coordinates and its index in the line's ray.
type Key struct {
	Axis  int
	Line  csg.V2i
	Index int
}

// Neg returns the intercept with its normal flipped. The distance is shared.
func (x Intercept) Neg() Intercept {
	x.Norm = r3.Scale(-1, x.Norm)
	x.SortNorm = -x.SortNorm
	return x
}

// Cmp orders intercepts by distance, then by SortNorm.
func (x Intercept) Cmp(o Intercept) int {
	if c := x.Dist.Cmp(o.Dist); c != 0 {
		return c
	}
	switch {
	case x.SortNorm < o.SortNorm:
		return -1
	case x.SortNorm > o.SortNorm:
		return 1
	}
	return 0
}

// Less reports whether x sorts before o.
func (x Intercept) Less(o Intercept) bool { return x.Cmp(o) < 0 }

// CmpDist compares the distance of x against the grid coordinate s.
func (x Intercept) CmpDist(s int) int { return cmpRatInt(x.Dist, s) }

// Float returns the distance as the nearest float64.
func (x Intercept) Float() float64 {
	f, _ := x.Dist.Float64()
	return f
}

func (x Intercept) String() string {
	return fmt.Sprintf("%s(%.3g)", x.Dist.RatString(), x.SortNorm)
}

func cmpRatInt(r *big.Rat, s int) int {
	if r.IsInt() {
		return r.Num().Cmp(big.NewInt(int64(s)))
	}
	var t big.Int
	t.Mul(big.NewInt(int64(s)), r.Denom())
	return r.Num().Cmp(&t)
}

// floorRat returns the largest integer not greater than r and whether r is
// an integer.
func floorRat(r *big.Rat) (int, bool) {
	if r.IsInt() {
		return int(r.Num().Int64()), true
	}
	var q, m big.Int
	// Euclidean division with a positive denominator rounds toward -inf.
	q.DivMod(r.Num(), r.Denom(), &m)
	return int(q.Int64()), false
}
