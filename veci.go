/*

Integer 2D/3D Vectors and Boxes

*/

package csg

import (
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

// V2i is a 2D integer vector.
type V2i [2]int

// V3i is a 3D integer vector. It is comparable and used directly as a map key
// for grid point caches.
type V3i [3]int

// AddScalar adds a scalar to each component of the vector.
func (a V2i) AddScalar(b int) V2i {
	return V2i{a[0] + b, a[1] + b}
}

// AddScalar adds a scalar to each component of the vector.
func (a V3i) AddScalar(b int) V3i {
	return V3i{a[0] + b, a[1] + b, a[2] + b}
}

// Add adds two vectors. Return v = a + b.
func (a V2i) Add(b V2i) V2i {
	return V2i{a[0] + b[0], a[1] + b[1]}
}

// Sub subtracts two vectors. Return v = a - b.
func (a V2i) Sub(b V2i) V2i {
	return V2i{a[0] - b[0], a[1] - b[1]}
}

// Add adds two vectors. Return v = a + b.
func (a V3i) Add(b V3i) V3i {
	return V3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub subtracts two vectors. Return v = a - b.
func (a V3i) Sub(b V3i) V3i {
	return V3i{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Less orders vectors lexicographically by X, then Y, then Z.
func (a V3i) Less(b V3i) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// Line returns the coordinates of a orthogonal to axis, in the order
// ((axis+1)%3, (axis+2)%3). This is how lines along axis are addressed.
func (a V3i) Line(axis int) V2i {
	return V2i{a[(axis+1)%3], a[(axis+2)%3]}
}

// ToV3 converts V3i (integer) to r3.Vec (float).
func (a V3i) ToV3() r3.Vec {
	return r3.Vec{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

func (a V3i) String() string {
	return "(" + strconv.Itoa(a[0]) + ", " + strconv.Itoa(a[1]) + ", " + strconv.Itoa(a[2]) + ")"
}

// Unit returns the integer unit vector along axis.
func Unit(axis int) V3i {
	var u V3i
	u[axis] = 1
	return u
}

// Box2i is an inclusive integer 2D box. A box with any Max component lower
// than the Min component is empty.
type Box2i struct {
	Min, Max V2i
}

// Box3i is an inclusive integer 3D box.
type Box3i struct {
	Min, Max V3i
}

// Empty reports whether the box contains no points.
func (b Box2i) Empty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1]
}

// Dim returns the number of points along each coordinate minus one, as in
// Max - Min. Empty boxes return negative components.
func (b Box2i) Dim() V2i { return b.Max.Sub(b.Min) }

// Contains reports whether p lies within the box, bounds included.
func (b Box2i) Contains(p V2i) bool {
	return b.Min[0] <= p[0] && p[0] <= b.Max[0] &&
		b.Min[1] <= p[1] && p[1] <= b.Max[1]
}

// Intersect returns the box shared by a and b. The result may be empty.
func (b Box2i) Intersect(o Box2i) Box2i {
	return Box2i{
		Min: V2i{max(b.Min[0], o.Min[0]), max(b.Min[1], o.Min[1])},
		Max: V2i{min(b.Max[0], o.Max[0]), min(b.Max[1], o.Max[1])},
	}
}

// Union returns the smallest box enclosing both boxes. Empty operands are ignored.
func (b Box2i) Union(o Box2i) Box2i {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Box2i{
		Min: V2i{min(b.Min[0], o.Min[0]), min(b.Min[1], o.Min[1])},
		Max: V2i{max(b.Max[0], o.Max[0]), max(b.Max[1], o.Max[1])},
	}
}

// Empty reports whether the box contains no points.
func (b Box3i) Empty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// Dim returns Max - Min.
func (b Box3i) Dim() V3i { return b.Max.Sub(b.Min) }

// Contains reports whether p lies within the box, bounds included.
func (b Box3i) Contains(p V3i) bool {
	return b.Min[0] <= p[0] && p[0] <= b.Max[0] &&
		b.Min[1] <= p[1] && p[1] <= b.Max[1] &&
		b.Min[2] <= p[2] && p[2] <= b.Max[2]
}

// Intersect returns the box shared by a and b. The result may be empty.
func (b Box3i) Intersect(o Box3i) Box3i {
	var r Box3i
	for i := 0; i < 3; i++ {
		r.Min[i] = max(b.Min[i], o.Min[i])
		r.Max[i] = min(b.Max[i], o.Max[i])
	}
	return r
}

// Union returns the smallest box enclosing both boxes. Empty operands are ignored.
func (b Box3i) Union(o Box3i) Box3i {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	var r Box3i
	for i := 0; i < 3; i++ {
		r.Min[i] = min(b.Min[i], o.Min[i])
		r.Max[i] = max(b.Max[i], o.Max[i])
	}
	return r
}

// Plane returns the projection of the box on the plane orthogonal to axis,
// using the same coordinate order as V3i.Line.
func (b Box3i) Plane(axis int) Box2i {
	return Box2i{Min: b.Min.Line(axis), Max: b.Max.Line(axis)}
}
