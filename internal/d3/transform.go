package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine 3D transformation: a 3x3 linear part followed by a
// translation. The zero value of Transform is the identity transform.
type Transform struct {
	// The diagonal is stored with the identity subtracted so that
	//  d00 = x00-1, d11 = x11-1, d22 = x22-1
	// and the identity check is simply
	//  if T == (Transform{})
	d00, x01, x02, x03 float64
	x10, d11, x12, x13 float64
	x20, x21, d22, x23 float64
}

// NewTransform returns the affine transform with the first three rows of a
// row-major 4x4 matrix. The last row is assumed to be (0, 0, 0, 1).
func NewTransform(rows [12]float64) Transform {
	return Transform{
		d00: rows[0] - 1, x01: rows[1], x02: rows[2], x03: rows[3],
		x10: rows[4], d11: rows[5] - 1, x12: rows[6], x13: rows[7],
		x20: rows[8], x21: rows[9], d22: rows[10] - 1, x23: rows[11],
	}
}

// Apply transforms the point v.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	if t == (Transform{}) {
		return v
	}
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z + t.x03,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z + t.x13,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z + t.x23,
	}
}

// Translate appends a translation by v.
func (t Transform) Translate(v r3.Vec) Transform {
	t.x03 += v.X
	t.x13 += v.Y
	t.x23 += v.Z
	return t
}

// Scale appends a scaling about origin by factor.
func (t Transform) Scale(origin, factor r3.Vec) Transform {
	s := Transform{d00: factor.X - 1, d11: factor.Y - 1, d22: factor.Z - 1}
	s = s.Translate(r3.Sub(origin, MulElem(factor, origin)))
	return s.Mul(t)
}

// RotateZ appends a rotation of theta radians around the Z axis.
func (t Transform) RotateZ(theta float64) Transform {
	sin, cos := math.Sincos(theta)
	r := Transform{d00: cos - 1, x01: -sin, x10: sin, d11: cos - 1}
	return r.Mul(t)
}

// Mul returns the transform that applies b first and then t.
func (t Transform) Mul(b Transform) Transform {
	if t == (Transform{}) {
		return b
	}
	if b == (Transform{}) {
		return t
	}
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	y00, y11, y22 := b.d00+1, b.d11+1, b.d22+1
	var m Transform
	m.d00 = x00*y00 + t.x01*b.x10 + t.x02*b.x20 - 1
	m.x01 = x00*b.x01 + t.x01*y11 + t.x02*b.x21
	m.x02 = x00*b.x02 + t.x01*b.x12 + t.x02*y22
	m.x03 = x00*b.x03 + t.x01*b.x13 + t.x02*b.x23 + t.x03
	m.x10 = t.x10*y00 + x11*b.x10 + t.x12*b.x20
	m.d11 = t.x10*b.x01 + x11*y11 + t.x12*b.x21 - 1
	m.x12 = t.x10*b.x02 + x11*b.x12 + t.x12*y22
	m.x13 = t.x10*b.x03 + x11*b.x13 + t.x12*b.x23 + t.x13
	m.x20 = t.x20*y00 + t.x21*b.x10 + x22*b.x20
	m.x21 = t.x20*b.x01 + t.x21*y11 + x22*b.x21
	m.d22 = t.x20*b.x02 + t.x21*b.x12 + x22*y22 - 1
	m.x23 = t.x20*b.x03 + t.x21*b.x13 + x22*b.x23 + t.x23
	return m
}

// Det returns the determinant of the linear part. A negative determinant
// mirrors the space and flips the winding of transformed triangles.
func (t Transform) Det() float64 {
	x00, x11, x22 := t.d00+1, t.d11+1, t.d22+1
	return x00*(x11*x22-t.x12*t.x21) -
		t.x01*(t.x10*x22-t.x12*t.x20) +
		t.x02*(t.x10*t.x21-x11*t.x20)
}
