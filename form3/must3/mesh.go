package must3

import (
	"math"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Box corners are indexed x + 2y + 4z. Each quad is split along q0-q2.
var boxQuads = [6][4]int{
	{0, 4, 6, 2}, // -x
	{1, 3, 7, 5}, // +x
	{0, 1, 5, 4}, // -y
	{2, 6, 7, 3}, // +y
	{0, 2, 3, 1}, // -z
	{4, 5, 7, 6}, // +z
}

// Box returns a closed 12 triangle mesh of the axis aligned box [min, max].
func Box(min, max r3.Vec) *csg.Mesh {
	if !d3.Finite(min) || !d3.Finite(max) {
		panic("non finite box bounds")
	}
	if d3.LTEZero(r3.Sub(max, min)) {
		panic("box size <= 0")
	}
	m := &csg.Mesh{}
	for k := 0; k < 8; k++ {
		p := min
		if k&1 != 0 {
			p.X = max.X
		}
		if k&2 != 0 {
			p.Y = max.Y
		}
		if k&4 != 0 {
			p.Z = max.Z
		}
		m.AddVertex(csg.Vertex{P: p})
	}
	for _, q := range boxQuads {
		m.AddFace(q[0], q[1], q[2])
		m.AddFace(q[0], q[2], q[3])
	}
	m.UpdateNormals()
	return m
}

// Sphere returns a UV sphere with the given number of slices around the Z
// axis and stacks from pole to pole.
func Sphere(center r3.Vec, radius float64, slices, stacks int) *csg.Mesh {
	if radius <= 0 {
		panic("radius <= 0")
	}
	if slices < 3 || stacks < 2 {
		panic("sphere needs at least 3 slices and 2 stacks")
	}
	m := &csg.Mesh{}
	north := m.AddVertex(csg.Vertex{P: r3.Add(center, r3.Vec{Z: radius})})
	ring := func(i, j int) int { return 1 + (i-1)*slices + j%slices }
	for i := 1; i < stacks; i++ {
		sinPhi, cosPhi := math.Sincos(math.Pi * float64(i) / float64(stacks))
		for j := 0; j < slices; j++ {
			sinTheta, cosTheta := math.Sincos(2 * math.Pi * float64(j) / float64(slices))
			m.AddVertex(csg.Vertex{P: r3.Add(center, r3.Vec{
				X: radius * sinPhi * cosTheta,
				Y: radius * sinPhi * sinTheta,
				Z: radius * cosPhi,
			})})
		}
	}
	south := m.AddVertex(csg.Vertex{P: r3.Add(center, r3.Vec{Z: -radius})})
	for j := 0; j < slices; j++ {
		m.AddFace(north, ring(1, j), ring(1, j+1))
	}
	for i := 1; i < stacks-1; i++ {
		for j := 0; j < slices; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			m.AddFace(b, a, c)
			m.AddFace(b, c, d)
		}
	}
	for j := 0; j < slices; j++ {
		m.AddFace(south, ring(stacks-1, j+1), ring(stacks-1, j))
	}
	m.UpdateNormals()
	return m
}

// Cylinder returns a capped cylinder along Z with its base centered at base.
func Cylinder(base r3.Vec, radius, height float64, segments int) *csg.Mesh {
	if radius <= 0 || height <= 0 {
		panic("radius or height <= 0")
	}
	if segments < 3 {
		panic("cylinder needs at least 3 segments")
	}
	m := &csg.Mesh{}
	bottom := m.AddVertex(csg.Vertex{P: base})
	top := m.AddVertex(csg.Vertex{P: r3.Add(base, r3.Vec{Z: height})})
	for j := 0; j < segments; j++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(j) / float64(segments))
		p := r3.Add(base, r3.Vec{X: radius * cos, Y: radius * sin})
		m.AddVertex(csg.Vertex{P: p})
		p.Z += height
		m.AddVertex(csg.Vertex{P: p})
	}
	b := func(j int) int { return 2 + 2*(j%segments) }
	t := func(j int) int { return 3 + 2*(j%segments) }
	for j := 0; j < segments; j++ {
		m.AddFace(bottom, b(j+1), b(j))
		m.AddFace(top, t(j), t(j+1))
		m.AddFace(b(j), b(j+1), t(j+1))
		m.AddFace(b(j), t(j+1), t(j))
	}
	m.UpdateNormals()
	return m
}
