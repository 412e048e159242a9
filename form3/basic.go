// Package form3 builds closed triangle meshes of simple solids. The
// constructors in this package recover from invalid arguments and return an
// error; those in must3 panic.
package form3

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/csg"
	"github.com/soypat/csg/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

func recoverShape(err *error) {
	if a := recover(); a != nil {
		*err = &shapeErr{
			panicObj: a,
			stack:    string(debug.Stack()),
		}
	}
}

// Box returns a mesh of the axis aligned box [min, max].
func Box(min, max r3.Vec) (m *csg.Mesh, err error) {
	defer recoverShape(&err)
	return must3.Box(min, max), err
}

// Cube returns a mesh of the cube with the given minimum corner and side.
func Cube(min r3.Vec, side float64) (*csg.Mesh, error) {
	return Box(min, r3.Add(min, r3.Vec{X: side, Y: side, Z: side}))
}

// Sphere returns a UV sphere mesh.
func Sphere(center r3.Vec, radius float64, slices, stacks int) (m *csg.Mesh, err error) {
	defer recoverShape(&err)
	return must3.Sphere(center, radius, slices, stacks), err
}

// Cylinder returns a capped cylinder mesh along Z.
func Cylinder(base r3.Vec, radius, height float64, segments int) (m *csg.Mesh, err error) {
	defer recoverShape(&err)
	return must3.Cylinder(base, radius, height, segments), err
}
