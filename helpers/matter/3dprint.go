package matter

import (
	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{shrink: 0.2e-2, pullShrink: .45} // 0.2% shrinkage
)

type ViscousMaterial struct {
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
	// pullShrink takes into account viscoelastic shrinkage.
	pullShrink float64
}

// Scale returns a shallow copy of m enlarged about the origin to compensate
// for thermal shrinkage. The scaling is stored in the pending transform, the
// vertex and face slices are shared with m.
func (m ViscousMaterial) Scale(mesh *csg.Mesh) *csg.Mesh {
	k := 1 / (1 - m.shrink)
	scaled := *mesh
	scaled.Transform = mesh.Transform.Scale(r3.Vec{}, r3.Vec{X: k, Y: k, Z: k})
	return &scaled
}

// InternalDimScale returns the dimension to model so that a hole prints with
// the real dimension.
func (m ViscousMaterial) InternalDimScale(real float64) float64 {
	if real <= 0 {
		panic("InternalDimScale only works for non-zero dimensions")
	}
	return real*(m.shrink+1) + m.pullShrink
}
