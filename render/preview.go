package render

import (
	"errors"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera of a mesh preview. The mesh is first fit in a
// bi-unit cube centered at the origin.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// Output size in pixels.
	Width, Height int
	// Supersampling factor for antialiasing, 1 disables it.
	Scale int
}

// DefaultView looks at the origin from (3,3,3) with Z up.
func DefaultView() View {
	return View{
		Up:     r3.Vec{Z: 1},
		Eye:    r3.Vec{X: 3, Y: 3, Z: 3},
		Near:   1,
		Far:    10,
		Width:  960,
		Height: 540,
		Scale:  2,
	}
}

// SavePNG renders a shaded preview of m to a PNG file.
func SavePNG(path string, m *csg.Mesh, view View) error {
	if m.Empty() {
		return errors.New("cannot preview empty mesh")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return errors.New("preview size must be positive")
	}
	scale := max(view.Scale, 1)
	const fovy = 30 // vertical field of view in degrees
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)          // camera position
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z) // view center position
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)             // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()                  // light direction
		color  = fauxgl.HexColor("#468966")                            // object color
	)
	triangles := make([]*fauxgl.Triangle, len(m.Faces))
	for i := range m.Faces {
		t := m.Triangle(i)
		triangles[i] = fauxgl.NewTriangleForPoints(
			fauxgl.V(t.V[0].X, t.V[0].Y, t.V[0].Z),
			fauxgl.V(t.V[1].X, t.V[1].Y, t.V[1].Z),
			fauxgl.V(t.V[2].X, t.V[2].Y, t.V[2].Z),
		)
	}
	mesh := fauxgl.NewTriangleMesh(triangles)
	mesh.BiUnitCube()

	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(view.Width), uint(view.Height), image, resize.Bilinear)
	return fauxgl.SavePNG(path, image)
}
