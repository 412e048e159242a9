package render

import (
	"io"

	"github.com/soypat/csg"
)

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like io.ReadAll.
func RenderAll(r Renderer) ([]csg.Triangle3, error) {
	var err error
	var nt int
	result := make([]csg.Triangle3, 0, 1<<12)
	buf := make([]csg.Triangle3, 1024)
	for err == nil {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

type triangle3Buffer struct {
	buf []csg.Triangle3
}

// Read reads from this buffer.
func (b *triangle3Buffer) Read(t []csg.Triangle3) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangle3Buffer) Write(t []csg.Triangle3) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangle3Buffer) Len() int { return len(b.buf) }
