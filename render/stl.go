package render

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNormalMismatch is returned alongside the triangles read when stored
// normals disagree with the vertex winding. The triangles are usable.
var ErrNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices")

// CreateSTL writes the triangles of a Renderer to a binary STL file.
func CreateSTL(path string, r Renderer) error {
	const sizeOfSTLHeader = 84
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	// Header is written last, once the triangle count is known.
	_, err = file.Seek(sizeOfSTLHeader, io.SeekStart)
	if err != nil {
		return err
	}
	rd := &stlReader{
		r: r,
	}
	n, err := io.CopyBuffer(file, rd, make([]byte, 50*trianglesInBuffer))
	if err != nil {
		return err
	}
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}
	header := stlHeader{
		Count: uint32(n / 50), // size of stl triangles is 50
	}
	if err = binary.Write(file, binary.LittleEndian, &header); err != nil {
		return err
	}
	return file.Close()
}

// WriteSTL writes model triangles to a writer in binary STL file format.
func WriteSTL(w io.Writer, model []csg.Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{
		Count: uint32(len(model)),
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return err
	}
	var b [50]byte
	for _, triangle := range model {
		newSTLTriangle(triangle).put(b[:])
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

const trianglesInBuffer = 1 << 10

// stlReader adapts a Renderer to an io.Reader of binary STL triangles.
type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]csg.Triangle3
	err error
}

func (w *stlReader) Read(b []byte) (int, error) {
	const stlTriangleSize = 50
	if w.err != nil {
		return 0, w.err
	}
	ntMax := min(len(b)/stlTriangleSize, len(w.buf))
	if ntMax == 0 {
		return 0, errors.New("stlReader requires at least 50 bytes to write a single triangle")
	}
	nt, err := w.r.ReadTriangles(w.buf[:ntMax])
	if nt > ntMax {
		panic("bug: ReadTriangles read more triangles than available in buffer")
	}
	for i, triangle := range w.buf[:nt] {
		newSTLTriangle(triangle).put(b[i*stlTriangleSize:])
	}
	w.err = err
	if nt > 0 && err == io.EOF {
		// Report the data now, EOF on the next call.
		return nt * stlTriangleSize, nil
	}
	return nt * stlTriangleSize, err
}

// ReadSTL reads a binary or ASCII STL stream. If stored normals disagree
// with the vertex winding the triangles are returned with ErrNormalMismatch.
func ReadSTL(r io.Reader) ([]csg.Triangle3, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) >= 84 {
		count := binary.LittleEndian.Uint32(data[80:84])
		if int64(len(data)) == 84+50*int64(count) {
			return readBinarySTL(bytes.NewReader(data))
		}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return readASCIISTL(bytes.NewReader(data))
	}
	return readBinarySTL(bytes.NewReader(data))
}

func readBinarySTL(r io.Reader) (output []csg.Triangle3, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf            [50]byte
		d              stlTriangle
		i              int
		normMismatches int
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, ErrNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	output = make([]csg.Triangle3, 0, header.Count)
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			if !errors.Is(err, ErrNormalMismatch) {
				return nil, err
			}
			normMismatches++
		}
		output = append(output, d.toTriangle3())
	}
	if normMismatches > 0 {
		return output, fmt.Errorf("%d triangles: %w", normMismatches, ErrNormalMismatch)
	}
	return output, nil
}

// readASCIISTL reads the "vertex x y z" triplets of an ASCII STL file.
// Stored facet normals are ignored.
func readASCIISTL(r io.Reader) ([]csg.Triangle3, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	var (
		out  triangle3Buffer
		tri  csg.Triangle3
		nv   int
		line int
	)
	next := func() (float64, error) {
		if !sc.Scan() {
			return 0, io.ErrUnexpectedEOF
		}
		return strconv.ParseFloat(sc.Text(), 64)
	}
	for sc.Scan() {
		if sc.Text() != "vertex" {
			continue
		}
		line++
		var v [3]float64
		for i := range v {
			f, err := next()
			if err != nil {
				return nil, fmt.Errorf("ASCII STL vertex %d: %w", line, err)
			}
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("ASCII STL vertex %d: inf/NaN coordinate", line)
			}
			v[i] = f
		}
		tri.V[nv] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
		nv++
		if nv == 3 {
			out.Write([]csg.Triangle3{tri})
			nv = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if nv != 0 {
		return nil, errors.New("ASCII STL ends with an incomplete facet")
	}
	if out.Len() == 0 {
		return nil, errors.New("ASCII STL has no facets")
	}
	return out.buf, nil
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func newSTLTriangle(t csg.Triangle3) (d stlTriangle) {
	n := t.Normal()
	d.Normal = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	d.Vertex1 = [3]float32{float32(t.V[0].X), float32(t.V[0].Y), float32(t.V[0].Z)}
	d.Vertex2 = [3]float32{float32(t.V[1].X), float32(t.V[1].Y), float32(t.V[1].Z)}
	d.Vertex3 = [3]float32{float32(t.V[2].X), float32(t.V[2].Y), float32(t.V[2].Z)}
	return d
}

func (t stlTriangle) put(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < 50 {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// no attributes supported yet.
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func (t stlTriangle) validate() error {
	const normTol = 5e-2
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.Normal == [3]float32{} {
		// Writers may leave normals out.
		return nil
	}
	calcNormal, ok := t.normalFromVertices()
	if !ok {
		// Degenerate triangles have no meaningful normal.
		return nil
	}
	if !equalWithin3F32(calcNormal, t.Normal, normTol) {
		return ErrNormalMismatch
	}
	return nil
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func (t stlTriangle) normalFromVertices() ([3]float32, bool) {
	n := t.toTriangle3().Normal()
	if n == (r3.Vec{}) {
		return [3]float32{}, false
	}
	return [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}, true
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func (d stlTriangle) toTriangle3() csg.Triangle3 {
	return csg.Triangle3{V: [3]r3.Vec{
		r3From3F32(d.Vertex1),
		r3From3F32(d.Vertex2),
		r3From3F32(d.Vertex3),
	}}
}
