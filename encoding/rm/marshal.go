package rm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// MarshalBinary implements encoding.MarshalBinary for
// transforming a Rm page into bytes. All strokes are written to a
// single layer; V6 pages cannot be written.
func (rm *Rm) MarshalBinary() (data []byte, err error) {
	if rm.Version == V6 {
		return nil, fmt.Errorf("rm: writing %s is not supported", rm.Version)
	}

	w := &writer{version: rm.Version}
	if w.version != V3 {
		w.version = V5
	}

	w.writeHeader()
	w.writeNumber(1)
	w.writeNumber(len(rm.Strokes))
	for _, stroke := range rm.Strokes {
		w.writeStroke(stroke)
	}

	return w.Bytes(), nil
}

type writer struct {
	b       bytes.Buffer
	version Version
}

func (w *writer) Bytes() []byte {
	return w.b.Bytes()
}

// Header returns the padded header of a v3 or v5 file
func Header(version Version) string {
	h := fmt.Sprintf("%s%d", HeaderPrefix, int(version))
	return h + strings.Repeat(" ", HeaderLen-len(h))
}

func (w *writer) writeHeader() {
	w.b.WriteString(Header(w.version))
}

func (w *writer) writeNumber(n int) {
	binary.Write(&w.b, binary.LittleEndian, uint32(n))
}

func (w *writer) writeFloat32(n float32) {
	binary.Write(&w.b, binary.LittleEndian, n)
}

func (w *writer) writeStroke(stroke Stroke) {
	w.writeNumber(int(stroke.BrushType))
	w.writeNumber(int(stroke.Color))
	w.writeNumber(0)
	w.writeFloat32(stroke.BrushSize)
	if w.version == V5 {
		w.writeNumber(0)
	}

	w.writeNumber(len(stroke.Points))
	for _, point := range stroke.Points {
		w.writePoint(point)
	}
}

func (w *writer) writePoint(point Point) {
	w.writeFloat32(point.X)
	w.writeFloat32(point.Y)
	// speed, direction, width, pressure
	w.writeFloat32(0)
	w.writeFloat32(0)
	w.writeFloat32(2)
	w.writeFloat32(.3)
}
