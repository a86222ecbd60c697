package rm

import (
	"bytes"
	"encoding/binary"
	"math"
)

// v6Page builds a version 6 file from line block bodies
func v6Page(bodies ...[]byte) []byte {
	var b bytes.Buffer
	b.WriteString(HeaderPrefix + "6          ")
	// unrelated container bytes before the first block
	b.Write([]byte{0x01, 0x00, 0x00, 0x00, 0x09, 0x01, 0x01, 0x01})
	for _, body := range bodies {
		binary.Write(&b, binary.LittleEndian, uint32(len(body)))
		binary.Write(&b, binary.LittleEndian, uint32(lineDefinitionTag))
		b.Write([]byte{0x1f, 0x01, 0x01, 0x21})
		b.Write(body)
	}
	return b.Bytes()
}

// lineBody builds a line block body with the colour 18 bytes before the
// point array marker
func lineBody(color uint32, points ...Point) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, color)
	b.Write(make([]byte, colorOffset-4))
	b.Write(pointArray(points...))
	return b.Bytes()
}

func pointArray(points ...Point) []byte {
	var b bytes.Buffer
	b.WriteByte(pointArrayTag)
	binary.Write(&b, binary.LittleEndian, uint32(len(points)*pointSizeV6))
	for _, p := range points {
		binary.Write(&b, binary.LittleEndian, math.Float32bits(p.X))
		binary.Write(&b, binary.LittleEndian, math.Float32bits(p.Y))
		b.Write(make([]byte, pointSizeV6-8))
	}
	return b.Bytes()
}

// fileBuilder writes v3/v5 files record by record
type fileBuilder struct {
	bytes.Buffer
}

func newFileBuilder(version Version) *fileBuilder {
	b := &fileBuilder{}
	b.WriteString(Header(version))
	return b
}

func (b *fileBuilder) number(n uint32) {
	binary.Write(b, binary.LittleEndian, n)
}

func (b *fileBuilder) float(f float32) {
	binary.Write(b, binary.LittleEndian, f)
}

func (b *fileBuilder) stroke(version Version, color uint32, points ...Point) {
	b.number(2)
	b.number(color)
	b.number(0)
	b.float(1.5)
	if version == V5 {
		b.number(0)
	}
	b.number(uint32(len(points)))
	for _, p := range points {
		b.float(p.X)
		b.float(p.Y)
		b.float(0)
		b.float(0)
		b.float(1)
		b.float(.5)
	}
}
