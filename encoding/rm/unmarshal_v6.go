package rm

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/ddvk/rmraster/log"
)

// V6 wraps strokes in a tagged container without a public description.
// Line blocks are located by their header tag and the point array inside
// each block by its length prefixed marker.

const (
	lineDefinitionTag = 0x05020200
	pointArrayTag     = 0x5c
	pointSizeV6       = 14 // float32 x, float32 y, 6 bytes of speed/width/direction/pressure
	maxBlockLength    = 2 * 1024 * 1024
	// the colour sits this many bytes before the point array marker
	colorOffset = 18
	// block data starts this many bytes after the tag
	blockDataOffset = 8
	// the point array marker is followed by its u32 length
	pointArrayHeaderLen = 5

	// horizontal origin correction, v6 x=0 is the page centre
	originShiftX = DeviceWidth / 2
)

var lineDefinitionMarker = func() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, lineDefinitionTag)
	return b
}()

// unmarshalV6 recovers strokes from a version 6 file
func unmarshalV6(data []byte) ([]Stroke, BoundingBox) {
	var strokes []Stroke
	var box bounds
	blocks := 0

	for pos := 0; pos < len(data); {
		rel := bytes.Index(data[pos:], lineDefinitionMarker)
		if rel < 0 {
			break
		}
		i := pos + rel
		pos = i + 1

		if i < 4 {
			continue
		}
		blockLength := binary.LittleEndian.Uint32(data[i-4 : i])
		if blockLength == 0 || blockLength > maxBlockLength {
			log.Trace.Printf("v6: implausible block length %d at %d", blockLength, i)
			continue
		}
		start := i + blockDataOffset
		end := start + int(blockLength)
		if end > len(data) {
			log.Trace.Printf("v6: block at %d overruns buffer", i)
			continue
		}
		blocks++

		stroke, ok := parseLineBlock(data[start:end])
		if !ok {
			continue
		}
		for _, p := range stroke.Points {
			box.add(p)
		}
		strokes = append(strokes, stroke)
	}

	log.Trace.Printf("v6: %d line blocks, %d strokes", blocks, len(strokes))
	return strokes, box.boundingBox()
}

// parseLineBlock extracts the longest point array of a line block
func parseLineBlock(body []byte) (Stroke, bool) {
	at, count := findPointArray(body)
	if count == 0 {
		return Stroke{}, false
	}

	var color uint32
	if at >= colorOffset {
		color = binary.LittleEndian.Uint32(body[at-colorOffset:])
	}

	start := at + pointArrayHeaderLen
	points := make([]Point, 0, count)
	for k := 0; k < count; k++ {
		o := start + k*pointSizeV6
		x := math.Float32frombits(binary.LittleEndian.Uint32(body[o : o+4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(body[o+4 : o+8]))
		if !isValidCoordinate(x) || !isValidCoordinate(y) {
			continue
		}
		points = append(points, Point{X: x + originShiftX, Y: y})
	}

	points, ok := strokeOf(points)
	if !ok {
		return Stroke{}, false
	}
	return Stroke{Color: color, Points: points}, true
}

// findPointArray returns the offset of the point array marker holding the
// most points and that point count. Shorter matches are marker bytes
// inside point payloads; the first of equal length wins.
func findPointArray(body []byte) (at, count int) {
	at = -1
	for idx := 0; idx < len(body); idx++ {
		rel := bytes.IndexByte(body[idx:], pointArrayTag)
		if rel < 0 {
			break
		}
		idx += rel
		if idx+pointArrayHeaderLen+pointSizeV6 > len(body) {
			break
		}
		length := uint64(binary.LittleEndian.Uint32(body[idx+1 : idx+5]))
		n := int(length / pointSizeV6)
		if n == 0 || length%pointSizeV6 != 0 {
			continue
		}
		if uint64(idx+pointArrayHeaderLen)+length > uint64(len(body)) {
			continue
		}
		if n > count {
			at, count = idx, n
		}
	}
	return at, count
}

// bounds folds points into a bounding box
type bounds struct {
	box  BoundingBox
	init bool
}

func (b *bounds) add(p Point) {
	if !b.init {
		b.box = BoundingBox{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
		b.init = true
		return
	}
	b.box.MinX = min(b.box.MinX, p.X)
	b.box.MinY = min(b.box.MinY, p.Y)
	b.box.MaxX = max(b.box.MaxX, p.X)
	b.box.MaxY = max(b.box.MaxY, p.Y)
}

func (b *bounds) boundingBox() BoundingBox {
	if !b.init {
		return DefaultBoundingBox
	}
	return b.box
}

// isValidCoordinate checks if a coordinate is valid (not NaN or Inf)
func isValidCoordinate(coord float32) bool {
	return !math.IsNaN(float64(coord)) && !math.IsInf(float64(coord), 0)
}
