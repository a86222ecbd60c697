package rm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ddvk/rmraster/log"
)

// segmentLen is the on-disk size of one v3/v5 point
const segmentLen = 24

// UnmarshalBinary implements encoding.UnmarshalBinary for
// transforming bytes into a Rm page
func (rm *Rm) UnmarshalBinary(data []byte) error {
	version, err := sniffVersion(data)
	if err != nil {
		return err
	}
	rm.Version = version
	rm.Strokes = nil
	rm.BoundingBox = nil

	if version == V6 {
		strokes, bbox := unmarshalV6(data)
		rm.Strokes = strokes
		rm.BoundingBox = &bbox
		return nil
	}

	r, err := newReader(data, version)
	if err != nil {
		return err
	}

	nbLayers, err := r.readNumber()
	if err != nil {
		return err
	}

	for i := uint32(0); i < nbLayers; i++ {
		nbLines, err := r.readNumber()
		if err != nil {
			return err
		}

		for j := uint32(0); j < nbLines; j++ {
			stroke, ok, err := r.readStroke()
			if err != nil {
				return fmt.Errorf("layer %d stroke %d: %w", i, j, err)
			}
			if ok {
				rm.Strokes = append(rm.Strokes, stroke)
			}
		}
	}

	return nil
}

// sniffVersion checks the header prefix and maps the version digit.
// Unknown digits fall back to V3.
func sniffVersion(data []byte) (Version, error) {
	if !bytes.HasPrefix(data, []byte(HeaderPrefix)) {
		return 0, ErrFormat
	}

	digit := byte(0)
	if len(data) > len(HeaderPrefix) {
		digit = data[len(HeaderPrefix)]
	}

	switch digit {
	case '3':
		return V3, nil
	case '5':
		return V5, nil
	case '6':
		return V6, nil
	default:
		log.Trace.Printf("unknown version digit %q, decoding as v3", digit)
		return V3, nil
	}
}

type reader struct {
	bytes.Reader
	version Version
}

func newReader(data []byte, version Version) (*reader, error) {
	if len(data) < HeaderLen {
		return nil, fmt.Errorf("header: %w", ErrTruncated)
	}
	r := &reader{version: version}
	r.Reset(data[HeaderLen:])
	return r, nil
}

func (r *reader) read(v interface{}) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncated
		}
		return err
	}
	return nil
}

func (r *reader) readNumber() (uint32, error) {
	var nb uint32
	if err := r.read(&nb); err != nil {
		return 0, fmt.Errorf("wrong number read: %w", err)
	}
	return nb, nil
}

// readStroke reads one stroke record and its segments. ok is false
// for strokes without segments.
func (r *reader) readStroke() (stroke Stroke, ok bool, err error) {
	var header struct {
		BrushType BrushType
		Color     uint32
		Padding   uint32
		BrushSize float32
	}
	if err = r.read(&header); err != nil {
		return stroke, false, fmt.Errorf("failed to read line: %w", err)
	}

	// this attribute has been added in v5
	if r.version == V5 {
		var unknown uint32
		if err = r.read(&unknown); err != nil {
			return stroke, false, fmt.Errorf("failed to read line: %w", err)
		}
	}

	nbPoints, err := r.readNumber()
	if err != nil {
		return stroke, false, err
	}

	if int64(nbPoints)*segmentLen > int64(r.Len()) {
		return stroke, false, fmt.Errorf("%d segments: %w", nbPoints, ErrTruncated)
	}

	points := make([]Point, nbPoints)
	for i := range points {
		if points[i], err = r.readPoint(); err != nil {
			return stroke, false, err
		}
	}

	stroke.Points, ok = strokeOf(points)
	stroke.BrushType = header.BrushType
	stroke.Color = header.Color
	stroke.BrushSize = header.BrushSize
	return stroke, ok, nil
}

func (r *reader) readPoint() (Point, error) {
	var segment struct {
		X, Y, Speed, Direction, Width, Pressure float32
	}
	if err := r.read(&segment); err != nil {
		return Point{}, fmt.Errorf("failed to read point: %w", err)
	}
	return Point{X: segment.X, Y: segment.Y}, nil
}
