package rm

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalV6SingleStroke(t *testing.T) {
	data := v6Page(lineBody(0xFFFF0000, Point{X: 100, Y: 200}, Point{X: 150, Y: 300}))

	page, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, V6, page.Version)
	require.Len(t, page.Strokes, 1)

	stroke := page.Strokes[0]
	assert.Equal(t, uint32(0xFFFF0000), stroke.Color)
	assert.Equal(t, []Point{{X: 802, Y: 200}, {X: 852, Y: 300}}, stroke.Points)

	require.NotNil(t, page.BoundingBox)
	assert.Equal(t, BoundingBox{MinX: 802, MinY: 200, MaxX: 852, MaxY: 300}, *page.BoundingBox)
}

func TestUnmarshalV6BoundingBoxAcrossStrokes(t *testing.T) {
	data := v6Page(
		lineBody(0, Point{X: -700, Y: 10}, Point{X: 0, Y: 20}),
		lineBody(1, Point{X: 300, Y: 5}, Point{X: 100, Y: 900}),
	)

	page, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, page.Strokes, 2)
	assert.Equal(t, BoundingBox{MinX: 2, MinY: 5, MaxX: 1002, MaxY: 900}, *page.BoundingBox)
}

func TestUnmarshalV6Empty(t *testing.T) {
	page, err := Decode([]byte(HeaderPrefix + "6          "))
	require.NoError(t, err)
	assert.Empty(t, page.Strokes)
	assert.Equal(t, DefaultBoundingBox, *page.BoundingBox)
}

func TestUnmarshalV6LongestArrayWins(t *testing.T) {
	var body bytes.Buffer
	body.Write(pointArray(Point{X: 1, Y: 1}))
	colorAt := body.Len()
	binary.Write(&body, binary.LittleEndian, uint32(7))
	body.Write(make([]byte, colorOffset-4))
	require.Equal(t, colorAt+colorOffset, body.Len())
	body.Write(pointArray(Point{X: 10, Y: 10}, Point{X: 20, Y: 20}, Point{X: 30, Y: 30}))

	page, err := Decode(v6Page(body.Bytes()))
	require.NoError(t, err)
	require.Len(t, page.Strokes, 1)
	assert.Len(t, page.Strokes[0].Points, 3)
	assert.Equal(t, uint32(7), page.Strokes[0].Color)
}

func TestUnmarshalV6ColorTooCloseDefaultsBlack(t *testing.T) {
	body := append([]byte{0xAA, 0xBB}, pointArray(Point{X: 1, Y: 2}, Point{X: 3, Y: 4})...)

	page, err := Decode(v6Page(body))
	require.NoError(t, err)
	require.Len(t, page.Strokes, 1)
	assert.Equal(t, uint32(0), page.Strokes[0].Color)
}

func TestUnmarshalV6SinglePointDuplicated(t *testing.T) {
	page, err := Decode(v6Page(lineBody(0, Point{X: 0, Y: 50})))
	require.NoError(t, err)
	require.Len(t, page.Strokes, 1)
	assert.Equal(t, []Point{{X: 702, Y: 50}, {X: 702, Y: 50}}, page.Strokes[0].Points)
}

func TestUnmarshalV6SkipsImplausibleBlocks(t *testing.T) {
	var data bytes.Buffer
	data.WriteString(HeaderPrefix + "6          ")

	// zero length
	binary.Write(&data, binary.LittleEndian, uint32(0))
	binary.Write(&data, binary.LittleEndian, uint32(lineDefinitionTag))
	// beyond the sanity ceiling
	binary.Write(&data, binary.LittleEndian, uint32(maxBlockLength+1))
	binary.Write(&data, binary.LittleEndian, uint32(lineDefinitionTag))
	// overruns the buffer
	binary.Write(&data, binary.LittleEndian, uint32(4096))
	binary.Write(&data, binary.LittleEndian, uint32(lineDefinitionTag))
	data.Write(make([]byte, 16))

	page, err := Decode(data.Bytes())
	require.NoError(t, err)
	assert.Empty(t, page.Strokes)
	assert.Equal(t, DefaultBoundingBox, *page.BoundingBox)
}

func TestUnmarshalV6DropsNonFinitePoints(t *testing.T) {
	nan := float32(math.NaN())
	page, err := Decode(v6Page(lineBody(0, Point{X: nan, Y: 1}, Point{X: 1, Y: 1}, Point{X: 2, Y: 2})))
	require.NoError(t, err)
	require.Len(t, page.Strokes, 1)
	assert.Equal(t, []Point{{X: 703, Y: 1}, {X: 704, Y: 2}}, page.Strokes[0].Points)
}

func TestFindPointArrayRejectsBadLengths(t *testing.T) {
	body := []byte{pointArrayTag, 13, 0, 0, 0}
	body = append(body, make([]byte, 20)...)
	_, count := findPointArray(body)
	assert.Zero(t, count)

	// declared length larger than the body
	body = []byte{pointArrayTag, 28, 0, 0, 0}
	body = append(body, make([]byte, 14)...)
	_, count = findPointArray(body)
	assert.Zero(t, count)

	at, count := findPointArray(pointArray(Point{X: 1, Y: 1}, Point{X: 2, Y: 2}))
	assert.Equal(t, 0, at)
	assert.Equal(t, 2, count)
}
