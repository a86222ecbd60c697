package shell

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ddvk/rmraster/batch"
	"github.com/ddvk/rmraster/encoding/rm"
	"github.com/ddvk/rmraster/notebook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx() *ShellCtxt {
	return &ShellCtxt{Notebooks: []notebook.Notebook{
		{UUID: "a0", VisibleName: "Meeting notes", Pages: []notebook.Page{{Index: 0, RmPath: "p.rm"}}},
		{UUID: "b1", VisibleName: "Sketches"},
	}}
}

func TestLookup(t *testing.T) {
	ctx := testCtx()

	nb, err := ctx.lookup("b1")
	require.NoError(t, err)
	assert.Equal(t, "Sketches", nb.VisibleName)

	nb, err = ctx.lookup("Meeting notes")
	require.NoError(t, err)
	assert.Equal(t, "a0", nb.UUID)

	nb, err = ctx.lookup("#1")
	require.NoError(t, err)
	assert.Equal(t, "b1", nb.UUID)

	_, err = ctx.lookup("#2")
	assert.Error(t, err)
	_, err = ctx.lookup("Diary")
	assert.Error(t, err)
}

func TestNotebookArg(t *testing.T) {
	arg, err := notebookArg([]string{"Meeting", "notes"})
	require.NoError(t, err)
	assert.Equal(t, "Meeting notes", arg)

	_, err = notebookArg(nil)
	assert.Error(t, err)
}

func TestPageAt(t *testing.T) {
	pages := []notebook.Page{{Index: 0, RmPath: "a.rm"}, {Index: 2, ThumbnailPath: "c.png"}}

	p, err := pageAt(pages, 0)
	require.NoError(t, err)
	assert.Equal(t, "a.rm", p.RmPath)

	_, err = pageAt(pages, 2)
	assert.EqualError(t, err, "page 2 has no strokes")
	_, err = pageAt(pages, 1)
	assert.EqualError(t, err, "page 1 doesn't exist")
}

func TestPageSource(t *testing.T) {
	assert.Equal(t, "strokes, preview", pageSource(notebook.Page{RmPath: "a", ThumbnailPath: "b"}))
	assert.Equal(t, "strokes", pageSource(notebook.Page{RmPath: "a"}))
	assert.Equal(t, "preview", pageSource(notebook.Page{ThumbnailPath: "b"}))
	assert.Equal(t, "-", pageSource(notebook.Page{}))
}

func TestNotebooksJSON(t *testing.T) {
	out := NotebooksJSON(testCtx().Notebooks)
	assert.Equal(t, []NotebookJSON{
		{ID: "a0", Name: "Meeting notes", Pages: 1},
		{ID: "b1", Name: "Sketches"},
	}, out)
}

func TestDumpPage(t *testing.T) {
	data, err := (&rm.Rm{Version: rm.V3, Strokes: []rm.Stroke{
		{Color: 1, BrushSize: 2, Points: []rm.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}},
	}}).MarshalBinary()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "p.rm")
	require.NoError(t, os.WriteFile(path, data, 0644))

	var buf bytes.Buffer
	require.NoError(t, DumpPage(&buf, path))

	var page rm.Rm
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	assert.Equal(t, rm.V3, page.Version)
	require.Len(t, page.Strokes, 1)
	assert.Equal(t, []rm.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, page.Strokes[0].Points)
	assert.Nil(t, page.BoundingBox)
	assert.NotContains(t, buf.String(), "boundingBox")
}

func TestDumpPageErrors(t *testing.T) {
	assert.ErrorIs(t, DumpPage(&bytes.Buffer{}, ""), batch.ErrNoStrokes)

	assert.Error(t, DumpPage(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.rm")))

	path := filepath.Join(t.TempDir(), "bad.rm")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0644))
	assert.ErrorIs(t, DumpPage(&bytes.Buffer{}, path), rm.ErrFormat)
}
