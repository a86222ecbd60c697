// Package notebook enumerates notebooks stored in a xochitl data directory.
package notebook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ddvk/rmraster/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DocumentType = "DocumentType"
	FileTypeNote = "notebook"

	MetadataExt   = ".metadata"
	ContentExt    = ".content"
	ThumbnailsExt = ".thumbnails"
	PageExt       = ".rm"
	ThumbnailExt  = ".png"
)

// Page is one page of a notebook
type Page struct {
	ID    string
	Index int
	// RmPath is empty when the page has no stroke file
	RmPath string
	// ThumbnailPath is empty when the device has not cached a preview
	ThumbnailPath string
}

// Notebook is a handwritten document on the device
type Notebook struct {
	UUID         string
	VisibleName  string
	FileType     string
	PageCount    int
	Pages        []Page
	MetadataPath string
	ContentPath  string
}

// Metadata is the subset of the .metadata file that is used
type Metadata struct {
	Type        string `json:"type"`
	VisibleName string `json:"visibleName"`
	Deleted     bool   `json:"deleted"`
}

// ContentFile represents the structure of the .content file
type ContentFile struct {
	FileType  string `json:"fileType"`
	PageCount int    `json:"pageCount"`
	CPages    *struct {
		Pages []pageRef `json:"pages"`
	} `json:"cPages"`
	// older firmware lists pages directly, either as ids or as objects
	Pages []json.RawMessage `json:"pages"`
}

type pageRef struct {
	ID string `json:"id"`
}

func (c *ContentFile) pageIDs() []string {
	if c.CPages != nil && len(c.CPages.Pages) > 0 {
		ids := make([]string, 0, len(c.CPages.Pages))
		for _, p := range c.CPages.Pages {
			ids = append(ids, p.ID)
		}
		return ids
	}

	ids := make([]string, 0, len(c.Pages))
	for _, raw := range c.Pages {
		var id string
		if json.Unmarshal(raw, &id) != nil {
			var ref pageRef
			_ = json.Unmarshal(raw, &ref)
			id = ref.ID
		}
		ids = append(ids, id)
	}
	return ids
}

// Root returns the xochitl directory under base, or base itself
func Root(base string) string {
	candidate := filepath.Join(base, "xochitl")
	if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
		return candidate
	}
	return base
}

// List returns the notebooks of a xochitl directory sorted by name.
// Entries with unreadable or malformed files are skipped.
func List(dir string) ([]Notebook, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, "can't open data directory")
	}
	if !fi.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	metas, err := filepath.Glob(filepath.Join(dir, "*"+MetadataExt))
	if err != nil {
		return nil, err
	}

	var notebooks []Notebook
	for _, metaPath := range metas {
		nb, err := load(dir, metaPath)
		if err != nil {
			log.Trace.Printf("skipping %s: %v", filepath.Base(metaPath), err)
			continue
		}
		if nb != nil {
			notebooks = append(notebooks, *nb)
		}
	}

	sort.SliceStable(notebooks, func(i, j int) bool {
		if notebooks[i].VisibleName != notebooks[j].VisibleName {
			return notebooks[i].VisibleName < notebooks[j].VisibleName
		}
		return notebooks[i].UUID < notebooks[j].UUID
	})
	return notebooks, nil
}

// load reads one notebook. It returns nil without an error for documents
// that are not notebooks.
func load(dir, metaPath string) (*Notebook, error) {
	id := strings.TrimSuffix(filepath.Base(metaPath), MetadataExt)
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.Wrap(err, "not a document id")
	}

	var meta Metadata
	if err := readJSON(metaPath, &meta); err != nil {
		return nil, err
	}
	if meta.Type != DocumentType || meta.Deleted {
		return nil, nil
	}

	contentPath := filepath.Join(dir, id+ContentExt)
	var content ContentFile
	if err := readJSON(contentPath, &content); err != nil {
		return nil, err
	}
	if content.FileType != FileTypeNote {
		return nil, nil
	}

	nb := &Notebook{
		UUID:         id,
		VisibleName:  meta.VisibleName,
		FileType:     content.FileType,
		PageCount:    content.PageCount,
		MetadataPath: metaPath,
		ContentPath:  contentPath,
	}
	for i, pageID := range content.pageIDs() {
		if pageID == "" {
			continue
		}
		nb.Pages = append(nb.Pages, Page{
			ID:            pageID,
			Index:         i,
			RmPath:        existing(filepath.Join(dir, id, pageID+PageExt)),
			ThumbnailPath: existing(filepath.Join(dir, id+ThumbnailsExt, pageID+ThumbnailExt)),
		})
	}
	return nb, nil
}

// Find looks a notebook up by uuid first, then by visible name
func Find(dir, id, name string) (*Notebook, error) {
	notebooks, err := List(dir)
	if err != nil {
		return nil, err
	}
	if id != "" {
		for i := range notebooks {
			if notebooks[i].UUID == id {
				return &notebooks[i], nil
			}
		}
	}
	if name != "" {
		for i := range notebooks {
			if notebooks[i].VisibleName == name {
				return &notebooks[i], nil
			}
		}
	}
	return nil, errors.Errorf("notebook not found: %s", firstNonEmpty(id, name))
}

const maxNameLen = 200

var unsafeChars = regexp.MustCompile(`[/\\:*?"<>|]`)
var whitespace = regexp.MustCompile(`\s+`)

// SafeName turns a visible name into a directory name
func SafeName(name string) string {
	s := strings.TrimSpace(unsafeChars.ReplaceAllString(name, ""))
	if s == "" {
		s = "unnamed"
	}
	s = whitespace.ReplaceAllString(s, "_")
	if r := []rune(s); len(r) > maxNameLen {
		s = string(r[:maxNameLen])
	}
	return s
}

func readJSON(path string, v interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(b, v), "can't parse %s", filepath.Base(path))
}

func existing(path string) string {
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		return path
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
