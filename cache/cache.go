// Package cache remembers which pages were rendered from which source bytes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/ddvk/rmraster/log"
)

const cacheVersion = 1

// PageSnapshot records the source hash an output was rendered from
type PageSnapshot struct {
	Output string `json:"output"`
	Hash   string `json:"hash"`
}

// Snapshot is the set of rendered pages. It is safe for concurrent use.
type Snapshot struct {
	CacheVersion int            `json:"cache_version"`
	Pages        []PageSnapshot `json:"pages"`

	mu      sync.Mutex
	pageMap map[string]string
	path    string
}

// HashBytes returns the hex sha256 of data
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultPath is the snapshot location in the user cache dir
func DefaultPath() (string, error) {
	cachedir, err := os.UserCacheDir()
	if err != nil {
		// Fallback to home directory if cache dir cannot be determined
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cachedir = path.Join(home, ".cache")
	}
	folder := path.Join(cachedir, "rmraster")
	if err := os.MkdirAll(folder, 0700); err != nil {
		return "", err
	}
	return path.Join(folder, "render.snapshot"), nil
}

// Load reads the snapshot at file. A missing, corrupt or outdated
// snapshot yields an empty one.
func Load(file string) (*Snapshot, error) {
	snapshot := &Snapshot{CacheVersion: cacheVersion, path: file}
	if _, err := os.Stat(file); err == nil {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var stored Snapshot
		switch err := json.Unmarshal(b, &stored); {
		case err != nil:
			log.Error.Println("render snapshot corrupt, starting fresh")
		case stored.CacheVersion != cacheVersion:
			log.Info.Println("wrong render snapshot version, starting fresh")
		default:
			snapshot.Pages = stored.Pages
		}
	}

	snapshot.pageMap = make(map[string]string, len(snapshot.Pages))
	for _, p := range snapshot.Pages {
		snapshot.pageMap[p.Output] = p.Hash
	}
	log.Trace.Printf("render snapshot %s: %d pages", file, len(snapshot.Pages))
	return snapshot, nil
}

// Fresh reports whether output exists and was rendered from a source with hash
func (s *Snapshot) Fresh(output, hash string) bool {
	s.mu.Lock()
	known, ok := s.pageMap[output]
	s.mu.Unlock()
	if !ok || known != hash {
		return false
	}
	_, err := os.Stat(output)
	return err == nil
}

// Record remembers that output was rendered from a source with hash
func (s *Snapshot) Record(output, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageMap[output] = hash
}

// Forget drops output, e.g. after it was replaced by a preview
func (s *Snapshot) Forget(output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pageMap, output)
}

// Save writes the snapshot back to the file it was loaded from
func (s *Snapshot) Save() error {
	s.mu.Lock()
	s.Pages = make([]PageSnapshot, 0, len(s.pageMap))
	for output, hash := range s.pageMap {
		s.Pages = append(s.Pages, PageSnapshot{Output: output, Hash: hash})
	}
	sort.Slice(s.Pages, func(i, j int) bool { return s.Pages[i].Output < s.Pages[j].Output })
	s.CacheVersion = cacheVersion
	b, err := json.MarshalIndent(s, "", "")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	log.Info.Println("Writing render snapshot: ", s.path)
	return os.WriteFile(s.path, b, 0644)
}
