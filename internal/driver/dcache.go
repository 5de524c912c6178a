package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"daymacro/internal/diag"
	"daymacro/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// DiskCache stores per-file expansion outcomes keyed by Digest.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of one file. Diagnostics are stored in
// full so the entry does not depend on MaxDiagnostics. Span file IDs are
// rewritten on load, only offsets are meaningful.
type DiskPayload struct {
	Schema      uint16
	Invocations int
	Expanded    int
	Output      []byte
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry or an entry written by another
// schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close() //nolint:errcheck

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func toPayload(r *FileResult) *DiskPayload {
	return &DiskPayload{
		Invocations: r.Invocations,
		Expanded:    r.Expanded,
		Output:      r.Output,
		Diagnostics: append([]diag.Diagnostic(nil), r.all...),
	}
}

func fromPayload(p *DiskPayload, r *FileResult) {
	r.Invocations = p.Invocations
	r.Expanded = p.Expanded
	r.Output = p.Output
	r.Cached = true
	for _, d := range p.Diagnostics {
		r.report(rebase(d, r.FileID))
	}
}

// rebase points every span of d at file.
func rebase(d diag.Diagnostic, file source.FileID) diag.Diagnostic {
	d.Primary.File = file
	notes := make([]diag.Note, len(d.Notes))
	for i, n := range d.Notes {
		n.Span.File = file
		notes[i] = n
	}
	d.Notes = notes
	fixes := make([]diag.Fix, len(d.Fixes))
	for i, f := range d.Fixes {
		edits := make([]diag.TextEdit, len(f.Edits))
		for j, e := range f.Edits {
			e.Span.File = file
			edits[j] = e
		}
		f.Edits = edits
		fixes[i] = f
	}
	d.Fixes = fixes
	return d
}
