package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"drlint/internal/config"
	"drlint/internal/diag"
	"drlint/internal/rules"
	"drlint/internal/source"
	"drlint/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores rule results per file on disk, keyed by everything that
// can change them. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one file's rule diagnostics. Spans are offsets into the
// file the key was computed for.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema      uint16
	Path        string
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a rule diagnostic without its file id and fixes.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Args     []string
	Start    uint32
	End      uint32
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

func (c *DiskCache) pathFor(key config.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог по первому байту, чтобы не держать всё в одной директории.
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key config.Digest, payload *DiskPayload) (err error) {
	if c == nil {
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
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of
// another schema read as a miss.
func (c *DiskCache) Get(key config.Digest, out *DiskPayload) (bool, error) {
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
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached result.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "results"))
}

// settingsDigest covers everything a file's rule result depends on besides
// its own content.
func settingsDigest(cfg *config.Config, reg *rules.Registry, types *rules.TypeIndex) config.Digest {
	codes := make([]string, 0, 10)
	for _, r := range reg.Rules() {
		codes = append(codes, r.Code().ID()+"="+reg.Severity(r.Code()).String())
	}
	return config.Combine(
		cfg.Hash,
		sha256.Sum256([]byte(version.Version)),
		sha256.Sum256([]byte(strings.Join(codes, "\n"))),
		sha256.Sum256([]byte(strings.Join(types.Entries(), "\n"))),
	)
}

func cacheKey(file *source.File, settings config.Digest) config.Digest {
	return config.Combine(file.Hash, settings)
}

func toPayload(path string, diags []diag.Diagnostic) *DiskPayload {
	out := &DiskPayload{Path: path, Diagnostics: make([]CachedDiagnostic, 0, len(diags))}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Args:     d.Args,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return out
}

func fromPayload(file source.FileID, payload *DiskPayload) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		out = append(out, diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Args:     cd.Args,
			Primary:  source.Span{File: file, Start: cd.Start, End: cd.End},
		})
	}
	return out
}
