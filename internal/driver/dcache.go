package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/migrate"
	"tagfix/internal/project"
	"tagfix/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// DiskCache хранит результаты миграции шаблонов на диске, ключ - хеш содержимого и настроек.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is a diagnostic without fixes; spans are offsets into the cached file.
type CachedDiagnostic struct {
	Code     uint16
	Severity uint8
	Start    uint32
	End      uint32
	Message  string
}

// CachedRule mirrors migrate.RuleStats.
type CachedRule struct {
	Name         string
	Deprecations int
	Errors       int
}

// CachedFix is an applied fix; the file part of its ID is rebuilt on restore.
type CachedFix struct {
	Code          uint16
	Start         uint32
	End           uint32
	Index         int
	Title         string
	Message       string
	Applicability uint8
}

// DiskPayload is the stored outcome of migrating one template.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	ContentHash project.Digest
	Output      []byte
	Applied     int
	Visited     int
	Rules       []CachedRule
	Diagnostics []CachedDiagnostic
	Fixes       []CachedFix
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

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
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

// Get reads a payload. A missing entry or an entry of another schema is a miss.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
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
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
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

func resultToPayload(r *Result, content project.Digest) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        r.Path,
		ContentHash: content,
		Output:      r.Output,
		Applied:     r.Applied,
		Visited:     r.Stats.Visited,
	}
	for _, name := range r.Stats.Rules() {
		rs := r.Stats.ByRule[name]
		payload.Rules = append(payload.Rules, CachedRule{Name: name, Deprecations: rs.Deprecations, Errors: rs.Errors})
	}
	for _, f := range r.Fixes {
		payload.Fixes = append(payload.Fixes, CachedFix{
			Code:          uint16(f.Code),
			Start:         f.Primary.Start,
			End:           f.Primary.End,
			Index:         fixIndex(f.ID),
			Title:         f.Title,
			Message:       f.Message,
			Applicability: uint8(f.Applicability),
		})
	}
	for _, d := range r.Bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		payload.Diagnostics = append(payload.Diagnostics, CachedDiagnostic{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		})
	}
	return payload
}

// restore fills r from payload; diagnostics are re-anchored to r.FileID.
func (p *DiskPayload) restore(r *Result) {
	r.Output = p.Output
	r.Applied = p.Applied
	r.Stats = migrate.Stats{Visited: p.Visited}
	if len(p.Rules) > 0 {
		r.Stats.ByRule = make(map[string]migrate.RuleStats, len(p.Rules))
		for _, rule := range p.Rules {
			r.Stats.ByRule[rule.Name] = migrate.RuleStats{Deprecations: rule.Deprecations, Errors: rule.Errors}
		}
	}
	for _, d := range p.Diagnostics {
		r.Bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: r.FileID, Start: d.Start, End: d.End},
		})
	}
	for _, f := range p.Fixes {
		code := diag.Code(f.Code)
		span := source.Span{File: r.FileID, Start: f.Start, End: f.End}
		r.Fixes = append(r.Fixes, fix.AppliedFix{
			ID:            fix.ID(code, span, f.Index),
			Title:         f.Title,
			Code:          code,
			Message:       f.Message,
			Applicability: diag.FixApplicability(f.Applicability),
			Primary:       span,
		})
	}
	r.Cached = true
}

// fixIndex extracts the trailing index of a `<CODE>-<file>-<start>-<idx>` id.
func fixIndex(id string) int {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return 0
	}
	return n
}
