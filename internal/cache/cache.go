// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores check results on disk keyed by the content of the
// bibliography file and the settings it was checked with.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pdiddy/bibcheck/pkg/types"
)

// schemaVersion is bumped whenever Payload changes shape.
const schemaVersion uint16 = 1

// Key identifies one cached result.
type Key [sha256.Size]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Payload is the cached outcome of checking one file.
type Payload struct {
	Schema    uint16          `msgpack:"schema"`
	Source    string          `msgpack:"source"`
	Entries   int             `msgpack:"entries"`
	Messages  []types.Message `msgpack:"messages"`
	CheckedAt time.Time       `msgpack:"checked_at"`
}

// Cache is a directory of msgpack payloads. A nil *Cache is valid and
// caches nothing. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns $XDG_CACHE_HOME/bibcheck or ~/.cache/bibcheck.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locating home directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "bibcheck"), nil
}

// Open creates dir if needed and returns a cache rooted there. An empty dir
// selects DefaultDir.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// NewKey hashes file content together with a settings fingerprint.
func NewKey(content []byte, fingerprint []byte) Key {
	h := sha256.New()
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(fingerprint)))
	h.Write(n[:])
	h.Write(fingerprint)
	h.Write(content)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Fingerprint encodes v deterministically for use with NewKey. Map keys are
// sorted so equal settings always give equal bytes.
func Fingerprint(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding fingerprint: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Cache) pathFor(k Key) string {
	s := k.String()
	return filepath.Join(c.dir, "results", s[:2], s+".mp")
}

// Put writes p under k. The file is replaced atomically.
func (c *Cache) Put(k Key, p *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.pathFor(k)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	p.Schema = schemaVersion
	if err := msgpack.NewEncoder(f).Encode(p); err != nil {
		f.Close()
		return fmt.Errorf("encoding cache payload: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}

// Get reads the payload stored under k. A missing entry or one written by
// an older schema reports false with no error.
func (c *Cache) Get(k Key) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(k))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, false, fmt.Errorf("decoding cache payload %s: %w", k, err)
	}
	if p.Schema != schemaVersion {
		return nil, false, nil
	}
	return &p, true, nil
}

// Clear removes every cached payload.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(c.dir, "results")); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
