// Package cache keeps the most recent phase glyph in a single file that is
// valid for the calendar day it was written on.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultFileName is the cache file name inside the system temp directory.
const DefaultFileName = "moon"

// ErrMiss is returned by Get when there is no usable entry for today.
var ErrMiss = errors.New("cache miss")

// DefaultPath returns the default cache location.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), DefaultFileName)
}

// Cache is a day-scoped, single-entry file cache.
type Cache struct {
	path string
	now  func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the clock used to decide what "today" is. Its
// location also decides which calendar day a modification time falls on.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache stored at path. An empty path selects DefaultPath.
func New(path string, opts ...Option) *Cache {
	if path == "" {
		path = DefaultPath()
	}
	c := &Cache{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached glyph if the file was last written today.
func (c *Cache) Get() (string, error) {
	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: no cache file", ErrMiss)
	}
	if err != nil {
		return "", fmt.Errorf("stat cache: %w", err)
	}

	now := c.now()
	if !sameDay(info.ModTime().In(now.Location()), now) {
		return "", fmt.Errorf("%w: stale cache from %s", ErrMiss, info.ModTime().In(now.Location()).Format(time.DateOnly))
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", fmt.Errorf("read cache: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty cache file", ErrMiss)
	}

	return string(data), nil
}

// Put replaces the cached glyph. The write goes to a temp file that is
// renamed over the cache, so readers never see a partial glyph.
func (c *Cache) Put(glyph string) error {
	tmp := c.path + ".tmp"

	if err := os.WriteFile(tmp, []byte(glyph), 0o644); err != nil {
		return fmt.Errorf("writing temp cache file: %w", err)
	}

	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}

	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (c *Cache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache: %w", err)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
