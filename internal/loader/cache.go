package loader

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// Cache memoizes loaded tables by file path for the life of the process.
// Changes to a file on disk are not observed until the entry is
// invalidated. Failed loads are not cached.
type Cache struct {
	opt    Options
	logger *slog.Logger
	load   func(string, Options) (*table.Table, error)

	mu     sync.Mutex
	tables map[string]*table.Table
}

// NewCache creates an empty cache that loads files with opt.
func NewCache(opt Options, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{opt: opt, logger: logger, load: Load, tables: make(map[string]*table.Table)}
}

// Get returns the table for path, loading it on first use.
func (c *Cache) Get(path string) (*table.Table, error) {
	key := filepath.Clean(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[key]; ok {
		c.logger.Debug("dataset cache hit", "path", key)
		return t, nil
	}
	t, err := c.load(key, c.opt)
	if err != nil {
		c.logger.Error("dataset load failed", "path", key, "error", err)
		return nil, err
	}
	c.logger.Info("dataset loaded", "path", key, "rows", t.Rows(), "columns", t.Width())
	c.tables[key] = t
	return t, nil
}

// Invalidate drops the cached table for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.tables, filepath.Clean(path))
	c.mu.Unlock()
}

// Reset drops every cached table.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.tables = make(map[string]*table.Table)
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tables)
}
