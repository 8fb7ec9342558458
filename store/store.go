// Package store loads the indicator dataset from a tabular source. Two
// sources are supported: a SQLite database and a flat CSV file, both
// carrying the columns year, total_co2_emissions, and
// pct_unable_to_afford_diet. Load failures are fatal to startup and are
// never retried; the dataset is static and local so a retry has no value.
package store

import (
	"errors"
	"sync"

	"github.com/ecosocial/dashboard/indicator"
)

var (
	ErrSourceUnreachable = errors.New("data source is unreachable")
	ErrSourceEmpty       = errors.New("data source contains no rows")
	ErrMissingColumn     = errors.New("data source is missing a required column")
	ErrMalformedRecord   = errors.New("data source row cannot be parsed")
)

// Column names expected in every source.
const (
	ColumnYear = "year"
	ColumnCO2  = "total_co2_emissions"
	ColumnDiet = "pct_unable_to_afford_diet"
)

// Loader reads the full dataset from one source. Load is deterministic:
// repeated calls against an unchanged source return identical datasets.
type Loader interface {
	// Load reads and validates all rows, sorted ascending by year.
	Load() (*indicator.Dataset, error)
	// Source identifies the underlying source location for logging and
	// cache keying.
	Source() string
}

// Cache holds the dataset of a single loader, reading the source once and
// serving the same dataset until an explicit Reload. There is no implicit
// invalidation.
type Cache struct {
	mu     sync.RWMutex
	loader Loader
	ds     *indicator.Dataset
}

func NewCache(loader Loader) *Cache {
	return &Cache{loader: loader}
}

// Dataset returns the cached dataset, loading it on first use.
func (c *Cache) Dataset() (*indicator.Dataset, error) {
	c.mu.RLock()
	ds := c.ds
	c.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}
	return c.Reload()
}

// Reload discards any cached dataset and reads the source again. On load
// failure the previous dataset, if any, is kept so a bad reload does not
// take a running dashboard down.
func (c *Cache) Reload() (*indicator.Dataset, error) {
	ds, err := c.loader.Load()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.ds = ds
	c.mu.Unlock()
	return ds, nil
}

// Source returns the identity of the underlying loader's source.
func (c *Cache) Source() string {
	return c.loader.Source()
}
