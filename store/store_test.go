package store

import (
	"errors"
	"testing"

	"github.com/ecosocial/dashboard/indicator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	loads int
	fail  bool
}

func (c *countingLoader) Load() (*indicator.Dataset, error) {
	c.loads++
	if c.fail {
		return nil, ErrSourceUnreachable
	}
	return indicator.NewDataset([]indicator.Record{
		{Year: 2020, CO2Emissions: 434.1, DietUnaffordability: 61.8},
		{Year: 2021, CO2Emissions: 425.9, DietUnaffordability: 61.1},
	})
}

func (c *countingLoader) Source() string {
	return "stub://counting"
}

func TestCacheLoadsOnce(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)

	ds, err := cache.Dataset()
	require.Nil(t, err)
	assert.Equal(t, 2, ds.Len())

	again, err := cache.Dataset()
	require.Nil(t, err)
	assert.Same(t, ds, again)
	assert.Equal(t, 1, loader.loads)
}

func TestCacheExplicitReload(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)

	first, err := cache.Dataset()
	require.Nil(t, err)

	second, err := cache.Reload()
	require.Nil(t, err)
	assert.Equal(t, 2, loader.loads)
	assert.Equal(t, first.Records(), second.Records())

	served, err := cache.Dataset()
	require.Nil(t, err)
	assert.Same(t, second, served)
}

func TestCacheKeepsDatasetOnFailedReload(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)

	ds, err := cache.Dataset()
	require.Nil(t, err)

	loader.fail = true
	_, err = cache.Reload()
	require.True(t, errors.Is(err, ErrSourceUnreachable))

	served, err := cache.Dataset()
	require.Nil(t, err)
	assert.Same(t, ds, served)
}
