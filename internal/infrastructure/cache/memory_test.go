package cache

import (
	"testing"
	"time"

	"github.com/marketlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() []domain.RawRecord {
	return []domain.RawRecord{
		{"product_id": "1", "name": "Mouse A", "real_price": float64(150000)},
		{"product_id": "2", "name": "Mouse B"},
	}
}

func TestBatchCacheSetGet(t *testing.T) {
	c := NewBatchCache()
	c.Set("scrape:mouse", sampleBatch(), time.Minute)

	batch, err := c.Get("scrape:mouse")
	require.NoError(t, err)
	require.Len(t, batch, 2)
	name, _ := batch[0].Lookup("name")
	assert.Equal(t, "Mouse A", name)
}

func TestBatchCacheMiss(t *testing.T) {
	c := NewBatchCache()
	_, err := c.Get("absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestBatchCacheExpiry(t *testing.T) {
	c := NewBatchCache()
	c.Set("short", sampleBatch(), 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, err := c.Get("short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestBatchCacheDelete(t *testing.T) {
	c := NewBatchCache()
	c.Set("k", sampleBatch(), time.Minute)
	assert.Equal(t, 1, c.Size())

	c.Delete("k")
	assert.Equal(t, 0, c.Size())

	_, err := c.Get("k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestBatchCacheOverwrite(t *testing.T) {
	c := NewBatchCache()
	c.Set("k", sampleBatch(), time.Minute)
	c.Set("k", []domain.RawRecord{{"name": "replacement"}}, time.Minute)

	batch, err := c.Get("k")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, 1, c.Size())
}
