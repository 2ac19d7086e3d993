package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

func TestResultCache_GetOrCompute(t *testing.T) {
	c := New()
	item := &model.StructuredItem{Hash: "abc", Name: "Doombringer"}

	var calls int32
	compute := func() (*model.StructuredItem, error) {
		atomic.AddInt32(&calls, 1)
		return item, nil
	}

	first, err := c.GetOrCompute("abc", compute)
	require.NoError(t, err)
	second, err := c.GetOrCompute("abc", compute)
	require.NoError(t, err)

	assert.Same(t, item, first)
	assert.Same(t, first, second, "cache hit returns the same item identity")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "compute runs exactly once")
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_ConcurrentSameKey(t *testing.T) {
	c := New()

	var calls int32
	release := make(chan struct{})
	compute := func() (*model.StructuredItem, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &model.StructuredItem{Hash: "shared"}, nil
	}

	const workers = 16
	results := make([]*model.StructuredItem, workers)
	var wg sync.WaitGroup
	var started sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			item, err := c.GetOrCompute("shared", compute)
			assert.NoError(t, err)
			results[i] = item
		}(i)
	}

	started.Wait()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers share one in-flight assembly")
	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestResultCache_ErrorsNotCached(t *testing.T) {
	c := New()

	boom := errors.New("assembly failed")
	_, err := c.GetOrCompute("key", func() (*model.StructuredItem, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	item, err := c.GetOrCompute("key", func() (*model.StructuredItem, error) {
		return &model.StructuredItem{Hash: "key"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "key", item.Hash)
}

func TestResultCache_DistinctKeys(t *testing.T) {
	c := New()

	a, err := c.GetOrCompute("a", func() (*model.StructuredItem, error) {
		return &model.StructuredItem{Hash: "a"}, nil
	})
	require.NoError(t, err)

	b, err := c.GetOrCompute("b", func() (*model.StructuredItem, error) {
		return &model.StructuredItem{Hash: "b"}, nil
	})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, c.Len())

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)
}
