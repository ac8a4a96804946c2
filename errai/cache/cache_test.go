package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindOrCompute(t *testing.T) {
	var c Cache[string, int]
	scope := new(int)
	calls := 0
	compute := func() int {
		calls++
		return calls
	}

	assert.Equal(t, 1, c.FindOrCompute("a", 1, scope, compute))
	assert.Equal(t, 1, c.FindOrCompute("a", 1, scope, compute), "same stamp and scope is a hit")
	assert.Equal(t, 2, c.FindOrCompute("a", 2, scope, compute), "stamp change recomputes")
	assert.Equal(t, 3, c.FindOrCompute("a", 2, new(int), compute), "scope identity change recomputes")
	assert.Equal(t, int64(1), c.Hits.Load())
	assert.Equal(t, int64(3), c.Misses.Load())
}

func TestEvict(t *testing.T) {
	var c Cache[string, string]
	c.Store("a.html", 1, nil, "a")
	c.Store("b.html", 1, nil, "b")

	c.Evict(func(k string) bool { return k == "a.html" })

	_, ok := c.Lookup("a.html", 1, nil)
	assert.False(t, ok)
	v, ok := c.Lookup("b.html", 1, nil)
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, c.Len())
}

func TestConcurrentStores(t *testing.T) {
	var c Cache[int, int]
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.FindOrCompute(i, 1, nil, func() int { return i * i })
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	v, ok := c.Lookup(7, 1, nil)
	assert.True(t, ok)
	assert.Equal(t, 49, v)
}
