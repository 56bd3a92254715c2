package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, int]()

	cache.Set("key1", 42)
	value, exists := cache.Get("key1")
	require.True(t, exists)
	assert.Equal(t, 42, value)

	_, exists = cache.Get("missing")
	assert.False(t, exists)

	cache.Set("key2", 7)
	assert.ElementsMatch(t, []string{"key1", "key2"}, cache.Keys())

	cache.Delete("key1")
	_, exists = cache.Get("key1")
	assert.False(t, exists)

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestCache_FileValidation(t *testing.T) {
	cache := NewCache[string, string]()
	path := filepath.Join(t.TempDir(), "Email.php")
	require.NoError(t, os.WriteFile(path, []byte("<?php class Email {}"), 0o644))

	require.NoError(t, cache.SetWithFileInfo(path, "parsed", path))

	value, ok := cache.GetWithFileValidation(path, path)
	require.True(t, ok)
	assert.Equal(t, "parsed", value)

	// a different size invalidates even within the mtime granularity
	require.NoError(t, os.WriteFile(path, []byte("<?php class Email extends Constraint {}"), 0o644))
	later := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	_, ok = cache.GetWithFileValidation(path, path)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())

	assert.Error(t, cache.SetWithFileInfo("gone", "x", filepath.Join(t.TempDir(), "missing.php")))
}

func TestCache_LoadFile(t *testing.T) {
	cache := NewCache[string, int]()
	path := filepath.Join(t.TempDir(), "Length.php")
	require.NoError(t, os.WriteFile(path, []byte("<?php"), 0o644))

	loads := 0
	load := func() (int, error) {
		loads++
		return loads, nil
	}

	first, err := cache.LoadFile(path, path, load)
	require.NoError(t, err)
	second, err := cache.LoadFile(path, path, load)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, loads)

	t.Run("errors are not cached", func(t *testing.T) {
		failing := NewCache[string, int]()
		_, err := failing.LoadFile(path, path, func() (int, error) {
			return 0, fmt.Errorf("syntax error")
		})
		require.Error(t, err)
		assert.Equal(t, 0, failing.Size())
	})
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache[int, int]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Set(n*100+j, j)
				cache.Get(n*100 + j)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 800, cache.Size())
}
