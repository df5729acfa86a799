package common

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcurrentlyWalkDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	expected := []string{
		filepath.Join(root, "one.dcm"),
		filepath.Join(root, "a", "two.dcm"),
		filepath.Join(root, "a", "b", "three.dcm"),
	}
	for _, path := range expected {
		assert.NoError(t, os.WriteFile(path, []byte{0x00}, 0644))
	}

	var mu sync.Mutex
	var seen []string
	err := ConcurrentlyWalkDir(root, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, path)
	})
	assert.NoError(t, err)
	sort.Strings(seen)
	sort.Strings(expected)
	assert.Equal(t, expected, seen)
}

func TestConcurrentlyWalkDirMissing(t *testing.T) {
	t.Parallel()
	err := ConcurrentlyWalkDir(filepath.Join(t.TempDir(), "missing"), func(string) {})
	assert.Error(t, err)
}
