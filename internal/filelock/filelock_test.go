package filelock

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSerialises(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.yml")

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := With(target, func() error {
				mu.Lock()
				inside++
				maxSeen = max(maxSeen, inside)
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestWithReturnsFnError(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.yml")
	boom := errors.New("boom")
	assert.ErrorIs(t, With(target, func() error { return boom }), boom)

	// The lock is released afterwards.
	unlock, err := Lock(target + Suffix)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestLockMissingDir(t *testing.T) {
	_, err := Lock(filepath.Join(t.TempDir(), "missing", "x.lock"))
	assert.Error(t, err)
}
