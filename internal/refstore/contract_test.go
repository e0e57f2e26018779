package refstore_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/alignment-service/internal/alignment"
)

// runStoreContract checks the ReferenceStore behaviour every backend shares.
// openDB must return a fresh, empty database; the returned func opens the
// store of one track on it.
func runStoreContract(t *testing.T, openDB func(t *testing.T) func(alignment.Track) alignment.ReferenceStore) {
	ctx := context.Background()
	newStore := func(t *testing.T, track alignment.Track) alignment.ReferenceStore {
		return openDB(t)(track)
	}

	t.Run("insert is idempotent", func(t *testing.T) {
		s := newStore(t, alignment.TrackInfoTech)

		first, created, err := s.Insert(ctx, "WEB DEVELOPER")
		require.NoError(t, err)
		assert.True(t, created)

		again, created, err := s.Insert(ctx, "WEB DEVELOPER")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		s := newStore(t, alignment.TrackInfoTech)
		_, _, err := s.Insert(ctx, "")
		assert.ErrorIs(t, err, alignment.ErrEmptyTitle)
	})

	t.Run("tracks are isolated", func(t *testing.T) {
		open := openDB(t)
		a := open(alignment.TrackInfoTech)
		_, _, err := a.Insert(ctx, "WEB DEVELOPER")
		require.NoError(t, err)

		b := open(alignment.TrackInfoSystem)
		ok, err := b.Contains(ctx, "WEB DEVELOPER")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("exact and contains", func(t *testing.T) {
		s := newStore(t, alignment.TrackCompTech)
		_, _, err := s.Insert(ctx, "COMPUTER TECHNICIAN")
		require.NoError(t, err)

		ok, err := s.Contains(ctx, "COMPUTER TECHNICIAN")
		require.NoError(t, err)
		assert.True(t, ok)

		e, err := s.FindExact(ctx, "COMPUTER TECHNICIAN")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, alignment.TrackCompTech, e.Track)

		e, err = s.FindExact(ctx, "TECHNICIAN")
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("substring returns first inserted", func(t *testing.T) {
		s := newStore(t, alignment.TrackInfoTech)
		for _, title := range []alignment.JobTitle{"SENIOR WEB DEVELOPER", "WEB DEVELOPER", "JUNIOR WEB DEVELOPER"} {
			_, _, err := s.Insert(ctx, title)
			require.NoError(t, err)
		}

		e, err := s.FindSubstring(ctx, "WEB DEV")
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, alignment.JobTitle("SENIOR WEB DEVELOPER"), e.Title)

		e, err = s.FindSubstring(ctx, "100%")
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("fuzzy is strictly above threshold", func(t *testing.T) {
		s := newStore(t, alignment.TrackInfoTech)
		_, _, err := s.Insert(ctx, "SOFTWARE ENGINEER")
		require.NoError(t, err)

		e, score, err := s.FindFuzzy(ctx, "SOFTWRE ENGINER", 0.6, alignment.TrigramSimilarity)
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.InDelta(t, 13.0/21.0, score, 1e-9)

		e, _, err = s.FindFuzzy(ctx, "SOFTWRE ENGINER", 13.0/21.0, alignment.TrigramSimilarity)
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("concurrent inserts create one entry", func(t *testing.T) {
		s := newStore(t, alignment.TrackInfoSystem)

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, c, err := s.Insert(ctx, "BUSINESS ANALYST")
				assert.NoError(t, err)
				if c {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
