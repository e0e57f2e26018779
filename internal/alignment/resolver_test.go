package alignment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/alignment-service/internal/alignment"
)

func snapshot(t *testing.T, stores *alignment.StoreSet) map[alignment.Track][]alignment.ReferenceEntry {
	t.Helper()
	out := make(map[alignment.Track][]alignment.ReferenceEntry)
	for _, tr := range stores.Catalog().Tracks() {
		s, err := stores.Store(tr)
		require.NoError(t, err)
		entries, err := s.List(context.Background())
		require.NoError(t, err)
		out[tr] = entries
	}
	return out
}

func TestResolve_CrossTrackConfirmExpandsOwnTrack(t *testing.T) {
	ctx := context.Background()
	stores := memoryStores(map[alignment.Track][]string{
		alignment.TrackInfoSystem: {"OPERATIONS MANAGER"},
	})
	engine := newEngine(stores)

	pending, err := engine.Evaluate(ctx, record("u1", alignment.TrackInfoTech, "Operations Manager"))
	require.NoError(t, err)
	require.True(t, pending.Alignment.IsPending())

	res, err := engine.Resolve(ctx, pending, true)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, res.Created)
	require.NotNil(t, res.Expanded)
	assert.Equal(t, alignment.TrackInfoTech, res.Expanded.Track)

	rec := res.Record
	assert.Equal(t, alignment.StatusAligned, rec.Alignment.Status())
	category, _ := rec.Alignment.Category()
	assert.Equal(t, alignment.TrackInfoTech, category)
	_, hasSuggestion := rec.Alignment.SuggestedProgram()
	assert.False(t, hasSuggestion)

	own, _ := stores.Store(alignment.TrackInfoTech)
	ok, err := own.Contains(ctx, "OPERATIONS MANAGER")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResolve_SelfExpansionClosesTheLoop(t *testing.T) {
	ctx := context.Background()
	stores := memoryStores(map[alignment.Track][]string{
		alignment.TrackCompTech: {"FIELD SERVICE ENGINEER"},
	})
	engine := newEngine(stores)

	pending, err := engine.Evaluate(ctx, record("u1", alignment.TrackInfoSystem, "Field Service Engineer"))
	require.NoError(t, err)
	_, err = engine.Resolve(ctx, pending, true)
	require.NoError(t, err)

	// Drop the track the title was found in; the own track alone must now resolve it.
	isolated := alignment.NewStoreSet(alignment.MustDefaultCatalog(), func(tr alignment.Track) alignment.ReferenceStore {
		if tr == alignment.TrackInfoSystem {
			s, _ := stores.Store(tr)
			return s
		}
		return alignment.NewMemoryStore(tr)
	})

	fresh, err := newEngine(isolated).Evaluate(ctx, record("u2", alignment.TrackInfoSystem, "Field Service Engineer"))
	require.NoError(t, err)
	assert.Equal(t, alignment.StatusAligned, fresh.Alignment.Status())
	category, _ := fresh.Alignment.Category()
	assert.Equal(t, alignment.TrackInfoSystem, category)
}

func TestResolve_NewTitleConfirmed(t *testing.T) {
	ctx := context.Background()
	stores := memoryStores(nil)
	engine := newEngine(stores)

	pending, err := engine.Evaluate(ctx, record("u1", alignment.TrackCompTech, "drone pilot"))
	require.NoError(t, err)

	res, err := engine.Resolve(ctx, pending, true)
	require.NoError(t, err)
	assert.Equal(t, alignment.StatusAligned, res.Record.Alignment.Status())
	category, _ := res.Record.Alignment.Category()
	assert.Equal(t, alignment.TrackCompTech, category)
	title, _ := res.Record.Alignment.Title()
	assert.Equal(t, alignment.JobTitle("DRONE PILOT"), title)
	assert.Equal(t, alignment.JobTitle("DRONE PILOT"), res.Record.DecidedTitle)

	again, err := engine.Evaluate(ctx, record("u2", alignment.TrackCompTech, "Drone Pilot"))
	require.NoError(t, err)
	assert.Equal(t, alignment.StatusAligned, again.Alignment.Status())
	assert.Equal(t, alignment.TierExact, again.MatchTier)
}

func TestResolve_RejectionLeavesStoresUntouched(t *testing.T) {
	ctx := context.Background()
	stores := memoryStores(map[alignment.Track][]string{
		alignment.TrackInfoSystem: {"OPERATIONS MANAGER", "BUSINESS ANALYST"},
		alignment.TrackInfoTech:   {"WEB DEVELOPER"},
	})
	engine := newEngine(stores)
	before := snapshot(t, stores)

	for _, pos := range []string{"Operations Manager", "Baker"} {
		pending, err := engine.Evaluate(ctx, record("u1", alignment.TrackInfoTech, pos))
		require.NoError(t, err)
		require.True(t, pending.Alignment.IsPending())

		res, err := engine.Resolve(ctx, pending, false)
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.Nil(t, res.Expanded)
		assert.Equal(t, alignment.StatusNotAligned, res.Record.Alignment.Status())
		assertInvariants(t, res.Record)
	}

	assert.Equal(t, before, snapshot(t, stores))
}

func TestResolve_NotPendingIsNoOp(t *testing.T) {
	ctx := context.Background()
	stores := memoryStores(map[alignment.Track][]string{alignment.TrackInfoTech: {"WEB DEVELOPER"}})
	engine := newEngine(stores)

	aligned, err := engine.Evaluate(ctx, record("u1", alignment.TrackInfoTech, "Web Developer"))
	require.NoError(t, err)

	for _, answer := range []bool{true, false} {
		res, err := engine.Resolve(ctx, aligned, answer)
		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Equal(t, aligned, res.Record)
	}

	empty := record("u2", alignment.TrackInfoTech, "")
	res, err := engine.Resolve(ctx, empty, true)
	require.NoError(t, err)
	assert.Equal(t, empty, res.Record)
}

func TestResolve_InsertFailureIsRetryable(t *testing.T) {
	ctx := context.Background()
	stores := alignment.NewStoreSet(alignment.MustDefaultCatalog(), func(tr alignment.Track) alignment.ReferenceStore {
		return &brokenStore{track: tr}
	})
	engine := newEngine(stores)

	pending := record("u1", alignment.TrackInfoTech, "Baker")
	pending.Alignment = alignment.Pending("BAKER", "", alignment.TrackInfoTech)

	res, err := engine.Resolve(ctx, pending, true)
	require.Error(t, err)
	assert.True(t, alignment.IsRetryable(err))
	assert.True(t, res.Record.Alignment.IsPending())
}
