package employment_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/alignment-service/internal/alignment"
	"jobmate/alignment-service/internal/db"
	"jobmate/alignment-service/internal/employment"
)

func newSQLiteRepo(t *testing.T) *employment.SQLiteRepository {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "emp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return employment.NewSQLiteRepository(conn)
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	started := time.Date(2020, 5, 4, 0, 0, 0, 0, time.UTC)
	rec := alignment.EmploymentRecord{
		UserID:         "u1",
		Program:        alignment.TrackInfoTech,
		Alignment:      alignment.Pending("OPERATIONS MANAGER", alignment.TrackInfoSystem, alignment.TrackInfoSystem),
		MatchTier:      alignment.TierExact,
		MatchScore:     1,
		HighPosition:   true,
		EmploymentType: "Regular",
		OJTCompany:     "Acme Inc.",
		DateStarted:    &started,
		YearGraduated:  2020,
		UpdatedAt:      time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC),
	}
	rec.SetPosition("Operations Manager")
	rec.SetCompany("ACME CORP")

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, employment.ErrNotFound)

	require.NoError(t, repo.Save(ctx, rec))
	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// Save replaces.
	rec.Alignment = alignment.Aligned(alignment.TrackInfoTech, "OPERATIONS MANAGER")
	rec.DateStarted = nil
	require.NoError(t, repo.Save(ctx, rec))
	got, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestSQLiteRepository_ListAndCount(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	save := func(id string, program alignment.Track, position string, a alignment.Alignment) {
		rec := alignment.EmploymentRecord{UserID: id, Program: program, Alignment: a, UpdatedAt: time.Now()}
		rec.SetPosition(position)
		require.NoError(t, repo.Save(ctx, rec))
	}
	save("a", alignment.TrackInfoTech, "Web Developer", alignment.Aligned(alignment.TrackInfoTech, "WEB DEVELOPER"))
	save("b", alignment.TrackInfoTech, "Baker", alignment.Pending("BAKER", "", alignment.TrackInfoTech))
	save("c", alignment.TrackInfoSystem, "", alignment.NotAligned())
	save("d", alignment.TrackInfoSystem, "Analyst", alignment.Pending("ANALYST", "", alignment.TrackInfoSystem))

	pending, err := repo.List(ctx, employment.ListFilter{Status: alignment.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b", pending[0].UserID)
	assert.Equal(t, "d", pending[1].UserID)

	page, err := repo.List(ctx, employment.ListFilter{WithPosition: true, AfterUserID: "a", Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].UserID)

	bsis, err := repo.List(ctx, employment.ListFilter{Program: alignment.TrackInfoSystem})
	require.NoError(t, err)
	assert.Len(t, bsis, 2)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[alignment.TrackInfoTech][alignment.StatusAligned])
	assert.Equal(t, 1, counts[alignment.TrackInfoTech][alignment.StatusPending])
	assert.Equal(t, 1, counts[alignment.TrackInfoSystem][alignment.StatusNotAligned])
}

func TestSQLiteRepository_BacksService(t *testing.T) {
	repo := newSQLiteRepo(t)
	stores := alignment.NewStoreSet(alignment.MustDefaultCatalog(), func(tr alignment.Track) alignment.ReferenceStore {
		return alignment.NewMemoryStore(tr)
	})
	svc := employment.NewService(alignment.NewEngine(stores, alignment.Options{Logger: quietLogger()}), repo,
		employment.WithLogger(quietLogger()))
	ctx := context.Background()

	_, err := svc.UpdatePosition(ctx, "u1", employment.PositionInput{Position: "Baker", Program: "BSIT", DateStarted: "2021-03-01"})
	require.NoError(t, err)
	st, err := svc.ConfirmAlignment(ctx, "u1", true)
	require.NoError(t, err)
	assert.Equal(t, "aligned", st.AlignmentStatus)

	rec, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, alignment.JobTitle("BAKER"), rec.DecidedTitle)
	require.NotNil(t, rec.DateStarted)
	assert.Equal(t, "2021-03-01", rec.DateStarted.Format("2006-01-02"))
}
