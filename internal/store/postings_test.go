package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

var testDay = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCreateReadRoundTrip(t *testing.T) {
	db := newTestDB(t)

	p := domain.Posting{
		ID:               "4100000001",
		Title:            "Backend Engineer",
		Company:          "Acme",
		Location:         "Austin, TX",
		Description:      "builds things",
		MatchingKeywords: []string{"go", "sql"},
	}
	require.NoError(t, db.CreatePosting(p, domain.StageKeywordFiltered, false, testDay, 29))

	rec, err := db.ReadPosting(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, rec.Posting)
	assert.Equal(t, domain.StageKeywordFiltered, rec.Stage)
	assert.False(t, rec.Discarded)
	assert.Equal(t, testDay.AddDate(0, 0, 29).Format(dateLayout), rec.ExpiresAt.Format(dateLayout))
}

func TestCreateDuplicateLeavesStoreUnchanged(t *testing.T) {
	db := newTestDB(t)

	first := domain.Posting{ID: "1", Title: "Original"}
	require.NoError(t, db.CreatePosting(first, domain.StageDiscovered, false, testDay, 29))

	dup := domain.Posting{ID: "1", Title: "Imposter"}
	err := db.CreatePosting(dup, domain.StageCompleted, true, testDay, 1)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	rec, err := db.ReadPosting("1")
	require.NoError(t, err)
	assert.Equal(t, "Original", rec.Posting.Title)
	assert.Equal(t, domain.StageDiscovered, rec.Stage)
	assert.False(t, rec.Discarded)
}

func TestReadMissing(t *testing.T) {
	db := newTestDB(t)
	_, err := db.ReadPosting("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFields(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreatePosting(domain.Posting{ID: "1", Description: "orig"}, domain.StageDiscovered, false, testDay, 29))

	stage := domain.StageKeywordFiltered
	desc := "full text"
	kws := EncodeKeywords([]string{"python"})
	require.NoError(t, db.UpdatePosting("1", FieldUpdate{
		Description: &desc,
		Keywords:    &kws,
		Stage:       &stage,
	}))

	rec, err := db.ReadPosting("1")
	require.NoError(t, err)
	assert.Equal(t, "full text", rec.Posting.Description)
	assert.Equal(t, []string{"python"}, rec.Posting.MatchingKeywords)
	assert.Equal(t, domain.StageKeywordFiltered, rec.Stage)
	assert.False(t, rec.Discarded, "untouched field must keep its value")

	discard := true
	require.NoError(t, db.UpdatePosting("1", FieldUpdate{Discarded: &discard}))
	rec, err = db.ReadPosting("1")
	require.NoError(t, err)
	assert.True(t, rec.Discarded)
	assert.Equal(t, "full text", rec.Posting.Description, "untouched field must keep its value")
}

func TestUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	discard := true
	err := db.UpdatePosting("ghost", FieldUpdate{Discarded: &discard})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateKeywordsErrorMarker(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreatePosting(domain.Posting{ID: "1"}, domain.StageDiscovered, false, testDay, 29))

	marker := KeywordsError
	require.NoError(t, db.UpdatePosting("1", FieldUpdate{Keywords: &marker}))

	rec, err := db.ReadPosting("1")
	require.NoError(t, err)
	assert.Nil(t, rec.Posting.MatchingKeywords, "ERROR marker decodes to no keywords")
}

func TestQueryByStage(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.CreatePosting(domain.Posting{ID: "a"}, domain.StageDiscovered, false, testDay, 29))
	require.NoError(t, db.CreatePosting(domain.Posting{ID: "b"}, domain.StageDiscovered, true, testDay, 29))
	require.NoError(t, db.CreatePosting(domain.Posting{ID: "c"}, domain.StageKeywordFiltered, false, testDay, 29))

	recs, err := db.QueryByStage(domain.StageDiscovered, false)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].Posting.ID)

	recs, err = db.QueryByStage(domain.StageDiscovered, true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].Posting.ID)

	recs, err = db.QueryByStage(domain.StageCompleted, false)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreatePosting(domain.Posting{ID: "1"}, domain.StageDiscovered, false, testDay, 29))
	require.NoError(t, db.DeletePosting("1"))
	_, err := db.ReadPosting("1")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent id is not an error
	require.NoError(t, db.DeletePosting("1"))
}

func TestPurgeExpired(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.CreatePosting(domain.Posting{ID: "old"}, domain.StageCompleted, false, testDay.AddDate(0, 0, -40), 29))
	require.NoError(t, db.CreatePosting(domain.Posting{ID: "edge"}, domain.StageCompleted, false, testDay.AddDate(0, 0, -29), 29))
	require.NoError(t, db.CreatePosting(domain.Posting{ID: "fresh"}, domain.StageCompleted, false, testDay, 29))

	n, err := db.PurgeExpired(testDay)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "expiry exactly today survives (strict less-than)")

	_, err = db.ReadPosting("old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.ReadPosting("edge")
	assert.NoError(t, err)
	_, err = db.ReadPosting("fresh")
	assert.NoError(t, err)
}

func TestLastRunRoundTrip(t *testing.T) {
	db := newTestDB(t)

	got, err := db.LastRun()
	require.NoError(t, err)
	assert.Empty(t, got, "fresh store has no last run")

	stamp := testDay.Format(LastRunLayout)
	require.NoError(t, db.SetLastRun(stamp))

	got, err = db.LastRun()
	require.NoError(t, err)
	assert.Equal(t, stamp, got)
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db.Pool))
	require.NoError(t, Migrate(db.Pool))

	require.NoError(t, db.CreatePosting(domain.Posting{ID: "1"}, domain.StageDiscovered, false, testDay, 29))
	require.NoError(t, Migrate(db.Pool))

	_, err := db.ReadPosting("1")
	assert.NoError(t, err, "re-running migrations must not drop data")
}
