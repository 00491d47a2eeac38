package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-bili-comments/internal/models"
)

func record(id string, likes int64, fetched time.Time) models.CommentRecord {
	return models.CommentRecord{
		Identity:  id,
		Content:   "c-" + id,
		LikeCount: likes,
		FetchedAt: fetched,
		Role:      models.RoleTopLevel,
	}
}

func pass(mode models.SortMode, label string, records ...models.CommentRecord) models.CrawlPass {
	return models.CrawlPass{Mode: mode, Label: label, Records: records}
}

// TestMerge_LastWriterWins — при совпадении Identity между проходами
// побеждает запись с более поздним FetchedAt независимо от порядка проходов.
func TestMerge_LastWriterWins(t *testing.T) {
	t.Parallel()

	early := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	fresh := record("100", 50, late)
	stale := record("100", 10, early)

	// Свежая запись в первом проходе, устаревшая — во втором.
	rec := Merge(
		pass(models.SortPopularity, "popularity", fresh),
		pass(models.SortChronological, "chronological", stale),
	)

	require.Len(t, rec.Merged, 1)
	require.Equal(t, int64(50), rec.Merged[0].LikeCount)
	require.Len(t, rec.Duplicates, 1)
	require.Equal(t, "merge", rec.Duplicates[0].Source)
	require.Equal(t, int64(10), rec.Duplicates[0].LikeCount)
}

// TestMerge_TieLaterWins — при равных FetchedAt побеждает запись,
// встреченная позже в порядке обхода.
func TestMerge_TieLaterWins(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	first := record("7", 1, ts)
	second := record("7", 2, ts)

	rec := Merge(
		pass(models.SortPopularity, "popularity", first),
		pass(models.SortChronological, "chronological", second),
	)

	require.Len(t, rec.Merged, 1)
	require.Equal(t, int64(2), rec.Merged[0].LikeCount)
}

// TestMerge_IntraPassFold — дубликаты внутри одного прохода сворачиваются
// с меткой этого прохода, а не "merge".
func TestMerge_IntraPassFold(t *testing.T) {
	t.Parallel()

	early := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)

	rec := Merge(pass(models.SortPopularity, "popularity",
		record("1", 3, early),
		record("1", 8, late),
	))

	require.Len(t, rec.Merged, 1)
	require.Equal(t, int64(8), rec.Merged[0].LikeCount)
	require.Len(t, rec.Duplicates, 1)
	require.Equal(t, "popularity", rec.Duplicates[0].Source)
}

// TestMerge_PreservesFirstSeenOrder — порядок итогового набора —
// порядок первой встречи идентификатора, независимо от того, какая
// версия записи победила.
func TestMerge_PreservesFirstSeenOrder(t *testing.T) {
	t.Parallel()

	early := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	rec := Merge(
		pass(models.SortPopularity, "popularity",
			record("a", 1, early),
			record("b", 1, early),
		),
		pass(models.SortChronological, "chronological",
			record("c", 1, early),
			record("a", 9, late),
		),
	)

	require.Len(t, rec.Merged, 3)
	require.Equal(t, "a", rec.Merged[0].Identity)
	require.Equal(t, "b", rec.Merged[1].Identity)
	require.Equal(t, "c", rec.Merged[2].Identity)
	require.Equal(t, int64(9), rec.Merged[0].LikeCount)
}

// TestMerge_DropsEmptyIdentity — записи без идентификатора не участвуют
// в сверке и не попадают ни в Merged, ни в Duplicates.
func TestMerge_DropsEmptyIdentity(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := Merge(pass(models.SortPopularity, "popularity",
		record("", 1, ts),
		record("5", 1, ts),
	))

	require.Len(t, rec.Merged, 1)
	require.Equal(t, "5", rec.Merged[0].Identity)
	require.Empty(t, rec.Duplicates)
}

// TestOverlap — доля пересечения считается относительно текущего прохода.
func TestOverlap(t *testing.T) {
	t.Parallel()

	ts := time.Now()

	prev := []models.CommentRecord{
		record("1", 0, ts), record("2", 0, ts), record("3", 0, ts),
		record("4", 0, ts), record("5", 0, ts), record("6", 0, ts),
		record("7", 0, ts), record("8", 0, ts), record("9", 0, ts),
	}
	cur := []models.CommentRecord{
		record("1", 0, ts), record("2", 0, ts), record("3", 0, ts),
		record("4", 0, ts), record("5", 0, ts), record("6", 0, ts),
		record("7", 0, ts), record("8", 0, ts), record("9", 0, ts),
		record("10", 0, ts),
	}

	require.InDelta(t, 0.9, Overlap(prev, cur), 1e-9)
}

// TestOverlap_EmptyCurrent — пустой текущий проход даёт 0.
func TestOverlap_EmptyCurrent(t *testing.T) {
	t.Parallel()

	prev := []models.CommentRecord{record("1", 0, time.Now())}

	require.Zero(t, Overlap(prev, nil))
	require.Zero(t, Overlap(nil, nil))
}

// TestOverlap_Disjoint — непересекающиеся наборы дают 0,
// полностью совпадающие — 1.
func TestOverlap_Disjoint(t *testing.T) {
	t.Parallel()

	ts := time.Now()
	a := []models.CommentRecord{record("1", 0, ts), record("2", 0, ts)}
	b := []models.CommentRecord{record("3", 0, ts), record("4", 0, ts)}

	require.Zero(t, Overlap(a, b))
	require.InDelta(t, 1.0, Overlap(a, a), 1e-9)
}
