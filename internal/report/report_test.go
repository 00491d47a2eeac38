package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-bili-comments/internal/models"
)

func top(id string, likes int64, published time.Time) models.CommentRecord {
	return models.CommentRecord{
		Identity:    id,
		LikeCount:   likes,
		PublishedAt: published,
		Role:        models.RoleTopLevel,
	}
}

func child(id, root string, published time.Time) models.CommentRecord {
	return models.CommentRecord{
		Identity:           id,
		ThreadRootIdentity: root,
		PublishedAt:        published,
		Role:               models.RoleReply,
	}
}

func ids(records []models.CommentRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Identity)
	}
	return out
}

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// TestSortByPopularity — корни по убыванию лайков, ответы ветки следом
// за корнем по возрастанию времени публикации.
func TestSortByPopularity(t *testing.T) {
	t.Parallel()

	records := []models.CommentRecord{
		top("low", 1, base),
		child("low-reply", "low", base.Add(time.Hour)),
		top("high", 100, base.Add(time.Minute)),
		child("high-late", "high", base.Add(3*time.Hour)),
		child("high-early", "high", base.Add(time.Minute)),
	}

	sorted := SortByPopularity(records)
	require.Equal(t, []string{"high", "high-early", "high-late", "low", "low-reply"}, ids(sorted))

	for i, r := range sorted {
		require.Equal(t, i, r.Position)
	}
}

// TestSortByPopularity_LikeTie — при равных лайках выше корень,
// опубликованный раньше.
func TestSortByPopularity_LikeTie(t *testing.T) {
	t.Parallel()

	records := []models.CommentRecord{
		top("later", 5, base.Add(time.Hour)),
		top("earlier", 5, base),
	}

	sorted := SortByPopularity(records)
	require.Equal(t, []string{"earlier", "later"}, ids(sorted))
}

// TestSortByPopularity_Orphans — ответы без известного корня уходят
// в конец в хронологическом порядке.
func TestSortByPopularity_Orphans(t *testing.T) {
	t.Parallel()

	records := []models.CommentRecord{
		child("orphan-late", "missing", base.Add(2*time.Hour)),
		top("root", 1, base),
		child("orphan-early", "missing", base.Add(time.Hour)),
	}

	sorted := SortByPopularity(records)
	require.Equal(t, []string{"root", "orphan-early", "orphan-late"}, ids(sorted))
}

// TestSortByTime — плоский хронологический порядок.
func TestSortByTime(t *testing.T) {
	t.Parallel()

	records := []models.CommentRecord{
		top("c", 0, base.Add(2*time.Hour)),
		child("a", "c", base),
		top("b", 9, base.Add(time.Hour)),
	}

	sorted := SortByTime(records)
	require.Equal(t, []string{"a", "b", "c"}, ids(sorted))
	// Исходный срез не переупорядочивается.
	require.Equal(t, "c", records[0].Identity)
}

// TestGranularities — дерево выбора уровней агрегации по охвату интервала.
func TestGranularities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want []Granularity
	}{
		{
			name: "cross year",
			from: time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			want: []Granularity{GranYear, GranMonth, GranDay},
		},
		{
			name: "cross month",
			from: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			want: []Granularity{GranMonth, GranDay},
		},
		{
			name: "cross day within week",
			from: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC),
			want: []Granularity{GranDay, GranHour},
		},
		{
			name: "cross day beyond week",
			from: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
			want: []Granularity{GranDay},
		},
		{
			name: "same day",
			from: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC),
			want: []Granularity{GranHour, GranMinute},
		},
		{
			name: "reversed interval",
			from: time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC),
			to:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			want: []Granularity{GranHour, GranMinute},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Granularities(tc.from, tc.to))
		})
	}
}

// TestDistribution — подсчёт по корзинам в хронологическом порядке,
// записи без времени публикации пропускаются.
func TestDistribution(t *testing.T) {
	t.Parallel()

	records := []models.CommentRecord{
		top("1", 0, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
		top("2", 0, time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)),
		top("3", 0, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)),
		{Identity: "no-time", Role: models.RoleTopLevel},
	}

	buckets := Distribution(records, GranDay)
	require.Equal(t, []Bucket{
		{Label: "2025-03-01", Count: 2},
		{Label: "2025-03-02", Count: 1},
	}, buckets)

	hours := Distribution(records, GranHour)
	require.Len(t, hours, 3)
	require.Equal(t, "2025-03-01 10:00", hours[0].Label)
}

// TestDistributions — интервал от публикации видео до последнего
// комментария выбирает уровни и считает корзины по каждому.
func TestDistributions(t *testing.T) {
	t.Parallel()

	video := models.VideoInfo{
		PublishedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	records := []models.CommentRecord{
		top("1", 0, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
		top("2", 0, time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)),
	}

	dist := Distributions(video, records)
	require.Len(t, dist, 2)
	require.Contains(t, dist, GranDay)
	require.Contains(t, dist, GranHour)
	require.Equal(t, 2, dist[GranDay][0].Count+dist[GranDay][1].Count)
}
