// report упорядочивает итоговый набор комментариев для выгрузки и
// считает распределение комментариев по временным корзинам.
package report

import (
	"sort"
	"time"

	"github.com/pribylovaa/go-bili-comments/internal/models"
)

// Granularity — уровень агрегации временного распределения.
type Granularity string

const (
	GranYear   Granularity = "year"
	GranMonth  Granularity = "month"
	GranDay    Granularity = "day"
	GranHour   Granularity = "hour"
	GranMinute Granularity = "minute"
)

// format — раскладка time.Format для метки корзины.
func (g Granularity) format() string {
	switch g {
	case GranYear:
		return "2006"
	case GranMonth:
		return "2006-01"
	case GranDay:
		return "2006-01-02"
	case GranHour:
		return "2006-01-02 15:00"
	default:
		return "2006-01-02 15:04"
	}
}

// SortByPopularity упорядочивает записи ветками: корни по убыванию
// лайков (при равенстве — раньше опубликованный выше), ответы каждой
// ветки следом за корнем по возрастанию времени публикации. Ответы без
// известного в наборе корня попадают в конец в хронологическом порядке.
// Поле Position пересчитывается по итоговому порядку.
func SortByPopularity(records []models.CommentRecord) []models.CommentRecord {
	roots := make([]models.CommentRecord, 0, len(records))
	children := make(map[string][]models.CommentRecord)
	var orphans []models.CommentRecord

	rootSeen := make(map[string]struct{})
	for _, r := range records {
		if r.IsTopLevel() {
			roots = append(roots, r)
			rootSeen[r.Identity] = struct{}{}
		}
	}
	for _, r := range records {
		if r.IsTopLevel() {
			continue
		}
		if _, ok := rootSeen[r.ThreadRootIdentity]; ok {
			children[r.ThreadRootIdentity] = append(children[r.ThreadRootIdentity], r)
		} else {
			orphans = append(orphans, r)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].LikeCount != roots[j].LikeCount {
			return roots[i].LikeCount > roots[j].LikeCount
		}
		return roots[i].PublishedAt.Before(roots[j].PublishedAt)
	})

	byPublished := func(items []models.CommentRecord) {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PublishedAt.Before(items[j].PublishedAt)
		})
	}

	out := make([]models.CommentRecord, 0, len(records))
	for _, root := range roots {
		out = append(out, root)
		kids := children[root.Identity]
		byPublished(kids)
		out = append(out, kids...)
	}

	byPublished(orphans)
	out = append(out, orphans...)

	for i := range out {
		out[i].Position = i
	}
	return out
}

// SortByTime упорядочивает записи по возрастанию времени публикации
// независимо от ветвления. Поле Position пересчитывается.
func SortByTime(records []models.CommentRecord) []models.CommentRecord {
	out := append([]models.CommentRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.Before(out[j].PublishedAt)
	})
	for i := range out {
		out[i].Position = i
	}
	return out
}

// Granularities выбирает уровни агрегации по охвату интервала [from, to]:
//   - разные годы — год, месяц, день;
//   - один год, разные месяцы — месяц, день;
//   - один месяц, разные дни — день, плюс час при охвате до недели;
//   - один день — час, минута.
func Granularities(from, to time.Time) []Granularity {
	if to.Before(from) {
		from, to = to, from
	}

	from = from.UTC()
	to = to.UTC()

	switch {
	case from.Year() != to.Year():
		return []Granularity{GranYear, GranMonth, GranDay}
	case from.Month() != to.Month():
		return []Granularity{GranMonth, GranDay}
	case from.Day() != to.Day():
		if to.Sub(from) <= 7*24*time.Hour {
			return []Granularity{GranDay, GranHour}
		}
		return []Granularity{GranDay}
	default:
		return []Granularity{GranHour, GranMinute}
	}
}

// Bucket — одна корзина распределения.
type Bucket struct {
	// Label — метка корзины в формате уровня агрегации.
	Label string
	// Count — число комментариев, опубликованных в корзине.
	Count int
}

// Distribution считает число комментариев по корзинам уровня g.
// Записи с нулевым временем публикации пропускаются. Корзины
// возвращаются в хронологическом порядке.
func Distribution(records []models.CommentRecord, g Granularity) []Bucket {
	layout := g.format()

	counts := make(map[string]int)
	for _, r := range records {
		if r.PublishedAt.IsZero() {
			continue
		}
		counts[r.PublishedAt.UTC().Format(layout)]++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]Bucket, 0, len(labels))
	for _, label := range labels {
		out = append(out, Bucket{Label: label, Count: counts[label]})
	}
	return out
}

// Distributions — распределения по всем уровням, выбранным для интервала
// от публикации видео до последнего комментария набора.
func Distributions(video models.VideoInfo, records []models.CommentRecord) map[Granularity][]Bucket {
	from := video.PublishedAt
	to := from

	for _, r := range records {
		if r.PublishedAt.After(to) {
			to = r.PublishedAt
		}
	}

	out := make(map[Granularity][]Bucket)
	for _, g := range Granularities(from, to) {
		out[g] = Distribution(records, g)
	}
	return out
}
