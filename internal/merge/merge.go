// merge — движок сверки проходов: склейка наблюдений одного и того же
// комментария по правилу last-writer-wins и расчёт доли пересечения
// проходов для итеративной оркестрации.
//
// Счётчики лайков/ответов на платформе меняются со временем: более позднее
// наблюдение того же Identity несёт более свежие значения и обязано
// победить более раннее.
package merge

import (
	"github.com/pribylovaa/go-bili-comments/internal/models"
)

// Merge сливает записи проходов в набор без дубликатов.
//
// Алгоритм:
//  1. каждый проход сворачивается независимо: при совпадении Identity
//     остаётся запись с более поздним FetchedAt, проигравшая уходит
//     в Duplicates с меткой прохода;
//  2. выжившие записи всех проходов конкатенируются в порядке передачи
//     и сворачиваются повторно, проигравшие помечаются меткой "merge".
//
// Тай-брейк при равных FetchedAt: побеждает запись, встреченная позже
// в порядке обхода; порядок обхода детерминирован (проходы в порядке
// аргументов, внутри прохода — исходный порядок записей).
func Merge(passes ...models.CrawlPass) models.Reconciliation {
	var result models.Reconciliation

	survivors := make([]models.CommentRecord, 0)
	for _, pass := range passes {
		label := pass.Label
		if label == "" {
			label = pass.Mode.String()
		}

		kept, dups := fold(pass.Records, label)
		survivors = append(survivors, kept...)
		result.Duplicates = append(result.Duplicates, dups...)
	}

	merged, dups := fold(survivors, "merge")
	result.Merged = merged
	result.Duplicates = append(result.Duplicates, dups...)

	return result
}

// Overlap возвращает |prev ∩ cur| / |cur| — долю идентификаторов текущего
// прохода, уже встречавшихся в предыдущем. Пустой cur даёт 0.
func Overlap(prev, cur []models.CommentRecord) float64 {
	curIDs := Identities(cur)
	if len(curIDs) == 0 {
		return 0
	}

	prevIDs := Identities(prev)

	var shared int
	for id := range curIDs {
		if _, ok := prevIDs[id]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(curIDs))
}

// Identities возвращает множество непустых идентификаторов записей.
func Identities(records []models.CommentRecord) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Identity != "" {
			ids[r.Identity] = struct{}{}
		}
	}
	return ids
}

// fold сворачивает последовательность по Identity с сохранением порядка
// первой встречи идентификатора. Записи без Identity отбрасываются:
// их невозможно сверить между наблюдениями.
func fold(records []models.CommentRecord, label string) ([]models.CommentRecord, []models.DuplicateRecord) {
	kept := make([]models.CommentRecord, 0, len(records))
	index := make(map[string]int, len(records))

	var duplicates []models.DuplicateRecord

	for _, rec := range records {
		if rec.Identity == "" {
			continue
		}

		pos, ok := index[rec.Identity]
		if !ok {
			index[rec.Identity] = len(kept)
			kept = append(kept, rec)
			continue
		}

		existing := kept[pos]
		// Более позднее наблюдение побеждает; при равенстве — текущее,
		// так как оно встречено позже.
		if !rec.FetchedAt.Before(existing.FetchedAt) {
			duplicates = append(duplicates, models.DuplicateRecord{CommentRecord: existing, Source: label})
			kept[pos] = rec
		} else {
			duplicates = append(duplicates, models.DuplicateRecord{CommentRecord: rec, Source: label})
		}
	}

	return kept, duplicates
}
