package models

import "time"

// SortMode — порядок обхода комментариев, поддерживаемый платформой.
type SortMode int

const (
	// SortChronological — хронологический порядок (sort=0).
	SortChronological SortMode = 0
	// SortPopularity — порядок по популярности (sort=1).
	SortPopularity SortMode = 1
)

// String возвращает человекочитаемое имя режима.
func (m SortMode) String() string {
	switch m {
	case SortChronological:
		return "chronological"
	case SortPopularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// TermReason — причина завершения прохода Crawl Driver.
//
// Семантика значима: только ReasonExhausted означает «платформа отдала
// полный набор комментариев в этом порядке», и только она позволяет
// комплексному режиму пропустить второй проход.
type TermReason string

const (
	// ReasonExhausted — список исчерпан (пустая страница или is_end).
	ReasonExhausted TermReason = "exhausted"
	// ReasonFetchFailed — сетевая или протокольная ошибка страницы.
	ReasonFetchFailed TermReason = "fetch-failed"
	// ReasonPageLimit — достигнут лимит страниц тестового режима.
	ReasonPageLimit TermReason = "page-limit-reached"
)

// Describe возвращает строку для показа пользователю, отличающую полный
// датасет от частичного.
func (r TermReason) Describe() string {
	switch r {
	case ReasonExhausted:
		return "all comments collected, dataset is complete"
	case ReasonFetchFailed:
		return "page fetch failed, dataset is partial"
	case ReasonPageLimit:
		return "page limit reached, dataset is partial"
	default:
		return "unknown termination, dataset may be partial"
	}
}

// CrawlPass — результат одного прохода Crawl Driver.
type CrawlPass struct {
	// Mode — порядок обхода, фиксированный на весь проход.
	Mode SortMode
	// Label — метка прохода для леджера дубликатов (например, "popularity-2").
	Label string
	// Records — развёрнутые записи в порядке получения.
	Records []CommentRecord
	// Reason — причина завершения.
	Reason TermReason
	// Detail — диагностика для причин, отличных от ReasonExhausted.
	Detail string
	// Pages — число успешно обработанных страниц.
	Pages int
	// StartedAt/FinishedAt — границы прохода (UTC).
	StartedAt  time.Time
	FinishedAt time.Time
}

// DuplicateRecord — запись, проигравшая сравнение last-writer-wins.
type DuplicateRecord struct {
	CommentRecord
	// Source — метка свёртки, в которой запись была вытеснена.
	Source string
}

// OverlapSample — замер доли пересечения идентификаторов двух соседних
// проходов одного порядка; используется итеративной оркестрацией.
type OverlapSample struct {
	Mode  SortMode
	Round int
	// Ratio — |prev ∩ cur| / |cur|, в диапазоне [0, 1].
	Ratio float64
}

// Reconciliation — результат слияния проходов.
type Reconciliation struct {
	// Merged — уникальные записи в порядке первой встречи идентификатора.
	Merged []CommentRecord
	// Duplicates — вытесненные наблюдения с метками источника.
	Duplicates []DuplicateRecord
}

// CrawlReport — итог работы оркестратора: все проходы, финальное слияние
// и история замеров пересечения.
type CrawlReport struct {
	Passes   []CrawlPass
	Result   Reconciliation
	Overlaps []OverlapSample
}
