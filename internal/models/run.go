package models

import (
	"time"

	"github.com/google/uuid"
)

// CrawlRun — завершённый запуск пайплайна для одного видео.
// Единица архивации: запуск сохраняется целиком вместе с итоговым
// набором комментариев и журналом вытесненных дубликатов.
type CrawlRun struct {
	// ID — идентификатор запуска, присваивается при создании.
	ID uuid.UUID
	// Bvid/Aid — идентификаторы видео в обоих представлениях.
	Bvid string
	Aid  int64
	// Title — заголовок видео на момент запуска.
	Title string
	// Mode — режим запуска (single/comprehensive/time-boxed/overlap).
	Mode string
	// StartedAt/FinishedAt — границы запуска в UTC.
	StartedAt  time.Time
	FinishedAt time.Time
	// Report — проходы, итоговый набор и журнал пересечений.
	Report CrawlReport
}
