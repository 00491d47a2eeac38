package models

import "time"

// VideoInfo — сведения о видео, к которому относятся комментарии.
// Используются отчётами (временные корзины считаются от времени публикации)
// и сохраняются в метаданных запуска.
type VideoInfo struct {
	// Bvid — отображаемый идентификатор видео.
	Bvid string
	// Aid — стабильный числовой идентификатор (oid для API комментариев).
	Aid int64
	// Title — название видео.
	Title string
	// Description — описание.
	Description string
	// Duration — длительность в секундах.
	Duration int64
	// PublishedAt — время публикации видео (UTC).
	PublishedAt time.Time
	// Owner — автор видео.
	Owner VideoOwner
	// Stat — счётчики видео на момент запроса.
	Stat VideoStat
}

// VideoOwner — автор видео.
type VideoOwner struct {
	Mid  int64
	Name string
}

// VideoStat — счётчики видео.
type VideoStat struct {
	Views     int64
	Danmaku   int64
	Replies   int64
	Favorites int64
	Coins     int64
	Shares    int64
	Likes     int64
}
