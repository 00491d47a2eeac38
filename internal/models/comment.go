// models содержит доменные сущности пайплайна сбора комментариев.
// Эти типы используются слоями бизнес-логики, хранилища и отчётов.
package models

import "time"

// Gender — пол автора комментария, как его отдаёт платформа.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Role — тип записи: комментарий первого уровня или ответ в ветке.
type Role string

const (
	RoleTopLevel Role = "top-level"
	RoleReply    Role = "reply"
)

// CommentRecord — один развёрнутый комментарий или ответ.
//
// Особенности:
//   - Identity — строковый идентификатор платформы (rpid_str); строка,
//     чтобы не потерять точность 64-битных значений в экспортных форматах;
//   - записи иммутабельны после создания: повторное наблюдение того же
//     Identity — это новая запись с более поздним FetchedAt, а не правка;
//   - Position — порядковый номер внутри страницы на момент развёртки,
//     пересчитывается при сортировке и семантической нагрузки не несёт.
type CommentRecord struct {
	// Identity — уникальный идентификатор комментария.
	Identity string
	// ParentIdentity — идентификатор комментария, на который дан ответ.
	// Пустая строка для комментариев первого уровня.
	ParentIdentity string
	// ThreadRootIdentity — идентификатор корня ветки.
	// Пустая строка для комментариев первого уровня.
	ThreadRootIdentity string
	// AuthorName — отображаемое имя автора.
	AuthorName string
	// AuthorLevel — уровень аккаунта автора.
	AuthorLevel int
	// AuthorGender — пол автора.
	AuthorGender Gender
	// AuthorRegion — текстовая метка региона (IP-локация без префикса платформы).
	AuthorRegion string
	// Content — текст комментария.
	Content string
	// ReplyTarget — "@имя" пользователя, которому адресован ответ.
	// Заполняется только для Role == RoleReply, когда платформа отдаёт
	// parent_reply_member; связь по ParentIdentity сохраняется независимо.
	ReplyTarget string
	// LikeCount — число лайков на момент наблюдения.
	LikeCount int64
	// ReplyCount — общее число ответов под комментарием по данным платформы.
	// Может превышать число собранных локально записей ветки.
	ReplyCount int64
	// PublishedAt — время публикации по данным платформы (UTC).
	PublishedAt time.Time
	// FetchedAt — локальное время наблюдения (UTC); ключ сравнения
	// при разрешении дубликатов.
	FetchedAt time.Time
	// Role — top-level или reply.
	Role Role
	// Position — порядковый номер внутри страницы на момент развёртки.
	Position int
}

// IsTopLevel сообщает, является ли запись комментарием первого уровня.
func (r CommentRecord) IsTopLevel() bool {
	return r.Role == RoleTopLevel
}
