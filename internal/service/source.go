package service

import (
	"context"

	"github.com/pribylovaa/go-bili-comments/internal/models"
)

// Source описывает абстракцию постраничного источника комментариев.
//
// Требования к реализации:
// 1) Records содержит корневые комментарии страницы вместе с полностью
// развёрнутыми ветками ответов (порядок: корень, затем его ответы).
// 2) FetchedAt проставляется реализацией в момент получения данных.
// 3) IsEnd — признак конца раздела от платформы; источник обязан
// передавать его как есть, решение об остановке принимает оркестратор.
// 4) Реализация обязана уважать ctx (отмена/таймауты).
type Source interface {
	Page(ctx context.Context, req PageRequest) (PageResult, error)
}

// PageRequest — запрос одной страницы корневых комментариев.
type PageRequest struct {
	// OID — числовой идентификатор видео (aid).
	OID int64
	// Sort — порядок обхода.
	Sort models.SortMode
	// PageSize — размер страницы.
	PageSize int
	// PageNum — номер страницы, начиная с 1.
	PageNum int
	// Cursor — пагинационный курсор из предыдущего ответа.
	Cursor string
	// FirstPage — признак первой страницы прохода: для неё
	// используется позиционирование по курсору вместо номера.
	FirstPage bool
}

// PageResult — одна страница с развёрнутыми ветками.
type PageResult struct {
	Records    []models.CommentRecord
	NextCursor string
	IsEnd      bool
}
