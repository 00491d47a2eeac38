package flatten

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-bili-comments/internal/bili"
	"github.com/pribylovaa/go-bili-comments/internal/service"
)

// Source адаптирует клиент API и Flattener к контракту service.Source:
// одна страница корневых комментариев возвращается вместе с полностью
// развёрнутыми ветками.
type Source struct {
	fetcher ThreadFetcher
	flat    *Flattener
}

// NewSource создаёт источник страниц поверх fetcher.
func NewSource(fetcher ThreadFetcher, pageSize int) *Source {
	return &Source{
		fetcher: fetcher,
		flat:    New(fetcher, pageSize),
	}
}

// Page реализует service.Source.
func (s *Source) Page(ctx context.Context, req service.PageRequest) (service.PageResult, error) {
	const op = "flatten/Page"

	page, err := s.fetcher.CommentsPage(ctx, bili.PageQuery{
		OID:       req.OID,
		Sort:      req.Sort,
		PageSize:  req.PageSize,
		PageNum:   req.PageNum,
		Cursor:    req.Cursor,
		FirstPage: req.FirstPage,
	})
	if err != nil {
		return service.PageResult{}, fmt.Errorf("%s: %w", op, err)
	}

	records, err := s.flat.Expand(ctx, req.OID, page.Replies)
	if err != nil {
		return service.PageResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return service.PageResult{
		Records:    records,
		NextCursor: page.NextCursor,
		IsEnd:      page.IsEnd,
	}, nil
}
