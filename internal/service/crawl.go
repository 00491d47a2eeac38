package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-bili-comments/internal/bili"
	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/pkg/log"
)

// Crawl выполняет один проход по разделу комментариев видео oid
// в порядке mode.
//
// Особенности:
//   - конец раздела определяется по признаку IsEnd из ответа платформы
//     и по пустой странице; наличие ответов у корней на остановку
//     не влияет;
//   - блокировка платформы (bili.ErrRateLimited) прерывает проход:
//     собранные страницы возвращаются вместе с ошибкой;
//   - прочие сетевые ошибки завершают проход штатно с причиной
//     fetch-failed и уже собранными записями;
//   - после каждого запроса страницы, включая последний, выдерживается
//     пауза crawler.delay.
func (s *Service) Crawl(ctx context.Context, oid int64, mode models.SortMode, label string) (models.CrawlPass, error) {
	const op = "service/crawl/Crawl"

	lg := log.From(ctx)
	lg.Info("pass_start",
		slog.String("op", op),
		slog.Int64("oid", oid),
		slog.String("sort", mode.String()),
		slog.String("label", label),
	)

	pass := models.CrawlPass{
		Mode:      mode,
		Label:     label,
		StartedAt: s.now().UTC(),
	}

	cursor := ""
	for page := 1; ; page++ {
		res, err := s.src.Page(ctx, PageRequest{
			OID:       oid,
			Sort:      mode,
			PageSize:  s.cfg.Crawler.PageSize,
			PageNum:   page,
			Cursor:    cursor,
			FirstPage: page == 1,
		})
		if err != nil {
			pass.FinishedAt = s.now().UTC()

			if errors.Is(err, bili.ErrRateLimited) || ctx.Err() != nil {
				lg.Warn("pass_aborted",
					slog.String("op", op),
					slog.String("label", label),
					slog.Int("page", page),
					slog.String("err", err.Error()),
				)
				return pass, fmt.Errorf("%s: page %d: %w", op, page, err)
			}

			pass.Reason = models.ReasonFetchFailed
			pass.Detail = err.Error()
			lg.Warn("pass_fetch_failed",
				slog.String("op", op),
				slog.String("label", label),
				slog.Int("page", page),
				slog.String("err", err.Error()),
			)
			break
		}

		pass.Pages++
		pass.Records = append(pass.Records, res.Records...)

		if err := s.pause(ctx, s.cfg.Crawler.Delay); err != nil {
			pass.FinishedAt = s.now().UTC()
			return pass, fmt.Errorf("%s: %w", op, err)
		}

		if len(res.Records) == 0 {
			pass.Reason = models.ReasonExhausted
			pass.Detail = "empty page"
			break
		}
		if res.IsEnd {
			pass.Reason = models.ReasonExhausted
			pass.Detail = "cursor end"
			break
		}
		if max := s.cfg.Crawler.MaxPages; max > 0 && pass.Pages >= max {
			pass.Reason = models.ReasonPageLimit
			break
		}

		cursor = res.NextCursor
	}

	pass.FinishedAt = s.now().UTC()
	lg.Info("pass_done",
		slog.String("op", op),
		slog.String("label", label),
		slog.Int("pages", pass.Pages),
		slog.Int("records", len(pass.Records)),
		slog.String("reason", string(pass.Reason)),
	)

	return pass, nil
}
