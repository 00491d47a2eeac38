// service содержит бизнес-логику пайплайна сбора комментариев:
// постраничные проходы, режимы оркестрации и архивацию запусков.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-bili-comments/internal/config"
	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/pkg/log"
	"github.com/pribylovaa/go-bili-comments/internal/storage"
)

var (
	// ErrUnknownMode — режим запуска в конфигурации не поддерживается.
	ErrUnknownMode = errors.New("unknown crawl mode")
)

// Service — оркестратор пайплайна сбора комментариев.
type Service struct {
	cfg     config.Config
	src     Source
	storage storage.Storage

	// now — источник времени; подменяется в тестах.
	now func() time.Time
}

// New создает новый экземпляр Service.
func New(src Source, storage storage.Storage, cfg config.Config) *Service {
	return &Service{
		cfg:     cfg,
		src:     src,
		storage: storage,
		now:     time.Now,
	}
}

// Run выполняет пайплайн для видео oid в режиме из конфигурации.
func (s *Service) Run(ctx context.Context, oid int64) (*models.CrawlReport, error) {
	const op = "service/service/Run"

	switch s.cfg.Crawler.Mode {
	case config.ModeSingle:
		return s.CrawlSingle(ctx, oid, sortFromConfig(s.cfg.Crawler.Sort))
	case config.ModeComprehensive:
		return s.CrawlComprehensive(ctx, oid)
	case config.ModeTimeBoxed:
		return s.CrawlTimeBoxed(ctx, oid)
	case config.ModeOverlap:
		return s.CrawlByOverlap(ctx, oid)
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownMode, s.cfg.Crawler.Mode)
	}
}

// Archive сохраняет завершённый запуск в хранилище.
func (s *Service) Archive(ctx context.Context, run models.CrawlRun) error {
	const op = "service/service/Archive"

	if err := s.storage.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("%s: save_run: %w", op, err)
	}

	log.From(ctx).Info("run_archived",
		slog.String("op", op),
		slog.String("run_id", run.ID.String()),
		slog.Int("comments", len(run.Report.Result.Merged)),
		slog.Int("duplicates", len(run.Report.Result.Duplicates)),
	)

	return nil
}

// sortFromConfig — порядок обхода из строкового значения конфигурации.
func sortFromConfig(sort string) models.SortMode {
	if sort == "chronological" {
		return models.SortChronological
	}
	return models.SortPopularity
}

// pause — блокирующая пауза с уважением контекста.
func (s *Service) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
