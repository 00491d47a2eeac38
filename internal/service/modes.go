package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-bili-comments/internal/merge"
	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/pkg/log"
)

// orderings — фиксированный порядок чередования проходов в итеративных
// режимах: сначала популярность, затем хронология.
var orderings = []models.SortMode{models.SortPopularity, models.SortChronological}

// CrawlSingle — один проход в заданном порядке обхода.
func (s *Service) CrawlSingle(ctx context.Context, oid int64, mode models.SortMode) (*models.CrawlReport, error) {
	const op = "service/modes/CrawlSingle"

	pass, err := s.Crawl(ctx, oid, mode, mode.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.CrawlReport{
		Passes: []models.CrawlPass{pass},
		Result: merge.Merge(pass),
	}, nil
}

// CrawlComprehensive — проход по популярности, затем по хронологии.
//
// Особенности:
//   - если проход по популярности исчерпал раздел целиком, хронология
//     ничего нового не добавит и пропускается;
//   - после прерванного прохода (fetch-failed, page-limit) хронология
//     выполняется и закрывает пропуски.
func (s *Service) CrawlComprehensive(ctx context.Context, oid int64) (*models.CrawlReport, error) {
	const op = "service/modes/CrawlComprehensive"

	lg := log.From(ctx)

	popular, err := s.Crawl(ctx, oid, models.SortPopularity, "popularity")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	passes := []models.CrawlPass{popular}

	if popular.Reason == models.ReasonExhausted {
		lg.Info("chronological_skipped",
			slog.String("op", op),
			slog.Int64("oid", oid),
			slog.Int("records", len(popular.Records)),
		)
	} else {
		chrono, err := s.Crawl(ctx, oid, models.SortChronological, "chronological")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		passes = append(passes, chrono)
	}

	return &models.CrawlReport{
		Passes: passes,
		Result: merge.Merge(passes...),
	}, nil
}

// CrawlTimeBoxed — чередование порядков обхода до исчерпания бюджета
// времени iteration.time_budget. Бюджет проверяется после каждого
// прохода: начатый проход не прерывается. Между раундами выдерживается
// пауза iteration.round_pause.
func (s *Service) CrawlTimeBoxed(ctx context.Context, oid int64) (*models.CrawlReport, error) {
	const op = "service/modes/CrawlTimeBoxed"

	lg := log.From(ctx)
	deadline := s.now().Add(s.cfg.Iteration.TimeBudget)

	var passes []models.CrawlPass

loop:
	for round := 1; ; round++ {
		for _, mode := range orderings {
			pass, err := s.Crawl(ctx, oid, mode, fmt.Sprintf("%s-%d", mode, round))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			passes = append(passes, pass)

			if !s.now().Before(deadline) {
				lg.Info("time_budget_spent",
					slog.String("op", op),
					slog.Int("rounds", round),
					slog.Int("passes", len(passes)),
				)
				break loop
			}
		}

		if err := s.pause(ctx, s.cfg.Iteration.RoundPause); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &models.CrawlReport{
		Passes: passes,
		Result: merge.Merge(passes...),
	}, nil
}

// CrawlByOverlap — чередование порядков обхода до насыщения: порядок
// выбывает, когда доля пересечения его прохода с предыдущим проходом
// того же порядка достигает своего порога.
//
// Особенности:
//   - пороги независимы по порядкам (iteration.popularity_threshold и
//     iteration.chrono_threshold); выбывший порядок больше не опрашивается;
//   - пересечение считается начиная со второго раунда — первому проходу
//     не с чем сравниваться;
//   - проход без записей выводит порядок из ротации немедленно;
//   - все замеры пересечения попадают в итоговый отчёт.
func (s *Service) CrawlByOverlap(ctx context.Context, oid int64) (*models.CrawlReport, error) {
	const op = "service/modes/CrawlByOverlap"

	lg := log.From(ctx)

	active := map[models.SortMode]bool{
		models.SortPopularity:    true,
		models.SortChronological: true,
	}
	thresholds := map[models.SortMode]float64{
		models.SortPopularity:    s.cfg.Iteration.PopularityThreshold,
		models.SortChronological: s.cfg.Iteration.ChronoThreshold,
	}
	previous := make(map[models.SortMode][]models.CommentRecord)

	var (
		passes  []models.CrawlPass
		samples []models.OverlapSample
	)

	for round := 1; active[models.SortPopularity] || active[models.SortChronological]; round++ {
		for _, mode := range orderings {
			if !active[mode] {
				continue
			}

			pass, err := s.Crawl(ctx, oid, mode, fmt.Sprintf("%s-%d", mode, round))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			passes = append(passes, pass)

			if len(pass.Records) == 0 {
				active[mode] = false
				continue
			}

			if round > 1 {
				ratio := merge.Overlap(previous[mode], pass.Records)
				samples = append(samples, models.OverlapSample{
					Mode:  mode,
					Round: round,
					Ratio: ratio,
				})
				lg.Info("overlap_sample",
					slog.String("op", op),
					slog.String("sort", mode.String()),
					slog.Int("round", round),
					slog.Float64("ratio", ratio),
				)

				if ratio >= thresholds[mode] {
					active[mode] = false
				}
			}

			previous[mode] = pass.Records
		}

		if active[models.SortPopularity] || active[models.SortChronological] {
			if err := s.pause(ctx, s.cfg.Iteration.RoundPause); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	return &models.CrawlReport{
		Passes:   passes,
		Result:   merge.Merge(passes...),
		Overlaps: samples,
	}, nil
}
