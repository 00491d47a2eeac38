package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/storage"
)

// uniqueViolation — код ошибки нарушения уникальности PostgreSQL.
const uniqueViolation = "23505"

// SaveRun сохраняет запуск атомарно: строка запуска, итоговые комментарии
// и журнал дубликатов пишутся одной транзакцией.
// Повторное сохранение запуска с тем же ID — storage.ErrConflict.
func (s *Storage) SaveRun(ctx context.Context, run models.CrawlRun) error {
	const op = "storage/postgres/SaveRun"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO crawl_runs (id, bvid, aid, title, mode, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ID, run.Bvid, run.Aid, run.Title, run.Mode,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
		return fmt.Errorf("%s: insert run: %w", op, err)
	}

	batch := &pgx.Batch{}
	for i, rec := range run.Report.Result.Merged {
		batch.Queue(`
		INSERT INTO comments (run_id, identity, parent_identity, thread_root,
			author_name, author_level, author_gender, author_region,
			content, reply_target, like_count, reply_count,
			published_at, fetched_at, role, pos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, run.ID, rec.Identity, rec.ParentIdentity, rec.ThreadRootIdentity,
			rec.AuthorName, rec.AuthorLevel, string(rec.AuthorGender), rec.AuthorRegion,
			rec.Content, rec.ReplyTarget, rec.LikeCount, rec.ReplyCount,
			nullableTime(rec.PublishedAt), rec.FetchedAt.UTC(), string(rec.Role), i)
	}
	for i, dup := range run.Report.Result.Duplicates {
		batch.Queue(`
		INSERT INTO duplicate_comments (run_id, seq, identity, source,
			content, like_count, reply_count, published_at, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, run.ID, i, dup.Identity, dup.Source,
			dup.Content, dup.LikeCount, dup.ReplyCount,
			nullableTime(dup.PublishedAt), dup.FetchedAt.UTC())
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("%s: batch item %d: %w", op, i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("%s: batch close: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// RunByID возвращает метаданные запуска без комментариев.
// Если запись не найдена — storage.ErrNotFound.
func (s *Storage) RunByID(ctx context.Context, id uuid.UUID) (*models.CrawlRun, error) {
	const op = "storage/postgres/RunByID"

	var run models.CrawlRun
	err := s.db.QueryRow(ctx, `
	SELECT id, bvid, aid, title, mode, started_at, finished_at
	FROM crawl_runs
	WHERE id = $1
	`, id).Scan(
		&run.ID,
		&run.Bvid,
		&run.Aid,
		&run.Title,
		&run.Mode,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()

	return &run, nil
}

// CommentsByRun возвращает итоговый набор комментариев запуска в порядке
// сохранения. Если запуск не найден — storage.ErrNotFound.
func (s *Storage) CommentsByRun(ctx context.Context, id uuid.UUID) ([]models.CommentRecord, error) {
	const op = "storage/postgres/CommentsByRun"

	var exists bool
	if err := s.db.QueryRow(ctx, `
	SELECT EXISTS (SELECT 1 FROM crawl_runs WHERE id = $1)
	`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	rows, err := s.db.Query(ctx, `
	SELECT identity, parent_identity, thread_root,
		author_name, author_level, author_gender, author_region,
		content, reply_target, like_count, reply_count,
		published_at, fetched_at, role, pos
	FROM comments
	WHERE run_id = $1
	ORDER BY pos
	`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.CommentRecord
	for rows.Next() {
		var (
			rec       models.CommentRecord
			gender    string
			role      string
			published *time.Time
		)
		if scanErr := rows.Scan(
			&rec.Identity,
			&rec.ParentIdentity,
			&rec.ThreadRootIdentity,
			&rec.AuthorName,
			&rec.AuthorLevel,
			&gender,
			&rec.AuthorRegion,
			&rec.Content,
			&rec.ReplyTarget,
			&rec.LikeCount,
			&rec.ReplyCount,
			&published,
			&rec.FetchedAt,
			&role,
			&rec.Position,
		); scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		rec.AuthorGender = models.Gender(gender)
		rec.Role = models.Role(role)
		rec.FetchedAt = rec.FetchedAt.UTC()
		if published != nil {
			rec.PublishedAt = published.UTC()
		}

		out = append(out, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return out, nil
}

// nullableTime — нулевое время хранится как NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
