// storage определяет контракты доступа к БД для crawler-сервиса.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-bili-comments/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (повторное сохранение запуска).
	ErrConflict = errors.New("conflict")
)

// RunStorage описывает операции над архивом запусков.
type RunStorage interface {
	// SaveRun сохраняет запуск целиком: метаданные, итоговый набор
	// комментариев и журнал дубликатов. Повторное сохранение запуска
	// с тем же ID — ErrConflict.
	SaveRun(ctx context.Context, run models.CrawlRun) error
	// RunByID возвращает метаданные запуска без комментариев.
	// Если запись не найдена — ErrNotFound.
	RunByID(ctx context.Context, id uuid.UUID) (*models.CrawlRun, error)
	// CommentsByRun возвращает итоговый набор комментариев запуска
	// в порядке сохранения. Если запуск не найден — ErrNotFound.
	CommentsByRun(ctx context.Context, id uuid.UUID) ([]models.CommentRecord, error)
}

// Storage задаёт контракт доступа к хранилищу для crawler-сервиса.
type Storage interface {
	RunStorage
	Close()
}
