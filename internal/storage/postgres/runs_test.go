package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/storage"
)

// Интеграционные тесты для пакета postgres (реализация хранилища в runs.go):
// — поднимают реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// — применяют миграции из ./migrations;
// — проверяют:
//    SaveRun: атомарная запись запуска с комментариями и дубликатами,
//    ErrConflict при повторном сохранении того же ID;
//    RunByID: метаданные запуска и ErrNotFound;
//    CommentsByRun: порядок сохранения, NULL published_at, ErrNotFound.

// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — определяет корень репозитория относительно текущего файла тестов.
// Используется для поиска SQL-миграций в каталоге ./migrations независимо от текущего рабочего каталога.
func repoRootFromThisFile() string {
	// internal/storage/postgres/... -> подняться на 3 уровня до корня.
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает содержимое SQL-миграции из подкаталога ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	root := repoRootFromThisFile()
	path := filepath.Join(root, "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает PostgreSQL через testcontainers-go,
// применяет миграции и возвращает инициализированное хранилище и функцию очистки.
// Если переменная окружения GO_TEST_INTEGRATION не установлена — тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// применяем миграции.
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init_crawl.up.sql"))
	require.NoError(t, err)

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

func sampleRun(now time.Time) models.CrawlRun {
	merged := []models.CommentRecord{
		{
			Identity:     "1001",
			AuthorName:   "автор",
			AuthorLevel:  5,
			AuthorGender: models.GenderFemale,
			AuthorRegion: "广东",
			Content:      "первый",
			LikeCount:    12,
			ReplyCount:   1,
			PublishedAt:  now.Add(-2 * time.Hour),
			FetchedAt:    now,
			Role:         models.RoleTopLevel,
			Position:     0,
		},
		{
			Identity:           "1002",
			ParentIdentity:     "1001",
			ThreadRootIdentity: "1001",
			Content:            "ответ",
			ReplyTarget:        "@автор",
			PublishedAt:        now.Add(-time.Hour),
			FetchedAt:          now,
			Role:               models.RoleReply,
			Position:           1,
		},
		{
			// Комментарий без времени публикации.
			Identity:  "1003",
			Content:   "без даты",
			FetchedAt: now,
			Role:      models.RoleTopLevel,
			Position:  2,
		},
	}

	return models.CrawlRun{
		ID:         uuid.New(),
		Bvid:       "BV1xx411c7mD",
		Aid:        170001,
		Title:      "видео",
		Mode:       "comprehensive",
		StartedAt:  now.Add(-3 * time.Hour),
		FinishedAt: now,
		Report: models.CrawlReport{
			Result: models.Reconciliation{
				Merged: merged,
				Duplicates: []models.DuplicateRecord{
					{
						CommentRecord: models.CommentRecord{
							Identity:  "1001",
							Content:   "устаревшее наблюдение",
							LikeCount: 7,
							FetchedAt: now.Add(-time.Minute),
						},
						Source: "merge",
					},
				},
			},
		},
	}
}

func TestIntegration_SaveRun_And_ReadBack_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	run := sampleRun(now)

	require.NoError(t, st.SaveRun(ctx, run))

	got, err := st.RunByID(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, run.ID, got.ID)
	require.Equal(t, run.Bvid, got.Bvid)
	require.Equal(t, run.Aid, got.Aid)
	require.Equal(t, run.Title, got.Title)
	require.Equal(t, run.Mode, got.Mode)
	require.True(t, got.StartedAt.Equal(run.StartedAt))
	require.True(t, got.FinishedAt.Equal(run.FinishedAt))

	comments, err := st.CommentsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	// Порядок сохранения.
	require.Equal(t, "1001", comments[0].Identity)
	require.Equal(t, "1002", comments[1].Identity)
	require.Equal(t, "1003", comments[2].Identity)

	require.Equal(t, models.GenderFemale, comments[0].AuthorGender)
	require.Equal(t, "广东", comments[0].AuthorRegion)
	require.Equal(t, int64(12), comments[0].LikeCount)

	require.Equal(t, "1001", comments[1].ParentIdentity)
	require.Equal(t, "1001", comments[1].ThreadRootIdentity)
	require.Equal(t, "@автор", comments[1].ReplyTarget)
	require.Equal(t, models.RoleReply, comments[1].Role)

	// NULL published_at читается нулевым временем.
	require.True(t, comments[2].PublishedAt.IsZero())
	require.True(t, comments[0].PublishedAt.Equal(now.Add(-2*time.Hour)))
}

func TestIntegration_SaveRun_Conflict(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	run := sampleRun(time.Now().UTC().Truncate(time.Second))

	require.NoError(t, st.SaveRun(ctx, run))

	err := st.SaveRun(ctx, run)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrConflict)
}

func TestIntegration_RunByID_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.RunByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_CommentsByRun_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.CommentsByRun(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_SaveRun_EmptyReport_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	run := models.CrawlRun{
		ID:         uuid.New(),
		Bvid:       "BV1xx411c7mD",
		Aid:        170001,
		Mode:       "single",
		StartedAt:  now,
		FinishedAt: now,
	}

	require.NoError(t, st.SaveRun(ctx, run))

	comments, err := st.CommentsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Empty(t, comments)
}
