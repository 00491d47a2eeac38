// flatten разворачивает сырые комментарии платформы в доменные записи:
// поверх встроенных в страницу выборок восстанавливаются полные ветки
// ответов постраничными запросами.
package flatten

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/go-bili-comments/internal/bili"
	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/pkg/log"
)

// hintRe — подсказка платформы «共N条回复»: встроенная выборка ветки
// усечена и её смещение непредсказуемо.
var hintRe = regexp.MustCompile(`共(\d+)条回复`)

// regionPrefix — служебный префикс IP-локации в ответе платформы.
const regionPrefix = "IP属地："

// ThreadFetcher — подмножество клиента API, необходимое для развёртки.
type ThreadFetcher interface {
	CommentsPage(ctx context.Context, q bili.PageQuery) (*bili.CommentPage, error)
	ThreadPage(ctx context.Context, oid int64, root string, page, pageSize int) ([]bili.Reply, error)
}

// Flattener восстанавливает полные ветки ответов для комментариев
// первого уровня.
type Flattener struct {
	fetcher  ThreadFetcher
	pageSize int

	// now — источник времени для FetchedAt; подменяется в тестах.
	now func() time.Time
}

// New создаёт Flattener; pageSize <= 0 заменяется размером страницы
// платформы по умолчанию.
func New(fetcher ThreadFetcher, pageSize int) *Flattener {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Flattener{fetcher: fetcher, pageSize: pageSize, now: time.Now}
}

// Expand разворачивает страницу корневых комментариев в плоский список
// записей: корень, затем его ответы по возрастанию времени публикации.
//
// Особенности:
//   - FetchedAt всех записей страницы — момент вызова Expand (UTC);
//   - блокировка платформы и отмена контекста прерывают развёртку
//     ошибкой; прочие ошибки ветки оставляют уже полученные ответы
//     и не срывают страницу;
//   - комментарии без идентификатора пропускаются: их невозможно
//     сверить между проходами.
func (f *Flattener) Expand(ctx context.Context, oid int64, roots []bili.Reply) ([]models.CommentRecord, error) {
	const op = "flatten/Expand"

	lg := log.From(ctx)
	fetchedAt := f.now().UTC()

	var out []models.CommentRecord
	pos := 0

	for _, root := range roots {
		rootID := root.ID()
		if rootID == "" {
			continue
		}

		out = append(out, f.record(root, "", models.RoleTopLevel, pos, fetchedAt))
		pos++

		replies, err := f.threadReplies(ctx, oid, root)
		if err != nil {
			if errors.Is(err, bili.ErrRateLimited) || ctx.Err() != nil {
				return nil, fmt.Errorf("%s: thread %s: %w", op, rootID, err)
			}
			lg.Warn("thread_fetch_failed",
				slog.String("op", op),
				slog.String("root", rootID),
				slog.Int("partial", len(replies)),
				slog.String("err", err.Error()),
			)
		}

		recs := make([]models.CommentRecord, 0, len(replies))
		for _, r := range replies {
			if r.ID() == "" {
				continue
			}
			recs = append(recs, f.record(r, rootID, models.RoleReply, 0, fetchedAt))
		}

		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].PublishedAt.Before(recs[j].PublishedAt)
		})
		for i := range recs {
			recs[i].Position = pos
			pos++
		}

		out = append(out, recs...)
	}

	return out, nil
}

// threadReplies возвращает полный список ответов ветки root.
//
// Выбор стратегии:
//   - подсказка «共N条回复» — встроенная выборка отбрасывается,
//     ветка перечитывается с первой страницы;
//   - ответов по счётчику больше, чем во встроенной выборке, —
//     выборка сохраняется, дочитывается только хвост со смещением;
//   - счётчик ненулевой при пустой выборке — полное чтение;
//   - иначе встроенной выборки достаточно.
func (f *Flattener) threadReplies(ctx context.Context, oid int64, root bili.Reply) ([]bili.Reply, error) {
	inline := root.Replies

	if _, ok := hintCount(root.ReplyControl.SubReplyEntryText); ok {
		return f.fetchThread(ctx, oid, root.ID(), 1, 0)
	}

	switch {
	case root.Rcount > int64(len(inline)) && len(inline) > 0:
		skip := len(inline)
		tail, err := f.fetchThread(ctx, oid, root.ID(), skip/f.pageSize+1, skip%f.pageSize)
		return append(append([]bili.Reply(nil), inline...), tail...), err
	case root.Rcount > 0 && len(inline) == 0:
		return f.fetchThread(ctx, oid, root.ID(), 1, 0)
	default:
		return inline, nil
	}
}

// fetchThread читает ответы ветки постранично, начиная со startPage.
// Конец ветки — страница короче pageSize. Из первой прочитанной страницы
// отбрасываются drop уже известных записей.
func (f *Flattener) fetchThread(ctx context.Context, oid int64, rootID string, startPage, drop int) ([]bili.Reply, error) {
	const op = "flatten/fetchThread"

	var out []bili.Reply

	for page := startPage; ; page++ {
		batch, err := f.fetcher.ThreadPage(ctx, oid, rootID, page, f.pageSize)
		if err != nil {
			return out, fmt.Errorf("%s: page %d: %w", op, page, err)
		}

		got := len(batch)

		if page == startPage && drop > 0 {
			if drop >= got {
				batch = nil
			} else {
				batch = batch[drop:]
			}
		}
		out = append(out, batch...)

		if got < f.pageSize {
			return out, nil
		}
	}
}

// record — перенос сырого комментария в доменную запись.
func (f *Flattener) record(r bili.Reply, rootID string, role models.Role, pos int, fetchedAt time.Time) models.CommentRecord {
	rec := models.CommentRecord{
		Identity:     r.ID(),
		AuthorName:   r.Member.Uname,
		AuthorLevel:  r.Member.LevelInfo.CurrentLevel,
		AuthorGender: gender(r.Member.Sex),
		AuthorRegion: region(r.ReplyControl.Location),
		Content:      r.Content.Message,
		LikeCount:    r.Like,
		ReplyCount:   r.Rcount,
		FetchedAt:    fetchedAt,
		Role:         role,
		Position:     pos,
	}

	if r.Ctime > 0 {
		rec.PublishedAt = time.Unix(r.Ctime, 0).UTC()
	}

	if role == models.RoleReply {
		rec.ParentIdentity = r.ParentID()
		rec.ThreadRootIdentity = rootID
		if name := r.ParentReplyMember.Uname; name != "" {
			rec.ReplyTarget = "@" + name
		}
	}

	return rec
}

// hintCount извлекает число ответов из подсказки «共N条回复».
func hintCount(text string) (int64, bool) {
	m := hintRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// gender — пол автора из обозначения платформы.
func gender(sex string) models.Gender {
	switch sex {
	case "男":
		return models.GenderMale
	case "女":
		return models.GenderFemale
	default:
		return models.GenderUnknown
	}
}

// region — IP-локация без служебного префикса.
func region(location string) string {
	return strings.TrimPrefix(location, regionPrefix)
}
