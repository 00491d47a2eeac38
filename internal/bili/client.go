package bili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pribylovaa/go-bili-comments/internal/models"
	"github.com/pribylovaa/go-bili-comments/internal/pkg/log"
	"github.com/pribylovaa/go-bili-comments/internal/sign"
)

// ErrRateLimited — платформа ответила HTTP 412: текущие учётные данные
// троттлятся или заблокированы. Сигнал жёсткой отмены: он обязан пройти
// через все вызывающие слои без повторных попыток — продолжение запросов
// усугубляет блокировку.
var ErrRateLimited = errors.New("rate limited or banned (HTTP 412)")

// APIError — конверт вернул ненулевой code (например -400/-403/-404).
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: code=%d message=%q", e.Code, e.Message)
}

const (
	defaultBaseURL = "https://api.bilibili.com"
	defaultTimeout = 10 * time.Second

	commentsPath = "/x/v2/reply"
	threadPath   = "/x/v2/reply/reply"
	videoPath    = "/x/web-interface/view"

	// Фиксированные параметры платформы, входящие в подпись.
	platParam        = "1"
	webLocationParam = "1315875"
	// commentType — тип ресурса «видео» в API комментариев.
	commentType = "1"
)

// Options — явная конфигурация клиента: учётные данные запроса передаются
// значением, а не читаются из глобального состояния.
type Options struct {
	// BaseURL — адрес API; пустая строка — боевой адрес платформы.
	BaseURL string
	// Cookie — строка Cookie браузерной сессии.
	Cookie string
	// UserAgent — User-Agent браузера.
	UserAgent string
}

// Client выполняет запросы страниц комментариев, веток ответов и сведений
// о видео. Таймауты настраиваются HTTP-клиентом снаружи.
type Client struct {
	client *http.Client
	signer *sign.Signer
	opts   Options
	// now — источник времени для wts; подменяется в тестах.
	now func() time.Time
}

// New создаёт клиент API.
func New(client *http.Client, signer *sign.Signer, opts Options) *Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	if signer == nil {
		signer = sign.New("")
	}

	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}

	return &Client{client: client, signer: signer, opts: opts, now: time.Now}
}

// PageQuery — логические параметры одной страницы комментариев.
type PageQuery struct {
	// OID — стабильный числовой идентификатор видео.
	OID int64
	// Sort — порядок обхода.
	Sort models.SortMode
	// PageSize — размер страницы (платформа фактически фиксирует 20).
	PageSize int
	// PageNum — номер страницы; используется для всех страниц, кроме первой.
	PageNum int
	// Cursor — курсор продолжения; на первой странице уходит как seek_rpid.
	Cursor string
	// FirstPage — признак первой страницы прохода.
	FirstPage bool
}

// CommentPage — одна страница комментариев.
type CommentPage struct {
	// Replies — сырые комментарии первого уровня со встроенными выборками.
	Replies []Reply
	// NextCursor — курсор продолжения.
	NextCursor string
	// IsEnd — авторитетный признак конца списка от платформы.
	IsEnd bool
}

// CommentsPage запрашивает одну страницу комментариев.
//
// Классификация исходов:
//   - HTTP 412 → ErrRateLimited (до разбора тела);
//   - сетевая ошибка или статус, отличный от 200/412 → обёрнутая ошибка;
//   - нечитаемое тело → ошибка декодирования;
//   - code != 0 в конверте → *APIError;
//   - пустой список replies — не ошибка: вызывающий трактует его
//     как исчерпание списка.
func (c *Client) CommentsPage(ctx context.Context, q PageQuery) (*CommentPage, error) {
	const op = "bili/CommentsPage"

	params := map[string]string{
		"oid":  strconv.FormatInt(q.OID, 10),
		"type": commentType,
		"sort": strconv.Itoa(int(q.Sort)),
		"ps":   strconv.Itoa(q.PageSize),
	}

	if !q.FirstPage {
		params["pn"] = strconv.Itoa(q.PageNum)
	} else if q.Cursor != "" {
		params["seek_rpid"] = q.Cursor
	}

	params["plat"] = platParam
	params["web_location"] = webLocationParam

	wts := c.now().Unix()
	params["w_rid"] = c.signer.Sign(params, wts)
	params["wts"] = strconv.FormatInt(wts, 10)

	raw, err := c.get(ctx, op, commentsPath, params)
	if err != nil {
		return nil, err
	}

	var data commentData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s: decode data: %w", op, err)
	}

	return &CommentPage{
		Replies:    data.Replies,
		NextCursor: data.Cursor.Next.String(),
		IsEnd:      data.Cursor.IsEnd,
	}, nil
}

// ThreadPage запрашивает одну страницу ответов ветки root.
// Ветка пагинируется только номером страницы; конец определяется
// вызывающим по короткой странице.
func (c *Client) ThreadPage(ctx context.Context, oid int64, root string, page, pageSize int) ([]Reply, error) {
	const op = "bili/ThreadPage"

	params := map[string]string{
		"oid":  strconv.FormatInt(oid, 10),
		"type": commentType,
		"root": root,
		"ps":   strconv.Itoa(pageSize),
		"pn":   strconv.Itoa(page),
	}

	raw, err := c.get(ctx, op, threadPath, params)
	if err != nil {
		return nil, err
	}

	var data threadData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s: decode data: %w", op, err)
	}

	return data.Replies, nil
}

// VideoInfo запрашивает сведения о видео по отображаемому идентификатору.
func (c *Client) VideoInfo(ctx context.Context, bvid string) (*models.VideoInfo, error) {
	const op = "bili/VideoInfo"

	raw, err := c.get(ctx, op, videoPath, map[string]string{"bvid": bvid})
	if err != nil {
		return nil, err
	}

	var data videoData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s: decode data: %w", op, err)
	}

	info := &models.VideoInfo{
		Bvid:        data.Bvid,
		Aid:         data.Aid,
		Title:       data.Title,
		Description: data.Desc,
		Duration:    data.Duration,
		Owner:       models.VideoOwner{Mid: data.Owner.Mid, Name: data.Owner.Name},
		Stat: models.VideoStat{
			Views:     data.Stat.View,
			Danmaku:   data.Stat.Danmaku,
			Replies:   data.Stat.Reply,
			Favorites: data.Stat.Favorite,
			Coins:     data.Stat.Coin,
			Shares:    data.Stat.Share,
			Likes:     data.Stat.Like,
		},
	}
	if data.Pubdate > 0 {
		info.PublishedAt = time.Unix(data.Pubdate, 0).UTC()
	}

	return info, nil
}

// get выполняет GET-запрос и возвращает поле data успешного конверта.
func (c *Client) get(ctx context.Context, op, path string, params map[string]string) (json.RawMessage, error) {
	lg := log.From(ctx)

	u, err := url.Parse(c.opts.BaseURL + path)
	if err != nil {
		return nil, fmt.Errorf("%s: base url: %w", op, err)
	}

	query := u.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	if c.opts.Cookie != "" {
		req.Header.Set("Cookie", c.opts.Cookie)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	req.Header.Set("Referer", "https://www.bilibili.com")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.client.Do(req)
	if err != nil {
		lg.Warn("http_error",
			slog.String("op", op),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	// 412 важнее любого содержимого ответа.
	if resp.StatusCode == http.StatusPreconditionFailed {
		io.Copy(io.Discard, resp.Body)
		lg.Error("rate_limited",
			slog.String("op", op),
			slog.String("path", path),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrRateLimited)
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: decode envelope: %w", op, err)
	}

	if env.Code != 0 {
		return nil, fmt.Errorf("%s: %w", op, &APIError{Code: env.Code, Message: env.Message})
	}

	return env.Data, nil
}
