// bili — HTTP-клиент API комментариев платформы.
package bili

import (
	"encoding/json"
	"strconv"
)

// envelope — общий конверт ответа API: code=0 — успех,
// отрицательные коды (-400/-403/-404) — фатальные классы ошибок.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// commentData — полезная нагрузка страницы комментариев.
type commentData struct {
	Replies []Reply `json:"replies"`
	Cursor  cursor  `json:"cursor"`
}

// cursor — непрозрачный курсор пагинации.
// next приходит числом, но используется только как строка-токен.
type cursor struct {
	Next  json.Number `json:"next"`
	IsEnd bool        `json:"is_end"`
}

// threadData — полезная нагрузка страницы ответов ветки (без курсора,
// чисто постраничная пагинация).
type threadData struct {
	Replies []Reply `json:"replies"`
}

// Reply — сырой комментарий в формате платформы: комментарий первого
// уровня несёт ограниченную встроенную выборку своих ответов в Replies
// и их общее число в Rcount.
type Reply struct {
	// RpidStr/Rpid — идентификатор; строковое поле приоритетно,
	// числовое — запасной вариант старых ответов API.
	RpidStr string `json:"rpid_str"`
	Rpid    int64  `json:"rpid"`
	// ParentStr/Parent — идентификатор комментария, на который дан ответ;
	// 0 — комментарий первого уровня.
	ParentStr string `json:"parent_str"`
	Parent    int64  `json:"parent"`
	// Ctime — unix-время публикации.
	Ctime int64 `json:"ctime"`
	// Like — число лайков.
	Like int64 `json:"like"`
	// Rcount — общее число ответов под комментарием по данным платформы.
	Rcount int64 `json:"rcount"`
	// Member — автор.
	Member Member `json:"member"`
	// Content — тело комментария.
	Content Content `json:"content"`
	// Replies — встроенная выборка ответов (обычно не более нескольких штук).
	Replies []Reply `json:"replies"`
	// ReplyControl — служебные поля, в том числе подсказка «共N条回复»
	// и IP-локация автора.
	ReplyControl ReplyControl `json:"reply_control"`
	// ParentReplyMember — автор комментария, на который дан ответ;
	// пустое имя означает отсутствие поля в ответе API.
	ParentReplyMember Member `json:"parent_reply_member"`
}

// ID возвращает идентификатор комментария: rpid_str, при его отсутствии —
// десятичная запись rpid.
func (r Reply) ID() string {
	if r.RpidStr != "" {
		return r.RpidStr
	}
	if r.Rpid != 0 {
		return strconv.FormatInt(r.Rpid, 10)
	}
	return ""
}

// ParentID возвращает идентификатор родителя либо пустую строку для
// комментариев первого уровня.
func (r Reply) ParentID() string {
	if r.ParentStr != "" && r.ParentStr != "0" {
		return r.ParentStr
	}
	if r.Parent != 0 {
		return strconv.FormatInt(r.Parent, 10)
	}
	return ""
}

// Member — автор комментария.
type Member struct {
	Uname     string    `json:"uname"`
	Sex       string    `json:"sex"`
	LevelInfo LevelInfo `json:"level_info"`
}

// LevelInfo — уровень аккаунта.
type LevelInfo struct {
	CurrentLevel int `json:"current_level"`
}

// Content — тело комментария.
type Content struct {
	Message string `json:"message"`
}

// ReplyControl — служебная информация комментария.
type ReplyControl struct {
	// SubReplyEntryText — человекочитаемая подсказка вида «共37条回复».
	SubReplyEntryText string `json:"sub_reply_entry_text"`
	// Location — строка вида «IP属地：广东».
	Location string `json:"location"`
}

// videoData — полезная нагрузка ответа о видео.
type videoData struct {
	Bvid     string `json:"bvid"`
	Aid      int64  `json:"aid"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Duration int64  `json:"duration"`
	Pubdate  int64  `json:"pubdate"`
	Owner    struct {
		Mid  int64  `json:"mid"`
		Name string `json:"name"`
	} `json:"owner"`
	Stat struct {
		View     int64 `json:"view"`
		Danmaku  int64 `json:"danmaku"`
		Reply    int64 `json:"reply"`
		Favorite int64 `json:"favorite"`
		Coin     int64 `json:"coin"`
		Share    int64 `json:"share"`
		Like     int64 `json:"like"`
	} `json:"stat"`
}
