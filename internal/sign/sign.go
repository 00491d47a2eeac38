// sign реализует подпись параметров запросов к API комментариев (w_rid).
// Подпись — MD5 от канонической строки параметров с добавленным секретом;
// сервер платформы проверяет её на своей стороне, поэтому порядок
// конкатенации зафиксирован и не подлежит изменению.
package sign

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// DefaultSalt — опубликованная mixin-константа платформы.
const DefaultSalt = "ea1db124af3c7062474693fa704f4ff8"

// paramOrder — фиксированный порядок ключей канонической строки.
// Параметры пагинации (pn, seek_rpid) включаются только при наличии;
// все прочие ключи добавляются после фиксированных в лексикографическом
// порядке.
var paramOrder = []string{"oid", "type", "sort", "ps", "pn", "seek_rpid", "plat", "web_location", "wts"}

// Signer вычисляет подпись w_rid для набора логических параметров.
// Секрет передаётся явно (в тестах — произвольный).
type Signer struct {
	salt string
}

// New создаёт Signer с заданным секретом; пустая строка — DefaultSalt.
func New(salt string) *Signer {
	if salt == "" {
		salt = DefaultSalt
	}

	return &Signer{salt: salt}
}

// Sign возвращает 32-символьную hex-подпись для params и метки времени wts.
// Детерминированность: одинаковые params и wts дают одинаковую подпись
// при любом числе вызовов.
//
// Ключ "w_rid" во входной mapping игнорируется, "wts" подменяется
// переданным значением.
func (s *Signer) Sign(params map[string]string, wts int64) string {
	canon := make(map[string]string, len(params)+1)
	for k, v := range params {
		if k == "w_rid" {
			continue
		}
		canon[k] = v
	}
	canon["wts"] = strconv.FormatInt(wts, 10)

	parts := make([]string, 0, len(canon))
	seen := make(map[string]bool, len(paramOrder))

	for _, k := range paramOrder {
		if v, ok := canon[k]; ok {
			parts = append(parts, k+"="+v)
			seen[k] = true
		}
	}

	rest := make([]string, 0, len(canon))
	for k := range canon {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, k+"="+canon[k])
	}

	sum := md5.Sum([]byte(strings.Join(parts, "&") + s.salt))

	return hex.EncodeToString(sum[:])
}
