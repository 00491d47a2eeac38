// bvid реализует двунаправленное преобразование идентификаторов видео:
// отображаемый BV-код ↔ стабильный числовой aid (oid в API комментариев).
// Алгоритм — опубликованная схема платформы: base58 поверх двух битовых
// преобразований (XOR и маска) и двух перестановок позиций кода.
package bvid

import (
	"errors"
	"strings"
)

const (
	xorCode  = 23442827791579
	maskCode = 2251799813685247
	// maxAID — верхняя граница диапазона стабильных идентификаторов;
	// закодированное значение до снятия маски лежит в [maxAID, 2*maxAID).
	maxAID = 2251799813685248
	minAID = 1

	base    = 58
	codeLen = 12

	alphabet = "FcwAPNKTMug3GV5Lj7EJnHpWsx4tb8haYeviqBz6rkCy12mUSDQX9RdoZf"
)

// ErrInvalidID — вход не является корректным идентификатором:
// неверная длина/префикс, символ вне алфавита или значение вне диапазона.
var ErrInvalidID = errors.New("invalid video id")

// reverse — обратная таблица алфавита; значение -1 помечает чужой символ.
var reverse = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// Decode преобразует BV-код в стабильный aid.
//
// Правила валидации:
//   - длина строго codeLen, префикс "BV1" (регистр префикса не важен);
//   - все символы полезной части — из фиксированного алфавита;
//   - раскодированное значение обязано попасть в [maxAID, 2*maxAID).
func Decode(displayID string) (int64, error) {
	if len(displayID) != codeLen {
		return 0, ErrInvalidID
	}

	if !strings.HasPrefix(strings.ToUpper(displayID), "BV1") {
		return 0, ErrInvalidID
	}

	code := []byte(displayID)
	code[3], code[9] = code[9], code[3]
	code[4], code[7] = code[7], code[4]

	var aid int64
	for i := 3; i < codeLen; i++ {
		idx := reverse[code[i]]
		if idx < 0 {
			return 0, ErrInvalidID
		}
		aid = aid*base + int64(idx)
	}

	if aid < maxAID || aid >= maxAID<<1 {
		return 0, ErrInvalidID
	}

	return (aid & maskCode) ^ xorCode, nil
}

// Encode преобразует стабильный aid в BV-код.
// Для aid вне [minAID, maxAID) возвращает ErrInvalidID.
func Encode(aid int64) (string, error) {
	if aid < minAID || aid >= maxAID {
		return "", ErrInvalidID
	}

	code := []byte("BV1FFFFFFFFF")
	v := (maxAID | aid) ^ xorCode

	for i := codeLen - 1; i > 2 && v > 0; i-- {
		code[i] = alphabet[v%base]
		v /= base
	}

	code[3], code[9] = code[9], code[3]
	code[4], code[7] = code[7], code[4]

	return string(code), nil
}
