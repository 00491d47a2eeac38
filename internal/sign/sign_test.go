package sign

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// базовый набор логических параметров страницы комментариев.
func baseParams() map[string]string {
	return map[string]string{
		"oid":          "10001",
		"type":         "1",
		"sort":         "1",
		"ps":           "20",
		"plat":         "1",
		"web_location": "1315875",
	}
}

// TestSign_KnownVectors — канонический порядок и итоговый MD5 зафиксированы
// контрольными значениями: первая страница, страница с pn, страница с
// курсором seek_rpid.
func TestSign_KnownVectors(t *testing.T) {
	t.Parallel()

	s := New("test-salt")

	first := baseParams()
	require.Equal(t, "9c6f4eafb9b409e35b42789683fc2cee", s.Sign(first, 1700000000))

	paged := baseParams()
	paged["pn"] = "3"
	require.Equal(t, "54c344f2b01801b6b8f4c2589a7971df", s.Sign(paged, 1700000000))

	seek := baseParams()
	seek["sort"] = "0"
	seek["seek_rpid"] = "987654321"
	require.Equal(t, "0c8e66ad803ae3643cefdf0bc4767fed", s.Sign(seek, 1700000000))
}

// TestSign_Deterministic — одинаковый вход даёт одинаковую подпись
// на повторных вызовах.
func TestSign_Deterministic(t *testing.T) {
	t.Parallel()

	s := New("")

	params := baseParams()
	params["pn"] = "2"

	first := s.Sign(params, 1234567890)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, s.Sign(params, 1234567890))
	}

	require.Len(t, first, 32)
}

// TestSign_RestKeysLexicographic — ключи вне фиксированного порядка
// добавляются после него в лексикографическом порядке.
func TestSign_RestKeysLexicographic(t *testing.T) {
	t.Parallel()

	s := New("")
	got := s.Sign(map[string]string{
		"oid":   "7",
		"zkey":  "9",
		"extra": "x",
	}, 5)

	// oid=7&wts=5&extra=x&zkey=9 + DefaultSalt.
	require.Equal(t, "8894ac1114b26e077aa333866838fc1d", got)
}

// TestSign_IgnoresInputWRIDAndWTS — w_rid на входе игнорируется,
// wts подменяется аргументом.
func TestSign_IgnoresInputWRIDAndWTS(t *testing.T) {
	t.Parallel()

	s := New("test-salt")

	clean := baseParams()
	dirty := baseParams()
	dirty["w_rid"] = "deadbeef"
	dirty["wts"] = "1"

	require.Equal(t, s.Sign(clean, 1700000000), s.Sign(dirty, 1700000000))
}

// TestSign_TimestampChangesSignature — другой wts меняет подпись.
func TestSign_TimestampChangesSignature(t *testing.T) {
	t.Parallel()

	s := New("test-salt")
	params := baseParams()

	require.NotEqual(t, s.Sign(params, 1700000000), s.Sign(params, 1700000001))
}
