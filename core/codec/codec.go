package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

const (
	GB18030  = "gb18030"
	GBK      = "gbk"
	UTF8     = "utf-8"
	Latin1   = "latin1"
	Big5     = "big5"
	ShiftJIS = "shift_jis"
)

// ErrUnsupported is returned by New for an encoding name outside Supported().
var ErrUnsupported = errors.New("unsupported encoding")

var registry = map[string]encoding.Encoding{
	GB18030:  simplifiedchinese.GB18030,
	GBK:      simplifiedchinese.GBK,
	UTF8:     unicode.UTF8,
	Latin1:   charmap.ISO8859_1,
	Big5:     traditionalchinese.Big5,
	ShiftJIS: japanese.ShiftJIS,
}

var aliases = map[string]string{
	"utf8":       UTF8,
	"latin-1":    Latin1,
	"iso-8859-1": Latin1,
	"iso8859-1":  Latin1,
	"cp936":      GBK,
	"sjis":       ShiftJIS,
	"shift-jis":  ShiftJIS,
}

// order is the listing order of Supported.
var order = []string{GB18030, UTF8, Latin1, GBK, Big5, ShiftJIS}

// Supported returns the canonical names of every encoding New accepts.
func Supported() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Canonical maps name (case-insensitive, common aliases allowed) to its canonical form.
// The second result is false when the name is not supported.
func Canonical(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[n]; ok {
		n = alias
	}
	_, ok := registry[n]
	return n, ok
}

// IsSupported reports whether New would accept name.
func IsSupported(name string) bool {
	_, ok := Canonical(name)
	return ok
}

// Adapter converts between wire bytes and text using one configured encoding with a
// latin1 fallback.
type Adapter struct {
	name string
	enc  encoding.Encoding
}

// New creates an Adapter for the named encoding.
func New(name string) (*Adapter, error) {
	canonical, ok := Canonical(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	return &Adapter{name: canonical, enc: registry[canonical]}, nil
}

// Name returns the canonical name of the configured encoding.
func (a *Adapter) Name() string {
	return a.name
}

// Decode converts raw bytes to text. Input that does not survive a round trip through
// the configured encoding is decoded as latin1 instead, so every byte sequence yields
// some text.
func (a *Adapter) Decode(raw []byte) string {
	if text, ok := a.decodeStrict(raw); ok {
		return text
	}
	return decodeLatin1(raw)
}

// Encode converts text to wire bytes. Runes the configured encoding cannot represent
// cause a latin1 encoding with substitution; if even that fails the UTF-8 bytes are
// returned unchanged.
func (a *Adapter) Encode(text string) []byte {
	if out, err := a.enc.NewEncoder().String(text); err == nil {
		return []byte(out)
	}
	out, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).String(text)
	if err != nil {
		return []byte(text)
	}
	return []byte(out)
}

func (a *Adapter) decodeStrict(raw []byte) (string, bool) {
	decoded, err := a.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	back, err := a.enc.NewEncoder().Bytes(decoded)
	if err != nil || !bytes.Equal(back, raw) {
		return "", false
	}
	return string(decoded), true
}

func decodeLatin1(raw []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err == nil {
		return string(decoded)
	}
	// ISO-8859-1 code points equal byte values.
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}
