package services

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// maxDecodeRounds - предел раскрытия вложенных сущностей (&amp;lt; и т.п.)
const maxDecodeRounds = 4

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Sanitizer очищает свободный текст из публичной формы.
// Теги вырезаются при сохранении, а экранирование делает слой вывода
// (html/template, JSON), поэтому в БД лежит обычный текст без сущностей
// и без угловых скобок.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Line - однострочное поле: без тегов, управляющих символов и лишних пробелов
func (s *Sanitizer) Line(value string) string {
	text := s.stripTags(value)
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// Text - многострочное поле: переносы строк сохраняются
func (s *Sanitizer) Text(value string) string {
	text := strings.ReplaceAll(value, "\r\n", "\n")
	text = s.stripTags(text)
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// stripTags сначала раскрывает сущности, чтобы закодированная разметка
// тоже попала под политику, и только потом вырезает теги.
func (s *Sanitizer) stripTags(value string) string {
	text := value
	for i := 0; i < maxDecodeRounds; i++ {
		decoded := html.UnescapeString(text)
		if decoded == text {
			break
		}
		text = decoded
	}

	// bluemonday экранирует оставшийся текст, возвращаем его к исходному виду
	text = html.UnescapeString(s.policy.Sanitize(text))
	return angleBrackets.Replace(text)
}
