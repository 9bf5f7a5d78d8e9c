package spell

import (
	"regexp"
	"strings"
	"unicode"
)

// Only plain alphanumeric tokens are correction candidates; anything with
// punctuation or mixed characters is never altered.
var wordPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Corrector rewrites recognized text by replacing unrecognized words with
// the dictionary's top suggestion. With no dictionary published yet it is a
// passthrough.
type Corrector struct {
	holder *Holder
}

func NewCorrector(holder *Holder) *Corrector {
	return &Corrector{holder: holder}
}

func (c *Corrector) Correct(text string) string {
	if c == nil || c.holder == nil {
		return text
	}
	d, ok := c.holder.Get()
	if !ok {
		return text
	}
	return CorrectWith(d, text)
}

// CorrectWith applies the correction algorithm with an explicit dictionary:
// the text is split into alternating whitespace/non-whitespace runs so that
// everything outside word boundaries survives byte for byte.
func CorrectWith(d Dictionary, text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, tok := range splitRuns(text) {
		b.WriteString(correctToken(d, tok))
	}
	return b.String()
}

func correctToken(d Dictionary, tok string) string {
	if tok == "" || unicode.IsSpace(rune(tok[0])) {
		return tok
	}
	if !wordPattern.MatchString(tok) {
		return tok
	}
	if d.IsValid(tok) {
		return tok
	}
	if sugg := d.Suggest(tok); len(sugg) > 0 {
		return sugg[0]
	}
	return tok
}

// splitRuns splits text into maximal runs of whitespace and non-whitespace,
// preserving the original bytes.
func splitRuns(text string) []string {
	var runs []string
	start := 0
	var inSpace bool
	for i, r := range text {
		isSpace := unicode.IsSpace(r)
		if i == 0 {
			inSpace = isSpace
			continue
		}
		if isSpace != inSpace {
			runs = append(runs, text[start:i])
			start = i
			inSpace = isSpace
		}
	}
	return append(runs, text[start:])
}
