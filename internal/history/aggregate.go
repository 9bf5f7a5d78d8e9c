package history

import "strings"

// Separator is the blank line inserted between successive pages/files.
const Separator = "\n\n"

// Aggregate accumulates per-page corrected texts for one batch, in
// submission order.
type Aggregate struct {
	parts []string
}

func (a *Aggregate) Append(text string) {
	a.parts = append(a.parts, text)
}

func (a *Aggregate) Len() int {
	return len(a.parts)
}

// String joins the accumulated texts with the separator; none after the
// final part.
func (a *Aggregate) String() string {
	return strings.Join(a.parts, Separator)
}
