// Package spell implements dictionary-based post-OCR text cleanup.
// The dictionary itself is an external collaborator behind a two-operation
// contract; recognition never blocks or fails because of it.
package spell

import "sync/atomic"

// Dictionary reports word validity and ranked correction candidates.
type Dictionary interface {
	IsValid(word string) bool
	Suggest(word string) []string
}

// Holder publishes a dictionary once asynchronous loading completes.
// Until then (or forever, if loading failed) consumers see no dictionary.
type Holder struct {
	v atomic.Value // Dictionary
}

func (h *Holder) Set(d Dictionary) {
	if d != nil {
		h.v.Store(d)
	}
}

func (h *Holder) Get() (Dictionary, bool) {
	d, ok := h.v.Load().(Dictionary)
	return d, ok
}
