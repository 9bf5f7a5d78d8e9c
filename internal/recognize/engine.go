// Package recognize defines the OCR engine contract and its tesseract-backed
// implementations. The pipeline depends on engines strictly through the
// Engine interface; any OCR implementation satisfying it can be substituted.
package recognize

import (
	"context"
	"math"
)

// StatusRecognizing is the only event status that counts toward display
// progress; engines may emit others and consumers ignore them.
const StatusRecognizing = "recognizing text"

// Event is one progress report emitted during recognition.
type Event struct {
	Status   string
	Progress float64 // 0..1
}

// Engine converts one raster image into recognized text, reporting progress
// through the callback. The callback may be nil.
type Engine interface {
	Recognize(ctx context.Context, image []byte, progress func(Event)) (string, error)
}

// Percent converts a recognizing-phase event to a rounded display
// percentage. The second return is false for events of any other phase.
func Percent(e Event) (int, bool) {
	if e.Status != StatusRecognizing {
		return 0, false
	}
	p := e.Progress
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return int(math.Round(p * 100)), true
}

func emit(progress func(Event), e Event) {
	if progress != nil {
		progress(e)
	}
}
