// Package capture owns the camera media stream: scoped acquisition per
// facing mode, one live stream at most, guaranteed release on close and
// immediately upon frame capture.
package capture

import "context"

// FacingMode selects which camera a stream opens.
type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// Flip returns the opposite facing mode.
func (m FacingMode) Flip() FacingMode {
	if m == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// Stream is one live camera acquisition.
type Stream interface {
	// Grab captures a single still frame as an encoded raster image.
	Grab(ctx context.Context) ([]byte, error)
	// Stop releases the stream. Idempotent.
	Stop()
	// Live reports whether the stream still holds the device.
	Live() bool
}

// Device acquires streams. Opening while a previous stream is live stops
// that stream first; only one may be open at a time.
type Device interface {
	Open(ctx context.Context, facing FacingMode) (Stream, error)
}
