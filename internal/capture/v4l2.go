package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/zero-one-labs/zeroptics/internal/common"
	"github.com/zero-one-labs/zeroptics/internal/execx"
)

// V4L2Device grabs frames from video4linux devices through ffmpeg.
type V4L2Device struct {
	FFmpeg  string
	Devices map[FacingMode]string

	runner execx.Runner
	logger *slog.Logger

	mu      sync.Mutex
	current *v4l2Stream
}

func NewV4L2Device(ffmpeg string, devices map[FacingMode]string, logger *slog.Logger) *V4L2Device {
	if logger == nil {
		logger = slog.Default()
	}
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	return &V4L2Device{FFmpeg: ffmpeg, Devices: devices, runner: execx.ExecRunner{}, logger: logger}
}

// Open acquires the device for the facing mode, releasing any previously
// live stream first. A missing or unreadable device surfaces as
// ErrCameraAccess.
func (d *V4L2Device) Open(ctx context.Context, facing FacingMode) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := d.Devices[facing]
	if !ok || path == "" {
		return nil, fmt.Errorf("%w: no device configured for facing mode %q", common.ErrCameraAccess, facing)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCameraAccess, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil && d.current.Live() {
		d.logger.Debug("capture.stream.swap", "facing", string(facing))
		d.current.Stop()
	}
	s := &v4l2Stream{dev: d, path: path, live: true}
	d.current = s
	d.logger.Info("capture.stream.open", "facing", string(facing), "device", path)
	return s, nil
}

type v4l2Stream struct {
	dev  *V4L2Device
	path string

	mu   sync.Mutex
	live bool
}

// Grab shells out to ffmpeg for a single PNG frame.
func (s *v4l2Stream) Grab(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if !s.live {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: stream stopped", common.ErrCameraAccess)
	}
	s.mu.Unlock()

	// ffmpeg -f v4l2 -i <dev> -frames:v 1 -f image2pipe -vcodec png -
	out, errb, err := s.dev.runner.Run(ctx, s.dev.FFmpeg,
		"-hide_banner", "-loglevel", "error",
		"-f", "v4l2", "-i", s.path,
		"-frames:v", "1",
		"-f", "image2pipe", "-vcodec", "png", "-",
	)
	if err != nil {
		return nil, fmt.Errorf("grab frame: %w (%s)", err, string(errb))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("grab frame: ffmpeg produced no image")
	}
	return out, nil
}

func (s *v4l2Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live {
		s.live = false
		s.dev.logger.Info("capture.stream.stop", "device", s.path)
	}
}

func (s *v4l2Stream) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}
