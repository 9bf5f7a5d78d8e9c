package pipeline

import (
	"context"
	"fmt"

	"github.com/zero-one-labs/zeroptics/internal/batch"
	"github.com/zero-one-labs/zeroptics/internal/capture"
)

// CaptureAndSubmit runs the reduced camera pipeline: acquire the stream for
// the facing mode, grab one still frame, release the stream, then recognize
// the frame as a single-unit batch. The stream is stopped before recognition
// starts, success or failure. An acquisition failure is terminal for this
// run only: no page unit is produced and the pipeline stays idle.
func (o *Orchestrator) CaptureAndSubmit(ctx context.Context, dev capture.Device, facing capture.FacingMode) (State, error) {
	stream, err := dev.Open(ctx, facing)
	if err != nil {
		o.logger.Error("pipeline.camera.denied", "facing", string(facing), "error", err)
		return o.State(), err
	}

	frame, gerr := stream.Grab(ctx)
	stream.Stop()
	if gerr != nil {
		o.logger.Error("pipeline.camera.grab", "facing", string(facing), "error", gerr)
		return o.State(), fmt.Errorf("capture frame: %w", gerr)
	}

	b := batch.FromFrame(frame)
	return o.Submit(ctx, batch.NewSource(b, nil, 0, o.logger))
}
