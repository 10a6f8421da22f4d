package renderer

import (
	"context"
	"fmt"

	"github.com/richinsley/hexwater/controls"
)

// Sweep steps the scalar control id linearly from `from` to `to` in frames
// changes, both ends included. Each step is an ordinary registry change, so
// a subscribed Scheduler renders once per step. Sweep stops early when ctx
// is done.
func Sweep(ctx context.Context, reg *controls.Registry, id string, from, to float64, frames int) error {
	if frames < 1 {
		return fmt.Errorf("sweep of %q needs at least one frame, got %d", id, frames)
	}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := from
		if frames > 1 {
			v = from + (to-from)*float64(i)/float64(frames-1)
		}
		if err := reg.SetScalar(id, v); err != nil {
			return fmt.Errorf("sweep step %d: %w", i, err)
		}
	}
	return nil
}
