package retrocon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ryanlewis/retrocon/internal/debug"
)

// recorder saves a numbered snapshot after every Update. The first frame is
// stamped 0; later frames carry the nanoseconds since the first.
type recorder struct {
	dir     string
	next    int
	started time.Time
}

// StartRecording saves the screen to dir/00000000.scr, dir/00000001.scr, ...
// after every Update until StopRecording. dir is created if needed.
func (c *Console) StartRecording(dir string) error {
	if c.rec != nil {
		return ErrAlreadyRecording
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create recording directory: %w", err)
	}
	c.rec = &recorder{dir: dir}

	if c.session != nil {
		c.session.Emit("recording", "Start", debug.RecordingData{Dir: dir})
	}
	return nil
}

// StopRecording ends the current recording and returns the number of frames
// it saved.
func (c *Console) StopRecording() (int, error) {
	if c.rec == nil {
		return 0, ErrNotRecording
	}
	rec := c.rec
	c.rec = nil

	if c.session != nil {
		c.session.Emit("recording", "Stop", debug.RecordingData{Dir: rec.dir, Frame: rec.next})
	}
	return rec.next, nil
}

// Recording reports whether a recording is active.
func (c *Console) Recording() bool { return c.rec != nil }

func (r *recorder) record(c *Console) error {
	now := c.clock()
	var delta uint64
	if r.next == 0 {
		r.started = now
	} else if d := now.Sub(r.started); d > 0 {
		delta = uint64(d.Nanoseconds())
	}

	path := filepath.Join(r.dir, fmt.Sprintf("%08d.scr", r.next))
	if err := c.saveScreenFile(path, delta); err != nil {
		return fmt.Errorf("failed to record frame %d: %w", r.next, err)
	}

	if c.session != nil {
		c.session.Emit("recording", "Frame", debug.RecordingData{Dir: r.dir, Frame: r.next, DeltaNs: delta})
	}
	r.next++
	return nil
}
