package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// Replayer plays back recorded input tick by tick.
type Replayer struct {
	data DemoData
	tick int
}

// NewReplayer creates a new replayer from demo data.
func NewReplayer(data DemoData) *Replayer {
	return &Replayer{data: data}
}

// LoadDemo loads demo data from a file.
func LoadDemo(filename string) (*DemoData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data DemoData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode demo: %w", err)
	}

	return &data, nil
}

// NextInput returns the input for the current tick and advances. The second
// return is false once the demo is exhausted.
func (r *Replayer) NextInput() (Input, bool) {
	if r.tick >= len(r.data.Ticks) {
		return Input{}, false
	}

	ti := r.data.Ticks[r.tick]
	r.tick++

	return Input{
		TurnLeft:    ti.TL,
		TurnRight:   ti.TR,
		Forward:     ti.F,
		Backward:    ti.B,
		StrafeLeft:  ti.SL,
		StrafeRight: ti.SR,
		Fire:        ti.Fi,
		Use:         ti.U,
		Blast:       ti.Bl,
		Warp:        ti.W,
		Crush:       ti.C,
	}, true
}

// CheckDigest compares the world digest at a tick against the recorded
// checkpoint, if one exists there. A false first return means the playback
// has diverged from the recording.
func (r *Replayer) CheckDigest(tick int, digest uint64) (ok bool, expected uint64, checked bool) {
	for _, cp := range r.data.Checkpoints {
		if cp.T == tick {
			return cp.Digest == digest, cp.Digest, true
		}
	}
	return true, 0, false
}

// CurrentTick returns the current playback tick.
func (r *Replayer) CurrentTick() int {
	return r.tick
}

// TotalTicks returns the total number of recorded ticks.
func (r *Replayer) TotalTicks() int {
	return len(r.data.Ticks)
}

// Seed returns the seed the demo was recorded with.
func (r *Replayer) Seed() int64 {
	return r.data.Seed
}

// Level returns the level the demo was recorded on.
func (r *Replayer) Level() string {
	return r.data.Level
}

// Reset rewinds the replayer to the beginning.
func (r *Replayer) Reset() {
	r.tick = 0
}
