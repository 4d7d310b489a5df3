package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Input is the expanded per-tick input the game loop consumes.
type Input struct {
	TurnLeft, TurnRight     bool
	Forward, Backward       bool
	StrafeLeft, StrafeRight bool
	Fire                    bool
	Use                     bool
	Blast                   bool
	Warp                    bool
	Crush                   bool
}

// checkpointInterval is how often (in ticks) a digest checkpoint is taken.
const checkpointInterval = 35

// Recorder captures input and digest checkpoints for deterministic replay.
type Recorder struct {
	data      DemoData
	recording bool
	tick      int
}

// NewRecorder creates a new recorder. The seed and level name let playback
// rebuild the identical world.
func NewRecorder(seed int64, level string) *Recorder {
	return &Recorder{
		data: DemoData{
			Version:   "1.0",
			Seed:      seed,
			Level:     level,
			StartTime: time.Now().Format(time.RFC3339),
			Ticks:     make([]TickInput, 0, 2048),
		},
		recording: true,
	}
}

// RecordTick records one tick's input and, at the checkpoint interval, the
// post-tick world digest.
func (r *Recorder) RecordTick(in Input, digest uint64) {
	if !r.recording {
		return
	}

	r.data.Ticks = append(r.data.Ticks, TickInput{
		T:  r.tick,
		TL: in.TurnLeft,
		TR: in.TurnRight,
		F:  in.Forward,
		B:  in.Backward,
		SL: in.StrafeLeft,
		SR: in.StrafeRight,
		Fi: in.Fire,
		U:  in.Use,
		Bl: in.Blast,
		W:  in.Warp,
		C:  in.Crush,
	})

	if r.tick%checkpointInterval == 0 {
		r.data.Checkpoints = append(r.data.Checkpoints, Checkpoint{T: r.tick, Digest: digest})
	}
	r.tick++
}

// Save writes the demo to a file.
func (r *Recorder) Save(filename string) error {
	if len(r.data.Ticks) == 0 {
		return fmt.Errorf("no ticks to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode demo: %w", err)
	}

	return nil
}

// Stop stops recording.
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active.
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// TickCount returns the number of recorded ticks.
func (r *Recorder) TickCount() int {
	return len(r.data.Ticks)
}

// Data returns the recorded demo.
func (r *Recorder) Data() DemoData {
	return r.data
}

// GenerateFilename creates a demo filename based on the current time.
func GenerateFilename() string {
	return fmt.Sprintf("demo_%s.json", time.Now().Format("20060102_150405"))
}
