package replay

// TickInput records the player's input for a single simulation tick.
type TickInput struct {
	T  int  `json:"t"`            // Tick number
	TL bool `json:"tl,omitempty"` // TurnLeft
	TR bool `json:"tr,omitempty"` // TurnRight
	F  bool `json:"f,omitempty"`  // Forward
	B  bool `json:"b,omitempty"`  // Backward
	SL bool `json:"sl,omitempty"` // StrafeLeft
	SR bool `json:"sr,omitempty"` // StrafeRight
	Fi bool `json:"fi,omitempty"` // Fire
	U  bool `json:"u,omitempty"`  // Use
	Bl bool `json:"bl,omitempty"` // Blast
	W  bool `json:"w,omitempty"`  // Warp
	C  bool `json:"c,omitempty"`  // Crush
}

// Checkpoint pins the world digest at a tick; playback compares against it
// to detect divergence.
type Checkpoint struct {
	T      int    `json:"t"`
	Digest uint64 `json:"d,string"`
}

// DemoData contains all data needed to replay a session: the seed and level
// that reproduce the world, the per-tick inputs, and digest checkpoints.
type DemoData struct {
	Version     string       `json:"version"`
	Seed        int64        `json:"seed"`
	Level       string       `json:"level"`
	StartTime   string       `json:"startTime"`
	Ticks       []TickInput  `json:"ticks"`
	Checkpoints []Checkpoint `json:"checkpoints,omitempty"`
}
