package debug

// StartData opens a session.
type StartData struct {
	Version string   `json:"version"`
	Phases  []string `json:"phases,omitempty"`
}

// SummaryData closes a session with what it saw, including events the
// filter did not write.
type SummaryData struct {
	ElapsedMs  int64          `json:"elapsed_ms"`
	Frames     uint64         `json:"frames"`
	IdleFrames uint64         `json:"idle_frames"`
	Blits      int64          `json:"blits"`
	Events     map[string]int `json:"events"`
	Written    int            `json:"written"`
}

// ConsoleInitData describes a newly created console.
type ConsoleInitData struct {
	Columns int     `json:"columns"`
	Rows    int     `json:"rows"`
	Charset string  `json:"charset"`
	Gamma   float64 `json:"gamma"`
	Display string  `json:"display"`
}

// CharsetData describes a charset selection.
type CharsetData struct {
	Charset  string `json:"charset"`
	Resource string `json:"resource"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Cached   bool   `json:"cached"`
}

// UpdateData describes one diff/update pass.
type UpdateData struct {
	Frame     uint64 `json:"frame"`
	Cells     int    `json:"cells"`
	Blits     int    `json:"blits"`
	Kind      string `json:"kind"` // "idle", "partial", "full"
	ElapsedUs int64  `json:"elapsed_us"`
}

// SnapshotData describes a snapshot load or save.
type SnapshotData struct {
	Op          string `json:"op"` // "load" or "save"
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
	Timestamp   uint64 `json:"timestamp"`
	SkipPalette bool   `json:"skip_palette,omitempty"`
	Path        string `json:"path,omitempty"`
}

// RecordingData describes a recorded frame or a recording state change.
type RecordingData struct {
	Dir     string `json:"dir"`
	Frame   int    `json:"frame"`
	DeltaNs uint64 `json:"delta_ns"`
}

// KeyData describes a key pushed into the console's queue.
type KeyData struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// ErrorData contains error information.
type ErrorData struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
