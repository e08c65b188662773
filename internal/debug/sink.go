package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Sink is the interface for debug output destinations.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	w *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	// Format: [timestamp] [phase/event]
	fmt.Fprintf(s.w, "[%s] [%s/%s] session=%s\n", event.Timestamp, event.Phase, event.Event, event.SessionID)

	// Pretty print data based on type
	switch d := event.Data.(type) {
	case ConsoleInitData:
		s.writeConsoleInit(d)
	case CharsetData:
		s.writeCharset(d)
	case UpdateData:
		s.writeUpdate(d)
	case SnapshotData:
		s.writeSnapshot(d)
	case RecordingData:
		s.writeRecording(d)
	case KeyData:
		s.writeKey(d)
	case ErrorData:
		s.writeError(d)
	case StartData:
		s.writeStart(d)
	case SummaryData:
		s.writeSummary(d)
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeConsoleInit(d ConsoleInitData) {
	fmt.Fprintf(s.w, "  grid: %dx%d, charset: %s\n", d.Columns, d.Rows, d.Charset)
	fmt.Fprintf(s.w, "  gamma: %.2f, display: %s\n", d.Gamma, d.Display)
}

func (s *PrettySink) writeCharset(d CharsetData) {
	fmt.Fprintf(s.w, "  charset: %s (%s)\n", d.Charset, d.Resource)
	fmt.Fprintf(s.w, "  glyph: %dx%d, cached: %v\n", d.Width, d.Height, d.Cached)
}

func (s *PrettySink) writeUpdate(d UpdateData) {
	fmt.Fprintf(s.w, "  frame: %d, kind: %s\n", d.Frame, d.Kind)
	fmt.Fprintf(s.w, "  blits: %d/%d, elapsed_us: %d\n", d.Blits, d.Cells, d.ElapsedUs)
}

func (s *PrettySink) writeSnapshot(d SnapshotData) {
	fmt.Fprintf(s.w, "  op: %s, grid: %dx%d, timestamp: %d\n", d.Op, d.Columns, d.Rows, d.Timestamp)
	if d.SkipPalette {
		fmt.Fprintf(s.w, "  skip_palette: true\n")
	}
	if d.Path != "" {
		fmt.Fprintf(s.w, "  path: %s\n", d.Path)
	}
}

func (s *PrettySink) writeRecording(d RecordingData) {
	fmt.Fprintf(s.w, "  dir: %s, frame: %d, delta_ns: %d\n", d.Dir, d.Frame, d.DeltaNs)
}

func (s *PrettySink) writeKey(d KeyData) {
	fmt.Fprintf(s.w, "  key: %s (%d)\n", keyStr(d.Code, d.Name), d.Code)
}

func (s *PrettySink) writeError(d ErrorData) {
	fmt.Fprintf(s.w, "  %s: %s\n", d.Type, d.Message)
	for k, v := range d.Context {
		fmt.Fprintf(s.w, "    %s: %v\n", k, v)
	}
}

func (s *PrettySink) writeStart(d StartData) {
	phases := "all"
	if len(d.Phases) > 0 {
		phases = strings.Join(d.Phases, ",")
	}
	fmt.Fprintf(s.w, "  version: %s, phases: %s\n", d.Version, phases)
}

func (s *PrettySink) writeSummary(d SummaryData) {
	fmt.Fprintf(s.w, "  elapsed_ms: %d, frames: %d (%d idle), blits: %d\n",
		d.ElapsedMs, d.Frames, d.IdleFrames, d.Blits)
	phases := make([]string, 0, len(d.Events))
	for p := range d.Events {
		phases = append(phases, p)
	}
	sort.Strings(phases)
	for _, p := range phases {
		fmt.Fprintf(s.w, "  %s: %d\n", p, d.Events[p])
	}
	fmt.Fprintf(s.w, "  written: %d\n", d.Written)
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}

// keyStr formats a key for display: its name, or the character for
// printable codes without one.
func keyStr(code int, name string) string {
	if name != "" {
		return name
	}
	if code >= 32 && code < 127 {
		return fmt.Sprintf("'%c'", code)
	}
	return fmt.Sprintf("0x%02X", code)
}
