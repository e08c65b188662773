// Package debug traces console activity as structured events.
//
// Tracing is off until SetEnabled(true) or RETROCON_DEBUG=1. A nil *Session
// ignores every call, so instrumented code only checks the pointer.
//
// A console at 60 frames per second mostly produces idle updates. Those are
// counted for the session summary but only written when RETROCON_DEBUG_IDLE=1.
// RETROCON_DEBUG_PHASES limits output to a comma separated list of phases
// (console, render, snapshot, recording, input, error).
package debug

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

// SetEnabled switches tracing on or off for sessions created afterwards.
func SetEnabled(on bool) { enabled.Store(on) }

// Enabled reports whether tracing is on.
func Enabled() bool { return enabled.Load() }

// Environment variables read by InitFromEnv, PrettyFromEnv and
// FilterFromEnv.
const (
	EnvDebug  = "RETROCON_DEBUG"
	EnvPretty = "RETROCON_DEBUG_PRETTY"
	EnvPhases = "RETROCON_DEBUG_PHASES"
	EnvIdle   = "RETROCON_DEBUG_IDLE"
)

// InitFromEnv enables tracing when RETROCON_DEBUG=1.
func InitFromEnv() {
	if os.Getenv(EnvDebug) == "1" {
		SetEnabled(true)
	}
}

// PrettyFromEnv reports whether RETROCON_DEBUG_PRETTY=1 asks for the
// human-readable sink.
func PrettyFromEnv() bool {
	return os.Getenv(EnvPretty) == "1"
}

// Filter selects which events a session writes. Session events are always
// written.
type Filter struct {
	// Phases to write; empty means all
	Phases map[string]bool
	// Idle writes updates that blitted nothing
	Idle bool
}

// FilterFromEnv builds a Filter from RETROCON_DEBUG_PHASES and
// RETROCON_DEBUG_IDLE.
func FilterFromEnv() Filter {
	return Filter{
		Phases: ParsePhases(os.Getenv(EnvPhases)),
		Idle:   os.Getenv(EnvIdle) == "1",
	}
}

// ParsePhases splits a comma separated phase list. Blank entries are
// ignored; an empty list gives nil.
func ParsePhases(s string) map[string]bool {
	var phases map[string]bool
	for _, p := range strings.Split(s, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if phases == nil {
			phases = make(map[string]bool)
		}
		phases[p] = true
	}
	return phases
}

func (f Filter) allows(phase string, data interface{}) bool {
	if phase == "session" {
		return true
	}
	if len(f.Phases) > 0 && !f.Phases[phase] {
		return false
	}
	if u, ok := data.(UpdateData); ok && u.Blits == 0 && !f.Idle {
		return false
	}
	return true
}

// Session traces one console. Emit may be called from the console owner and
// from display goroutines.
type Session struct {
	mu      sync.Mutex
	id      string
	sink    Sink
	filter  Filter
	started time.Time

	events  map[string]int
	written int
	frames  uint64
	idle    uint64
	blits   int64
}

// NewSession creates a session writing to sink with the filter from the
// environment. It returns nil when tracing is disabled or sink is nil.
func NewSession(sink Sink) *Session {
	return NewFilteredSession(sink, FilterFromEnv())
}

// NewFilteredSession is NewSession with an explicit filter.
func NewFilteredSession(sink Sink, f Filter) *Session {
	if !Enabled() || sink == nil {
		return nil
	}
	s := &Session{
		id:      generateSessionID(),
		sink:    sink,
		filter:  f,
		started: time.Now(),
		events:  make(map[string]int),
	}
	s.Emit("session", "Start", StartData{Version: "1.0", Phases: sortedPhases(f.Phases)})
	return s
}

// SessionID returns the unique identifier for this session.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Emit records an event and writes it unless the filter drops it.
func (s *Session) Emit(phase, event string, data interface{}) {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count(phase, data)
	if !s.filter.allows(phase, data) {
		return
	}
	s.written++
	//nolint:errcheck // a failing trace must not break the console
	s.sink.Write(Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.id,
		Phase:     phase,
		Event:     event,
		Data:      data,
	})
}

func (s *Session) count(phase string, data interface{}) {
	if phase == "session" {
		return
	}
	s.events[phase]++
	if u, ok := data.(UpdateData); ok {
		s.frames++
		s.blits += int64(u.Blits)
		if u.Blits == 0 {
			s.idle++
		}
	}
}

// Summary returns the counters collected so far.
func (s *Session) Summary() SummaryData {
	if s == nil {
		return SummaryData{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary()
}

func (s *Session) summary() SummaryData {
	events := make(map[string]int, len(s.events))
	for k, v := range s.events {
		events[k] = v
	}
	return SummaryData{
		ElapsedMs:  time.Since(s.started).Milliseconds(),
		Frames:     s.frames,
		IdleFrames: s.idle,
		Blits:      s.blits,
		Events:     events,
		Written:    s.written,
	}
}

// Close writes the session summary and closes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.Emit("session", "End", s.Summary())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Close()
}

func sortedPhases(phases map[string]bool) []string {
	if len(phases) == 0 {
		return nil
	}
	list := make([]string, 0, len(phases))
	for p := range phases {
		list = append(list, p)
	}
	sort.Strings(list)
	return list
}

func generateSessionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		n := time.Now().UnixNano()
		b = []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	}
	return hex.EncodeToString(b)
}

// Event is the envelope written for every traced event.
type Event struct {
	Timestamp string      `json:"ts"`
	SessionID string      `json:"session_id"`
	Phase     string      `json:"phase"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
}
