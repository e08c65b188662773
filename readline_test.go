package retrocon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestReadLine(t *testing.T) {
	tests := []struct {
		name    string
		maxLen  int
		initial string
		keys    []Key
		want    string
		wantOK  bool
	}{
		{name: "type and enter", maxLen: 8, keys: keysOf("abc", KeyEnter), want: "abc", wantOK: true},
		{name: "initial kept", maxLen: 8, initial: "name", keys: []Key{KeyEnter}, want: "name", wantOK: true},
		{name: "cursor starts after initial", maxLen: 8, initial: "ab", keys: keysOf("c", KeyEnter), want: "abc", wantOK: true},
		{name: "overwrite from home", maxLen: 8, initial: "abc", keys: keysOf("", KeyHome, 'X', KeyEnter), want: "Xbc", wantOK: true},
		{name: "down is home", maxLen: 8, initial: "abc", keys: keysOf("", KeyCursorDown, 'Z', KeyEnter), want: "Zbc", wantOK: true},
		{name: "backspace", maxLen: 8, initial: "abc", keys: []Key{KeyBackspace, KeyEnter}, want: "ab", wantOK: true},
		{name: "backspace in middle", maxLen: 8, initial: "abcd", keys: []Key{KeyCursorLeft, KeyBackspace, KeyEnter}, want: "abd", wantOK: true},
		{name: "backspace at start", maxLen: 8, initial: "ab", keys: []Key{KeyHome, KeyBackspace, KeyEnter}, want: "ab", wantOK: true},
		{name: "delete under cursor", maxLen: 8, initial: "abc", keys: []Key{KeyHome, KeyDelete, KeyEnter}, want: "bc", wantOK: true},
		{name: "insert opens gap", maxLen: 8, initial: "abc", keys: keysOf("", KeyHome, KeyCursorRight, KeyInsert, '-', KeyEnter), want: "a-bc", wantOK: true},
		{name: "end after home", maxLen: 8, initial: "abc", keys: keysOf("", KeyHome, KeyEnd, 'd', KeyEnter), want: "abcd", wantOK: true},
		{name: "up is end", maxLen: 8, initial: "abc", keys: keysOf("", KeyHome, KeyCursorUp, 'd', KeyEnter), want: "abcd", wantOK: true},
		{name: "right stops at text end", maxLen: 8, initial: "ab", keys: keysOf("", KeyCursorRight, KeyCursorRight, 'c', KeyEnter), want: "abc", wantOK: true},
		{name: "full field overwrites last", maxLen: 3, keys: keysOf("abcde", KeyEnter), want: "abe", wantOK: true},
		{name: "codepage characters", maxLen: 8, keys: keysOf("größe", KeyEnter), want: "größe", wantOK: true},
		{name: "escape restores", maxLen: 8, initial: "keep", keys: keysOf("xyz", KeyEscape), want: "keep", wantOK: false},
		{name: "escape cuts long initial", maxLen: 4, initial: "toolong", keys: keysOf("x", KeyEscape), want: "tool", wantOK: false},
		{name: "escape maps initial to codepage", maxLen: 8, initial: "a€b", keys: []Key{KeyEscape}, want: "a?b", wantOK: false},
		{name: "enter cuts long initial", maxLen: 4, initial: "toolong", keys: []Key{KeyEnter}, want: "tool", wantOK: true},
		{name: "function keys ignored", maxLen: 8, keys: keysOf("", KeyF1, KeyPageUp, 'a', KeyEnter), want: "a", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConsole(t, 10, 2)
			c.PushKey(tt.keys...)
			got, ok := c.ReadLine(1, 1, tt.maxLen, 15, 1, tt.initial)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ReadLine() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// keysOf returns the keys typing s followed by extra.
func keysOf(s string, extra ...Key) []Key {
	var keys []Key
	for _, r := range s {
		keys = append(keys, KeyForRune(r))
	}
	return append(keys, extra...)
}

func TestReadLineDrawsField(t *testing.T) {
	c := newTestConsole(t, 8, 1)
	c.PushKey(keysOf("hi", KeyEnter)...)
	if _, ok := c.ReadLine(2, 0, 4, 14, 1, ""); !ok {
		t.Fatal("ReadLine() not ok")
	}
	if got := c.Text(); got != "  hi    \n" {
		t.Errorf("Text() = %q", got)
	}
	for x := 2; x < 6; x++ {
		if cell := c.Cell(x, 0); cell.Fg() != 14 || cell.Bg() != 1 {
			t.Errorf("cell %d colors = %d on %d, want 14 on 1 once the cursor is gone", x, cell.Fg(), cell.Bg())
		}
	}
}

func TestReadLineCursorInverted(t *testing.T) {
	c := newTestConsole(t, 4, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	c.PushKey('a')
	_, ok, err := c.ReadLineContext(ctx, 0, 0, 3, 14, 1, "")
	if !errors.Is(err, context.DeadlineExceeded) || ok {
		t.Fatalf("ReadLineContext() = %v, %v, want deadline exceeded", ok, err)
	}
	if cell := c.Cell(1, 0); cell.Fg() != 1 || cell.Bg() != 14 {
		t.Errorf("cursor cell colors = %d on %d, want 1 on 14", cell.Fg(), cell.Bg())
	}
	if cell := c.Cell(0, 0); cell.Glyph() != 'a' || cell.Fg() != 14 {
		t.Errorf("typed cell = %#x", uint32(cell))
	}
}

func TestReadLineEmptyField(t *testing.T) {
	c := newTestConsole(t, 4, 1)
	got, ok, err := c.ReadLineContext(context.Background(), 0, 0, 0, 1, 0, "x")
	if got != "" || !ok || err != nil {
		t.Errorf("ReadLineContext(maxLen 0) = %q, %v, %v", got, ok, err)
	}
	if strings.TrimSpace(c.Text()) != "" {
		t.Error("empty field drew on the screen")
	}
}
