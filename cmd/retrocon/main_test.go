package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ryanlewis/retrocon/internal/debug"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.lua")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunInfo(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"version", []string{"--version"}, 0, "retrocon version dev", ""},
		{"help", []string{"-h"}, 0, "retrocon [flags] [script.lua]", ""},
		{"help lists env", []string{"--help"}, 0, "RETROCON_DEBUG=1", ""},
		{"unknown flag", []string{"--bogus"}, 2, "", "unknown flag"},
		{"write config", []string{"--write-config", "--cols", "40", "--charset", "8x16"}, 0, "columns: 40", ""},
		{"bad charset", []string{"--charset", "9x9"}, 1, "", "unknown charset"},
		{"bad display", []string{"--display", "vga"}, 1, "", "invalid config"},
		{"too many scripts", []string{"--display", "none", "a.lua", "b.lua"}, 1, "", "at most one script"},
		{"missing script", []string{"--display", "none", "/nonexistent/x.lua"}, 1, "", "failed to read script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, "", tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, errOut)
			}
			if tt.wantOut != "" && !strings.Contains(out, tt.wantOut) {
				t.Errorf("stdout = %q, want it to contain %q", out, tt.wantOut)
			}
			if tt.wantErr != "" && !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestRunScriptHeadless(t *testing.T) {
	path := writeScript(t, `
con.clear()
con.print(0, 0, "Hi", 15, 0)
con.update()
print("cols", con.cols())
`)
	code, out, errOut := runCLI(t, "", "--display", "none", "--cols", "8", "--rows", "2", "--dump", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	want := "cols\t8\nHi      \n        \n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestRunQueuedKeys(t *testing.T) {
	path := writeScript(t, `
local a = con.read_line(0, 0, 10, 15, 0)
local b = con.read_line(0, 1, 10, 15, 0)
print(a .. "," .. b)
`)
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"keys flag", "", []string{"--keys", "one\ntwo\n"}},
		{"stdin", "one\r\ntwo\r\n", []string{"--stdin"}},
		{"both", "two\n", []string{"--keys", "one\n", "--stdin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--display", "none", "--cols", "12", "--rows", "2"}, tt.args...)
			code, out, errOut := runCLI(t, tt.stdin, append(args, path)...)
			if code != 0 {
				t.Fatalf("exit code = %d, stderr %q", code, errOut)
			}
			if out != "one,two\n" {
				t.Errorf("stdout = %q, want %q", out, "one,two\n")
			}
		})
	}
}

func TestRunOutputs(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, `
con.print(0, 0, "A", 14, 1)
con.update()
con.print(1, 0, "B", 14, 1)
con.update()
`)
	pngPath := filepath.Join(dir, "out.png")
	scrPath := filepath.Join(dir, "out.scr")
	recDir := filepath.Join(dir, "rec")

	code, _, errOut := runCLI(t, "",
		"--display", "none", "--cols", "4", "--rows", "2", "--charset", "4x6",
		"--png", pngPath, "--save", scrPath, "--record", recDir, path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if !strings.Contains(errOut, "Recorded 2 frames") {
		t.Errorf("stderr = %q, want the recording summary", errOut)
	}

	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("png size = %dx%d, want 16x12", b.Dx(), b.Dy())
	}

	info, err := os.Stat(scrPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(16 + 256*3 + 8*3); info.Size() != want {
		t.Errorf("snapshot size = %d, want %d", info.Size(), want)
	}

	frames, err := filepath.Glob(filepath.Join(recDir, "*.scr"))
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Errorf("recorded %d frames, want 2", len(frames))
	}

	// The saved screen loads back into a fresh run.
	check := writeScript(t, `print(con.text())`)
	code, out, errOut := runCLI(t, "", "--display", "none", "--cols", "4", "--rows", "2", "--load", scrPath, check)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if !strings.HasPrefix(out, "AB  \n") {
		t.Errorf("loaded screen = %q", out)
	}
}

func TestRunTimeout(t *testing.T) {
	path := writeScript(t, `con.wait_key()`)
	code, _, errOut := runCLI(t, "", "--display", "none", "--timeout", "50ms", path)
	if code != 0 {
		t.Errorf("exit code = %d, want 0 (stderr %q)", code, errOut)
	}
}

func TestRunScriptError(t *testing.T) {
	path := writeScript(t, `error("boom")`)
	code, _, errOut := runCLI(t, "", "--display", "none", path)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "boom") {
		t.Errorf("stderr = %q, want the script error", errOut)
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "retrocon.yaml")
	cfg := "columns: 20\nrows: 3\ndisplay: none\npalette:\n  5: \"#123456\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	path := writeScript(t, `print(con.cols(), con.rows(), con.color(5) == 0x123456)`)

	code, out, errOut := runCLI(t, "", "--config", cfgPath, "--rows", "4", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if out != "20\t4\ttrue\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunDemo(t *testing.T) {
	code, _, errOut := runCLI(t, "", "--display", "none", "--keys", "\x1b")
	if code != 0 {
		t.Errorf("exit code = %d, stderr %q", code, errOut)
	}
}

func TestRunDebugFile(t *testing.T) {
	t.Cleanup(func() { debug.SetEnabled(false) })
	debugPath := filepath.Join(t.TempDir(), "trace.jsonl")
	path := writeScript(t, `con.print(0, 0, "x", 1, 0) con.update()`)
	code, _, errOut := runCLI(t, "", "--display", "none", "--debug-file", debugPath, "--debug-phases", "render", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}

	data, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatal(err)
	}
	trace := string(data)
	if !strings.Contains(trace, `"phase":"render"`) || !strings.Contains(trace, `"phase":"session"`) {
		t.Errorf("trace = %s", trace)
	}
	if strings.Contains(trace, `"phase":"console"`) {
		t.Errorf("trace contains filtered phase:\n%s", trace)
	}
}

func TestRunTcellNeedsTerminal(t *testing.T) {
	code, _, errOut := runCLI(t, "", "--display", "tcell")
	if code != 1 || !strings.Contains(errOut, "needs a terminal") {
		t.Errorf("exit code = %d, stderr %q", code, errOut)
	}
}
