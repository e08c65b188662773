// Package script runs Lua programs against a console.
//
// Scripts see a global table con with the console operations and a table
// key with the key codes:
//
//	con.clear()
//	con.frame(0, 0, con.cols(), con.rows(), 15, 1, "thick")
//	con.print(2, 1, "Press a key", 14, 1)
//	con.update()
//	local k = con.wait_key()
//	if k == key.ESCAPE then return end
package script

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/ryanlewis/retrocon"
)

// Demo is the script run when the CLI is given none.
//
//go:embed demo.lua
var Demo string

// Engine is a Lua interpreter bound to one console. Like the console it is
// owned by a single goroutine.
type Engine struct {
	L   *lua.LState
	con *retrocon.Console
	out strings.Builder
}

// New creates an engine with the standard Lua libraries and the con and
// key tables installed.
func New(con *retrocon.Console) *Engine {
	e := &Engine{L: lua.NewState(), con: con}
	e.install()
	return e
}

// Close releases the interpreter.
func (e *Engine) Close() {
	e.L.Close()
}

// Output returns what the script wrote with print.
func (e *Engine) Output() string {
	return e.out.String()
}

// Run executes src. It stops with ctx.Err() when ctx is done, including
// while the script waits for a key or sleeps.
func (e *Engine) Run(ctx context.Context, name, src string) error {
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	fn, err := e.L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", name, err)
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("script %s failed: %w", name, err)
	}
	return nil
}

func (e *Engine) install() {
	L := e.L
	con := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"cols":               e.cols,
		"rows":               e.rows,
		"clear":              e.clear,
		"set_default_colors": e.setDefaultColors,
		"print":              e.print,
		"symbol":             e.symbol,
		"cell":               e.cell,
		"fill":               e.fill,
		"fill_rect":          e.fillRect,
		"colorize":           e.colorize,
		"scroll":             e.scroll,
		"frame":              e.frame,
		"buffer":             e.buffer,
		"capture":            e.capture,
		"restore":            e.restore,
		"set_color":          e.setColor,
		"color":              e.color,
		"reset_palette":      e.resetPalette,
		"gamma":              e.gamma,
		"charset":            e.charset,
		"update":             e.update,
		"poll_key":           e.pollKey,
		"wait_key":           e.waitKey,
		"read_line":          e.readLine,
		"save":               e.save,
		"load":               e.load,
		"record":             e.record,
		"stop_record":        e.stopRecord,
		"text":               e.text,
		"sleep":              e.sleep,
		"key_name":           e.keyName,
	})
	L.SetGlobal("con", con)

	keys := L.NewTable()
	for k := retrocon.KeyCursorUp; k <= retrocon.KeyEscape; k++ {
		L.SetField(keys, retrocon.KeyName(k), lua.LNumber(k))
	}
	L.SetField(keys, "SPACE", lua.LNumber(retrocon.KeySpace))
	L.SetField(keys, "DELETE", lua.LNumber(retrocon.KeyDelete))
	L.SetGlobal("key", keys)

	L.SetGlobal("print", L.NewFunction(e.luaPrint))
}

// luaPrint collects print output instead of writing to stdout, which a
// terminal display owns.
func (e *Engine) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	for i := 1; i <= n; i++ {
		if i > 1 {
			e.out.WriteByte('\t')
		}
		e.out.WriteString(L.ToStringMeta(L.Get(i)).String())
	}
	e.out.WriteByte('\n')
	return 0
}

func (e *Engine) cols(L *lua.LState) int {
	L.Push(lua.LNumber(e.con.Cols()))
	return 1
}

func (e *Engine) rows(L *lua.LState) int {
	L.Push(lua.LNumber(e.con.Rows()))
	return 1
}

func (e *Engine) clear(L *lua.LState) int {
	e.con.Clear()
	return 0
}

func (e *Engine) setDefaultColors(L *lua.LState) int {
	e.con.SetDefaultColors(L.CheckInt(1), L.CheckInt(2))
	return 0
}

// print(x, y, text, fg, bg)
func (e *Engine) print(L *lua.LState) int {
	e.con.PrintString(L.CheckInt(1), L.CheckInt(2), L.CheckString(3), L.CheckInt(4), L.CheckInt(5))
	return 0
}

// symbol(x, y, code, fg, bg) prints one codepage symbol.
func (e *Engine) symbol(L *lua.LState) int {
	e.con.PrintSymbol(L.CheckInt(1), L.CheckInt(2), byte(L.CheckInt(3)), L.CheckInt(4), L.CheckInt(5))
	return 0
}

// cell(x, y) returns glyph, fg, bg.
func (e *Engine) cell(L *lua.LState) int {
	c := e.con.Cell(L.CheckInt(1), L.CheckInt(2))
	L.Push(lua.LNumber(c.Glyph()))
	L.Push(lua.LNumber(c.Fg()))
	L.Push(lua.LNumber(c.Bg()))
	return 3
}

// fill(glyph, fg, bg)
func (e *Engine) fill(L *lua.LState) int {
	e.con.Fill(retrocon.MakeCell(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3)))
	return 0
}

func checkRect(L *lua.LState, first int) retrocon.Rect {
	return retrocon.Rect{
		X: L.CheckInt(first),
		Y: L.CheckInt(first + 1),
		W: L.CheckInt(first + 2),
		H: L.CheckInt(first + 3),
	}
}

// fill_rect(x, y, w, h, glyph, fg, bg)
func (e *Engine) fillRect(L *lua.LState) int {
	r := checkRect(L, 1)
	e.con.FillRect(r, retrocon.MakeCell(L.CheckInt(5), L.CheckInt(6), L.CheckInt(7)))
	return 0
}

// colorize(x, y, w, h, fg, bg)
func (e *Engine) colorize(L *lua.LState) int {
	r := checkRect(L, 1)
	e.con.Colorize(r, L.CheckInt(5), L.CheckInt(6))
	return 0
}

// scroll(x, y, w, h, "n"|"ne"|...)
func (e *Engine) scroll(L *lua.LState) int {
	r := checkRect(L, 1)
	d, err := retrocon.ParseDirection(L.CheckString(5))
	if err != nil {
		L.ArgError(5, err.Error())
		return 0
	}
	e.con.Scroll(r, d)
	return 0
}

// frame(x, y, w, h, fg, bg [, "thin"|"thick"])
func (e *Engine) frame(L *lua.LState) int {
	r := checkRect(L, 1)
	style := retrocon.Thin
	switch s := strings.ToLower(L.OptString(7, "thin")); s {
	case "thin":
	case "thick":
		style = retrocon.Thick
	default:
		L.ArgError(7, fmt.Sprintf("unknown frame style %q", s))
		return 0
	}
	e.con.DrawFrame(r, L.CheckInt(5), L.CheckInt(6), style)
	return 0
}

func (e *Engine) buffer(L *lua.LState) int {
	L.Push(lua.LNumber(e.con.CreateBuffer()))
	return 1
}

func (e *Engine) capture(L *lua.LState) int {
	e.check(e.con.CaptureBuffer(L.CheckInt(1)))
	return 0
}

func (e *Engine) restore(L *lua.LState) int {
	e.check(e.con.RestoreBuffer(L.CheckInt(1)))
	return 0
}

// set_color(index, 0xRRGGBB)
func (e *Engine) setColor(L *lua.LState) int {
	e.con.SetColor(L.CheckInt(1), uint32(L.CheckInt64(2)))
	return 0
}

func (e *Engine) color(L *lua.LState) int {
	L.Push(lua.LNumber(e.con.Color(L.CheckInt(1))))
	return 1
}

func (e *Engine) resetPalette(L *lua.LState) int {
	e.con.ResetPalette()
	return 0
}

// gamma([g]) sets the gamma when given one and returns the current value.
func (e *Engine) gamma(L *lua.LState) int {
	if L.GetTop() > 0 {
		e.con.SetGamma(float64(L.CheckNumber(1)))
	}
	L.Push(lua.LNumber(e.con.Gamma()))
	return 1
}

// charset([name]) switches charset when given a name and returns the
// current one.
func (e *Engine) charset(L *lua.LState) int {
	if L.GetTop() > 0 {
		cs, err := retrocon.ParseCharset(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		e.check(e.con.SetCharset(cs))
	}
	L.Push(lua.LString(e.con.Charset().String()))
	return 1
}

func (e *Engine) update(L *lua.LState) int {
	e.check(e.con.Update())
	return 0
}

// poll_key() returns the next key code or nil.
func (e *Engine) pollKey(L *lua.LState) int {
	k, ok := e.con.PollKey()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(k))
	return 1
}

func (e *Engine) waitKey(L *lua.LState) int {
	k, err := e.con.WaitKeyContext(e.context())
	e.check(err)
	L.Push(lua.LNumber(k))
	return 1
}

// read_line(x, y, max_len, fg, bg [, initial]) returns text, ok.
func (e *Engine) readLine(L *lua.LState) int {
	text, ok, err := e.con.ReadLineContext(e.context(),
		L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4), L.CheckInt(5), L.OptString(6, ""))
	e.check(err)
	L.Push(lua.LString(text))
	L.Push(lua.LBool(ok))
	return 2
}

func (e *Engine) save(L *lua.LState) int {
	e.check(e.con.SaveScreenFile(L.CheckString(1)))
	return 0
}

// load(path [, skip_palette])
func (e *Engine) load(L *lua.LState) int {
	e.check(e.con.LoadScreenFile(L.CheckString(1), L.OptBool(2, false)))
	return 0
}

func (e *Engine) record(L *lua.LState) int {
	e.check(e.con.StartRecording(L.CheckString(1)))
	return 0
}

// stop_record() returns the number of frames saved.
func (e *Engine) stopRecord(L *lua.LState) int {
	n, err := e.con.StopRecording()
	e.check(err)
	L.Push(lua.LNumber(n))
	return 1
}

func (e *Engine) text(L *lua.LState) int {
	L.Push(lua.LString(e.con.Text()))
	return 1
}

// sleep(ms)
func (e *Engine) sleep(L *lua.LState) int {
	d := time.Duration(L.CheckInt(1)) * time.Millisecond
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-e.context().Done():
		e.check(e.context().Err())
	}
	return 0
}

func (e *Engine) keyName(L *lua.LState) int {
	L.Push(lua.LString(retrocon.Key(L.CheckInt(1)).String()))
	return 1
}

func (e *Engine) context() context.Context {
	if ctx := e.L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// check raises err as a Lua error, which a script may catch with pcall.
func (e *Engine) check(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		e.L.RaiseError("interrupted: %v", err)
		return
	}
	e.L.RaiseError("%v", err)
}
