//go:build !headless

package ebitensink

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ryanlewis/retrocon"
)

type keyMapping struct {
	host ebiten.Key
	key  retrocon.Key
}

// keyMap lists the non-character keys forwarded to the console. Typed
// characters arrive through ebiten.AppendInputChars instead.
var keyMap = []keyMapping{
	{ebiten.KeyArrowUp, retrocon.KeyCursorUp},
	{ebiten.KeyArrowDown, retrocon.KeyCursorDown},
	{ebiten.KeyArrowLeft, retrocon.KeyCursorLeft},
	{ebiten.KeyArrowRight, retrocon.KeyCursorRight},
	{ebiten.KeyHome, retrocon.KeyHome},
	{ebiten.KeyEnd, retrocon.KeyEnd},
	{ebiten.KeyPageUp, retrocon.KeyPageUp},
	{ebiten.KeyPageDown, retrocon.KeyPageDown},
	{ebiten.KeyBackspace, retrocon.KeyBackspace},
	{ebiten.KeyTab, retrocon.KeyTab},
	{ebiten.KeyEnter, retrocon.KeyEnter},
	{ebiten.KeyNumpadEnter, retrocon.KeyEnter},
	{ebiten.KeyInsert, retrocon.KeyInsert},
	{ebiten.KeyDelete, retrocon.KeyDelete},
	{ebiten.KeyEscape, retrocon.KeyEscape},
	{ebiten.KeyF1, retrocon.KeyF1},
	{ebiten.KeyF2, retrocon.KeyF2},
	{ebiten.KeyF3, retrocon.KeyF3},
	{ebiten.KeyF4, retrocon.KeyF4},
	{ebiten.KeyF5, retrocon.KeyF5},
	{ebiten.KeyF6, retrocon.KeyF6},
	{ebiten.KeyF7, retrocon.KeyF7},
	{ebiten.KeyF8, retrocon.KeyF8},
	{ebiten.KeyF9, retrocon.KeyF9},
	{ebiten.KeyF10, retrocon.KeyF10},
	{ebiten.KeyF11, retrocon.KeyF11},
	{ebiten.KeyF12, retrocon.KeyF12},
}

// translateKey returns the console key for a non-character host key.
func translateKey(k ebiten.Key) (retrocon.Key, bool) {
	for _, m := range keyMap {
		if m.host == k {
			return m.key, true
		}
	}
	return 0, false
}
