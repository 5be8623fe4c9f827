package ui

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action names bound to keys.
const (
	actionPrev  = "prev"
	actionNext  = "next"
	actionFirst = "first"
	actionLast  = "last"
	actionCopy  = "copy"
	actionSave  = "save"
	actionReset = "reset"
	actionQuit  = "quit"

	sectionPrefix = "section:"
)

// KeyShortcut identifies a key press with its modifiers. Either Rune or Code
// is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

var bindings = map[KeyShortcut]string{}

func bind(action string, keys ...KeyShortcut) {
	for _, k := range keys {
		bindings[k] = action
	}
}

func init() {
	bind(actionPrev, KeyShortcut{Code: key.CodeLeftArrow}, KeyShortcut{Code: key.CodePageUp})
	bind(actionNext, KeyShortcut{Code: key.CodeRightArrow}, KeyShortcut{Code: key.CodePageDown}, KeyShortcut{Code: key.CodeSpacebar})
	bind(actionFirst, KeyShortcut{Code: key.CodeHome})
	bind(actionLast, KeyShortcut{Code: key.CodeEnd})
	bind(actionCopy, KeyShortcut{Code: key.CodeC, Modifiers: key.ModControl}, KeyShortcut{Rune: 'c', Modifiers: key.ModControl})
	bind(actionSave, KeyShortcut{Code: key.CodeS, Modifiers: key.ModControl}, KeyShortcut{Rune: 's', Modifiers: key.ModControl})
	bind(actionReset, KeyShortcut{Rune: '0'})
	bind(actionQuit, KeyShortcut{Rune: 'q'}, KeyShortcut{Code: key.CodeEscape})
}

// actionFor maps a key press to an action name. Digits 1-9 select the
// section at that position. Unbound keys return "".
func actionFor(e key.Event) string {
	if e.Direction != key.DirPress {
		return ""
	}
	mods := e.Modifiers &^ key.ModShift
	if a, ok := bindings[KeyShortcut{Code: e.Code, Modifiers: mods}]; ok && e.Code != key.CodeUnknown {
		return a
	}
	r := unicode.ToLower(e.Rune)
	if r > 0 {
		if a, ok := bindings[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return a
		}
		if mods == 0 && r >= '1' && r <= '9' {
			return sectionPrefix + strconv.Itoa(int(r-'1'))
		}
	}
	return ""
}

// sectionIndex extracts the zero based position from a section action.
func sectionIndex(action string) (int, bool) {
	s, ok := strings.CutPrefix(action, sectionPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
