// Package chord recognizes the Ctrl+Shift+digit and Ctrl+Alt+digit chords
// from a stream of key presses and releases.
package chord

import (
	"fmt"

	"markestedt/clipslots/keys"
)

// EventType represents the type of key event
type EventType int

const (
	Pressed EventType = iota
	Released
)

// Event is a single canonical key event
type Event struct {
	Type EventType
	Key  keys.Key
}

// Press returns a press event for k
func Press(k keys.Key) Event { return Event{Type: Pressed, Key: k} }

// Release returns a release event for k
func Release(k keys.Key) Event { return Event{Type: Released, Key: k} }

// ActionType is the action a completed chord triggers
type ActionType int

const (
	None ActionType = iota
	Copy
	Paste
)

func (a ActionType) String() string {
	switch a {
	case Copy:
		return "copy"
	case Paste:
		return "paste"
	default:
		return "none"
	}
}

// Action is a completed chord
type Action struct {
	Type  ActionType
	Digit int
}

// Slot returns the slot index the chord addresses. Digits 1-9 address
// slots 1-9 and digit 0 addresses slot 10.
func (a Action) Slot() int {
	if a.Digit == 0 {
		return 10
	}
	return a.Digit
}

func (a Action) String() string {
	return fmt.Sprintf("%s(CB%d)", a.Type, a.Slot())
}

// Engine tracks modifier and digit state and decides when a chord completes.
// It is not safe for concurrent use; a single listener goroutine owns it.
type Engine struct {
	mods    [3]bool
	active  map[int]bool
	pending int // -1 when no digit is pending
	armed   ActionType
}

// NewEngine creates an idle engine
func NewEngine() *Engine {
	return &Engine{
		active:  make(map[int]bool),
		pending: -1,
	}
}

// Handle applies one event. It returns the completed action, if any.
// Unclassified keys are ignored.
func (e *Engine) Handle(ev Event) (Action, bool) {
	switch ev.Key.Kind {
	case keys.Modifier, keys.Digit:
	default:
		return Action{}, false
	}

	if ev.Type == Pressed {
		e.press(ev.Key)
		return Action{}, false
	}
	return e.release(ev.Key)
}

func (e *Engine) press(k keys.Key) {
	if k.Kind == keys.Modifier {
		e.mods[k.Mod] = true
	} else {
		e.active[k.Digit] = true
		e.pending = k.Digit
	}
	e.arm()
}

// arm sets the armed action once a modifier pair is held over a pending
// digit. Copy is checked first, so Ctrl+Shift+Alt arms Copy only.
func (e *Engine) arm() {
	if e.pending < 0 || e.armed != None || !e.mods[keys.Ctrl] {
		return
	}
	switch {
	case e.mods[keys.Shift]:
		e.armed = Copy
	case e.mods[keys.Alt]:
		e.armed = Paste
	}
}

func (e *Engine) release(k keys.Key) (Action, bool) {
	if k.Kind == keys.Modifier {
		e.mods[k.Mod] = false
	} else {
		delete(e.active, k.Digit)
	}

	if e.anyModifierHeld() || e.pending < 0 || e.active[e.pending] {
		return Action{}, false
	}

	if e.armed == None {
		// digit typed and released without a chord around it
		e.pending = -1
		return Action{}, false
	}

	act := Action{Type: e.armed, Digit: e.pending}
	e.armed = None
	e.pending = -1
	return act, true
}

func (e *Engine) anyModifierHeld() bool {
	return e.mods[keys.Ctrl] || e.mods[keys.Shift] || e.mods[keys.Alt]
}

// State is a read-only view of the engine, for logging and tests
type State struct {
	Ctrl, Shift, Alt bool
	Active           []int
	Pending          int // -1 when none
	Armed            ActionType
}

// State returns the current engine state
func (e *Engine) State() State {
	s := State{
		Ctrl:    e.mods[keys.Ctrl],
		Shift:   e.mods[keys.Shift],
		Alt:     e.mods[keys.Alt],
		Pending: e.pending,
		Armed:   e.armed,
	}
	for d := 0; d <= 9; d++ {
		if e.active[d] {
			s.Active = append(s.Active, d)
		}
	}
	return s
}
