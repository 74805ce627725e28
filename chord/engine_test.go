package chord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/clipslots/keys"
)

var (
	ctrl  = keys.ModifierKey(keys.Ctrl)
	shift = keys.ModifierKey(keys.Shift)
	alt   = keys.ModifierKey(keys.Alt)
)

func digit(d int) keys.Key { return keys.DigitKey(d) }

// feed runs events through a fresh engine and collects fired actions
func feed(t *testing.T, e *Engine, events ...Event) []Action {
	t.Helper()
	var fired []Action
	for _, ev := range events {
		if act, ok := e.Handle(ev); ok {
			fired = append(fired, act)
		}
	}
	return fired
}

func TestCopyReleaseOrders(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
	}{
		{
			name: "digit released before modifiers",
			events: []Event{
				Press(ctrl), Press(shift), Press(digit(4)),
				Release(digit(4)), Release(shift), Release(ctrl),
			},
		},
		{
			name: "digit released after modifiers",
			events: []Event{
				Press(ctrl), Press(shift), Press(digit(4)),
				Release(shift), Release(ctrl), Release(digit(4)),
			},
		},
		{
			name: "digit released between modifiers",
			events: []Event{
				Press(ctrl), Press(shift), Press(digit(4)),
				Release(ctrl), Release(digit(4)), Release(shift),
			},
		},
		{
			name: "digit pressed before modifiers",
			events: []Event{
				Press(digit(4)), Press(ctrl), Press(shift),
				Release(digit(4)), Release(ctrl), Release(shift),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := feed(t, NewEngine(), tt.events...)
			require.Len(t, fired, 1)
			assert.Equal(t, Action{Type: Copy, Digit: 4}, fired[0])
		})
	}
}

func TestFiresOnlyOnLastRelease(t *testing.T) {
	e := NewEngine()
	assert.Empty(t, feed(t, e, Press(ctrl), Press(shift), Press(digit(2))))
	assert.Equal(t, Copy, e.State().Armed)

	_, ok := e.Handle(Release(digit(2)))
	assert.False(t, ok)
	_, ok = e.Handle(Release(shift))
	assert.False(t, ok)

	act, ok := e.Handle(Release(ctrl))
	require.True(t, ok)
	assert.Equal(t, Action{Type: Copy, Digit: 2}, act)
}

func TestPasteChord(t *testing.T) {
	fired := feed(t, NewEngine(),
		Press(ctrl), Press(alt), Press(digit(9)),
		Release(digit(9)), Release(alt), Release(ctrl),
	)
	require.Len(t, fired, 1)
	assert.Equal(t, Action{Type: Paste, Digit: 9}, fired[0])
}

func TestAllThreeModifiersArmCopyOnly(t *testing.T) {
	e := NewEngine()
	feed(t, e, Press(ctrl), Press(shift), Press(alt), Press(digit(5)))
	assert.Equal(t, Copy, e.State().Armed)

	fired := feed(t, e, Release(digit(5)), Release(alt), Release(shift), Release(ctrl))
	require.Len(t, fired, 1)
	assert.Equal(t, Copy, fired[0].Type)
}

func TestNoDoubleFire(t *testing.T) {
	e := NewEngine()
	fired := feed(t, e,
		Press(ctrl), Press(shift), Press(digit(1)),
		Release(digit(1)), Release(shift), Release(ctrl),
	)
	require.Len(t, fired, 1)

	// stray releases and modifier-only presses after completion
	fired = feed(t, e,
		Release(digit(1)), Release(ctrl),
		Press(ctrl), Press(shift), Release(shift), Release(ctrl),
	)
	assert.Empty(t, fired)

	st := e.State()
	assert.Equal(t, None, st.Armed)
	assert.Equal(t, -1, st.Pending)
}

func TestRepeatedChordFiresEachTime(t *testing.T) {
	e := NewEngine()
	chord := []Event{
		Press(ctrl), Press(shift), Press(digit(3)),
		Release(digit(3)), Release(shift), Release(ctrl),
	}
	assert.Len(t, feed(t, e, chord...), 1)
	assert.Len(t, feed(t, e, chord...), 1)
}

func TestLastDigitWins(t *testing.T) {
	fired := feed(t, NewEngine(),
		Press(ctrl), Press(shift),
		Press(digit(3)), Release(digit(3)),
		Press(digit(7)), Release(digit(7)),
		Release(shift), Release(ctrl),
	)
	require.Len(t, fired, 1)
	assert.Equal(t, Action{Type: Copy, Digit: 7}, fired[0])
}

func TestHeldDigitBlocksCompletion(t *testing.T) {
	e := NewEngine()
	fired := feed(t, e,
		Press(ctrl), Press(shift), Press(digit(6)),
		Release(shift), Release(ctrl),
	)
	assert.Empty(t, fired)
	assert.Equal(t, []int{6}, e.State().Active)

	act, ok := e.Handle(Release(digit(6)))
	require.True(t, ok)
	assert.Equal(t, 6, act.Digit)
}

func TestArmedChordNeverReleasedNeverFires(t *testing.T) {
	e := NewEngine()
	fired := feed(t, e, Press(ctrl), Press(shift), Press(digit(8)), Release(digit(8)), Release(shift))
	assert.Empty(t, fired)
	assert.Equal(t, Copy, e.State().Armed)
}

func TestPlainDigitTypingDoesNotArm(t *testing.T) {
	fired := feed(t, NewEngine(),
		Press(digit(1)), Release(digit(1)),
		Press(ctrl), Press(shift), Release(shift), Release(ctrl),
	)
	assert.Empty(t, fired)
}

func TestModifiersWithoutDigitDoNotFire(t *testing.T) {
	fired := feed(t, NewEngine(),
		Press(ctrl), Press(alt), Release(alt), Release(ctrl),
	)
	assert.Empty(t, fired)
}

func TestUnclassifiedIgnored(t *testing.T) {
	e := NewEngine()
	c := keys.Classify(keys.VKey(0x43))
	feed(t, e, Press(ctrl), Press(shift), Press(c), Release(c))
	st := e.State()
	assert.Equal(t, None, st.Armed)
	assert.True(t, st.Ctrl)
	assert.True(t, st.Shift)
}

func TestActionSlot(t *testing.T) {
	assert.Equal(t, 10, Action{Type: Copy, Digit: 0}.Slot())
	assert.Equal(t, 1, Action{Type: Copy, Digit: 1}.Slot())
	assert.Equal(t, "paste(CB10)", Action{Type: Paste, Digit: 0}.String())
}
