package emulator

import (
	"github.com/ezrec/ledrom/cpu"
)

// Event is an output level change.
type Event struct {
	Tick    int         // Tick of the write.
	Channel cpu.Channel // Channel written.
	On      bool        // New level.
}

// Leds records the output levels driven by the sequencer.
type Leds struct {
	Level  [cpu.CHANNEL_COUNT]bool // Current levels.
	Events []Event                 // Level changes, in order.
	Writes int                     // Level writes, including unchanged levels.

	Clock func() int // Tick source for events.
}

var _ cpu.Sink = (*Leds)(nil)

// Reset turns all outputs off and clears the history.
func (leds *Leds) Reset() {
	clear(leds.Level[:])
	leds.Events = leds.Events[:0]
	leds.Writes = 0
}

// SetLevel records a level write.
func (leds *Leds) SetLevel(ch cpu.Channel, on bool) {
	leds.Writes++
	if leds.Level[ch] == on {
		return
	}
	leds.Level[ch] = on

	var tick int
	if leds.Clock != nil {
		tick = leds.Clock()
	}
	leds.Events = append(leds.Events, Event{Tick: tick, Channel: ch, On: on})
}
