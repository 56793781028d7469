package cpu

// FsmState is the sequencer state.
type FsmState int

//go:generate go tool stringer -linecomment -type=FsmState
const (
	FSM_FETCH   = FsmState(0) // FETCH
	FSM_PROCESS = FsmState(1) // PROCESS
	FSM_NEXT    = FsmState(2) // NEXT
)

// Ack is the bus response sampled on a tick.
type Ack struct {
	Valid bool // Acknowledge asserted.
	Data  Word // Data read, valid with Ack.
}

// State is the complete register state of the sequencer. The zero value
// is the reset state.
type State struct {
	Fsm  FsmState            // Current state.
	Pc   uint32              // Program counter, in bytes.
	Dc   uint32              // Delay counter.
	Word Word                // Word latched by the last fetch.
	Stb  bool                // Bus strobe driven.
	Cyc  bool                // Bus cycle driven.
	Led  [CHANNEL_COUNT]bool // Output levels.
}

// Requesting returns true while the bus request pair is driven.
func (state State) Requesting() bool {
	return state.Stb && state.Cyc
}

// Step computes the state after one clock tick, from the current state and
// the bus response sampled during the tick.
func Step(state State, ack Ack) (next State) {
	next = state

	switch state.Fsm {
	case FSM_FETCH:
		// Hold the request until acknowledged.
		next.Stb = true
		next.Cyc = true
		if state.Requesting() && ack.Valid {
			next.Word = ack.Data
			next.Dc = 0
			next.Stb = false
			next.Cyc = false
			next.Fsm = FSM_PROCESS
		}
	case FSM_PROCESS:
		next = Dispatch(state)
	case FSM_NEXT:
		// One tick with the request deasserted, to let chip select settle.
		next.Fsm = FSM_FETCH
	}

	return
}

// Dispatch executes the latched word.
//   - By default, the PC advances one word and the state moves to NEXT.
//   - The jump sentinels return the PC to 0.
//   - A delay of N stays in PROCESS with the PC held, counting the delay
//     counter up, until the counter reaches N.
//   - A level word sets its channel to bit 3 of the word.
//   - Anything else is a no-op.
func Dispatch(state State) (next State) {
	next = state
	next.Pc = state.Pc + WORD_SIZE
	next.Fsm = FSM_NEXT

	word := state.Word
	switch word.Class() {
	case CLASS_JUMP:
		next.Pc = 0
	case CLASS_DELAY:
		if state.Dc != word.Cycles() {
			next.Dc = (state.Dc + 1) & DC_MASK
			next.Pc = state.Pc
			next.Fsm = FSM_PROCESS
		}
	case CLASS_RED, CLASS_GREEN, CLASS_BLUE:
		ch, _ := word.Channel()
		next.Led[ch] = word.Level()
	}

	return
}
