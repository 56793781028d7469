package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// process returns the state entering PROCESS with a word latched at pc.
func process(pc uint32, word Word) State {
	return State{Fsm: FSM_PROCESS, Pc: pc, Word: word}
}

// stall runs a state in PROCESS until it leaves, returning the number of
// PROCESS ticks and the state after.
func stall(state State) (ticks int, next State) {
	next = state
	for next.Fsm == FSM_PROCESS {
		next = Step(next, Ack{})
		ticks++
		if ticks > 1<<20 {
			break
		}
	}
	return
}

func TestStep_Fetch(t *testing.T) {
	assert := assert.New(t)

	// Ack is ignored until the request has been driven.
	state := Step(State{}, Ack{Valid: true, Data: 0x9})
	assert.Equal(FSM_FETCH, state.Fsm)
	assert.True(state.Requesting())

	// Waiting holds the request.
	for range 10 {
		state = Step(state, Ack{})
		assert.Equal(FSM_FETCH, state.Fsm)
		assert.True(state.Requesting())
	}

	state.Dc = 17
	state = Step(state, Ack{Valid: true, Data: 0xa4})
	assert.Equal(FSM_PROCESS, state.Fsm)
	assert.False(state.Stb)
	assert.False(state.Cyc)
	assert.Equal(Word(0xa4), state.Word)
	assert.Equal(uint32(0), state.Dc)
	assert.Equal(uint32(0), state.Pc)
}

func TestStep_Jump(t *testing.T) {
	assert := assert.New(t)

	for _, pc := range []uint32{0, 4, 0x100, 0x3fc, 0xfffffffc} {
		for _, word := range []Word{WORD_JUMP, WORD_BLANK} {
			next := Step(process(pc, word), Ack{})
			assert.Equal(uint32(0), next.Pc, word.String())
			assert.Equal(FSM_NEXT, next.Fsm)
			assert.Equal([CHANNEL_COUNT]bool{}, next.Led)
		}
	}
}

func TestStep_Advance(t *testing.T) {
	assert := assert.New(t)

	words := []Word{
		MakeLevel(CHANNEL_RED, true),
		MakeLevel(CHANNEL_GREEN, false),
		MakeLevel(CHANNEL_BLUE, true),
		WORD_NOP,
		0x0000000c,
		0x12345670,
		MakeDelay(0),
	}

	for _, word := range words {
		next := Step(process(0x40, word), Ack{})
		assert.Equal(uint32(0x44), next.Pc, word.String())
		assert.Equal(FSM_NEXT, next.Fsm, word.String())
	}
}

func TestStep_Delay(t *testing.T) {
	assert := assert.New(t)

	for _, cycles := range []uint32{0, 1, 5, 10, 1000} {
		ticks, next := stall(process(0x10, MakeDelay(cycles)))
		assert.Equal(int(cycles)+1, ticks, "delay %v", cycles)
		assert.Equal(uint32(0x14), next.Pc)
		assert.Equal(cycles, next.Dc)
		assert.Equal(FSM_NEXT, next.Fsm)
	}
}

func TestStep_DelayHoldsPc(t *testing.T) {
	assert := assert.New(t)

	state := process(0x20, MakeDelay(3))
	for n := range 3 {
		state = Step(state, Ack{})
		assert.Equal(FSM_PROCESS, state.Fsm)
		assert.Equal(uint32(0x20), state.Pc)
		assert.Equal(uint32(n+1), state.Dc)
	}
	state = Step(state, Ack{})
	assert.Equal(FSM_NEXT, state.Fsm)
	assert.Equal(uint32(0x24), state.Pc)
}

func TestStep_SingleChannel(t *testing.T) {
	assert := assert.New(t)

	var leds = [][CHANNEL_COUNT]bool{
		{false, false, false},
		{true, true, true},
		{true, false, true},
	}

	for _, prior := range leds {
		for word := Word(0); word < 0x40; word++ {
			if word.IsJump() || word.Class() == CLASS_DELAY {
				continue
			}
			state := process(0, word)
			state.Led = prior
			next := Step(state, Ack{})

			changed := 0
			for ch := range Channel(CHANNEL_COUNT) {
				if next.Led[ch] != prior[ch] {
					changed++
				}
			}
			assert.LessOrEqual(changed, 1, word.String())

			ch, ok := word.Channel()
			if ok {
				assert.Equal(word.Level(), next.Led[ch], word.String())
			} else {
				assert.Equal(prior, next.Led, word.String())
			}
		}
	}
}

func TestStep_Idempotent(t *testing.T) {
	assert := assert.New(t)

	for ch := range Channel(CHANNEL_COUNT) {
		for _, on := range []bool{false, true} {
			word := MakeLevel(ch, on)
			once := Step(process(0, word), Ack{})
			twice := Step(State{Fsm: FSM_PROCESS, Pc: once.Pc, Word: word, Led: once.Led}, Ack{})
			assert.Equal(once.Led, twice.Led, word.String())
			assert.Equal(on, once.Led[ch])
		}
	}
}

func TestStep_Next(t *testing.T) {
	assert := assert.New(t)

	states := []State{
		{Fsm: FSM_NEXT},
		{Fsm: FSM_NEXT, Pc: 0x24, Dc: 10, Word: MakeDelay(10)},
		{Fsm: FSM_NEXT, Pc: 0x8, Word: MakeLevel(CHANNEL_BLUE, true), Led: [CHANNEL_COUNT]bool{false, false, true}},
	}

	for _, state := range states {
		next := Step(state, Ack{Valid: true, Data: 0x9})
		expected := state
		expected.Fsm = FSM_FETCH
		assert.Equal(expected, next)
		assert.False(next.Requesting())
	}
}

func FuzzDispatch(f *testing.F) {
	f.Add(uint32(0), uint32(0), uint32(0))
	f.Add(uint32(0xffffffff), uint32(0x40), uint32(0))
	f.Add(uint32(0xa4), uint32(0x8), uint32(3))
	f.Add(uint32(0x9), uint32(0x3fc), uint32(0))

	f.Fuzz(func(t *testing.T, data uint32, pc uint32, dc uint32) {
		assert := assert.New(t)

		word := Word(data)
		pc &^= WORD_SIZE - 1
		dc &= DC_MASK

		state := State{Fsm: FSM_PROCESS, Pc: pc, Dc: dc, Word: word}
		next := Step(state, Ack{})

		assert.Equal(uint32(0), next.Pc%WORD_SIZE)
		assert.False(next.Requesting())

		switch {
		case word.IsJump():
			assert.Equal(uint32(0), next.Pc)
			assert.Equal(FSM_NEXT, next.Fsm)
		case word.Class() == CLASS_DELAY && dc != word.Cycles():
			assert.Equal(pc, next.Pc)
			assert.Equal((dc+1)&DC_MASK, next.Dc)
			assert.Equal(FSM_PROCESS, next.Fsm)
		default:
			assert.Equal(pc+WORD_SIZE, next.Pc)
			assert.Equal(dc, next.Dc)
			assert.Equal(FSM_NEXT, next.Fsm)
		}
	})
}
