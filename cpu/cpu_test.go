package cpu

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ledrom/bus"
)

type levelWrite struct {
	tick int
	ch   Channel
	on   bool
}

// recorder is a Sink that logs every write with its tick.
type recorder struct {
	cpu    *Cpu
	writes []levelWrite
}

func (rec *recorder) SetLevel(ch Channel, on bool) {
	rec.writes = append(rec.writes, levelWrite{tick: rec.cpu.Ticks, ch: ch, on: on})
}

func newTestCpu(words ...Word) (cpu *Cpu, rom *bus.Rom, rec *recorder) {
	rom = &bus.Rom{}
	data := make([]uint32, len(words))
	for n, word := range words {
		data[n] = uint32(word)
	}
	rom.SetWords(data)

	rec = &recorder{}
	cpu = NewCpu(rom, rec)
	rec.cpu = cpu
	cpu.Reset()
	return
}

func TestCpu_Handshake(t *testing.T) {
	assert := assert.New(t)

	cpu, rom, rec := newTestCpu(MakeLevel(CHANNEL_RED, true), MakeLevel(CHANNEL_GREEN, true))

	// Request asserted.
	cpu.Tick()
	assert.Equal(FSM_FETCH, cpu.Fsm)
	assert.True(rom.Stb)
	assert.True(rom.Cyc)
	assert.False(rom.Ack)
	assert.Equal(uint32(0), rom.Adr)
	assert.Equal(0, cpu.Fetches)

	// Acknowledged, latched and released in the same tick.
	cpu.Tick()
	assert.Equal(FSM_PROCESS, cpu.Fsm)
	assert.False(rom.Requested())
	assert.False(rom.Ack)
	assert.Equal(1, rom.Reads)
	assert.Equal(1, cpu.Fetches)
	assert.Equal(MakeLevel(CHANNEL_RED, true), cpu.Word)

	cpu.Tick()
	assert.Equal(FSM_NEXT, cpu.Fsm)
	assert.Equal(uint32(4), cpu.Pc)
	assert.True(cpu.Led[CHANNEL_RED])
	assert.Equal([]levelWrite{{3, CHANNEL_RED, true}}, rec.writes)

	// Settle tick, request stays deasserted.
	cpu.Tick()
	assert.Equal(FSM_FETCH, cpu.Fsm)
	assert.False(rom.Requested())

	cpu.Tick()
	assert.True(rom.Requested())
	assert.Equal(uint32(4), rom.Adr)

	cpu.Tick()
	assert.Equal(MakeLevel(CHANNEL_GREEN, true), cpu.Word)
	assert.Equal(2, rom.Reads)
	assert.Equal(0, cpu.Stalls)
}

func TestCpu_Latency(t *testing.T) {
	assert := assert.New(t)

	cpu, rom, _ := newTestCpu(MakeLevel(CHANNEL_BLUE, true))
	rom.Latency = 3

	cpu.Tick()
	for range 3 {
		cpu.Tick()
		assert.Equal(FSM_FETCH, cpu.Fsm)
		assert.True(rom.Requested())
	}
	assert.Equal(0, cpu.Fetches)
	assert.Equal(3, cpu.Stalls)

	cpu.Tick()
	assert.Equal(FSM_PROCESS, cpu.Fsm)
	assert.Equal(1, cpu.Fetches)
	assert.Equal(MakeLevel(CHANNEL_BLUE, true), cpu.Word)
}

func TestCpu_DeadPeripheral(t *testing.T) {
	assert := assert.New(t)

	dead := &bus.Dead{}
	cpu := NewCpu(dead, nil)
	cpu.Reset()

	for range 1000 {
		cpu.Tick()
	}

	assert.Equal(FSM_FETCH, cpu.Fsm)
	assert.Equal(uint32(0), cpu.Pc)
	assert.Equal(0, cpu.Fetches)
	assert.Equal(999, cpu.Stalls)
	assert.Equal(999, dead.Polls)
	assert.True(dead.Requested())
	assert.True(cpu.Requesting())
}

func TestCpu_Program(t *testing.T) {
	assert := assert.New(t)

	cpu, _, rec := newTestCpu(
		MakeLevel(CHANNEL_RED, true),
		MakeDelay(2),
		MakeLevel(CHANNEL_RED, false),
		MakeJump(),
	)

	var delayed int
	for range 18 {
		if cpu.Fsm == FSM_PROCESS && cpu.Pc == 4 {
			delayed++
		}
		cpu.Tick()
	}

	assert.Equal(3, delayed)
	assert.Equal(FSM_FETCH, cpu.Fsm)
	assert.Equal(uint32(0), cpu.Pc)
	assert.Equal(4, cpu.Fetches)
	assert.Equal(18, cpu.Ticks)
	assert.Equal([]levelWrite{
		{3, CHANNEL_RED, true},
		{13, CHANNEL_RED, false},
	}, rec.writes)

	// And around again.
	for range 18 {
		cpu.Tick()
	}
	assert.Equal(8, cpu.Fetches)
	assert.Len(rec.writes, 4)
	assert.Equal(levelWrite{21, CHANNEL_RED, true}, rec.writes[2])
}

func TestCpu_BlankRom(t *testing.T) {
	assert := assert.New(t)

	cpu, rom, rec := newTestCpu()

	for range 40 {
		cpu.Tick()
		assert.Equal(uint32(0), rom.Adr)
	}

	assert.Equal(10, cpu.Fetches)
	assert.Equal(WORD_BLANK, cpu.Word)
	assert.Empty(rec.writes)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu, rom, _ := newTestCpu(MakeLevel(CHANNEL_RED, true))
	rom.Latency = 10

	cpu.Tick()
	cpu.Tick()
	assert.True(rom.Requested())

	cpu.Reset()
	assert.False(rom.Requested())
	assert.Equal(State{}, cpu.State)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(0, cpu.Stalls)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu, _, _ := newTestCpu(MakeLevel(CHANNEL_GREEN, true))
	for range 3 {
		cpu.Tick()
	}

	text := cpu.String()
	assert.Contains(text, "fsm: NEXT")
	assert.Contains(text, "pc: 0000_0004")
	assert.Contains(text, "green: on")
	assert.Contains(text, "red: off")

	defines := maps.Collect(cpu.Defines())
	assert.Equal("4", defines["WORD_SIZE"])
	assert.Equal("0xfffffff", defines["DC_MASK"])
}
