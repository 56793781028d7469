package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ledrom/bus"
)

var _cpu_defines = map[string]string{
	"WORD_SIZE":  fmt.Sprintf("%v", WORD_SIZE),
	"DC_MASK":    fmt.Sprintf("0x%x", DC_MASK),
	"WORD_JUMP":  fmt.Sprintf("0x%08x", uint32(WORD_JUMP)),
	"WORD_BLANK": fmt.Sprintf("0x%08x", uint32(WORD_BLANK)),
}

// Sink receives output level writes.
type Sink interface {
	SetLevel(ch Channel, on bool)
}

// Cpu is the simulation context for the LED sequencer, attached to a
// memory peripheral and an output sink.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	State // Register state.

	Bus    bus.Peripheral // Memory peripheral.
	Output Sink           // Output sink, may be nil.

	Ticks   int // Clock ticks since reset.
	Fetches int // Completed fetches since reset.
	Stalls  int // Ticks spent waiting on the bus since reset.
}

// NewCpu creates a new CPU attached to a memory peripheral.
func NewCpu(mem bus.Peripheral, output Sink) (cpu *Cpu) {
	cpu = &Cpu{
		Bus:    mem,
		Output: output,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"fsm", "pc", "dc", "word", "req", "red", "green", "blue", "ticks",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "fsm":
			strval = cpu.Fsm.String()
		case "pc":
			strval = fmt.Sprintf("%04X_%04X", cpu.Pc>>16, cpu.Pc&0xffff)
		case "dc":
			strval = fmt.Sprintf("%03X_%04X", cpu.Dc>>16, cpu.Dc&0xffff)
		case "word":
			strval = fmt.Sprintf("%04X_%04X %v", uint32(cpu.Word)>>16, uint32(cpu.Word)&0xffff, cpu.Word)
		case "req":
			strval = "false"
			if cpu.Requesting() {
				strval = "true"
			}
		case "red":
			strval = onOff(cpu.Led[CHANNEL_RED])
		case "green":
			strval = onOff(cpu.Led[CHANNEL_GREEN])
		case "blue":
			strval = onOff(cpu.Led[CHANNEL_BLUE])
		case "ticks":
			strval = fmt.Sprintf("%d", cpu.Ticks)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Reset the CPU state.
// - Ends any bus transaction in flight.
// - Clears the registers and outputs; the state machine starts in FETCH.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	if cpu.Requesting() && cpu.Bus != nil {
		cpu.Bus.EndRead()
	}

	cpu.State = State{}
	cpu.Ticks = 0
	cpu.Fetches = 0
	cpu.Stalls = 0
}

// Tick executes a single clock cycle.
func (cpu *Cpu) Tick() {
	cpu.Ticks++

	now := cpu.State

	var ack Ack
	if now.Requesting() {
		data, ok := cpu.Bus.TryComplete()
		ack = Ack{Valid: ok, Data: Word(data)}
		if !ok {
			cpu.Stalls++
		}
	}

	next := Step(now, ack)

	// Drive the request lines.
	switch {
	case !now.Requesting() && next.Requesting():
		cpu.Bus.BeginRead(next.Pc)
	case now.Requesting() && !next.Requesting():
		cpu.Bus.EndRead()
		cpu.Fetches++
	}

	if cpu.Verbose {
		switch {
		case now.Fsm == FSM_FETCH && next.Fsm == FSM_PROCESS:
			log.Printf("%08x: %08x %v", now.Pc, uint32(next.Word), next.Word)
		case now.Fsm == FSM_PROCESS && next.Pc != now.Pc && next.Pc == 0:
			log.Printf("%08x: jump to 0", now.Pc)
		}
	}

	// Forward level writes.
	if now.Fsm == FSM_PROCESS && cpu.Output != nil {
		ch, ok := now.Word.Channel()
		if ok {
			cpu.Output.SetLevel(ch, next.Led[ch])
		}
	}

	cpu.State = next
}
