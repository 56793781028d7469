// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/ledrom/bus"
	"github.com/ezrec/ledrom/cpu"
	"github.com/ezrec/ledrom/internal"
)

const (
	CLOCK_HZ   = 1_000_000       // Simulated clock rate.
	ROM_OFFSET = 2 * 1024 * 1024 // Flash offset of the program.
	ROM_SIZE   = 1024            // Program window, in bytes.
	RUN_TICKS  = 5000            // Default simulation length.
)

var _emulator_defines = map[string]string{
	"CLOCK_HZ": fmt.Sprintf("%v", CLOCK_HZ),
}

// Emulator state. CPU + ROM + LEDs.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Rom  bus.Rom // Program ROM.
	Leds Leds    // Output LEDs.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Rom.Offset = ROM_OFFSET
	emu.Rom.Size = ROM_SIZE
	emu.Cpu = cpu.NewCpu(&emu.Rom, &emu.Leds)
	emu.Leds.Clock = func() int { return emu.Cpu.Ticks }

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Rom.Defines(),
	)
}

// Reset loads the program into the ROM, and resets the CPU and LEDs.
func (emu *Emulator) Reset() (err error) {
	image := emu.Program.Image()
	if len(image) > int(ROM_SIZE) {
		err = bus.ErrImageSize
		return
	}

	emu.Rom.Data = image
	return emu.Restart()
}

// LoadImage loads a ROM image, and builds a listing from its words.
func (emu *Emulator) LoadImage(r io.Reader) (err error) {
	err = emu.Rom.Load(r)
	if err != nil {
		return
	}

	emu.Program = cpu.NewProgram(cpu.Unpack(emu.Rom.Data)...)

	return emu.Restart()
}

// Restart resets the CPU and LEDs without reloading the ROM.
func (emu *Emulator) Restart() (err error) {
	rom := &emu.Rom

	emu.Cpu.Verbose = emu.Verbose
	rom.Verbose = emu.Verbose

	emu.Cpu.Reset()
	rom.Reset()
	emu.Leds.Reset()

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.Pc
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}
	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Tick()
}

// Run performs a number of ticks.
func (emu *Emulator) Run(ticks int) {
	for range ticks {
		emu.Tick()
	}
}

// RunUntil ticks until done returns true, or the limit of ticks is reached.
func (emu *Emulator) RunUntil(limit int, done func(emu *Emulator) bool) (err error) {
	for range limit {
		if done(emu) {
			return
		}
		emu.Tick()
	}

	if done(emu) {
		return
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Pc: emu.Cpu.Pc, Err: ErrTickLimit}
	return
}

// Step runs until the next instruction has been fetched and executed,
// stopping at the following FETCH.
func (emu *Emulator) Step(limit int) (err error) {
	fetches := emu.Cpu.Fetches
	return emu.RunUntil(limit, func(emu *Emulator) bool {
		return emu.Cpu.Fetches > fetches && emu.Cpu.Fsm == cpu.FSM_FETCH
	})
}
