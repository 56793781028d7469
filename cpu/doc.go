// Package cpu implements the LED sequencer and its assembler.
//
// The sequencer is a three state machine (FETCH, PROCESS, NEXT) that reads
// 32-bit words from a bus attached ROM through a strobe/cycle/acknowledge
// handshake. Each word either sets the level of one of the red, green or
// blue outputs, stalls for a number of clock cycles, or returns the program
// counter to word 0.
//
// The assembler turns a small text language into a Program image, with
// equates, macros and compile-time expression evaluation.
package cpu
