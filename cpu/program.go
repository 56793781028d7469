package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated words.
type Opcode struct {
	LineNo int
	Pc     uint32
	Words  []string
	Codes  []Word
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// NewProgram creates a listing with one opcode per word, as if
// disassembled from a ROM image.
func NewProgram(codes ...Word) (prog *Program) {
	prog = &Program{}
	for n, code := range codes {
		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo: n + 1,
			Pc:     uint32(n * WORD_SIZE),
			Words:  []string{code.String()},
			Codes:  []Word{code},
		})
	}
	return
}

// Debug find the opcode that contains the word at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		end := op.Pc + uint32(len(op.Codes)*WORD_SIZE)
		if pc >= op.Pc && pc < end {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc-op.Pc) / WORD_SIZE,
			}
			break
		}
	}

	return
}

// Binary returns the words of the program, in address order.
func (prog *Program) Binary() (bins []Word) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Image returns the little-endian ROM image of the program.
func (prog *Program) Image() []byte {
	return Pack(prog.Binary()...)
}

func (prog *Program) Codes() iter.Seq2[uint32, Word] {
	return func(yield func(pc uint32, code Word) bool) {
		for _, op := range prog.Opcodes {
			for n, code := range op.Codes {
				if !yield(op.Pc+uint32(n*WORD_SIZE), code) {
					return
				}
			}
		}
	}
}
