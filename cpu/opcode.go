package cpu

import (
	"fmt"
)

// Word is a single 32-bit instruction, as read from the bus.
type Word uint32

// Channel is an output channel index.
type Channel int

//go:generate go tool stringer -linecomment -type=Channel
const (
	CHANNEL_RED   = Channel(0) // red
	CHANNEL_GREEN = Channel(1) // green
	CHANNEL_BLUE  = Channel(2) // blue
)

// CHANNEL_COUNT is the number of output channels.
const CHANNEL_COUNT = 3

// Class is the decoded type of a Word.
type Class int

//go:generate go tool stringer -linecomment -type=Class
const (
	CLASS_NOP   = Class(0) // nop
	CLASS_JUMP  = Class(1) // jump
	CLASS_DELAY = Class(2) // delay
	CLASS_RED   = Class(3) // red
	CLASS_GREEN = Class(4) // green
	CLASS_BLUE  = Class(5) // blue
)

// Instruction encoding.
const (
	WORD_SIZE = 4 // Bytes per word; the PC advances by this much.

	WORD_JUMP  = Word(0x00000000) // Return to word 0.
	WORD_BLANK = Word(0xffffffff) // Blank flash; also returns to word 0.
	WORD_NOP   = Word(0x00000008) // Matches no tag.

	DELAY_TAG      = 0x4        // Low 4 bits of a delay.
	DELAY_TAG_MASK = 0xf        // Mask of the delay tag.
	DELAY_SHIFT    = 4          // Position of the delay cycle count.
	DC_MASK        = 0x0fffffff // Delay counter width.

	LEVEL_TAG_MASK = 0x7      // Mask of the channel tags.
	LEVEL_BIT      = (1 << 3) // Level bit of a channel word.
)

// level tag for each channel
var levelTag = [CHANNEL_COUNT]Word{
	CHANNEL_RED:   0x1,
	CHANNEL_GREEN: 0x2,
	CHANNEL_BLUE:  0x3,
}

// MakeLevel creates a word that sets a channel to a level.
func MakeLevel(ch Channel, on bool) (word Word) {
	word = levelTag[ch]
	if on {
		word |= LEVEL_BIT
	}
	return
}

// MakeDelay creates a word that stalls for cycles+1 clock cycles.
func MakeDelay(cycles uint32) Word {
	return Word((DELAY_TAG | (cycles << DELAY_SHIFT)) & 0xffffffff)
}

// MakeJump creates a word that returns the PC to word 0.
func MakeJump() Word {
	return WORD_JUMP
}

// IsJump returns true for both of the 'return to 0' sentinels.
func (word Word) IsJump() bool {
	return word == WORD_JUMP || word == WORD_BLANK
}

// Class decodes the word type. The delay tag is tested before the
// channel tags.
func (word Word) Class() Class {
	switch {
	case word.IsJump():
		return CLASS_JUMP
	case word&DELAY_TAG_MASK == DELAY_TAG:
		return CLASS_DELAY
	case word&LEVEL_TAG_MASK == levelTag[CHANNEL_BLUE]:
		return CLASS_BLUE
	case word&LEVEL_TAG_MASK == levelTag[CHANNEL_GREEN]:
		return CLASS_GREEN
	case word&LEVEL_TAG_MASK == levelTag[CHANNEL_RED]:
		return CLASS_RED
	}

	return CLASS_NOP
}

// Channel returns the channel a level word targets.
func (word Word) Channel() (ch Channel, ok bool) {
	switch word.Class() {
	case CLASS_RED:
		return CHANNEL_RED, true
	case CLASS_GREEN:
		return CHANNEL_GREEN, true
	case CLASS_BLUE:
		return CHANNEL_BLUE, true
	}

	return
}

// Level returns the level bit of the word.
func (word Word) Level() bool {
	return (word & LEVEL_BIT) != 0
}

// Cycles returns the delay cycle count of the word.
func (word Word) Cycles() uint32 {
	return uint32(word>>DELAY_SHIFT) & DC_MASK
}

// String disassembles the word.
func (word Word) String() string {
	class := word.Class()
	switch class {
	case CLASS_JUMP:
		if word == WORD_BLANK {
			return "jump.blank"
		}
		return class.String()
	case CLASS_DELAY:
		return fmt.Sprintf("%v.%d", class, word.Cycles())
	case CLASS_RED, CLASS_GREEN, CLASS_BLUE:
		return fmt.Sprintf("%v.%v", class, onOff(word.Level()))
	}

	return fmt.Sprintf("%v.0x%08x", class, uint32(word))
}
