package cpu

import (
	"encoding/binary"
	"math/bits"
)

// LittleEnd byte swaps a host word into little-endian layout.
// 0x1234ABCD -> 0xCDAB3412
func LittleEnd(value uint32) uint32 {
	return bits.ReverseBytes32(value)
}

// Packed words, for building ROM images with Rom.SetPacked.
var (
	R_ON  = LittleEnd(uint32(MakeLevel(CHANNEL_RED, true)))
	R_OFF = LittleEnd(uint32(MakeLevel(CHANNEL_RED, false)))
	G_ON  = LittleEnd(uint32(MakeLevel(CHANNEL_GREEN, true)))
	G_OFF = LittleEnd(uint32(MakeLevel(CHANNEL_GREEN, false)))
	B_ON  = LittleEnd(uint32(MakeLevel(CHANNEL_BLUE, true)))
	B_OFF = LittleEnd(uint32(MakeLevel(CHANNEL_BLUE, false)))
	RET   = LittleEnd(uint32(MakeJump()))
)

// PackedDelay returns a packed delay word.
func PackedDelay(cycles uint32) uint32 {
	return LittleEnd(uint32(MakeDelay(cycles)))
}

// Pack serializes words into a little-endian ROM image.
func Pack(words ...Word) (image []byte) {
	image = make([]byte, 0, len(words)*WORD_SIZE)
	for _, word := range words {
		image = binary.LittleEndian.AppendUint32(image, uint32(word))
	}
	return
}

// Unpack deserializes a little-endian ROM image. A trailing partial word
// is padded with blank (0xff) bytes.
func Unpack(image []byte) (words []Word) {
	for len(image) > 0 {
		var buff = [WORD_SIZE]byte{0xff, 0xff, 0xff, 0xff}
		n := copy(buff[:], image)
		words = append(words, Word(binary.LittleEndian.Uint32(buff[:])))
		image = image[n:]
	}
	return
}
