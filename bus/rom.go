package bus

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
)

const (
	ROM_SIZE  = 1024    // Default window size, in bytes.
	ROM_BLANK = 0xff    // Value of unprogrammed flash.
	ROM_WORD  = 4       // Bytes per bus word.
	ROM_LIMIT = 1 << 24 // Largest loadable image, in bytes.
)

// Rom is a read-only flash window. Bus address 0 is the first byte of Data,
// which is located at Offset in the flash device. Words are assembled from
// Data in little-endian order. Reads beyond the window or past the end of
// Data return blank flash.
type Rom struct {
	Signals
	Verbose bool // If set, logs every completed read.

	Offset  uint32 // Flash offset of the window.
	Size    uint32 // Window size in bytes. Zero selects ROM_SIZE.
	Latency int    // Wait states between request and acknowledge.
	Data    []byte // Flash contents, starting at Offset.

	Reads int // Completed reads.

	wait int
}

var _ Peripheral = (*Rom)(nil)

// Defines returns an iter of defines for the ROM.
func (rom *Rom) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"ROM_OFFSET": fmt.Sprintf("%#x", rom.Offset),
		"ROM_SIZE":   fmt.Sprintf("%#x", rom.size()),
	})
}

func (rom *Rom) size() uint32 {
	if rom.Size == 0 {
		return ROM_SIZE
	}
	return rom.Size
}

// Reset clears the bus signals and statistics, keeping the contents.
func (rom *Rom) Reset() {
	rom.Signals = Signals{}
	rom.Reads = 0
	rom.wait = 0
}

// SetWords programs the ROM with host words.
func (rom *Rom) SetWords(words []uint32) {
	rom.Data = make([]byte, 0, len(words)*ROM_WORD)
	for _, word := range words {
		rom.Data = binary.LittleEndian.AppendUint32(rom.Data, word)
	}
}

// SetPacked programs the ROM with words already byte swapped into
// little-endian layout. Flash is written most significant byte first.
func (rom *Rom) SetPacked(packed []uint32) {
	rom.Data = make([]byte, 0, len(packed)*ROM_WORD)
	for _, word := range packed {
		rom.Data = binary.BigEndian.AppendUint32(rom.Data, word)
	}
}

// Load programs the ROM from an image stream.
func (rom *Rom) Load(r io.Reader) (err error) {
	data, err := LoadImage(r, int(rom.size()))
	if err != nil {
		return
	}
	rom.Data = data
	return
}

// Word returns the word at a bus address. The address is word aligned.
func (rom *Rom) Word(adr uint32) uint32 {
	var buff [ROM_WORD]byte
	base := uint64(adr &^ (ROM_WORD - 1))
	for n := range buff {
		pos := base + uint64(n)
		if pos < uint64(rom.size()) && pos < uint64(len(rom.Data)) {
			buff[n] = rom.Data[pos]
		} else {
			buff[n] = ROM_BLANK
		}
	}
	return binary.LittleEndian.Uint32(buff[:])
}

func (rom *Rom) BeginRead(adr uint32) {
	rom.begin(adr)
	rom.wait = rom.Latency
}

func (rom *Rom) TryComplete() (data uint32, ack bool) {
	if !rom.Requested() {
		return
	}
	if rom.Ack {
		return rom.DatR, true
	}
	if rom.wait > 0 {
		rom.wait--
		return
	}

	rom.DatR = rom.Word(rom.Adr)
	rom.Ack = true
	rom.Reads++
	if rom.Verbose {
		log.Printf("rom: %#x => %#08x", rom.Adr, rom.DatR)
	}

	return rom.DatR, true
}

func (rom *Rom) EndRead() {
	rom.end()
}

// LoadImage reads a flat little-endian ROM image of at most limit bytes.
func LoadImage(r io.Reader, limit int) (data []byte, err error) {
	if limit <= 0 || limit > ROM_LIMIT {
		limit = ROM_LIMIT
	}

	data, err = io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		err = &ErrImageRead{Offset: len(data), Err: err}
		return
	}

	if len(data) > limit {
		data = nil
		err = ErrImageSize
		return
	}

	return
}
