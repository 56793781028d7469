// Package bus provides the memory peripherals for the LED sequencer.
//
// A read is a strobe/cycle handshake: the bus master asserts the request
// with an address, polls until the peripheral acknowledges with data, then
// deasserts the request, which also clears the acknowledgement. There is no
// timeout; a peripheral that never acknowledges stalls the master forever.
package bus

// Peripheral defines the read handshake of a bus attached memory.
type Peripheral interface {
	// BeginRead asserts strobe and cycle with an address.
	BeginRead(adr uint32)
	// TryComplete polls the pending read once per tick. When ack is true,
	// data is valid on the same tick.
	TryComplete() (data uint32, ack bool)
	// EndRead deasserts strobe and cycle, clearing ack.
	EndRead()
}

// Signals is the line level view of a peripheral.
type Signals struct {
	Adr  uint32 // Address input.
	Stb  bool   // Strobe input.
	Cyc  bool   // Cycle input.
	Ack  bool   // Acknowledge output.
	DatR uint32 // Data read output.
}

// Requested returns true while strobe and cycle are both asserted.
func (sig *Signals) Requested() bool {
	return sig.Stb && sig.Cyc
}

func (sig *Signals) begin(adr uint32) {
	sig.Adr = adr
	sig.Stb = true
	sig.Cyc = true
	sig.Ack = false
}

func (sig *Signals) end() {
	sig.Stb = false
	sig.Cyc = false
	sig.Ack = false
}

// Dead is a peripheral that never acknowledges.
type Dead struct {
	Signals
	Polls int // Number of unanswered polls.
}

var _ Peripheral = (*Dead)(nil)

func (dp *Dead) BeginRead(adr uint32) {
	dp.begin(adr)
}

func (dp *Dead) TryComplete() (data uint32, ack bool) {
	if dp.Requested() {
		dp.Polls++
	}
	return
}

func (dp *Dead) EndRead() {
	dp.end()
}
