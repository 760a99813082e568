// Package uart models a USIC-style UART channel with hardware FIFOs. The
// channel of this board is looped back on itself: every byte shifted out of
// the TX FIFO arrives in the RX FIFO one character frame later.
package uart

import (
	"github.com/mcusim/uartloop/sim"
)

// HookPosWireDeliver marks when a byte leaves the shifter and lands in the
// RX FIFO. The hook Item is the delivered byte and the Detail is the
// zero-based index of the byte on the wire.
var HookPosWireDeliver = &sim.HookPos{Name: "Wire Deliver"}

// A Channel is a UART channel with TX and RX FIFOs, ticking once per
// character frame at the configured baud rate.
type Channel struct {
	*sim.TickingComponent

	txFIFO *FIFO
	rxFIFO *FIFO

	started     bool
	shifter     byte
	shifterFull bool

	wireCount int
	faults    map[int]byte
}

// Tick advances the channel by one character frame: the byte loaded in the
// previous frame is delivered to the RX FIFO, then the next byte is loaded
// from the TX FIFO into the shifter.
func (c *Channel) Tick() bool {
	if !c.started {
		return false
	}

	madeProgress := false

	if c.shifterFull {
		c.deliver(c.shifter)
		c.shifterFull = false
		madeProgress = true
	}

	if !c.txFIFO.Empty() {
		c.shifter = c.txFIFO.Pop()
		c.shifterFull = true
		madeProgress = true
	}

	return madeProgress
}

func (c *Channel) deliver(b byte) {
	if v, ok := c.faults[c.wireCount]; ok {
		b = v
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosWireDeliver,
		Item:   b,
		Detail: c.wireCount,
	})

	c.wireCount++
	c.rxFIFO.Push(b)
}

// InjectFault corrupts the byte at the given zero-based wire index to the
// given value. Indexes count across the whole run, including re-armed
// cycles.
func (c *Channel) InjectFault(index int, value byte) {
	c.faults[index] = value
}

// Start arms the channel. Before Start the clock is gated and the shifter
// does not move.
func (c *Channel) Start() {
	c.started = true
	c.TickNow()
}

// Transmit pushes one byte into the TX FIFO. Callers must check TxFIFOFull
// first; the hardware drops nothing but accepts nothing when full.
func (c *Channel) Transmit(b byte) {
	c.txFIFO.Push(b)
	if c.started {
		c.TickLater()
	}
}

// ReceivedData pops one byte from the RX FIFO.
func (c *Channel) ReceivedData() byte {
	return c.rxFIFO.Pop()
}

// TxFIFOFull reports whether the TX FIFO is full.
func (c *Channel) TxFIFOFull() bool {
	return c.txFIFO.Full()
}

// RxFIFOEmpty reports whether the RX FIFO is empty.
func (c *Channel) RxFIFOEmpty() bool {
	return c.rxFIFO.Empty()
}

// DisableTxFIFOEvent turns off the TX FIFO standard event so the transmit
// service request does not fire again.
func (c *Channel) DisableTxFIFOEvent() {
	c.txFIFO.DisableEvent()
}

// EnableTxFIFOEvent turns the TX FIFO standard event back on.
func (c *Channel) EnableTxFIFOEvent() {
	c.txFIFO.EnableEvent()
}

// SetRxFIFOTriggerLimit reprograms the RX FIFO size trigger limit.
func (c *Channel) SetRxFIFOTriggerLimit(limit int) {
	c.rxFIFO.SetSizeTriggerLimit(limit)
}

// Status describes the channel state for inspection.
type Status struct {
	Started        bool `json:"started"`
	TxFIFOLevel    int  `json:"tx_fifo_level"`
	RxFIFOLevel    int  `json:"rx_fifo_level"`
	TxTriggerLimit int  `json:"tx_trigger_limit"`
	RxTriggerLimit int  `json:"rx_trigger_limit"`
	ShifterFull    bool `json:"shifter_full"`
	WireCount      int  `json:"wire_count"`
}

// CurrentStatus returns a snapshot of the channel state.
func (c *Channel) CurrentStatus() Status {
	return Status{
		Started:        c.started,
		TxFIFOLevel:    c.txFIFO.Size(),
		RxFIFOLevel:    c.rxFIFO.Size(),
		TxTriggerLimit: c.txFIFO.TriggerLimit(),
		RxTriggerLimit: c.rxFIFO.TriggerLimit(),
		ShifterFull:    c.shifterFull,
		WireCount:      c.wireCount,
	}
}
