package uart

import (
	"github.com/mcusim/uartloop/hw/irq"
	"github.com/mcusim/uartloop/sim"
)

// Builder builds UART channels.
type Builder struct {
	engine       sim.Engine
	baud         sim.Baud
	ctrl         *irq.Controller
	txLine       irq.Line
	rxLine       irq.Line
	fifoCapacity int
	txLimit      int
	rxLimit      int
}

// MakeBuilder returns a builder with the default FIFO geometry of the
// original board: 8-word FIFOs, TX trigger limit 1, RX trigger limit 7.
func MakeBuilder() Builder {
	return Builder{
		baud:         sim.Baud115200,
		fifoCapacity: 8,
		txLimit:      1,
		rxLimit:      7,
	}
}

// WithEngine sets the engine that drives the channel.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithBaud sets the line rate.
func (b Builder) WithBaud(baud sim.Baud) Builder {
	b.baud = baud
	return b
}

// WithIRQController sets the interrupt controller the FIFO service requests
// are routed to.
func (b Builder) WithIRQController(ctrl *irq.Controller) Builder {
	b.ctrl = ctrl
	return b
}

// WithTxIRQLine routes the TX FIFO standard event to the given line.
func (b Builder) WithTxIRQLine(line irq.Line) Builder {
	b.txLine = line
	return b
}

// WithRxIRQLine routes the RX FIFO standard event to the given line.
func (b Builder) WithRxIRQLine(line irq.Line) Builder {
	b.rxLine = line
	return b
}

// WithFIFOCapacity sets the capacity of both FIFOs.
func (b Builder) WithFIFOCapacity(capacity int) Builder {
	b.fifoCapacity = capacity
	return b
}

// WithTxTriggerLimit sets the TX FIFO size trigger limit.
func (b Builder) WithTxTriggerLimit(limit int) Builder {
	b.txLimit = limit
	return b
}

// WithRxTriggerLimit sets the RX FIFO size trigger limit.
func (b Builder) WithRxTriggerLimit(limit int) Builder {
	b.rxLimit = limit
	return b
}

// Build creates the channel.
func (b Builder) Build(name string) *Channel {
	c := new(Channel)
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.baud, c)

	c.faults = make(map[int]byte)

	c.txFIFO = NewFIFO(name+".TxFIFO", Tx, b.fifoCapacity, b.txLimit,
		func() { b.ctrl.Pend(b.txLine) })
	c.rxFIFO = NewFIFO(name+".RxFIFO", Rx, b.fifoCapacity, b.rxLimit,
		func() { b.ctrl.Pend(b.rxLine) })

	return c
}
