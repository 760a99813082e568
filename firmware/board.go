package firmware

import (
	"github.com/mcusim/uartloop/hw/gpio"
	"github.com/mcusim/uartloop/hw/irq"
	"github.com/mcusim/uartloop/hw/uart"
	"github.com/mcusim/uartloop/sim"
)

// UserLEDPin is the pin of the user LED on the indicator port.
const UserLEDPin = 0

// A Board bundles the simulated hardware with the firmware running on it.
type Board struct {
	Engine     sim.Engine
	Ctrl       *irq.Controller
	UART       *uart.Channel
	LED        *gpio.Port
	Session    *Session
	Comparator *Comparator
	TxISR      *TxHandler
	RxISR      *RxHandler

	rxLimit int
}

// BoardBuilder builds boards.
type BoardBuilder struct {
	engine       sim.Engine
	baud         sim.Baud
	numData      int
	variant      gpio.Variant
	fifoCapacity int
	txLimit      int
	rxLimit      int
}

// MakeBoardBuilder returns a builder with the configuration of the original
// example: 9 payload bytes, 8-word FIFOs, TX trigger limit 1, RX trigger
// limit 7, on the XMC4700 board.
func MakeBoardBuilder() BoardBuilder {
	return BoardBuilder{
		baud:         sim.Baud115200,
		numData:      NumData,
		variant:      gpio.XMC4700,
		fifoCapacity: 8,
		txLimit:      1,
		rxLimit:      7,
	}
}

// WithEngine sets the engine that drives the board.
func (b BoardBuilder) WithEngine(engine sim.Engine) BoardBuilder {
	b.engine = engine
	return b
}

// WithBaud sets the UART line rate.
func (b BoardBuilder) WithBaud(baud sim.Baud) BoardBuilder {
	b.baud = baud
	return b
}

// WithNumData sets the payload size.
func (b BoardBuilder) WithNumData(n int) BoardBuilder {
	b.numData = n
	return b
}

// WithVariant sets the board variant, which determines the LED polarity.
func (b BoardBuilder) WithVariant(v gpio.Variant) BoardBuilder {
	b.variant = v
	return b
}

// WithFIFOCapacity sets the capacity of both UART FIFOs.
func (b BoardBuilder) WithFIFOCapacity(capacity int) BoardBuilder {
	b.fifoCapacity = capacity
	return b
}

// WithTxTriggerLimit sets the TX FIFO trigger limit.
func (b BoardBuilder) WithTxTriggerLimit(limit int) BoardBuilder {
	b.txLimit = limit
	return b
}

// WithRxTriggerLimit sets the initial RX FIFO trigger limit.
func (b BoardBuilder) WithRxTriggerLimit(limit int) BoardBuilder {
	b.rxLimit = limit
	return b
}

// Build creates the board and its firmware, unpowered.
func (b BoardBuilder) Build(name string) *Board {
	board := new(Board)
	board.Engine = b.engine
	board.rxLimit = b.rxLimit

	board.Ctrl = irq.NewController(name+".NVIC", b.engine)

	board.UART = uart.MakeBuilder().
		WithEngine(b.engine).
		WithBaud(b.baud).
		WithIRQController(board.Ctrl).
		WithTxIRQLine(TxIRQLine).
		WithRxIRQLine(RxIRQLine).
		WithFIFOCapacity(b.fifoCapacity).
		WithTxTriggerLimit(b.txLimit).
		WithRxTriggerLimit(b.rxLimit).
		Build(name + ".UART0")

	board.LED = gpio.NewPort(name + ".P5")
	board.Session = NewSession(b.numData)

	board.TxISR = NewTxHandler(board.UART, board.Ctrl, TxIRQLine, board.Session)
	board.RxISR = NewRxHandler(board.UART, board.Session, b.rxLimit)

	board.Comparator = NewComparator(
		name+".MainLoop", b.engine, b.baud,
		board.Session, board.LED, UserLEDPin, b.variant)

	return board
}

// PowerOn performs the bring-up of the original main(): fill the transmit
// buffer, configure and enable both interrupt lines, start the UART, seed
// the first byte, and pre-adjust the RX trigger limit when the payload is
// shorter than it.
func (board *Board) PowerOn() {
	s := board.Session

	s.Fill()

	board.Ctrl.Register(TxIRQLine, board.TxISR.Service)
	board.Ctrl.Register(RxIRQLine, board.RxISR.Service)

	board.Ctrl.SetPriority(TxIRQLine, TxIRQPriority)
	board.Ctrl.Enable(TxIRQLine)
	board.Ctrl.Enable(RxIRQLine)
	board.Ctrl.SetPriority(RxIRQLine, RxIRQPriority)

	board.UART.Start()

	// Wait until the TX FIFO has space. Always immediate on a fresh
	// board; kept as the original keeps it.
	for board.UART.TxFIFOFull() {
	}

	// The first byte goes in directly; the transmit service routine
	// takes over from the second byte onward.
	board.UART.Transmit(s.txData[s.txIndex])
	s.txIndex++

	if remaining := s.Len() - s.rxIndex; remaining < board.rxLimit {
		board.UART.SetRxFIFOTriggerLimit(remaining - 1)
	}
}

// Rearm resets the firmware state and seeds a second transmit/receive cycle
// with the same payload.
func (board *Board) Rearm() {
	s := board.Session

	s.Rearm()

	board.UART.EnableTxFIFOEvent()
	board.Ctrl.Enable(TxIRQLine)
	board.UART.SetRxFIFOTriggerLimit(board.rxLimit)

	for board.UART.TxFIFOFull() {
	}

	board.UART.Transmit(s.txData[s.txIndex])
	s.txIndex++

	if remaining := s.Len() - s.rxIndex; remaining < board.rxLimit {
		board.UART.SetRxFIFOTriggerLimit(remaining - 1)
	}
}

// LEDLit reports whether the user LED is lit.
func (board *Board) LEDLit() bool {
	return board.Comparator.LEDLit()
}
