// Package firmware ports the UART TX/RX FIFO interrupt loopback example to
// the simulated board: a transmit service routine that refills the TX FIFO,
// a receive service routine that drains the RX FIFO and adapts its trigger
// limit, and a main loop that compares the two buffers and drives the user
// LED.
package firmware

import "github.com/mcusim/uartloop/hw/irq"

//go:generate mockgen -destination "mock_firmware_test.go" -package firmware_test -write_package_comment=false github.com/mcusim/uartloop/firmware UARTChannel,IRQController

// NumData is the number of bytes looped from TX to RX.
const NumData = 9

// Interrupt priorities of the two service request lines. Lower values are
// serviced first, so the receive line preempts the transmit line.
const (
	TxIRQPriority = 63
	RxIRQPriority = 62
)

// The USIC0 service request lines used by the channel.
const (
	TxIRQLine irq.Line = 84
	RxIRQLine irq.Line = 85
)

// UARTChannel is what the firmware sees of the UART hardware.
type UARTChannel interface {
	TxFIFOFull() bool
	RxFIFOEmpty() bool
	Transmit(b byte)
	ReceivedData() byte
	DisableTxFIFOEvent()
	EnableTxFIFOEvent()
	SetRxFIFOTriggerLimit(limit int)
	Start()
}

// IRQController is what the firmware sees of the interrupt controller.
type IRQController interface {
	Register(line irq.Line, isr irq.Service)
	SetPriority(line irq.Line, priority int)
	Enable(line irq.Line)
	Disable(line irq.Line)
}
