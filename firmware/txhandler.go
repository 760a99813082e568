package firmware

import "github.com/mcusim/uartloop/hw/irq"

// TxHandler is the transmit service routine. It fires every time the TX
// FIFO filling level drops below its trigger limit and pushes the next
// pending byte.
type TxHandler struct {
	hw      UARTChannel
	ctrl    IRQController
	line    irq.Line
	session *Session
}

// NewTxHandler creates the transmit service routine.
func NewTxHandler(
	hw UARTChannel,
	ctrl IRQController,
	line irq.Line,
	session *Session,
) *TxHandler {
	return &TxHandler{hw: hw, ctrl: ctrl, line: line, session: session}
}

// Service refills the TX FIFO with the next byte, or disables its own
// triggering once all bytes have been sent.
func (h *TxHandler) Service() {
	s := h.session

	if s.txIndex < s.Len() {
		// Wait if the TX FIFO is full. Guards against spurious
		// re-entry while full; there is no timeout, as on the
		// original hardware.
		for h.hw.TxFIFOFull() {
		}

		h.hw.Transmit(s.txData[s.txIndex])
		s.txIndex++
		return
	}

	// All bytes sent. This routine must not fire again this session.
	h.hw.DisableTxFIFOEvent()
	h.ctrl.Disable(h.line)
}
