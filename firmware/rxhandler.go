package firmware

// RxHandler is the receive service routine. It fires every time the RX FIFO
// filling level exceeds its trigger limit.
type RxHandler struct {
	hw           UARTChannel
	session      *Session
	initialLimit int
}

// NewRxHandler creates the receive service routine. initialLimit is the RX
// FIFO trigger limit the channel was configured with.
func NewRxHandler(hw UARTChannel, session *Session, initialLimit int) *RxHandler {
	return &RxHandler{hw: hw, session: session, initialLimit: initialLimit}
}

// Service drains the RX FIFO, signals completion when the expected count is
// reached, and lowers the trigger limit once the remaining tail is shorter
// than the initial limit.
//
// The order is load-bearing: drain, then completion check, then threshold
// adjust. When the tail reaches zero the adjust writes a limit of -1; the
// write happens, but the completion signal was already set in the same
// invocation and no further byte arrives to trigger it.
func (h *RxHandler) Service() {
	s := h.session

	for !h.hw.RxFIFOEmpty() {
		s.rxData[s.rxIndex] = h.hw.ReceivedData()
		s.rxIndex++
	}

	if s.rxIndex == s.Len() {
		s.setCompleted()
	}

	if remaining := s.Len() - s.rxIndex; remaining < h.initialLimit {
		h.hw.SetRxFIFOTriggerLimit(remaining - 1)
	}
}
