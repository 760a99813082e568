package firmware

import "sync/atomic"

// A Session holds the state shared between the two service routines and the
// main loop.
//
// Each field has a single writer: txIndex belongs to the transmit routine
// (plus the one seed write during bring-up, before interrupts are armed),
// rxData and rxIndex belong to the receive routine. The completion flag is
// the only value read across contexts and is therefore atomic.
type Session struct {
	txData []byte
	rxData []byte

	txIndex int
	rxIndex int

	done atomic.Bool

	onComplete func()
}

// NewSession creates a session for n bytes of payload.
func NewSession(n int) *Session {
	return &Session{
		txData: make([]byte, n),
		rxData: make([]byte, n),
	}
}

// Len returns the payload size.
func (s *Session) Len() int {
	return len(s.txData)
}

// Fill populates the transmit buffer with the sequential values 0..n-1. The
// buffer is not written again afterwards.
func (s *Session) Fill() {
	for i := range s.txData {
		s.txData[i] = byte(i)
	}
}

// Completed reports whether the expected byte count has been received and
// the comparison pass has not consumed the signal yet.
func (s *Session) Completed() bool {
	return s.done.Load()
}

func (s *Session) setCompleted() {
	s.done.Store(true)
	if s.onComplete != nil {
		s.onComplete()
	}
}

func (s *Session) clearCompleted() {
	s.done.Store(false)
}

// OnComplete registers a callback invoked when the completion signal is set.
// The simulated main loop uses it to resume polling.
func (s *Session) OnComplete(f func()) {
	s.onComplete = f
}

// Rearm resets the cursors and the completion signal so a second cycle can
// run with the same payload.
func (s *Session) Rearm() {
	s.txIndex = 0
	s.rxIndex = 0
	s.done.Store(false)
	for i := range s.rxData {
		s.rxData[i] = 0
	}
}

// Snapshot describes the session state for inspection.
type Snapshot struct {
	TxIndex   int    `json:"tx_index"`
	RxIndex   int    `json:"rx_index"`
	Completed bool   `json:"completed"`
	TxData    []byte `json:"tx_data"`
	RxData    []byte `json:"rx_data"`
}

// CurrentSnapshot copies the session state.
func (s *Session) CurrentSnapshot() Snapshot {
	snap := Snapshot{
		TxIndex:   s.txIndex,
		RxIndex:   s.rxIndex,
		Completed: s.done.Load(),
		TxData:    append([]byte(nil), s.txData...),
		RxData:    append([]byte(nil), s.rxData...),
	}
	return snap
}
