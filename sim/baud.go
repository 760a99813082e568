package sim

import (
	"log"
	"math"
)

// Baud is a UART line rate in bits per second.
type Baud float64

// Common line rates.
const (
	Baud9600   Baud = 9600
	Baud19200  Baud = 19200
	Baud38400  Baud = 38400
	Baud57600  Baud = 57600
	Baud115200 Baud = 115200
)

// frameBits is the number of bits on the wire per character at 8N1: one
// start bit, eight data bits, one stop bit.
const frameBits = 10

// BitTime returns the time one bit occupies on the wire.
func (b Baud) BitTime() VTimeInSec {
	if b == 0 {
		log.Panic("baud rate cannot be 0")
	}
	return VTimeInSec(1.0 / b)
}

// FrameTime returns the time one 8N1 character frame occupies on the wire.
func (b Baud) FrameTime() VTimeInSec {
	return VTimeInSec(frameBits) * b.BitTime()
}

// frameRate is the number of character frames per second.
func (b Baud) frameRate() float64 {
	if b == 0 {
		log.Panic("baud rate cannot be 0")
	}
	return float64(b) / frameBits
}

// ThisFrame returns the frame-boundary time at or right after now.
//
//	           Input
//	           (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (b Baud) ThisFrame(now VTimeInSec) VTimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	rate := b.frameRate()
	count := math.Ceil(math.Round(float64(now)*10*rate) / 10)
	return VTimeInSec(count / rate)
}

// NextFrame returns the next frame-boundary time strictly after now.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (b Baud) NextFrame(now VTimeInSec) VTimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	rate := b.frameRate()
	count := math.Floor(math.Round(float64(now)*10*rate) / 10)
	return VTimeInSec((count + 1) / rate)
}

// NFramesLater returns the time after n character frames.
func (b Baud) NFramesLater(n int, now VTimeInSec) VTimeInSec {
	if math.IsNaN(float64(now)) {
		log.Panic("invalid time")
	}
	return b.ThisFrame(now + VTimeInSec(float64(n)/b.frameRate()))
}
