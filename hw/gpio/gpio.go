// Package gpio models a GPIO output port. Levels are written through a
// set/reset word: the low half of the word sets the output latch, the high
// half resets it, matching the output modification register the original
// firmware writes.
package gpio

import (
	"log"

	"github.com/mcusim/uartloop/sim"
)

// A Level is a set/reset word for pin 0. SetOutputLevel shifts it to the
// addressed pin.
type Level uint32

// A Variant selects the board the firmware runs on. The two boards wire the
// user LED with opposite polarity, so the words that mean logical HIGH and
// LOW are swapped between them.
type Variant int

// The supported board variants.
const (
	XMC1400 Variant = iota
	XMC4700
)

const (
	setWord   Level = 0x1
	resetWord Level = 0x10000
)

// High returns the level word that drives the indicator to its logical HIGH
// state on this board.
func (v Variant) High() Level {
	if v == XMC1400 {
		return resetWord
	}
	return setWord
}

// Low returns the level word that drives the indicator to its logical LOW
// state on this board.
func (v Variant) Low() Level {
	if v == XMC1400 {
		return setWord
	}
	return resetWord
}

// Lit reports whether an indicator wired on this board lights up for the
// given output latch state.
func (v Variant) Lit(outputHigh bool) bool {
	if v == XMC1400 {
		return !outputHigh
	}
	return outputHigh
}

// String returns the board name.
func (v Variant) String() string {
	switch v {
	case XMC1400:
		return "XMC1400"
	case XMC4700:
		return "XMC4700"
	default:
		return "unknown"
	}
}

// ParseVariant converts a board name to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "XMC1400", "xmc1400":
		return XMC1400, true
	case "XMC4700", "xmc4700":
		return XMC4700, true
	default:
		return 0, false
	}
}

// HookPosPinLevel marks when a pin output latch changes. The hook Item is
// the pin number and the Detail is the new latch state.
var HookPosPinLevel = &sim.HookPos{Name: "Pin Level"}

const numPins = 16

// A Port is a GPIO port with 16 output pins.
type Port struct {
	sim.HookableBase

	name string
	out  uint16
}

// NewPort creates a GPIO port.
func NewPort(name string) *Port {
	return &Port{name: name}
}

// Name returns the name of the port.
func (p *Port) Name() string {
	return p.name
}

// SetOutputLevel applies a set/reset word to the given pin. Set wins over
// reset when both bits are given, as on the real register.
func (p *Port) SetOutputLevel(pin int, level Level) {
	if pin < 0 || pin >= numPins {
		log.Panicf("pin %d out of range on port %s", pin, p.name)
	}

	word := uint32(level) << pin
	before := p.out

	p.out &^= uint16(word >> 16)
	p.out |= uint16(word)

	if p.out != before {
		p.InvokeHook(sim.HookCtx{
			Domain: p,
			Pos:    HookPosPinLevel,
			Item:   pin,
			Detail: p.OutputHigh(pin),
		})
	}
}

// OutputHigh reports the output latch state of a pin.
func (p *Port) OutputHigh(pin int) bool {
	if pin < 0 || pin >= numPins {
		log.Panicf("pin %d out of range on port %s", pin, p.name)
	}
	return p.out&(1<<pin) != 0
}

var _ sim.Hookable = (*Port)(nil)
