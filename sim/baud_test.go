package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mcusim/uartloop/sim"
)

var _ = Describe("Baud", func() {
	It("should compute the bit time", func() {
		b := sim.Baud(10000)
		Expect(float64(b.BitTime())).To(BeNumerically("~", 0.0001, 1e-12))
	})

	It("should compute the frame time as 10 bits", func() {
		b := sim.Baud(10000)
		Expect(float64(b.FrameTime())).To(BeNumerically("~", 0.001, 1e-12))
	})

	It("should find the frame boundary at or after now", func() {
		b := sim.Baud(10000)
		Expect(float64(b.ThisFrame(0))).To(BeNumerically("~", 0, 1e-12))
		Expect(float64(b.ThisFrame(0.0004))).
			To(BeNumerically("~", 0.001, 1e-12))
		Expect(float64(b.ThisFrame(0.001))).
			To(BeNumerically("~", 0.001, 1e-12))
	})

	It("should find the next frame boundary strictly after now", func() {
		b := sim.Baud(10000)
		Expect(float64(b.NextFrame(0))).To(BeNumerically("~", 0.001, 1e-12))
		Expect(float64(b.NextFrame(0.001))).
			To(BeNumerically("~", 0.002, 1e-12))
	})

	It("should step n frames ahead", func() {
		b := sim.Baud(10000)
		Expect(float64(b.NFramesLater(3, 0.001))).
			To(BeNumerically("~", 0.004, 1e-12))
	})

	It("should panic on a zero rate", func() {
		Expect(func() { sim.Baud(0).BitTime() }).To(Panic())
	})
})
