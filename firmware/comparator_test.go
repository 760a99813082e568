package firmware

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mcusim/uartloop/hw/gpio"
	"github.com/mcusim/uartloop/sim"
)

var _ = Describe("Comparator", func() {
	var (
		engine  *sim.SerialEngine
		session *Session
		led     *gpio.Port
		c       *Comparator
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		session = NewSession(3)
		session.Fill()
		led = gpio.NewPort("P5")
		c = NewComparator("MainLoop", engine, sim.Baud115200,
			session, led, 0, gpio.XMC4700)
	})

	It("should stay idle until the completion signal is set", func() {
		Expect(engine.Run()).To(Succeed())

		Expect(c.Passes()).To(Equal(0))
	})

	It("should light the LED when the buffers match", func() {
		copy(session.rxData, session.txData)
		session.setCompleted()

		Expect(engine.Run()).To(Succeed())

		Expect(c.Passes()).To(Equal(1))
		Expect(c.LEDLit()).To(BeTrue())
		Expect(session.Completed()).To(BeFalse())
	})

	It("should darken the LED on a mismatch at the last index", func() {
		copy(session.rxData, session.txData)
		session.rxData[2] = 0xEE
		session.setCompleted()

		Expect(engine.Run()).To(Succeed())

		Expect(c.LEDLit()).To(BeFalse())
	})

	It("should leave the LED lit when only an earlier index mismatches",
		func() {
			// The LED is re-driven for every index, so the level
			// left after a pass reflects the last index alone.
			copy(session.rxData, session.txData)
			session.rxData[1] = 0xEE
			session.setCompleted()

			Expect(engine.Run()).To(Succeed())

			Expect(c.LEDLit()).To(BeTrue())
		})

	It("should run one pass per completion signal", func() {
		copy(session.rxData, session.txData)

		session.setCompleted()
		Expect(engine.Run()).To(Succeed())

		session.setCompleted()
		Expect(engine.Run()).To(Succeed())

		Expect(c.Passes()).To(Equal(2))
	})
})
