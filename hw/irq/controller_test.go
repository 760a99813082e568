package irq_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mcusim/uartloop/hw/irq"
	"github.com/mcusim/uartloop/sim"
)

var _ = Describe("Controller", func() {
	var (
		engine *sim.SerialEngine
		ctrl   *irq.Controller
		order  []irq.Line
	)

	record := func(line irq.Line) irq.Service {
		return func() { order = append(order, line) }
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		ctrl = irq.NewController("NVIC", engine)
		order = nil
	})

	It("should service same-time pending lines in priority order", func() {
		ctrl.Register(1, record(1))
		ctrl.Register(2, record(2))
		ctrl.SetPriority(1, 63)
		ctrl.SetPriority(2, 62)
		ctrl.Enable(1)
		ctrl.Enable(2)

		ctrl.Pend(1)
		ctrl.Pend(2)

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]irq.Line{2, 1}))
	})

	It("should break priority ties on the line number", func() {
		ctrl.Register(5, record(5))
		ctrl.Register(3, record(3))
		ctrl.SetPriority(5, 10)
		ctrl.SetPriority(3, 10)
		ctrl.Enable(5)
		ctrl.Enable(3)

		ctrl.Pend(5)
		ctrl.Pend(3)

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]irq.Line{3, 5}))
	})

	It("should not service a disabled line", func() {
		ctrl.Register(1, record(1))
		ctrl.SetPriority(1, 1)

		ctrl.Pend(1)

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(BeEmpty())
	})

	It("should service a retained pending line once enabled", func() {
		ctrl.Register(1, record(1))
		ctrl.SetPriority(1, 1)

		ctrl.Pend(1)
		ctrl.Enable(1)

		Expect(engine.Run()).To(Succeed())

		Expect(order).To(Equal([]irq.Line{1}))
	})

	It("should service lines pended from a service routine in the same pass",
		func() {
			ctrl.Register(2, record(2))
			ctrl.Register(1, func() {
				order = append(order, 1)
				ctrl.Pend(2)
			})
			ctrl.SetPriority(1, 1)
			ctrl.SetPriority(2, 2)
			ctrl.Enable(1)
			ctrl.Enable(2)

			ctrl.Pend(1)

			Expect(engine.Run()).To(Succeed())

			Expect(order).To(Equal([]irq.Line{1, 2}))
		})

	It("should panic when a pended line has no service routine", func() {
		ctrl.SetPriority(1, 1)
		ctrl.Enable(1)
		ctrl.Pend(1)

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should report line status sorted by line number", func() {
		ctrl.Register(9, record(9))
		ctrl.Register(4, record(4))
		ctrl.SetPriority(9, 63)
		ctrl.SetPriority(4, 62)
		ctrl.Enable(4)

		st := ctrl.CurrentStatus()

		Expect(st.Lines).To(HaveLen(2))
		Expect(st.Lines[0].Line).To(Equal(irq.Line(4)))
		Expect(st.Lines[0].Enabled).To(BeTrue())
		Expect(st.Lines[1].Line).To(Equal(irq.Line(9)))
		Expect(st.Lines[1].Priority).To(Equal(63))
	})
})
