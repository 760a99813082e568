package uart_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mcusim/uartloop/hw/uart"
)

var _ = Describe("FIFO", func() {
	var raised int

	raise := func() { raised++ }

	BeforeEach(func() {
		raised = 0
	})

	Context("in the TX direction", func() {
		It("should raise when a pop brings the level below the limit",
			func() {
				f := uart.NewFIFO("TxFIFO", uart.Tx, 8, 1, raise)

				f.Push(0x11)
				Expect(raised).To(Equal(0))

				Expect(f.Pop()).To(Equal(byte(0x11)))
				Expect(raised).To(Equal(1))
			})

		It("should not raise while the level stays at or above the limit",
			func() {
				f := uart.NewFIFO("TxFIFO", uart.Tx, 8, 1, raise)

				f.Push(1)
				f.Push(2)

				f.Pop()
				Expect(raised).To(Equal(0))

				f.Pop()
				Expect(raised).To(Equal(1))
			})

		It("should stay silent once the event is disabled", func() {
			f := uart.NewFIFO("TxFIFO", uart.Tx, 8, 1, raise)
			f.DisableEvent()

			f.Push(1)
			f.Pop()

			Expect(raised).To(Equal(0))

			f.EnableEvent()
			f.Push(2)
			f.Pop()

			Expect(raised).To(Equal(1))
		})
	})

	Context("in the RX direction", func() {
		It("should raise when a push brings the level above the limit",
			func() {
				f := uart.NewFIFO("RxFIFO", uart.Rx, 8, 2, raise)

				f.Push(1)
				f.Push(2)
				Expect(raised).To(Equal(0))

				f.Push(3)
				Expect(raised).To(Equal(1))
			})

		It("should fire on any push with a limit of -1", func() {
			f := uart.NewFIFO("RxFIFO", uart.Rx, 8, 7, raise)
			f.SetSizeTriggerLimit(-1)

			f.Push(1)
			Expect(raised).To(Equal(1))
		})
	})

	It("should panic on overflow", func() {
		f := uart.NewFIFO("FIFO", uart.Rx, 1, 7, nil)
		f.Push(1)

		Expect(func() { f.Push(2) }).To(Panic())
	})

	It("should panic on underflow", func() {
		f := uart.NewFIFO("FIFO", uart.Tx, 1, 0, nil)

		Expect(func() { f.Pop() }).To(Panic())
	})

	It("should keep FIFO order", func() {
		f := uart.NewFIFO("FIFO", uart.Rx, 4, 7, nil)

		f.Push(1)
		f.Push(2)
		f.Push(3)

		Expect(f.Pop()).To(Equal(byte(1)))
		Expect(f.Pop()).To(Equal(byte(2)))
		Expect(f.Pop()).To(Equal(byte(3)))
		Expect(f.Empty()).To(BeTrue())
	})
})
