package uart_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mcusim/uartloop/hw/irq"
	"github.com/mcusim/uartloop/hw/uart"
	"github.com/mcusim/uartloop/sim"
)

var _ = Describe("Channel", func() {
	const (
		txLine irq.Line = 84
		rxLine irq.Line = 85
	)

	var (
		engine   *sim.SerialEngine
		ctrl     *irq.Controller
		ch       *uart.Channel
		received []byte
		rxTimes  []sim.VTimeInSec
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		ctrl = irq.NewController("NVIC", engine)

		ch = uart.MakeBuilder().
			WithEngine(engine).
			WithBaud(10000).
			WithIRQController(ctrl).
			WithTxIRQLine(txLine).
			WithRxIRQLine(rxLine).
			WithRxTriggerLimit(0).
			Build("UART0")

		received = nil
		rxTimes = nil

		ctrl.Register(rxLine, func() {
			for !ch.RxFIFOEmpty() {
				received = append(received, ch.ReceivedData())
				rxTimes = append(rxTimes, engine.CurrentTime())
			}
		})
		ctrl.SetPriority(rxLine, 62)
		ctrl.Enable(rxLine)
	})

	It("should loop transmitted bytes back in order", func() {
		ch.Start()
		ch.Transmit(1)
		ch.Transmit(2)
		ch.Transmit(3)

		Expect(engine.Run()).To(Succeed())

		Expect(received).To(Equal([]byte{1, 2, 3}))
	})

	It("should deliver one byte per character frame", func() {
		ch.Start()
		ch.Transmit(1)
		ch.Transmit(2)

		Expect(engine.Run()).To(Succeed())

		frame := float64(sim.Baud(10000).FrameTime())
		Expect(rxTimes).To(HaveLen(2))
		Expect(float64(rxTimes[0])).To(BeNumerically("~", frame, 1e-9))
		Expect(float64(rxTimes[1])).To(BeNumerically("~", 2*frame, 1e-9))
	})

	It("should not move before Start", func() {
		ch.Transmit(1)

		Expect(engine.Run()).To(Succeed())

		Expect(received).To(BeEmpty())
		Expect(ch.CurrentStatus().TxFIFOLevel).To(Equal(1))
	})

	It("should corrupt the byte at an injected fault index", func() {
		ch.InjectFault(1, 0xFF)

		ch.Start()
		ch.Transmit(1)
		ch.Transmit(2)
		ch.Transmit(3)

		Expect(engine.Run()).To(Succeed())

		Expect(received).To(Equal([]byte{1, 0xFF, 3}))
	})

	It("should report its state", func() {
		ch.Start()
		ch.Transmit(9)

		Expect(engine.Run()).To(Succeed())

		st := ch.CurrentStatus()
		Expect(st.Started).To(BeTrue())
		Expect(st.TxFIFOLevel).To(Equal(0))
		Expect(st.RxFIFOLevel).To(Equal(0))
		Expect(st.WireCount).To(Equal(1))
	})
})
