package firmware_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/mcusim/uartloop/firmware"
)

var _ = Describe("TxHandler", func() {
	var (
		mockCtrl *gomock.Controller
		hw       *MockUARTChannel
		nvic     *MockIRQController
		session  *firmware.Session
		handler  *firmware.TxHandler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hw = NewMockUARTChannel(mockCtrl)
		nvic = NewMockIRQController(mockCtrl)

		session = firmware.NewSession(2)
		session.Fill()

		handler = firmware.NewTxHandler(
			hw, nvic, firmware.TxIRQLine, session)
	})

	It("should transmit the next byte and advance the cursor", func() {
		hw.EXPECT().TxFIFOFull().Return(false)
		hw.EXPECT().Transmit(byte(0))

		handler.Service()

		Expect(session.CurrentSnapshot().TxIndex).To(Equal(1))

		hw.EXPECT().TxFIFOFull().Return(false)
		hw.EXPECT().Transmit(byte(1))

		handler.Service()

		Expect(session.CurrentSnapshot().TxIndex).To(Equal(2))
	})

	It("should wait while the TX FIFO is full", func() {
		gomock.InOrder(
			hw.EXPECT().TxFIFOFull().Return(true),
			hw.EXPECT().TxFIFOFull().Return(true),
			hw.EXPECT().TxFIFOFull().Return(false),
			hw.EXPECT().Transmit(byte(0)),
		)

		handler.Service()
	})

	It("should disable its own triggering once all bytes are sent", func() {
		hw.EXPECT().TxFIFOFull().Return(false).Times(2)
		hw.EXPECT().Transmit(gomock.Any()).Times(2)

		handler.Service()
		handler.Service()

		hw.EXPECT().DisableTxFIFOEvent()
		nvic.EXPECT().Disable(firmware.TxIRQLine)

		handler.Service()

		Expect(session.CurrentSnapshot().TxIndex).To(Equal(2))
	})
})
