package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mcusim/uartloop/sim"
)

type recordingHandler struct {
	times []sim.VTimeInSec
}

func (h *recordingHandler) Handle(e sim.Event) error {
	h.times = append(h.times, e.Time())
	return nil
}

type recordingHook struct {
	positions []*sim.HookPos
}

func (h *recordingHook) Func(ctx sim.HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
}

var _ = Describe("SerialEngine", func() {
	var (
		engine  *sim.SerialEngine
		handler *recordingHandler
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		handler = &recordingHandler{}
	})

	It("should run events in time order", func() {
		engine.Schedule(sim.NewEventBase(3, handler))
		engine.Schedule(sim.NewEventBase(1, handler))
		engine.Schedule(sim.NewEventBase(2, handler))

		Expect(engine.Run()).To(Succeed())

		Expect(handler.times).To(Equal(
			[]sim.VTimeInSec{1, 2, 3}))
		Expect(engine.CurrentTime()).To(Equal(sim.VTimeInSec(3)))
	})

	It("should allow scheduling at the current time", func() {
		engine.Schedule(sim.NewEventBase(0, handler))

		Expect(engine.Run()).To(Succeed())

		Expect(handler.times).To(HaveLen(1))
	})

	It("should panic when scheduling into the past", func() {
		engine.Schedule(sim.NewEventBase(2, handler))
		Expect(engine.Run()).To(Succeed())

		Expect(func() {
			engine.Schedule(sim.NewEventBase(1, handler))
		}).To(Panic())
	})

	It("should invoke hooks around each event", func() {
		hook := &recordingHook{}
		engine.AcceptHook(hook)

		engine.Schedule(sim.NewEventBase(1, handler))
		Expect(engine.Run()).To(Succeed())

		Expect(hook.positions).To(Equal([]*sim.HookPos{
			sim.HookPosBeforeEvent,
			sim.HookPosAfterEvent,
		}))
	})
})
