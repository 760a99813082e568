package datarecording

import (
	"github.com/mcusim/uartloop/hw/gpio"
	"github.com/mcusim/uartloop/hw/irq"
	"github.com/mcusim/uartloop/hw/uart"
	"github.com/mcusim/uartloop/sim"
)

// A TraceHook records hardware activity into a DataRecorder. Attach it to
// the UART channel, the interrupt controller, and the LED port.
type TraceHook struct {
	engine   sim.Engine
	recorder DataRecorder
}

// Trace table names.
const (
	WireTable = "wire_bytes"
	IRQTable  = "irq_dispatch"
	PinTable  = "pin_levels"
)

// NewTraceHook creates a TraceHook and its tables.
func NewTraceHook(engine sim.Engine, recorder DataRecorder) *TraceHook {
	recorder.CreateTable(WireTable, []string{
		"time REAL",
		"idx INTEGER",
		"value INTEGER",
	})
	recorder.CreateTable(IRQTable, []string{
		"time REAL",
		"line INTEGER",
		"priority INTEGER",
	})
	recorder.CreateTable(PinTable, []string{
		"time REAL",
		"pin INTEGER",
		"high INTEGER",
	})

	return &TraceHook{engine: engine, recorder: recorder}
}

// Func records the hooked activity.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	now := float64(h.engine.CurrentTime())

	switch ctx.Pos {
	case uart.HookPosWireDeliver:
		h.recorder.InsertData(WireTable,
			now, ctx.Detail.(int), int(ctx.Item.(byte)))
	case irq.HookPosDispatch:
		h.recorder.InsertData(IRQTable,
			now, int(ctx.Item.(irq.Line)), ctx.Detail.(int))
	case gpio.HookPosPinLevel:
		h.recorder.InsertData(PinTable,
			now, ctx.Item.(int), boolToInt(ctx.Detail.(bool)))
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
