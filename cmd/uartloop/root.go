package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/mcusim/uartloop/datarecording"
	"github.com/mcusim/uartloop/firmware"
	"github.com/mcusim/uartloop/hw/gpio"
	"github.com/mcusim/uartloop/monitoring"
	"github.com/mcusim/uartloop/sim"
)

var (
	flagNumData      int
	flagBaud         float64
	flagFIFOCapacity int
	flagTxLimit      int
	flagRxLimit      int
	flagVariant      string
	flagCycles       int
	flagCorruptIndex int
	flagCorruptValue uint8
	flagTraceDB      string
	flagTrace        bool
	flagMonitorPort  int
	flagMonitor      bool
	flagOpenBrowser  bool
)

var rootCmd = &cobra.Command{
	Use:   "uartloop",
	Short: "Run the UART TX/RX FIFO interrupt loopback example on a simulated board.",
	Long: `uartloop models the UART transmit/receive FIFO interrupt example: a fixed
byte sequence is pushed through the TX FIFO, looped back on the wire into the
RX FIFO, and the firmware compares the two buffers, lighting the user LED on
success. Interrupt-driven FIFO refill and drain, the adaptive RX trigger
limit, and the LED comparison quirk of the original firmware are reproduced
faithfully.`,
	RunE: run,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// A .env file can override the defaults before flags are parsed.
	_ = godotenv.Load()

	rootCmd.Flags().IntVar(&flagNumData, "num-data", firmware.NumData,
		"number of payload bytes looped from TX to RX")
	rootCmd.Flags().Float64Var(&flagBaud, "baud", float64(sim.Baud115200),
		"UART line rate in bits per second")
	rootCmd.Flags().IntVar(&flagFIFOCapacity, "fifo-capacity", 8,
		"capacity of the TX and RX FIFOs in bytes")
	rootCmd.Flags().IntVar(&flagTxLimit, "tx-limit", 1,
		"TX FIFO size trigger limit")
	rootCmd.Flags().IntVar(&flagRxLimit, "rx-limit", 7,
		"initial RX FIFO size trigger limit")
	rootCmd.Flags().StringVar(&flagVariant, "variant", "xmc4700",
		"board variant (xmc1400 or xmc4700); selects the LED polarity")
	rootCmd.Flags().IntVar(&flagCycles, "cycles", 1,
		"number of transmit/receive cycles to run")
	rootCmd.Flags().IntVar(&flagCorruptIndex, "corrupt-index", -1,
		"wire byte index to corrupt in transit, -1 for none")
	rootCmd.Flags().Uint8Var(&flagCorruptValue, "corrupt-value", 0xFF,
		"value the corrupted byte is replaced with")
	rootCmd.Flags().BoolVar(&flagTrace, "trace", false,
		"record wire, IRQ and LED activity into a SQLite database")
	rootCmd.Flags().StringVar(&flagTraceDB, "trace-db",
		os.Getenv("UARTLOOP_TRACE_DB"),
		"trace database path without the .sqlite3 suffix")
	rootCmd.Flags().BoolVar(&flagMonitor, "monitor", false,
		"serve the simulation state over HTTP")
	rootCmd.Flags().IntVar(&flagMonitorPort, "monitor-port",
		envInt("UARTLOOP_MONITOR_PORT"),
		"port of the monitoring server, 0 for a random port")
	rootCmd.Flags().BoolVar(&flagOpenBrowser, "open", false,
		"open the monitoring server in a browser")
}

func envInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}

func run(_ *cobra.Command, _ []string) error {
	variant, ok := gpio.ParseVariant(flagVariant)
	if !ok {
		return fmt.Errorf("unknown board variant %q", flagVariant)
	}

	engine := sim.NewSerialEngine()

	board := firmware.MakeBoardBuilder().
		WithEngine(engine).
		WithBaud(sim.Baud(flagBaud)).
		WithNumData(flagNumData).
		WithVariant(variant).
		WithFIFOCapacity(flagFIFOCapacity).
		WithTxTriggerLimit(flagTxLimit).
		WithRxTriggerLimit(flagRxLimit).
		Build("Board")

	if flagCorruptIndex >= 0 {
		board.UART.InjectFault(flagCorruptIndex, flagCorruptValue)
	}

	if flagTrace {
		recorder := datarecording.New(flagTraceDB)
		hook := datarecording.NewTraceHook(engine, recorder)
		board.UART.AcceptHook(hook)
		board.Ctrl.AcceptHook(hook)
		board.LED.AcceptHook(hook)
	}

	if flagMonitor {
		monitor := monitoring.NewMonitor()
		monitor.WithPortNumber(flagMonitorPort)
		monitor.RegisterEngine(engine)
		monitor.RegisterSession(board.Session)
		monitor.RegisterComponent(board.UART)
		monitor.RegisterComponent(board.Ctrl)
		if _, err := monitor.StartServer(flagOpenBrowser); err != nil {
			return err
		}
	}

	board.PowerOn()

	for cycle := 1; cycle <= flagCycles; cycle++ {
		if cycle > 1 {
			board.Rearm()
		}

		if err := engine.Run(); err != nil {
			return err
		}

		reportCycle(cycle, engine, board)
	}

	atexit.Exit(0)
	return nil
}

func reportCycle(cycle int, engine sim.Engine, board *firmware.Board) {
	led := "OFF"
	if board.LEDLit() {
		led = "ON"
	}

	snap := board.Session.CurrentSnapshot()
	fmt.Printf("cycle %d: led=%s tx=%d rx=%d t=%.6fs\n",
		cycle, led, snap.TxIndex, snap.RxIndex,
		float64(engine.CurrentTime()))
}
