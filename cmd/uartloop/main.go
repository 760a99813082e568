// The uartloop command runs the UART TX/RX FIFO interrupt loopback example
// on a simulated board.
package main

func main() {
	Execute()
}
