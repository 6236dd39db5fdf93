package machine

import (
	p "grit/src/hardware/bcm2835"
)

// the mini uart lives on these pins when they are set to alt function 5
const (
	uartTxPin = 14
	uartRxPin = 15
)

//
// RPI has many uarts, this is the "miniuart" which is the simplest to configure.
// Everything is polled: writes busy wait for room in the transmit FIFO.
//
type UART struct {
	aux  p.AuxPeripheralsRegisterMap
	gpio GPIO
}

//NewUART returns a mini uart driver using the aux registers and pins given.
func NewUART(aux p.AuxPeripheralsRegisterMap, gpio GPIO) UART {
	return UART{aux: aux, gpio: gpio}
}

//
// Configure sets up the mini uart for 115200 baud, 8 bits, no interrupts and
// both tx and rx enabled, then connects it to GPIO 14 and 15.
//
func (uart *UART) Configure() {
	uart.aux.Enables.Field(1, 0).Write(1) //enable AUX Mini uart

	//turn off the transmitter and receiver while we set it up
	uart.aux.MiniUARTExtraControl.Word().Write(0)
	uart.aux.MiniUARTInterruptEnable.Word().Write(0)

	//see errata for why (bad docs!) uses excuse of compat with 16550
	// https://elinux.org/BCM2835_datasheet_errata#p14
	uart.aux.MiniUARTLineControl.Word().Write(p.DataLength8Bits)

	uart.aux.MiniUARTModemControl.Field(1, 1).Write(0) // this asserts the line
	uart.aux.MiniUARTInterruptIdentify.Field(2, 1).Write((p.ClearTransmitFIFO | p.ClearReceiveFIFO) >> 1)

	// derived from clock speed: BCM2835 ARM Peripheral manual page 11
	uart.aux.MiniUARTBAUD.Field(16, 0).Write(p.MiniUARTBaud115200)

	// map UART1 to GPIO pins
	uart.gpio.Configure(uartTxPin, Alt5)
	uart.gpio.Configure(uartRxPin, Alt5)
	uart.gpio.SetPull((1<<uartTxPin)|(1<<uartRxPin), p.PullNone)

	uart.aux.MiniUARTExtraControl.Word().Write(p.ReceiveEnable | p.TransmitEnable)
}

//
// Writing a byte over serial.  Blocking.  No newline translation.
//
func (uart *UART) writeRaw(c byte) {
	// wait until we can send
	for uart.aux.MiniUARTLineStatus.Field(1, 5).Read() == 0 {
		spin()
	}
	uart.aux.MiniUARTData.Field(8, 0).Write(uint32(c)) //really 8 bit write
}

//
// WriteByte sends c, turning a newline into CR LF.  Blocking.
//
func (uart *UART) WriteByte(c byte) error {
	if c == '\n' {
		uart.writeRaw('\r')
	}
	uart.writeRaw(c)
	return nil
}

//
// Put a whole string out to serial and wait for it to leave.  Blocking.
//
func (uart *UART) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		uart.WriteByte(s[i])
	}
	uart.Flush()
	return len(s), nil
}

// Write implements io.Writer.  It never fails.
func (uart *UART) Write(b []byte) (int, error) {
	for _, c := range b {
		uart.WriteByte(c)
	}
	uart.Flush()
	return len(b), nil
}

//
// Flush waits until the transmitter is idle and the FIFO is empty.
//
func (uart *UART) Flush() {
	for uart.aux.MiniUARTExtraStatus.Word().Read()&p.ExtraStatusTransmitterIdle == 0 {
		spin()
	}
}

func (uart *UART) Hex32string(d uint32) {
	uart.hex(uint64(d), 32)
}

func (uart *UART) Hex64string(d uint64) {
	uart.hex(d, 64)
}

func (uart *UART) hex(d uint64, bits uint) {
	var rc uint64
	rb := bits
	for {
		rb -= 4
		rc = (d >> rb) & 0xF
		if rc > 9 {
			rc += 0x37
		} else {
			rc += 0x30
		}
		uart.writeRaw(uint8(rc))
		if rb == 0 {
			break
		}
	}
	uart.writeRaw(0x20)
}
