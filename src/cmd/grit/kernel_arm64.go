package main

import (
	_ "unsafe"

	"grit/src/boot"
	"grit/src/exception"
	arm "grit/src/hardware/arm-cortex-a53"
	"grit/src/hardware/bcm2835"
	"grit/src/hardware/register"
	"grit/src/machine"
)

const (
	ledPin       = 29
	blinkDelay   = 500000
	tickInterval = bcm2835.SysTimerHz //one timer interrupt a second
	maxRepeats   = 8
)

// everything lives in globals, there is no heap
var (
	gpio       machine.GPIO
	uart       machine.UART
	timer      machine.SysTimer
	dispatcher exception.Dispatcher
)

//go:linkname kernelMain
func kernelMain() {
	register.SetViolationHandler(boot.FatalViolation)

	gpio = machine.NewGPIO(bcm2835.GPIO())
	uart = machine.NewUART(bcm2835.Aux(), gpio)
	uart.Configure()
	boot.SetConsole(&uart)

	mpidr := arm.MPIDR()
	if !boot.IsPrimary(mpidr) {
		boot.Fatal("kernel main on a secondary core")
	}
	cpu := arm.CPU{}
	uart.WriteString("grit: mpidr ")
	uart.Hex64string(mpidr)
	uart.WriteString("running at ")
	uart.WriteString(cpu.CurrentEL().String())
	uart.WriteString("\n")

	timer = machine.NewSysTimer(bcm2835.SysTimer())
	dispatcher = exception.Dispatcher{
		CPU:        cpu,
		Base:       exception.VectorTableBase(),
		IC:         bcm2835.InterruptController(),
		Timer:      bcm2835.SysTimer(),
		Console:    &uart,
		Halt:       boot.Halt,
		MaxRepeats: maxRepeats,
	}
	exception.SetupInterrupts(&dispatcher)

	next := timer.ArmMatch1(tickInterval)
	gpio.Configure(ledPin, machine.Output)
	for {
		gpio.Set(ledPin)
		uart.WriteString("Hello World!\n")
		machine.Delay(blinkDelay)
		gpio.Clear(ledPin)
		machine.Delay(blinkDelay)
		if timer.Passed(next) {
			// no tick may land between reading the counter and writing compare 1
			arm.MaskDAIF()
			next = timer.ArmMatch1(tickInterval)
			arm.UnmaskDAIF()
		}
	}
}
