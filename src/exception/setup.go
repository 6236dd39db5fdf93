package exception

import (
	arm "grit/src/hardware/arm-cortex-a53"
	"grit/src/hardware/bcm2835"
)

//SetupInterrupts points the vector base register of the current exception
//level and every level below it (down to EL1) at the table, routes SError,
//FIQ, and IRQ to the current level, installs d, unmasks interrupts, and
//enables the basic lines and the system timer match 1 line in the interrupt
//controller.  A misaligned table is a fatal error: it is reported and the
//core halts.
func SetupInterrupts(d *Dispatcher) bool {
	d.emit(d.start().String("interrupt vector table at ").Hex(uint64(d.Base), 16))
	if !Aligned(d.Base) {
		d.emit(d.start().String("!vector table is not aligned to 2048 bytes, low bits ").
			Hex(uint64(d.Base&(TableAlign-1)), 3))
		d.halt()
		return false
	}
	el := d.CPU.CurrentEL()
	for l := el; l >= arm.EL1; l-- {
		d.CPU.SetVectorBase(l, d.Base)
	}
	d.CPU.RouteInterrupts(el)
	Install(d)
	d.CPU.UnmaskInterrupts()

	d.IC.EnableBasic.Word().Write(bcm2835.BasicAllLines)
	d.IC.Enable1.Word().Write(bcm2835.SystemTimerIRQ1)
	return true
}
