package bcm2835

import "grit/src/hardware/register"

// InterruptControllerOffset is the offset of the ARM interrupt controller from
// the start of the peripheral window.
const InterruptControllerOffset = 0xB200

type IRQRegisterMap struct {
	BasicPending register.RO     //0x00
	Pending1     register.Status //0x04
	Pending2     register.RO     //0x08
	FIQControl   register.RW     //0x0C
	Enable1      register.WO     //0x10
	Enable2      register.WO     //0x14
	EnableBasic  register.WO     //0x18
	Disable1     register.WO     //0x1C
	Disable2     register.WO     //0x20
	DisableBasic register.WO     //0x24
}

//NewInterruptController lays out the interrupt controller registers starting at base.
func NewInterruptController(base uintptr) IRQRegisterMap {
	return IRQRegisterMap{
		BasicPending: register.RO(base + 0x00),
		Pending1:     register.Status(base + 0x04),
		Pending2:     register.RO(base + 0x08),
		FIQControl:   register.RW(base + 0x0C),
		Enable1:      register.WO(base + 0x10),
		Enable2:      register.WO(base + 0x14),
		EnableBasic:  register.WO(base + 0x18),
		Disable1:     register.WO(base + 0x1C),
		Disable2:     register.WO(base + 0x20),
		DisableBasic: register.WO(base + 0x24),
	}
}

// basic pending register
const BasicArmTimerIRQ = 1 << 0
const BasicPending1 = 1 << 8 //one or more bits set in pending 1
const BasicPending2 = 1 << 9 //one or more bits set in pending 2

// all eight ARM-specific basic interrupt lines
const BasicAllLines = 0xFF

// for the interrupt numbers for use with interrupt controller
const AuxInterrupt = 1 << 29

// system timer compare 1; compares 0 and 2 belong to the VideoCore
const SystemTimerIRQ1 = 1 << 1
