package bcm2835

import "grit/src/hardware/register"

// SysTimerOffset is the offset of the free running system timer from the start
// of the peripheral window.
const SysTimerOffset = 0x3000

// The timer runs at 1MHz.
const SysTimerHz = 1000000

type SysTimerRegisterMap struct {
	ControlStatus       register.Status //0x00
	FreeRunningLower32  register.RO     //0x04
	FreeRunningHigher32 register.RO     //0x08
	Compare0            register.RW     //0x0C, gpu
	Compare1            register.RW     //0x10
	Compare2            register.RW     //0x14, gpu
	Compare3            register.RW     //0x18
}

//NewSystemTimer lays out the system timer registers starting at base.
func NewSystemTimer(base uintptr) SysTimerRegisterMap {
	return SysTimerRegisterMap{
		ControlStatus:       register.Status(base + 0x00),
		FreeRunningLower32:  register.RO(base + 0x04),
		FreeRunningHigher32: register.RO(base + 0x08),
		Compare0:            register.RW(base + 0x0C),
		Compare1:            register.RW(base + 0x10),
		Compare2:            register.RW(base + 0x14),
		Compare3:            register.RW(base + 0x18),
	}
}

const SystemTimerMatch3 = 1 << 3
const SystemTimerMatch1 = 1 << 1

//Match returns the single bit field of the control/status register that
//reports (and acknowledges) a match on compare register n.
func (s SysTimerRegisterMap) Match(n uint32) register.StatusField {
	if n > 3 {
		register.Reject("systimer.match", uintptr(s.ControlStatus), n)
		n = 0
	}
	return s.ControlStatus.Field(1, n)
}
