package machine

import "grit/src/hardware/bcm2835"

// SysTimer is the free running 1MHz system timer.  Compare registers 0 and 2
// belong to the GPU; we use 1 (and 3).
type SysTimer struct {
	regs bcm2835.SysTimerRegisterMap
}

//NewSysTimer returns a timer driver for the registers in regs.
func NewSysTimer(regs bcm2835.SysTimerRegisterMap) SysTimer {
	return SysTimer{regs: regs}
}

//Now returns the 64 bit counter.  The high half is read twice so a carry
//between the two reads is not missed.
func (s SysTimer) Now() uint64 {
	for {
		hi := s.regs.FreeRunningHigher32.Word().Read()
		lo := s.regs.FreeRunningLower32.Word().Read()
		if s.regs.FreeRunningHigher32.Word().Read() == hi {
			return uint64(hi)<<32 | uint64(lo)
		}
	}
}

//ArmMatch1 sets compare 1 to fire after ticks microseconds and returns the
//compare value.
func (s SysTimer) ArmMatch1(ticks uint32) uint32 {
	c := s.regs.FreeRunningLower32.Word().Read() + ticks
	s.regs.Compare1.Word().Write(c)
	return c
}

//Passed reports if the low 32 bits of the counter have reached deadline.
//Wrap around is handled as long as deadline is less than 2^31 ticks away.
func (s SysTimer) Passed(deadline uint32) bool {
	return int32(s.regs.FreeRunningLower32.Word().Read()-deadline) >= 0
}

//Match1Pending reports if compare 1 has matched and not been acknowledged.
func (s SysTimer) Match1Pending() bool {
	return s.regs.Match(1).Read() == 1
}
