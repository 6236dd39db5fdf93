package arm_cortex_a53

// CPU gives access to the system registers of the core it runs on.  The
// exception handling code talks to it through an interface so the decisions
// can be tested off the board.
type CPU struct{}

//CurrentEL returns the exception level the core is running at.
//
//go:nosplit
func (CPU) CurrentEL() ExceptionLevel {
	return DecodeCurrentEL(currentEL())
}

//Syndrome returns ESR_ELx for level el.
func (CPU) Syndrome(el ExceptionLevel) uint64 {
	switch el {
	case EL3:
		return esrEL3()
	case EL2:
		return esrEL2()
	}
	return esrEL1()
}

//FaultAddress returns FAR_ELx for level el.
func (CPU) FaultAddress(el ExceptionLevel) uintptr {
	switch el {
	case EL3:
		return uintptr(farEL3())
	case EL2:
		return uintptr(farEL2())
	}
	return uintptr(farEL1())
}

//ExceptionLink returns ELR_ELx, the resume address, for level el.
func (CPU) ExceptionLink(el ExceptionLevel) uintptr {
	switch el {
	case EL3:
		return uintptr(elrEL3())
	case EL2:
		return uintptr(elrEL2())
	}
	return uintptr(elrEL1())
}

//SetVectorBase writes VBAR_ELx for level el.
func (CPU) SetVectorBase(el ExceptionLevel, base uintptr) {
	switch el {
	case EL3:
		setVBAREL3(base)
	case EL2:
		setVBAREL2(base)
	case EL1:
		setVBAREL1(base)
	}
}

//RouteInterrupts makes SError, FIQ, and IRQ trap to level el.  EL1 is the
//reset routing so there is nothing to do for it.
func (CPU) RouteInterrupts(el ExceptionLevel) {
	switch el {
	case EL3:
		setSCREL3(RouteAtEL3(scrEL3()))
	case EL2:
		setHCREL2(RouteAtEL2(hcrEL2()))
	}
}

//UnmaskInterrupts clears all four DAIF masks.
func (CPU) UnmaskInterrupts() {
	UnmaskDAIF()
}
