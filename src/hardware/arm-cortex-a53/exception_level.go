package arm_cortex_a53

// ExceptionLevel is the privilege level the processor is running at.
type ExceptionLevel uint8

const (
	EL0 ExceptionLevel = iota
	EL1
	EL2
	EL3
)

func (e ExceptionLevel) String() string {
	switch e {
	case EL0:
		return "EL0"
	case EL1:
		return "EL1"
	case EL2:
		return "EL2"
	case EL3:
		return "EL3"
	}
	return "EL?"
}

//DecodeCurrentEL converts the raw value of the CurrentEL register (level in
//bits 3:2) to an ExceptionLevel.
func DecodeCurrentEL(raw uint64) ExceptionLevel {
	return ExceptionLevel((raw >> 2) & 3)
}

//CoreID extracts the core number from the value of MPIDR_EL1.
func CoreID(mpidr uint64) uint64 {
	return mpidr & CoreIDMask
}

// Syndrome is the value of an ESR_ELx register.
type Syndrome uint64

//Class is the exception class, bits 31:26.
func (s Syndrome) Class() uint32 {
	return uint32(s>>26) & 0x3F
}

//InstructionLength is bit 25: 1 for a 32 bit instruction, 0 for 16 bit.
func (s Syndrome) InstructionLength() uint32 {
	return uint32(s>>25) & 1
}

//ISS is the instruction specific syndrome, bits 24:0.
func (s Syndrome) ISS() uint32 {
	return uint32(s) & 0x1FFFFFF
}

//RouteAtEL3 returns the value of SCR_EL3 with SError, FIQ, and IRQ taken at EL3.
func RouteAtEL3(scr uint64) uint64 {
	return scr | SecureConfigurationRegisterRouteAll
}

//RouteAtEL2 returns the value of HCR_EL2 with SError, FIQ, and IRQ taken at EL2.
func RouteAtEL2(hcr uint64) uint64 {
	return hcr | HypervisorConfigurationRegisterRouteAll
}
