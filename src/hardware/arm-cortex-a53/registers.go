package arm_cortex_a53

// ***************************************
// HCR_EL2, Hypervisor Configuration Register (EL2), Page 2487 of AArch64-Reference-Manual.
// ***************************************

const HypervisorConfigurationRegisterRW = (1 << 31)
const HypervisorConfigurationRegisterValue = HypervisorConfigurationRegisterRW //0x80000000

// ***************************************
// SCR_EL3, Secure Configuration Register (EL3), Page 2648 of AArch64-Reference-Manual.
// ***************************************

const SecureConfigurationRegisterReserved = (3 << 4)
const SecureConfigurationRegisterRW = (1 << 10)
const SecureConfigurationRegisterNS = (1 << 0)
const SecureConfigurationRegisterValue = //0x30 | 0x400 | 0x1 => 0x431
SecureConfigurationRegisterReserved |
	SecureConfigurationRegisterRW |
	SecureConfigurationRegisterNS

// routing bits of SCR_EL3: take external aborts/SError, FIQ, and IRQ at EL3
const SecureConfigurationRegisterIRQ = (1 << 1)
const SecureConfigurationRegisterFIQ = (1 << 2)
const SecureConfigurationRegisterEA = (1 << 3)
const SecureConfigurationRegisterRouteAll = SecureConfigurationRegisterEA | //0b1110
	SecureConfigurationRegisterFIQ |
	SecureConfigurationRegisterIRQ

// routing bits of HCR_EL2: take physical FIQ, IRQ, and SError at EL2
const HypervisorConfigurationRegisterFMO = (1 << 3)
const HypervisorConfigurationRegisterIMO = (1 << 4)
const HypervisorConfigurationRegisterAMO = (1 << 5)
const HypervisorConfigurationRegisterRouteAll = HypervisorConfigurationRegisterAMO |
	HypervisorConfigurationRegisterIMO |
	HypervisorConfigurationRegisterFMO //0x38

// ***************************************
// MPIDR_EL1, Multiprocessor Affinity Register.
// ***************************************

const CoreIDMask = 0x3 //four cores on the cortex-a53 cluster
