package arm_cortex_a53

// These are implemented in sysreg_arm64.s.  The banked registers of a level
// may only be touched when running at that level or higher.

//go:nosplit
func currentEL() uint64

//go:nosplit
func MPIDR() uint64

//go:nosplit
func esrEL1() uint64

//go:nosplit
func esrEL2() uint64

//go:nosplit
func esrEL3() uint64

//go:nosplit
func farEL1() uint64

//go:nosplit
func farEL2() uint64

//go:nosplit
func farEL3() uint64

//go:nosplit
func elrEL1() uint64

//go:nosplit
func elrEL2() uint64

//go:nosplit
func elrEL3() uint64

//go:nosplit
func setVBAREL1(base uintptr)

//go:nosplit
func setVBAREL2(base uintptr)

//go:nosplit
func setVBAREL3(base uintptr)

//go:nosplit
func scrEL3() uint64

//go:nosplit
func setSCREL3(v uint64)

//go:nosplit
func hcrEL2() uint64

//go:nosplit
func setHCREL2(v uint64)

// MaskDAIF sets the value of the four D-A-I-F interupt masking on the ARM
//
//go:nosplit
func MaskDAIF()

// UnmaskDAIF clears the four D-A-I-F interupt masks on the ARM
//
//go:nosplit
func UnmaskDAIF()

// WaitForEvent puts the core to sleep until an event or interrupt arrives.
//
//go:nosplit
func WaitForEvent()

// Nop executes a single no-op instruction the compiler cannot remove.
//
//go:nosplit
func Nop()
