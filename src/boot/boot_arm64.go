package boot

import (
	"unsafe"

	arm "grit/src/hardware/arm-cortex-a53"
)

// bootg stands in for the runtime's goroutine descriptor.  It is zeroed by
// reset before the first Go function runs, so every stack check passes.
var bootg [128]uint64

// implemented in reset_arm64.s
func reset()
func zeroRange(start, end uintptr)

//ZeroBSS clears every byte of span with plain stores.  It shares its loop
//with reset, which clears the real bss before any Go code runs: with the
//MMU off all memory is Device memory and the runtime's memclr (DC ZVA)
//faults there.
//
//go:nosplit
func ZeroBSS(span []byte) {
	start := uintptr(unsafe.Pointer(unsafe.SliceData(span)))
	zeroRange(start, start+uintptr(len(span)))
}

// application is the kernel's entry point.
//
//go:linkname application main.kernelMain
func application()

// stageOne runs on the boot stack with g set and the bss clear but nothing
// else initialised.
//
//go:nosplit
func stageOne() {
	application()
	Fatal("kernel main returned")
}

//Halt stops the core for good in a low power wait loop.
//
//go:nosplit
func Halt() {
	for {
		arm.WaitForEvent()
	}
}
