package rpi

//This file is for things that are specific to the *model* Raspberry Pi 3 and
//are different on other rpi models.

// MemoryMappedIO is the ARM physical address of the peripheral window.  The
// same window is at 0x7E000000 on the VideoCore bus.
const MemoryMappedIO = uintptr(0x3F000000)

// BusIO is the VideoCore bus address of the peripheral window, the addresses
// used in the Broadcom datasheet.
const BusIO = uintptr(0x7E000000)

// PeripheralWindow is the size of the peripheral address range.
const PeripheralWindow = uintptr(0x01000000)

// KernelLoadAddress is where the GPU firmware puts kernel8.img.  The boot stack
// grows down from here.
const KernelLoadAddress = uintptr(0x80000)

// InWindow reports whether addr is inside the peripheral window.
func InWindow(addr uintptr) bool {
	return addr >= MemoryMappedIO && addr < MemoryMappedIO+PeripheralWindow
}

// BusToPhysical converts an address from the datasheet into one the ARM can use.
func BusToPhysical(bus uintptr) uintptr {
	return bus - BusIO + MemoryMappedIO
}
