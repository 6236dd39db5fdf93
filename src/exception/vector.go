// Package exception installs the exception vector table and reports the
// exceptions that come through it.
package exception

// Layout of the vector table.  The hardware enters at
// base + origin*OriginStride + class*EntrySize.
const (
	EntrySize    = 128
	OriginStride = 4 * EntrySize
	Entries      = 16
	TableSize    = Entries * EntrySize
	TableAlign   = 2048
)

// Class is the kind of event that caused an exception.
type Class uint8

const (
	Synchronous Class = iota
	IRQ
	FIQ
	SError
)

func (c Class) String() string {
	switch c {
	case Synchronous:
		return "sync"
	case IRQ:
		return "irq"
	case FIQ:
		return "fiq"
	case SError:
		return "serror"
	}
	return "unknown"
}

// Origin is where the processor was running when the exception was taken.
type Origin uint8

const (
	CurrentSP0 Origin = iota
	CurrentSPx
	LowerAArch64
	LowerAArch32
)

func (o Origin) String() string {
	switch o {
	case CurrentSP0:
		return "current el sp0"
	case CurrentSPx:
		return "current el spx"
	case LowerAArch64:
		return "lower el aarch64"
	case LowerAArch32:
		return "lower el aarch32"
	}
	return "unknown"
}

//Aligned reports if base can be used as a vector table base (low 11 bits zero).
func Aligned(base uintptr) bool {
	return base&(TableAlign-1) == 0
}

//EntryIndex recovers the entry (0-15) that an address inside the table
//belongs to.  The second result is false if link is outside the table.
func EntryIndex(link, base uintptr) (int, bool) {
	if link < base || link >= base+TableSize {
		return -1, false
	}
	return int((link - base) / EntrySize), true
}

//ClassOf returns the class of the event handled by entry.
func ClassOf(entry int) Class {
	return Class(entry % 4)
}

//OriginOf returns the origin of the event handled by entry.
func OriginOf(entry int) Origin {
	return Origin(entry / 4)
}

//EntryAddress returns where the hardware enters the table for o and c.
func EntryAddress(base uintptr, o Origin, c Class) uintptr {
	return base + uintptr(o)*OriginStride + uintptr(c)*EntrySize
}
