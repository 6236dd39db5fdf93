// Package boot takes the primary core from reset to the kernel's main
// function: park the other cores, set up a stack, zero the bss, hand off.
// Nothing here may allocate or depend on package initialisation; none of it
// has happened yet.
package boot

import (
	arm "grit/src/hardware/arm-cortex-a53"
	"grit/src/hardware/register"
	"grit/src/lib/upbeat"
)

// StackTop is the initial stack pointer.  The stack grows down from the
// address the kernel image is loaded at.
const StackTop = 0x80000

// Console is where fatal errors are written.  The mini uart satisfies it.
// Write errors are ignored: the core halts whether or not the report got out.
type Console interface {
	Write(b []byte) (int, error)
	WriteString(s string) (int, error)
}

var console Console

// halt is replaced in tests
var halt = Halt

//SetConsole installs the console used to report fatal errors.  Before it is
//called fatal errors halt silently.
//
//go:nosplit
func SetConsole(c Console) {
	console = c
}

//IsPrimary reports if the core with this MPIDR_EL1 value is the one that
//boots; the others are parked.
//
//go:nosplit
func IsPrimary(mpidr uint64) bool {
	return arm.CoreID(mpidr) == 0
}

//Fatal reports msg on the console, if there is one, and halts the core.  It
//never returns.
func Fatal(msg string) {
	if console != nil {
		_, _ = console.WriteString("!fatal: ")
		_, _ = console.WriteString(msg)
		_, _ = console.WriteString("\n")
	}
	halt()
}

var violationLine upbeat.Line

//FatalViolation is the firmware's register violation handler.  It describes
//the bad field access without allocating and halts.
func FatalViolation(v register.Violation) {
	l := &violationLine
	l.Reset()
	l.String("register ").String(v.Op).String(" at ").Hex(uint64(v.Address), 8)
	switch v.Kind {
	case register.BadShape:
		l.String(": bad field width ").Decimal(uint64(v.Width)).String(" offset ").Decimal(uint64(v.Offset))
	case register.TooWide:
		l.String(": value ").Hex(uint64(v.Value), 8).String(" wider than ").Decimal(uint64(v.Width)).String(" bits")
	case register.OutOfRange:
		l.String(": index ").Decimal(uint64(v.Value)).String(" out of range")
	}
	if console != nil {
		_, _ = console.WriteString("!fatal: ")
		_, _ = console.Write(l.Bytes())
		_, _ = console.WriteString("\n")
	}
	halt()
}
