package exception

import (
	"io"

	arm "grit/src/hardware/arm-cortex-a53"
	"grit/src/hardware/bcm2835"
	"grit/src/lib/upbeat"
)

// CPU is the part of the processor the dispatcher needs.  arm_cortex_a53.CPU
// is the real one.
type CPU interface {
	CurrentEL() arm.ExceptionLevel
	Syndrome(el arm.ExceptionLevel) uint64
	FaultAddress(el arm.ExceptionLevel) uintptr
	ExceptionLink(el arm.ExceptionLevel) uintptr
	SetVectorBase(el arm.ExceptionLevel, base uintptr)
	RouteInterrupts(el arm.ExceptionLevel)
	UnmaskInterrupts()
}

// Dispatcher reports every exception that comes through the vector table and
// acknowledges the system timer.  It runs with interrupts masked and does not
// allocate.
type Dispatcher struct {
	CPU     CPU
	Base    uintptr //where the vector table is
	IC      bcm2835.IRQRegisterMap
	Timer   bcm2835.SysTimerRegisterMap
	Console io.Writer //nil for no output
	Halt    func()

	// MaxRepeats stops the core when a synchronous exception comes back this
	// many times in a row from the same address.  Zero means never stop.
	MaxRepeats int

	line     upbeat.Line
	lastLink uintptr
	repeats  int
}

var installed *Dispatcher

//Install makes d the handler for the vector table.  Until something is
//installed exceptions are silently ignored.
//
//go:nosplit
func Install(d *Dispatcher) {
	installed = d
}

// dispatch is called by exceptionFrame with its return address.
func dispatch(link uintptr) {
	if installed != nil {
		installed.Dispatch(link)
	}
}

//Dispatch handles one exception.  link is an address inside the vector table
//entry the hardware entered through.
func (d *Dispatcher) Dispatch(link uintptr) {
	entry, ok := EntryIndex(link, d.Base)
	if !ok {
		d.emit(d.start().String(upbeat.ReportUnknown))
		d.emit(d.start().String(upbeat.FieldLink).Hex(uint64(link), 16))
		d.emit(d.start().String(upbeat.ReportEnd))
		return
	}
	class := ClassOf(entry)
	el := d.CPU.CurrentEL()
	esr := arm.Syndrome(d.CPU.Syndrome(el))
	elr := d.CPU.ExceptionLink(el)

	d.emit(d.start().String(upbeat.ReportStart).Decimal(uint64(entry)).
		String(" (").String(class.String()).String(", ").String(OriginOf(entry).String()).String(")"))
	d.emit(d.start().String(upbeat.FieldLink).Hex(uint64(link), 16))
	d.emit(d.start().String(upbeat.FieldSyndrome).Hex(uint64(esr), 8).
		String(" class ").Binary(uint64(esr.Class()), 6).
		String(" (").String(upbeat.ExceptionClassName(esr.Class())).String(")").
		String(" il ").Decimal(uint64(esr.InstructionLength())))
	d.emit(d.start().String(upbeat.FieldFaultAddress).Hex(uint64(d.CPU.FaultAddress(el)), 16))
	d.emit(d.start().String(upbeat.FieldExceptionLink).Hex(uint64(elr), 16))

	if class == IRQ {
		d.serviceIRQ()
	}
	if class == Synchronous && d.repeated(elr) {
		d.emit(d.start().String(upbeat.ReportHalt))
		d.halt()
		return
	}
	d.emit(d.start().String(upbeat.ReportEnd))
}

// serviceIRQ reports the pending interrupts and acknowledges the timer.
func (d *Dispatcher) serviceIRQ() {
	basic := d.IC.BasicPending.Word().Read()
	d.emit(d.start().String(upbeat.FieldBasicPending).Binary(uint64(basic), 1))
	if basic&bcm2835.BasicPending1 != 0 {
		pending := d.IC.Pending1.Word()
		p1 := pending.Read()
		pending.Clear(p1)
		d.emit(d.start().String(upbeat.FieldPending1).Binary(uint64(p1), 1))
		if p1&bcm2835.SystemTimerIRQ1 != 0 {
			cs := d.Timer.ControlStatus.Word().Read()
			d.Timer.Match(1).Clear(1)
			d.emit(d.start().String(upbeat.FieldTimerStatus).Binary(uint64(cs), 1))
		}
	}
	if basic&bcm2835.BasicPending2 != 0 {
		p2 := d.IC.Pending2.Word().Read()
		d.emit(d.start().String(upbeat.FieldPending2).Binary(uint64(p2), 1))
	}
}

// repeated counts synchronous exceptions that resume at the same address.
func (d *Dispatcher) repeated(elr uintptr) bool {
	if d.repeats > 0 && elr == d.lastLink {
		d.repeats++
	} else {
		d.lastLink = elr
		d.repeats = 1
	}
	return d.MaxRepeats > 0 && d.repeats > d.MaxRepeats
}

func (d *Dispatcher) start() *upbeat.Line {
	d.line.Reset()
	return &d.line
}

func (d *Dispatcher) emit(l *upbeat.Line) {
	if d.Console == nil {
		return
	}
	l.String("\n")
	_, _ = d.Console.Write(l.Bytes())
}

func (d *Dispatcher) halt() {
	if d.Halt != nil {
		d.Halt()
		return
	}
	for {
	}
}
