// Package register describes bitfields inside 32 bit memory mapped registers.
//
// Every register address in the address map has exactly one capability type:
// RO, WO, RW, Shared or Status.  A field can only be built from an address of
// the matching type, so a register can never be touched with two different
// access disciplines.  All loads and stores go through sync/atomic so the
// compiler will neither drop nor reorder them.
package register

import (
	"sync/atomic"
	"unsafe"
)

// RO is the address of a register that may only be read.
type RO uintptr

// WO is the address of a register that may only be written.  Writes replace
// the whole word.
type WO uintptr

// RW is the address of a register owned by a single context that is updated
// with read-modify-write.
type RW uintptr

// Shared is the address of a register that is updated from more than one
// context (e.g. the main loop and an exception handler).
type Shared uintptr

// Status is the address of a status register whose bits are cleared by
// writing a one to them.  It is never read-modify-written.
type Status uintptr

type field struct {
	addr   uintptr
	width  uint8
	offset uint8
	mask   uint32 // the bits covered by the field, in place
}

func newField(op string, addr uintptr, width, offset uint32) field {
	if width == 0 || width > 32 || offset >= 32 || offset+width > 32 {
		report(Violation{Kind: BadShape, Op: op, Address: addr, Width: width, Offset: offset})
		return field{addr: addr, offset: uint8(offset & 31)}
	}
	return field{
		addr:   addr,
		width:  uint8(width),
		offset: uint8(offset),
		mask:   uint32(((uint64(1) << width) - 1) << offset),
	}
}

//Address returns the physical address of the register holding the field.
func (f field) Address() uintptr {
	return f.addr
}

//Width returns the number of bits in the field.
func (f field) Width() uint32 {
	return uint32(f.width)
}

//Offset returns the bit position of the least significant bit of the field.
func (f field) Offset() uint32 {
	return uint32(f.offset)
}

//Mask returns the bits of the register covered by the field.
func (f field) Mask() uint32 {
	return f.mask
}

func (f field) word() *uint32 {
	return (*uint32)(unsafe.Pointer(f.addr))
}

func (f field) extract(w uint32) uint32 {
	return (w & f.mask) >> f.offset
}

// fits checks the write precondition value < 2^width and reports a violation
// if it does not hold.
func (f field) fits(op string, value uint32) bool {
	if f.width == 0 || (f.width < 32 && value>>f.width != 0) {
		report(Violation{Kind: TooWide, Op: op, Address: f.addr,
			Width: uint32(f.width), Offset: uint32(f.offset), Value: value})
		return false
	}
	return true
}

// ReadOnly is a field that can only be read.
type ReadOnly struct{ field }

// WriteOnly is a field of a write only register.  Writing it stores the value
// shifted into place and zeros everywhere else.
type WriteOnly struct{ field }

// ReadWrite is a field that is updated with a non-atomic read-modify-write.
type ReadWrite struct{ field }

// SharedField is a field that is updated with an atomic read-modify-write.
type SharedField struct{ field }

// StatusField is a field of a write-one-to-clear status register.
type StatusField struct{ field }

//Field returns the width bit field at offset of the register at a.
func (a RO) Field(width, offset uint32) ReadOnly {
	return ReadOnly{newField("ro.field", uintptr(a), width, offset)}
}

//Word returns the whole register as a single field.
func (a RO) Word() ReadOnly { return a.Field(32, 0) }

//Field returns the width bit field at offset of the register at a.
func (a WO) Field(width, offset uint32) WriteOnly {
	return WriteOnly{newField("wo.field", uintptr(a), width, offset)}
}

//Word returns the whole register as a single field.
func (a WO) Word() WriteOnly { return a.Field(32, 0) }

//Field returns the width bit field at offset of the register at a.
func (a RW) Field(width, offset uint32) ReadWrite {
	return ReadWrite{newField("rw.field", uintptr(a), width, offset)}
}

//Word returns the whole register as a single field.
func (a RW) Word() ReadWrite { return a.Field(32, 0) }

//Field returns the width bit field at offset of the register at a.
func (a Shared) Field(width, offset uint32) SharedField {
	return SharedField{newField("shared.field", uintptr(a), width, offset)}
}

//Word returns the whole register as a single field.
func (a Shared) Word() SharedField { return a.Field(32, 0) }

//Field returns the width bit field at offset of the register at a.
func (a Status) Field(width, offset uint32) StatusField {
	return StatusField{newField("status.field", uintptr(a), width, offset)}
}

//Word returns the whole register as a single field.
func (a Status) Word() StatusField { return a.Field(32, 0) }

//Read returns the current value of the field.
func (f ReadOnly) Read() uint32 {
	return f.extract(atomic.LoadUint32(f.word()))
}

//Write stores value<<offset into the register.  The rest of the word is
//written as zero.
func (f WriteOnly) Write(value uint32) {
	if !f.fits("wo.write", value) {
		return
	}
	atomic.StoreUint32(f.word(), value<<f.offset)
}

//Read returns the current value of the field.
func (f ReadWrite) Read() uint32 {
	return f.extract(atomic.LoadUint32(f.word()))
}

//Write replaces the field with value leaving the other bits of the register
//unchanged.  This is not safe if another context writes the same register.
func (f ReadWrite) Write(value uint32) {
	if !f.fits("rw.write", value) {
		return
	}
	p := f.word()
	w := atomic.LoadUint32(p)
	atomic.StoreUint32(p, w&^f.mask|value<<f.offset)
}

//Read returns the current value of the field.
func (f SharedField) Read() uint32 {
	return f.extract(atomic.LoadUint32(f.word()))
}

//Write replaces the field with value leaving the other bits of the register
//unchanged.  The update is retried until it commits without interference.
func (f SharedField) Write(value uint32) {
	if !f.fits("shared.write", value) {
		return
	}
	p := f.word()
	for {
		old := atomic.LoadUint32(p)
		if atomic.CompareAndSwapUint32(p, old, old&^f.mask|value<<f.offset) {
			return
		}
	}
}

//Read returns the current value of the field.
func (f StatusField) Read() uint32 {
	return f.extract(atomic.LoadUint32(f.word()))
}

//Clear writes value<<offset to the register.  Bits that are one in value are
//acknowledged, bits that are zero are left alone by the hardware.
func (f StatusField) Clear(value uint32) {
	if !f.fits("status.clear", value) {
		return
	}
	atomic.StoreUint32(f.word(), value<<f.offset)
}
