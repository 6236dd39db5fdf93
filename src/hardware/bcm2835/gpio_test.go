package bcm2835

import (
	"testing"

	"grit/src/hardware/register"
)

const fakeBase = uintptr(0x1000)

func checkField(t *testing.T, name string, addr uintptr, width, offset uint32, wantByte uintptr, wantBit, wantWidth uint32) {
	t.Helper()
	if addr-fakeBase != wantByte {
		t.Errorf("%s: expected byte offset %d but got %d", name, wantByte, addr-fakeBase)
	}
	if offset != wantBit {
		t.Errorf("%s: expected bit offset %d but got %d", name, wantBit, offset)
	}
	if width != wantWidth {
		t.Errorf("%s: expected width %d but got %d", name, wantWidth, width)
	}
}

func TestPin29(t *testing.T) {
	g := NewGPIO(fakeBase)
	f := g.FuncSelectField(29)
	checkField(t, "fsel", f.Address(), f.Width(), f.Offset(), 8, 27, 3)
	s := g.OutputSetField(29)
	checkField(t, "set", s.Address(), s.Width(), s.Offset(), 28, 29, 1)
	c := g.OutputClearField(29)
	checkField(t, "clear", c.Address(), c.Width(), c.Offset(), 40, 29, 1)
	l := g.LevelField(29)
	checkField(t, "level", l.Address(), l.Width(), l.Offset(), 0x34, 29, 1)
}

func TestHighBankPins(t *testing.T) {
	g := NewGPIO(fakeBase)
	f := g.FuncSelectField(47)
	checkField(t, "fsel 47", f.Address(), f.Width(), f.Offset(), 16, 21, 3)
	s := g.OutputSetField(47)
	checkField(t, "set 47", s.Address(), s.Width(), s.Offset(), 0x20, 15, 1)
	c := g.OutputClearField(32)
	checkField(t, "clear 32", c.Address(), c.Width(), c.Offset(), 0x2C, 0, 1)
	f = g.FuncSelectField(14)
	checkField(t, "fsel 14", f.Address(), f.Width(), f.Offset(), 4, 12, 3)
}

func TestBadPinRejected(t *testing.T) {
	var seen []register.Violation
	prev := register.SetViolationHandler(func(v register.Violation) { seen = append(seen, v) })
	defer register.SetViolationHandler(prev)

	g := NewGPIO(fakeBase)
	g.FuncSelectField(54)
	g.OutputSetField(60)
	if len(seen) != 2 {
		t.Fatalf("expected 2 violations but got %d", len(seen))
	}
	if seen[0].Kind != register.OutOfRange || seen[0].Value != 54 {
		t.Errorf("unexpected violation %+v", seen[0])
	}
}

func TestRegisterMapLayout(t *testing.T) {
	ic := NewInterruptController(fakeBase)
	if uintptr(ic.Pending1)-fakeBase != 0x04 || uintptr(ic.EnableBasic)-fakeBase != 0x18 ||
		uintptr(ic.DisableBasic)-fakeBase != 0x24 {
		t.Errorf("interrupt controller layout is wrong: %+v", ic)
	}
	st := NewSystemTimer(fakeBase)
	if uintptr(st.FreeRunningLower32)-fakeBase != 0x04 || uintptr(st.Compare3)-fakeBase != 0x18 {
		t.Errorf("system timer layout is wrong: %+v", st)
	}
	m := st.Match(1)
	if m.Offset() != 1 || m.Width() != 1 || m.Address() != fakeBase {
		t.Errorf("match 1 field is wrong: offset %d width %d", m.Offset(), m.Width())
	}
	aux := NewAux(fakeBase)
	if uintptr(aux.MiniUARTData)-fakeBase != 0x40 || uintptr(aux.MiniUARTBAUD)-fakeBase != 0x68 ||
		uintptr(aux.MiniUARTExtraStatus)-fakeBase != 0x64 {
		t.Errorf("aux layout is wrong: %+v", aux)
	}
	if InterruptControllerBase != 0x3F00B200 || SysTimerBase != 0x3F003000 ||
		AuxBase != 0x3F215000 || GPIOBase != 0x3F200000 {
		t.Errorf("peripheral bases are wrong")
	}
}
