package bcm2835

import "grit/src/hardware/register"

// GPIOOffset is the offset of the GPIO block from the start of the peripheral
// window.
const GPIOOffset = 0x00200000

// GPIOPins is the number of GPIO lines on the BCM2837.
const GPIOPins = 54

type GPIORegisterMap struct {
	FuncSelect             [6]register.Shared //0x00,04,08,0C,10, and 14
	OutputSet0             register.WO        //0x1C
	OutputSet1             register.WO        //0x20
	OutputClear0           register.WO        //0x28
	OutputClear1           register.WO        //0x2C
	Level0                 register.RO        //0x34
	Level1                 register.RO        //0x38
	EventDetectStatus0     register.Status    //0x40
	EventDetectStatus1     register.Status    //0x44
	PullUpDownEnable       register.RW        // 0x94
	PullUpDownEnableClock0 register.RW        //0x98
	PullUpDownEnableClock1 register.RW        //0x9C
}

//NewGPIO lays out the GPIO registers starting at base.
func NewGPIO(base uintptr) GPIORegisterMap {
	g := GPIORegisterMap{
		OutputSet0:             register.WO(base + 0x1C),
		OutputSet1:             register.WO(base + 0x20),
		OutputClear0:           register.WO(base + 0x28),
		OutputClear1:           register.WO(base + 0x2C),
		Level0:                 register.RO(base + 0x34),
		Level1:                 register.RO(base + 0x38),
		EventDetectStatus0:     register.Status(base + 0x40),
		EventDetectStatus1:     register.Status(base + 0x44),
		PullUpDownEnable:       register.RW(base + 0x94),
		PullUpDownEnableClock0: register.RW(base + 0x98),
		PullUpDownEnableClock1: register.RW(base + 0x9C),
	}
	for i := range g.FuncSelect {
		g.FuncSelect[i] = register.Shared(base + uintptr(i)*4)
	}
	return g
}

type GPIOMode uint32 //3 bits wide
const GPIOInput GPIOMode = 0
const GPIOOutput GPIOMode = 1
const GPIOAltFunc5 GPIOMode = 2
const GPIOAltFunc4 GPIOMode = 3
const GPIOAltFunc0 GPIOMode = 4
const GPIOAltFunc1 GPIOMode = 5
const GPIOAltFunc2 GPIOMode = 6
const GPIOAltFunc3 GPIOMode = 7

// pull up/down control
const PullNone = 0
const PullDown = 1
const PullUp = 2

func (g GPIORegisterMap) checkPin(op string, pin uint32) bool {
	if pin >= GPIOPins {
		register.Reject(op, uintptr(g.FuncSelect[0]), pin)
		return false
	}
	return true
}

//FuncSelectField returns the three bit mode field for pin.  Ten pins share
//each function select register, so the field is updated atomically.
func (g GPIORegisterMap) FuncSelectField(pin uint32) register.SharedField {
	if !g.checkPin("gpio.fsel", pin) {
		pin = 0
	}
	return g.FuncSelect[pin/10].Field(3, (pin%10)*3)
}

//OutputSetField returns the bit that drives pin high when a one is written.
func (g GPIORegisterMap) OutputSetField(pin uint32) register.WriteOnly {
	if !g.checkPin("gpio.set", pin) {
		pin = 0
	}
	if pin < 32 {
		return g.OutputSet0.Field(1, pin)
	}
	return g.OutputSet1.Field(1, pin-32)
}

//OutputClearField returns the bit that drives pin low when a one is written.
func (g GPIORegisterMap) OutputClearField(pin uint32) register.WriteOnly {
	if !g.checkPin("gpio.clear", pin) {
		pin = 0
	}
	if pin < 32 {
		return g.OutputClear0.Field(1, pin)
	}
	return g.OutputClear1.Field(1, pin-32)
}

//LevelField returns the bit that reports the current level of pin.
func (g GPIORegisterMap) LevelField(pin uint32) register.ReadOnly {
	if !g.checkPin("gpio.level", pin) {
		pin = 0
	}
	if pin < 32 {
		return g.Level0.Field(1, pin)
	}
	return g.Level1.Field(1, pin-32)
}
