package machine

import "grit/src/hardware/bcm2835"

// Mode is the function a GPIO pin is connected to.
type Mode = bcm2835.GPIOMode

const (
	Input  = bcm2835.GPIOInput
	Output = bcm2835.GPIOOutput
	Alt0   = bcm2835.GPIOAltFunc0
	Alt1   = bcm2835.GPIOAltFunc1
	Alt2   = bcm2835.GPIOAltFunc2
	Alt3   = bcm2835.GPIOAltFunc3
	Alt4   = bcm2835.GPIOAltFunc4
	Alt5   = bcm2835.GPIOAltFunc5
)

// the pull up/down control signal needs this long to settle
const pullSettle = 150

// GPIO drives the pins of the GPIO block.
type GPIO struct {
	regs bcm2835.GPIORegisterMap
}

//NewGPIO returns a pin driver for the GPIO registers in regs.
func NewGPIO(regs bcm2835.GPIORegisterMap) GPIO {
	return GPIO{regs: regs}
}

//Configure connects pin to the function mode.
func (g GPIO) Configure(pin uint32, mode Mode) {
	g.regs.FuncSelectField(pin).Write(uint32(mode))
}

//Mode returns the function pin is currently connected to.
func (g GPIO) Mode(pin uint32) Mode {
	return Mode(g.regs.FuncSelectField(pin).Read())
}

//Set drives pin high.
func (g GPIO) Set(pin uint32) {
	g.regs.OutputSetField(pin).Write(1)
}

//Clear drives pin low.
func (g GPIO) Clear(pin uint32) {
	g.regs.OutputClearField(pin).Write(1)
}

//Level reports if pin reads high.
func (g GPIO) Level(pin uint32) bool {
	return g.regs.LevelField(pin).Read() == 1
}

//SetPull sets the pull up/down resistors of the pins in mask, which are pins
//0 through 31.  This is the control/clock sequence from the datasheet.
func (g GPIO) SetPull(mask uint32, pull uint32) {
	g.regs.PullUpDownEnable.Field(2, 0).Write(pull)
	Delay(pullSettle)
	g.regs.PullUpDownEnableClock0.Word().Write(mask)
	Delay(pullSettle)
	g.regs.PullUpDownEnable.Field(2, 0).Write(bcm2835.PullNone)
	g.regs.PullUpDownEnableClock0.Word().Write(0) //flush gpio setup
}
