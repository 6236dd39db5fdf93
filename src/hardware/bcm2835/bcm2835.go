package bcm2835

import "grit/src/hardware/rpi"

// The hardware instances of each register map.  These are plain constants so
// nothing has to run before the first register access.
const (
	AuxBase                 = rpi.MemoryMappedIO + AuxOffset
	GPIOBase                = rpi.MemoryMappedIO + GPIOOffset
	SysTimerBase            = rpi.MemoryMappedIO + SysTimerOffset
	InterruptControllerBase = rpi.MemoryMappedIO + InterruptControllerOffset
)

//Aux returns the mini UART and SPI register map of the board.
func Aux() AuxPeripheralsRegisterMap { return NewAux(AuxBase) }

//GPIO returns the GPIO register map of the board.
func GPIO() GPIORegisterMap { return NewGPIO(GPIOBase) }

//SysTimer returns the system timer register map of the board.
func SysTimer() SysTimerRegisterMap { return NewSystemTimer(SysTimerBase) }

//InterruptController returns the ARM interrupt controller register map of the board.
func InterruptController() IRQRegisterMap { return NewInterruptController(InterruptControllerBase) }
