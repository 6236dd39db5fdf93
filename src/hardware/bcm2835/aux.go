package bcm2835

import "grit/src/hardware/register"

// AuxOffset is the offset of the auxiliary peripherals (mini UART and the two
// SPI masters) from the start of the peripheral window.
const AuxOffset = 0x00215000

type AuxPeripheralsRegisterMap struct {
	InterruptStatus           register.RO     //0x00
	Enables                   register.Shared //0x04
	MiniUARTData              register.WO     //0x40, 8 bits wide
	MiniUARTInterruptEnable   register.RW     //0x44
	MiniUARTInterruptIdentify register.RW     //0x48
	MiniUARTLineControl       register.WO     //0x4C
	MiniUARTModemControl      register.RW     //0x50
	MiniUARTLineStatus        register.RO     //0x54, readonly
	MiniUARTModemStatus       register.RO     //0x58, readonly
	MiniUARTScratch           register.RW     //0x5C
	MiniUARTExtraControl      register.WO     //0x60
	MiniUARTExtraStatus       register.RO     //0x64
	MiniUARTBAUD              register.RW     //0x68
}

//NewAux lays out the auxiliary peripheral registers starting at base.
func NewAux(base uintptr) AuxPeripheralsRegisterMap {
	return AuxPeripheralsRegisterMap{
		InterruptStatus:           register.RO(base + 0x00),
		Enables:                   register.Shared(base + 0x04),
		MiniUARTData:              register.WO(base + 0x40),
		MiniUARTInterruptEnable:   register.RW(base + 0x44),
		MiniUARTInterruptIdentify: register.RW(base + 0x48),
		MiniUARTLineControl:       register.WO(base + 0x4C),
		MiniUARTModemControl:      register.RW(base + 0x50),
		MiniUARTLineStatus:        register.RO(base + 0x54),
		MiniUARTModemStatus:       register.RO(base + 0x58),
		MiniUARTScratch:           register.RW(base + 0x5C),
		MiniUARTExtraControl:      register.WO(base + 0x60),
		MiniUARTExtraStatus:       register.RO(base + 0x64),
		MiniUARTBAUD:              register.RW(base + 0x68),
	}
}

// MiniUARTBaud115200 is the divisor for 115200 baud with a 250MHz core clock:
// 250000000/(8*(270+1)).
const MiniUARTBaud115200 = 270

// mini uart: peripheral enable
const PeripheralMiniUART = 1 << 0

// mini uart: extra control bitfields
const ReceiveEnable = 1 << 0
const TransmitEnable = 1 << 1

// mini uart: line control register bitfields
//https://elinux.org/BCM2835_datasheet_errata
const DataLength8Bits = 3 << 0

// mini uart: interrupt identify register, FIFO clear bits
const ClearReceiveFIFO = 1 << 1  //Write
const ClearTransmitFIFO = 1 << 2 //Write

// mini uart: extra status register bitfields
const ExtraStatusTransmitterIdle = 1 << 3

// mini uart: line status register bitfields
const TransmitFIFOSpaceAvailable = 1 << 5
