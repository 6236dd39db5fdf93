package machine

import arm "grit/src/hardware/arm-cortex-a53"

//go:nosplit
func spin() {
	arm.Nop()
}
