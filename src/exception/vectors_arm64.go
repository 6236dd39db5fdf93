package exception

// implemented in vectors_arm64.s
func vectors()
func exceptionFrame()
func vectorTableBase() uintptr

//VectorTableBase returns the address the vector table was linked at.
func VectorTableBase() uintptr {
	return vectorTableBase()
}
