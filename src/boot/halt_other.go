//go:build !arm64

package boot

//Halt has no core to stop off the board.
func Halt() {
	panic("boot: halt")
}
