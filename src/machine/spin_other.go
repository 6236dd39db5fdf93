//go:build !arm64

package machine

//go:noinline
func spin() {}
