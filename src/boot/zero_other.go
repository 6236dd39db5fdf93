//go:build !arm64

package boot

//ZeroBSS clears every byte of span.
func ZeroBSS(span []byte) {
	for i := range span {
		span[i] = 0
	}
}
