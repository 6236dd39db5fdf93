package machine

//Delay burns n iterations of a no-op loop.  It is not calibrated and cannot
//be interrupted early.
//
//go:nosplit
func Delay(n uint32) {
	for n > 0 {
		n--
		spin()
	}
}
