package upbeat

// LineMax is the longest line a Line can hold.
const LineMax = 128

// Line builds one line of diagnostic text in a fixed buffer.  It never
// allocates, so it is safe to use inside an exception handler.  Text that does
// not fit is dropped.
type Line struct {
	buf [LineMax]byte
	n   int
}

func (l *Line) Reset() {
	l.n = 0
}

func (l *Line) Bytes() []byte {
	return l.buf[:l.n]
}

func (l *Line) Len() int {
	return l.n
}

func (l *Line) put(c byte) {
	if l.n < len(l.buf) {
		l.buf[l.n] = c
		l.n++
	}
}

func (l *Line) String(s string) *Line {
	for i := 0; i < len(s); i++ {
		l.put(s[i])
	}
	return l
}

//Hex appends v as 0x followed by exactly digits hex digits.
func (l *Line) Hex(v uint64, digits int) *Line {
	const nibbles = "0123456789abcdef"
	l.put('0')
	l.put('x')
	for i := digits - 1; i >= 0; i-- {
		l.put(nibbles[(v>>(uint(i)*4))&0xf])
	}
	return l
}

//Binary appends v as 0b followed by at least digits binary digits.
func (l *Line) Binary(v uint64, digits int) *Line {
	n := 1
	for v>>n != 0 && n < 64 {
		n++
	}
	if digits > n {
		n = digits
	}
	l.put('0')
	l.put('b')
	for i := n - 1; i >= 0; i-- {
		l.put(byte('0' + (v>>uint(i))&1))
	}
	return l
}

func (l *Line) Decimal(v uint64) *Line {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	for ; i < len(tmp); i++ {
		l.put(tmp[i])
	}
	return l
}
