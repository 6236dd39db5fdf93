package register

// ViolationKind says which precondition of a field was broken.
type ViolationKind uint8

const (
	// BadShape means the field does not fit in a 32 bit word.
	BadShape ViolationKind = iota + 1
	// TooWide means a value did not fit in the width of the field.
	TooWide
	// OutOfRange means an index used to locate a field (e.g. a pin number)
	// is past the end of the register bank.
	OutOfRange
)

// Violation describes a broken precondition.  These are programming errors,
// the write that caused it is never performed.
type Violation struct {
	Kind    ViolationKind
	Op      string
	Address uintptr
	Width   uint32
	Offset  uint32
	Value   uint32
}

func (v Violation) Error() string {
	s := "register: " + v.Op + " at 0x" + hex(uint64(v.Address), 8)
	switch v.Kind {
	case BadShape:
		return s + ": field of width " + decimal(v.Width) + " at offset " + decimal(v.Offset) + " does not fit in 32 bits"
	case TooWide:
		return s + ": value 0x" + hex(uint64(v.Value), 8) + " does not fit in " + decimal(v.Width) + " bits"
	case OutOfRange:
		return s + ": index " + decimal(v.Value) + " is out of range"
	}
	return s + ": unknown violation"
}

var handler func(Violation)

//SetViolationHandler installs the function that is called when a field is used
//incorrectly and returns the previous one.  The firmware installs a handler
//that prints the violation and halts.  With no handler a violation panics.
//
//go:nosplit
func SetViolationHandler(fn func(Violation)) func(Violation) {
	prev := handler
	handler = fn
	return prev
}

//Reject reports that index is not valid for the register bank at addr.  It is
//for code that computes fields from an index.
func Reject(op string, addr uintptr, index uint32) {
	report(Violation{Kind: OutOfRange, Op: op, Address: addr, Value: index})
}

func report(v Violation) {
	if handler == nil {
		panic(v)
	}
	handler(v)
}

// these avoid fmt so the package carries no init work onto the firmware
func hex(v uint64, digits int) string {
	const nibbles = "0123456789abcdef"
	var buf [16]byte
	for i := digits - 1; i >= 0; i-- {
		buf[i] = nibbles[v&0xf]
		v >>= 4
	}
	return string(buf[:digits])
}

func decimal(v uint32) string {
	var buf [10]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return string(buf[i:])
}
