package upbeat

//ExceptionClassName returns a short description of an ESR exception class
//(bits 31:26 of the syndrome).
func ExceptionClassName(exceptionClass uint32) string {
	switch exceptionClass {
	case 0:
		return "unknown exception"
	case 1:
		return "trapped wfe or wfi instruction"
	case 3:
		return "trapped mcr or mrc access"
	case 4:
		return "trapped mrrc or mcrr access"
	case 5:
		return "trapped mrc or mcr access"
	case 6:
		return "trapped ldc or stc access"
	case 7:
		return "access to sve, advanced simd or fp functionality"
	case 12:
		return "trapped mrrc access"
	case 13:
		return "branch target exception"
	case 14:
		return "illegal execution state"
	case 17:
		return "svc instruction in aarch32"
	case 21:
		return "svc instruction in aarch64"
	case 22:
		return "hvc instruction in aarch64"
	case 23:
		return "smc instruction in aarch64"
	case 24:
		return "trapped msr, mrs or system instruction in aarch64"
	case 25:
		return "access to sve functionality"
	case 32:
		return "instruction abort from lower exception level"
	case 33:
		return "instruction abort from same exception level"
	case 34:
		return "pc alignment fault"
	case 36:
		return "data abort from lower exception level"
	case 37:
		return "data abort from same exception level"
	case 38:
		return "sp alignment fault"
	case 40:
		return "trapped floating point exception from aarch32"
	case 44:
		return "trapped floating point exception from aarch64"
	case 47:
		return "serror exception"
	case 48:
		return "breakpoint from lower exception level"
	case 49:
		return "breakpoint from same exception level"
	case 50:
		return "software step from lower exception level"
	case 51:
		return "software step from same exception level"
	case 52:
		return "watchpoint from lower exception level"
	case 53:
		return "watchpoint from same exception level"
	case 56:
		return "bkpt from aarch32"
	case 60:
		return "brk from aarch64"
	}
	return "unused exception code"
}
