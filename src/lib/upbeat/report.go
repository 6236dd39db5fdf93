package upbeat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// The text of an exception report as the firmware prints it.  A report starts
// with ReportStart, has one line per field, and ends with ReportEnd (or
// ReportHalt when the core gives up).
const (
	ReportStart        = "exception "
	ReportUnknown      = "exception from outside the vector table"
	ReportEnd          = "exception handled"
	ReportHalt         = "exception repeated, halting"
	FieldLink          = "- link register: "
	FieldSyndrome      = "- syndrome: "
	FieldFaultAddress  = "- fault address: "
	FieldExceptionLink = "- exception link: "
	FieldBasicPending  = "- irq basic pending: "
	FieldPending1      = "  - irq pending 1: "
	FieldTimerStatus   = "  - timer status: "
	FieldPending2      = "  - irq pending 2: "
)

// Lines from the firmware that start with one of these are log lines rather
// than report lines.
const (
	PrefixComment = '#'
	PrefixDebug   = '@'
	PrefixError   = '!'
)

// Halts reports if the firmware stops the core after printing line.  Every
// error line it prints is followed by a halt, as is a repeated exception.
func Halts(line string) bool {
	line = strings.TrimRight(line, "\r")
	return line == ReportHalt || (len(line) > 0 && line[0] == PrefixError)
}

// Report is an exception report read back from the serial line.
type Report struct {
	Entry         int
	Class         string
	Origin        string
	Link          uint64
	Syndrome      uint64
	ExceptionCode uint32
	ClassName     string
	IL            uint32
	FaultAddress  uint64
	ExceptionLink uint64

	HasIRQ       bool
	BasicPending uint64
	Pending1     *uint64
	TimerStatus  *uint64
	Pending2     *uint64

	Unknown bool //the link was not inside the vector table
	Halted  bool
}

var ErrNotInReport = errors.New("field line outside of an exception report")

// ReportScanner rebuilds reports from the lines of a serial log.
type ReportScanner struct {
	current *Report
}

//InReport is true between the first and last line of a report.
func (s *ReportScanner) InReport() bool {
	return s.current != nil
}

//Scan takes the next line.  It returns a report when line completes one, and
//reports whether line belonged to a report at all.
func (s *ReportScanner) Scan(line string) (*Report, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == ReportEnd || line == ReportHalt:
		if s.current == nil {
			return nil, true, ErrNotInReport
		}
		r := s.current
		r.Halted = line == ReportHalt
		s.current = nil
		return r, true, nil
	case line == ReportUnknown:
		s.current = &Report{Entry: -1, Unknown: true}
		return nil, true, nil
	case strings.HasPrefix(line, ReportStart):
		r, err := parseHeader(line)
		if err != nil {
			return nil, false, err
		}
		s.current = r
		return nil, true, nil
	}
	if s.current == nil {
		return nil, false, nil
	}
	if err := s.field(line); err != nil {
		return nil, true, err
	}
	return nil, true, nil
}

// exception 5 (irq, current el spx)
func parseHeader(line string) (*Report, error) {
	rest := strings.TrimPrefix(line, ReportStart)
	num, desc, ok := strings.Cut(rest, " (")
	if !ok || !strings.HasSuffix(desc, ")") {
		return nil, fmt.Errorf("bad report header %q", line)
	}
	entry, err := strconv.Atoi(num)
	if err != nil {
		return nil, fmt.Errorf("bad entry number in %q: %w", line, err)
	}
	class, origin, _ := strings.Cut(strings.TrimSuffix(desc, ")"), ", ")
	return &Report{Entry: entry, Class: class, Origin: origin}, nil
}

func (s *ReportScanner) field(line string) error {
	r := s.current
	number := func(prefix string) (uint64, error) {
		v, err := strconv.ParseUint(strings.TrimPrefix(line, prefix), 0, 64)
		if err != nil {
			return 0, fmt.Errorf("bad value in %q: %w", line, err)
		}
		return v, nil
	}
	var err error
	switch {
	case strings.HasPrefix(line, FieldLink):
		r.Link, err = number(FieldLink)
	case strings.HasPrefix(line, FieldSyndrome):
		err = r.parseSyndrome(strings.TrimPrefix(line, FieldSyndrome))
	case strings.HasPrefix(line, FieldFaultAddress):
		r.FaultAddress, err = number(FieldFaultAddress)
	case strings.HasPrefix(line, FieldExceptionLink):
		r.ExceptionLink, err = number(FieldExceptionLink)
	case strings.HasPrefix(line, FieldBasicPending):
		r.HasIRQ = true
		r.BasicPending, err = number(FieldBasicPending)
	case strings.HasPrefix(line, FieldPending1):
		var v uint64
		v, err = number(FieldPending1)
		r.Pending1 = &v
	case strings.HasPrefix(line, FieldTimerStatus):
		var v uint64
		v, err = number(FieldTimerStatus)
		r.TimerStatus = &v
	case strings.HasPrefix(line, FieldPending2):
		var v uint64
		v, err = number(FieldPending2)
		r.Pending2 = &v
	default:
		return fmt.Errorf("unexpected line in exception report: %q", line)
	}
	return err
}

// 0x96000045 class 0b100101 (data abort from same exception level) il 1
func (r *Report) parseSyndrome(s string) error {
	fields := strings.Fields(s)
	if len(fields) < 5 || fields[1] != "class" || fields[len(fields)-2] != "il" {
		return fmt.Errorf("bad syndrome %q", s)
	}
	var err error
	if r.Syndrome, err = strconv.ParseUint(fields[0], 0, 64); err != nil {
		return fmt.Errorf("bad syndrome value %q: %w", fields[0], err)
	}
	ec, err := strconv.ParseUint(fields[2], 0, 8)
	if err != nil {
		return fmt.Errorf("bad exception class %q: %w", fields[2], err)
	}
	r.ExceptionCode = uint32(ec)
	il, err := strconv.ParseUint(fields[len(fields)-1], 0, 1)
	if err != nil {
		return fmt.Errorf("bad il bit %q: %w", fields[len(fields)-1], err)
	}
	r.IL = uint32(il)
	name := strings.Join(fields[3:len(fields)-2], " ")
	r.ClassName = strings.TrimSuffix(strings.TrimPrefix(name, "("), ")")
	return nil
}

//Summary is a one line description of the report.
func (r *Report) Summary() string {
	if r.Unknown {
		return fmt.Sprintf("exception outside the vector table, link %#x", r.Link)
	}
	s := fmt.Sprintf("%s from %s at %#x", r.Class, r.Origin, r.ExceptionLink)
	if r.Class == "sync" {
		s += fmt.Sprintf(": %s (fault address %#x)", r.ClassName, r.FaultAddress)
	}
	if r.TimerStatus != nil {
		s += fmt.Sprintf(", timer status %#b", *r.TimerStatus)
	}
	if r.Halted {
		s += ", core halted"
	}
	return s
}
