package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"grit/src/lib/trust"
	"grit/src/lib/upbeat"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
)

var errHalted = errors.New("kernel halted")

///////////////////////////////////////////////////////////////////////
// monitor classifies each line from the kernel and decodes exception
// reports back into a one line summary
///////////////////////////////////////////////////////////////////////
type monitor struct {
	out     io.Writer
	log     *trust.Logger
	verbose int
	color   bool

	scanner upbeat.ReportScanner

	lines   int
	reports int
	ticks   int
	errors  int
	halted  bool
}

func newMonitor(out io.Writer, log *trust.Logger, verbose int, color bool) *monitor {
	return &monitor{out: out, log: log, verbose: verbose, color: color}
}

func (m *monitor) paint(color, s string) string {
	if !m.color {
		return s
	}
	return color + s + colorReset
}

func (m *monitor) handleLine(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	m.lines++
	report, inReport, err := m.scanner.Scan(line)
	if err != nil {
		m.log.Warnf("line %d: %v", m.lines, err)
	}
	if inReport {
		if m.verbose > 1 {
			fmt.Fprintf(m.out, "    %s\n", line)
		}
		if report != nil {
			m.handleReport(report)
		}
		return
	}
	switch line[0] {
	case upbeat.PrefixComment:
		fmt.Fprintf(m.out, "### %s\n", line[1:])
	case upbeat.PrefixDebug:
		if m.verbose > 0 {
			fmt.Fprintf(m.out, "@@@ %s\n", line[1:])
		}
	case upbeat.PrefixError:
		m.errors++
		fmt.Fprintln(m.out, m.paint(colorRed, "!!! "+line[1:]))
		m.halted = true // the firmware halts after every error line
	default:
		fmt.Fprintln(m.out, line)
	}
}

func (m *monitor) handleReport(r *upbeat.Report) {
	m.reports++
	if r.Halted {
		m.halted = true
	}
	switch {
	case r.Halted || r.Unknown:
		fmt.Fprintln(m.out, m.paint(colorRed, "*** "+r.Summary()))
	case r.Class == "irq":
		m.ticks++
		if m.verbose > 0 {
			fmt.Fprintln(m.out, m.paint(colorCyan, "*** "+r.Summary()))
		}
	default:
		fmt.Fprintln(m.out, m.paint(colorYellow, "*** "+r.Summary()))
	}
}

//run reads lines until the source is exhausted.  It returns errHalted if
//the kernel stopped and exitOnHalt is set.
func (m *monitor) run(src lineSource, exitOnHalt bool) error {
	for {
		line, err := src.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading kernel output: %w", err)
		}
		m.handleLine(line)
		if m.halted && exitOnHalt {
			return errHalted
		}
	}
}

func (m *monitor) stats() {
	m.log.Statsf("monitor", "%d lines, %d reports (%d timer interrupts), %d errors",
		m.lines, m.reports, m.ticks, m.errors)
}
