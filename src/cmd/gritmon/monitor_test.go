package main

import (
	"errors"
	"io"
	"strings"
	"testing"

	"grit/src/lib/trust"
)

var syncReport = []string{
	"exception 4 (sync, current el spx)",
	"- link register: 0x0000000000080a08",
	"- syndrome: 0x96000045 class 0b100101 (data abort from same exception level) il 1",
	"- fault address: 0x00000000dead0000",
	"- exception link: 0x0000000000081234",
}

var irqReport = []string{
	"exception 5 (irq, current el spx)",
	"- link register: 0x0000000000080a88",
	"- syndrome: 0x00000000 class 0b000000 (unused exception code) il 0",
	"- fault address: 0x0000000000000000",
	"- exception link: 0x0000000000081000",
	"- irq basic pending: 0b1100000000",
	"  - irq pending 1: 0b10",
	"  - timer status: 0b10",
	"exception handled",
}

type sliceSource struct {
	lines []string
	err   error
}

func (s *sliceSource) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, nil
}

func (s *sliceSource) Close() error { return nil }

func newTestMonitor(verbose int) (*monitor, *strings.Builder, *strings.Builder) {
	var out, log strings.Builder
	return newMonitor(&out, trust.New(&log), verbose, false), &out, &log
}

func join(parts ...[]string) []string {
	var result []string
	for _, p := range parts {
		result = append(result, p...)
	}
	return result
}

func TestPlainAndPrefixedLines(t *testing.T) {
	m, out, _ := newTestMonitor(0)
	for _, l := range []string{"Hello World!\r", "#booted", "@debugging", "!vector table is not aligned", ""} {
		m.handleLine(l)
	}
	expected := "Hello World!\n### booted\n!!! vector table is not aligned\n"
	if out.String() != expected {
		t.Errorf("expected %q but got %q", expected, out.String())
	}
	if m.errors != 1 || m.lines != 4 {
		t.Errorf("expected 1 error in 4 lines but got %d in %d", m.errors, m.lines)
	}
	if !m.halted {
		t.Errorf("an error line from the firmware should mark the kernel halted")
	}

	m, out, _ = newTestMonitor(1)
	m.handleLine("@debugging")
	if out.String() != "@@@ debugging\n" {
		t.Errorf("expected debug line at verbose 1 but got %q", out.String())
	}
}

func TestSyncReportSummary(t *testing.T) {
	m, out, log := newTestMonitor(0)
	src := &sliceSource{lines: join(syncReport, []string{"exception handled", "Hello World!"})}
	if err := m.run(src, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "*** sync from current el spx at 0x81234: data abort from same exception level (fault address 0xdead0000)\nHello World!\n"
	if out.String() != expected {
		t.Errorf("expected %q but got %q", expected, out.String())
	}
	if m.reports != 1 || m.halted {
		t.Errorf("expected one report and no halt but got %d, %v", m.reports, m.halted)
	}
	if log.Len() != 0 {
		t.Errorf("expected no warnings but got %q", log.String())
	}
}

func TestIRQReportsAreCounted(t *testing.T) {
	m, out, _ := newTestMonitor(0)
	src := &sliceSource{lines: join(irqReport, irqReport)}
	if err := m.run(src, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected timer interrupts to be quiet at verbose 0 but got %q", out.String())
	}
	if m.ticks != 2 {
		t.Errorf("expected 2 ticks but got %d", m.ticks)
	}

	m, out, _ = newTestMonitor(2)
	m.run(&sliceSource{lines: irqReport}, false)
	if !strings.Contains(out.String(), "    - irq basic pending: 0b1100000000\n") {
		t.Errorf("expected raw report lines at verbose 2, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "*** irq from current el spx at 0x81000, timer status 0b10\n") {
		t.Errorf("expected irq summary at verbose 2, got:\n%s", out.String())
	}
}

func TestHaltStopsRun(t *testing.T) {
	m, out, _ := newTestMonitor(0)
	src := &sliceSource{lines: join(syncReport, []string{"exception repeated, halting", "never read"})}
	err := m.run(src, true)
	if !errors.Is(err, errHalted) {
		t.Fatalf("expected errHalted but got %v", err)
	}
	if !strings.HasSuffix(out.String(), ", core halted\n") {
		t.Errorf("expected halted summary but got %q", out.String())
	}
	if len(src.lines) != 1 {
		t.Errorf("expected run to stop at the halt, %d lines left", len(src.lines))
	}

	m, _, _ = newTestMonitor(0)
	src = &sliceSource{lines: []string{"!fatal: kernel main returned", "more"}}
	if err := m.run(src, true); !errors.Is(err, errHalted) {
		t.Errorf("expected a fatal line to halt but got %v", err)
	}

	m, _, _ = newTestMonitor(0)
	src = &sliceSource{lines: []string{
		"interrupt vector table at 0x0000000000080100",
		"!vector table is not aligned to 2048 bytes, low bits 0x100",
		"never read",
	}}
	if err := m.run(src, true); !errors.Is(err, errHalted) {
		t.Errorf("expected a misaligned table to halt but got %v", err)
	}
	if len(src.lines) != 1 {
		t.Errorf("expected run to stop at the alignment error, %d lines left", len(src.lines))
	}
}

func TestReadErrorsAreWrapped(t *testing.T) {
	m, _, _ := newTestMonitor(0)
	boom := errors.New("boom")
	err := m.run(&sliceSource{err: boom}, false)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped read error but got %v", err)
	}
}

func TestStrayReportLinesWarn(t *testing.T) {
	m, out, log := newTestMonitor(0)
	m.handleLine("exception handled")
	if !strings.Contains(log.String(), "WARN:") {
		t.Errorf("expected a warning but got %q", log.String())
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing printed but got %q", out.String())
	}
}

func TestColor(t *testing.T) {
	var out strings.Builder
	m := newMonitor(&out, trust.New(&out), 0, true)
	m.handleLine("!oops")
	if out.String() != colorRed+"!!! oops"+colorReset+"\n" {
		t.Errorf("expected red error line but got %q", out.String())
	}
	for _, c := range []struct {
		mode     string
		terminal bool
		expected bool
	}{
		{"auto", true, true},
		{"auto", false, false},
		{"always", false, true},
		{"never", true, false},
	} {
		got, err := useColor(c.mode, c.terminal)
		if err != nil || got != c.expected {
			t.Errorf("%s/%v: expected %v but got %v (%v)", c.mode, c.terminal, c.expected, got, err)
		}
	}
	if _, err := useColor("purple", true); err == nil {
		t.Errorf("expected an error for a bad colour mode")
	}
}

func TestLineReader(t *testing.T) {
	r := newLineReader(strings.NewReader("one\r\n\x07two\nlast"))
	for _, expected := range []string{"one", "two", "last"} {
		got, err := r.ReadLine()
		if err != nil || got != expected {
			t.Errorf("expected %q but got %q (%v)", expected, got, err)
		}
	}
	if _, err := r.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF but got %v", err)
	}

	long := strings.Repeat("x", maxLine+10) + "\n"
	r = newLineReader(strings.NewReader(long))
	got, _ := r.ReadLine()
	if len(got) != maxLine {
		t.Errorf("expected a line of %d but got %d", maxLine, len(got))
	}
}
