package trust

import (
	"bytes"
	"testing"
)

func TestMasking(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.SetLevel(ErrorMask | WarnMask)
	l.Infof("hidden %d", 1)
	l.Debugf("hidden")
	l.Warnf("shown %d", 2)
	l.Errorf("shown")
	want := " WARN:shown 2\nERROR:shown\n"
	if buf.String() != want {
		t.Errorf("expected %q but got %q", want, buf.String())
	}
}

func TestStatsCategory(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Statsf("uart", "%d bytes", 42)
	if buf.String() != "STATS[uart]:42 bytes\n" {
		t.Errorf("unexpected stats line %q", buf.String())
	}
}

func TestFatalNotMaskable(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	code := -1
	l.exit = func(c int) { code = c }
	l.SetLevel(ErrorMask)
	buf.Reset()
	l.Fatalf(3, "bad %s", "thing")
	if code != 3 {
		t.Errorf("expected exit code 3 but got %d", code)
	}
	if buf.String() != "FATAL:bad thing\n" {
		t.Errorf("unexpected fatal line %q", buf.String())
	}
}

func TestUpTo(t *testing.T) {
	if got := UpTo(InfoMask); got != ErrorMask|WarnMask|InfoMask {
		t.Errorf("expected error|warn|info but got %s", LevelToString(got))
	}
	if got := LevelToString(UpTo(StatsMask)); got != "error warn info debug stats" {
		t.Errorf("unexpected level string %q", got)
	}
	if SetLevel(UpTo(DebugMask)) == Nothing {
		t.Errorf("default logger should start with levels on")
	}
	SetLevel(UpTo(StatsMask))
}
