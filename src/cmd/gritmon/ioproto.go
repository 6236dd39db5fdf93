package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"syscall"

	pty "github.com/aymanbagabas/go-pty"
	"github.com/kballard/go-shellquote"
	tty "github.com/mattn/go-tty"
	"github.com/pkg/term"

	"grit/src/lib/trust"
)

////////////////////////////////////////////////////////////////////////////////
// lineSource is where the kernel's serial output comes from: a pseudo terminal
// created by qemu (-serial pty), a real serial adapter, or qemu itself run
// inside a pty we own.
////////////////////////////////////////////////////////////////////////////////
type lineSource interface {
	ReadLine() (string, error)
	Close() error
}

// maxLine is longer than anything the kernel prints
const maxLine = 512

///////////////////////////////////////////////////////////////////////
// lineReader is the byte at a time line splitter shared by the sources
///////////////////////////////////////////////////////////////////////
type lineReader struct {
	in   *bufio.Reader
	data [maxLine]byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{in: bufio.NewReader(r)}
}

func (l *lineReader) ReadLine() (string, error) {
	count := 0
	dropped := 0
	for {
		c, err := l.in.ReadByte()
		if err != nil {
			if count > 0 && errors.Is(err, io.EOF) {
				return string(l.data[:count]), nil
			}
			return "", err
		}
		switch {
		case c < 32 && c != 10:
			continue
		case c == 10:
			if dropped != 0 {
				trust.Warnf("dropped %d characters from line", dropped)
			}
			return string(l.data[:count]), nil
		default:
			if count == len(l.data) {
				dropped++
				continue
			}
			l.data[count] = c
			count++
		}
	}
}

///////////////////////////////////////////////////////////////////////
// ttySource reads a pty that already exists, e.g. the one qemu prints
// when started with -serial pty
///////////////////////////////////////////////////////////////////////
type ttySource struct {
	*lineReader
	io      *tty.TTY
	restore func() error
}

func newTTYSource(devTTYPath string) (*ttySource, error) {
	ttyObj, err := tty.OpenDevice(devTTYPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devTTYPath, err)
	}
	restore := ttyObj.MustRaw()
	return &ttySource{lineReader: newLineReader(ttyObj.Input()), io: ttyObj, restore: restore}, nil
}

func (t *ttySource) Close() error {
	if err := t.restore(); err != nil {
		trust.Warnf("unable to restore %s: %v", t.io.Input().Name(), err)
	}
	return t.io.Close()
}

///////////////////////////////////////////////////////////////////////
// serialSource is a usb serial adapter wired to GPIO 14/15
///////////////////////////////////////////////////////////////////////
type serialSource struct {
	*lineReader
	port *term.Term
}

func newSerialSource(dev string, baud int) (*serialSource, error) {
	port, err := term.Open(dev, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open %s at %d baud: %w", dev, baud, err)
	}
	return &serialSource{lineReader: newLineReader(port), port: port}, nil
}

func (s *serialSource) Close() error {
	return s.port.Close()
}

///////////////////////////////////////////////////////////////////////
// qemuSource runs an emulator with its serial port on stdio, inside a pty
// so that it line buffers like a terminal
///////////////////////////////////////////////////////////////////////
type qemuSource struct {
	*lineReader
	pty pty.Pty
	cmd *pty.Cmd
}

func newQEMUSource(cmdline string) (*qemuSource, error) {
	args, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("qemu command line: %w", err)
	}
	if len(args) == 0 {
		return nil, errors.New("qemu command line is empty")
	}
	p, err := pty.New()
	if err != nil {
		return nil, fmt.Errorf("create pty: %w", err)
	}
	cmd := p.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		p.Close()
		return nil, fmt.Errorf("start %s: %w", args[0], err)
	}
	return &qemuSource{lineReader: newLineReader(p), pty: p, cmd: cmd}, nil
}

// the pty reports EIO rather than EOF once the emulator has gone
func (q *qemuSource) ReadLine() (string, error) {
	line, err := q.lineReader.ReadLine()
	if errors.Is(err, syscall.EIO) {
		return "", io.EOF
	}
	return line, err
}

func (q *qemuSource) Close() error {
	if q.cmd.Process != nil {
		q.cmd.Process.Kill()
	}
	q.cmd.Wait()
	return q.pty.Close()
}
