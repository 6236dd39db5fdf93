// Command gritmon watches the serial output of the grit kernel.  Plain lines
// are copied through, lines starting with '#', '@' or '!' are classified, and
// exception reports are decoded back into one line summaries.
//
// The kernel output can come from a pty that qemu created (-p), a serial
// adapter (-serial), or from qemu run by gritmon itself (-qemu):
//
//	gritmon -qemu "qemu-system-aarch64 -M raspi3b -kernel kernel8.img -serial null -serial stdio -display none"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	xterm "golang.org/x/term"

	"grit/src/lib/trust"
)

var helpFlag = flag.Bool("h", false, "get usage info")
var ptyFlag = flag.String("p", "", "read from an existing pseudo TTY, such as the one qemu -serial pty prints")
var serialFlag = flag.String("serial", "", "read from a serial device, such as /dev/ttyUSB0")
var baudFlag = flag.Int("baud", 115200, "baud rate for -serial")
var qemuFlag = flag.String("qemu", "", "run this qemu command line and read its stdio")
var colorFlag = flag.String("color", "auto", "colour reports: auto, always or never")
var haltFlag = flag.Bool("x", false, "exit with status 1 when the kernel halts")
var verbose = flag.Int("v", 0, "verbosity level: 0 terse (default), 1 debug info, 2 show everything ")

func usage() {
	fmt.Fprintf(os.Stderr, "usage: gritmon [flags]\n")
	fmt.Fprintf(os.Stderr, "exactly one of -p, -serial or -qemu is required\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Parse()
	if *helpFlag {
		usage()
	}
	switch *verbose {
	case 0:
		trust.SetLevel(trust.UpTo(trust.WarnMask))
	case 1:
		trust.SetLevel(trust.UpTo(trust.DebugMask))
	default:
		trust.SetLevel(trust.UpTo(trust.StatsMask))
	}

	src, err := openSource()
	if err != nil {
		trust.Fatalf(1, "%v", err)
	}

	color, err := useColor(*colorFlag, xterm.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		trust.Fatalf(1, "%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	m := newMonitor(os.Stdout, trust.Default(), *verbose, color)
	err = m.run(src, *haltFlag)
	m.stats()
	if ctx.Err() == nil {
		src.Close()
	}
	switch {
	case errors.Is(err, errHalted):
		os.Exit(1)
	case err != nil && ctx.Err() == nil:
		trust.Fatalf(1, "%v", err)
	}
}

func openSource() (lineSource, error) {
	count := 0
	for _, s := range []string{*ptyFlag, *serialFlag, *qemuFlag} {
		if s != "" {
			count++
		}
	}
	if count != 1 {
		usage()
	}
	switch {
	case *ptyFlag != "":
		trust.Debugf("reading pty %s", *ptyFlag)
		return newTTYSource(*ptyFlag)
	case *serialFlag != "":
		trust.Debugf("reading %s at %d baud", *serialFlag, *baudFlag)
		return newSerialSource(*serialFlag, *baudFlag)
	}
	trust.Debugf("running %s", *qemuFlag)
	return newQEMUSource(*qemuFlag)
}

func useColor(mode string, isTerminal bool) (bool, error) {
	switch mode {
	case "auto":
		return isTerminal, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	}
	return false, fmt.Errorf("bad -color value %q, expected auto, always or never", mode)
}
