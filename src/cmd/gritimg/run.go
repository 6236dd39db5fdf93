package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"github.com/kballard/go-shellquote"

	"grit/src/lib/trust"
	"grit/src/lib/upbeat"
)

// kernelStopped is true for the lines after which the kernel never prints
// again.
func kernelStopped(line string) bool {
	return upbeat.Halts(line)
}

// copyUntilStopped copies lines from r to w and reports whether the kernel
// stopped.
func copyUntilStopped(w io.Writer, r io.Reader) (bool, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fmt.Fprintln(w, scanner.Text())
		if kernelStopped(scanner.Text()) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// runKernel starts the command with the image path appended and copies its
// output until the kernel halts or the command exits.  It returns the exit
// code for gritimg.
func runKernel(cmdline, imagePath string) int {
	args, err := shellquote.Split(cmdline)
	if err != nil {
		trust.Fatalf(1, "run: %v", err)
	}
	if len(args) == 0 {
		trust.Fatalf(1, "run: empty command")
	}
	args = append(args, imagePath)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		trust.Fatalf(1, "open stdout: %v", err)
	}

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)

	if err := cmd.Start(); err != nil {
		trust.Fatalf(1, "start command: %v", err)
	}
	go func() {
		<-sigintr
		stdout.Close()
		cmd.Process.Kill()
	}()

	code := 0
	stopped, err := copyUntilStopped(os.Stdout, stdout)
	if err != nil {
		trust.Warnf("reading output: %v", err)
	}
	if stopped {
		code = 1
		cmd.Process.Kill()
	}
	cmd.Wait()
	return code
}
