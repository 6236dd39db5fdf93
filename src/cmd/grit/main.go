// Command grit is the kernel.  It is built for the board with
//
//	GOOS=linux GOARCH=arm64 go build -ldflags "-E grit/src/boot.reset -T 0x91000" -o grit.elf ./src/cmd/grit
//
// and turned into kernel8.img with gritimg.  The image starts at 0x80000 with
// a branch to the reset entry; the boot stack grows down from there.
package main

// main is never run, the boot package enters the kernel at kernelMain.
func main() {}
