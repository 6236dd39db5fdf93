// Command gritimg turns the kernel elf file into the kernel8.img the
// Raspberry Pi firmware loads at 0x80000, and optionally an SD card image to
// boot it from.
//
// The first word of kernel8.img is a branch to the reset entry, the rest is
// the loadable sections at their link addresses.  The kernel must be linked
// with
//
//	go build -ldflags "-E grit/src/boot.reset -T 0x91000" ./src/cmd/grit
package main

import (
	"debug/elf"
	"flag"
	"fmt"
	"os"
	"strings"

	"grit/src/lib/trust"
)

const usageString = `ELF to Raspberry Pi 3 kernel image converter.

Usage: %s [flags] <elffile>

`

var (
	outFlag      = flag.String("o", "", "output image, default is the elf name with .img")
	sdFlag       = flag.String("sd", "", "also write an sd card image to this path")
	sdSizeFlag   = flag.Int64("sd-size", 64, "size of the sd card image in MiB")
	firmwareFlag = flag.String("firmware", "", "directory with bootcode.bin, start.elf and fixup.dat for the sd card image")
	configFlag   = flag.String("config", "", "config.txt for the sd card image, default enables the uart and 64 bit mode")
	runFlag      = flag.String("run", "", "run the image with this command, e.g. \"qemu-system-aarch64 -M raspi3b -serial null -serial stdio -display none -kernel\"")
	verbose      = flag.Int("v", 0, "verbosity level: 0 terse (default), 1 debug info")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, "gritimg")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose > 0 {
		trust.SetLevel(trust.UpTo(trust.DebugMask))
	} else {
		trust.SetLevel(trust.UpTo(trust.WarnMask))
	}
	infile := flag.Arg(0)
	outfile := *outFlag
	if outfile == "" {
		outfile, _ = strings.CutSuffix(infile, ".elf")
		outfile += ".img"
	}

	fp, err := elf.Open(infile)
	if err != nil {
		trust.Fatalf(1, "%v", err)
	}
	defer fp.Close()
	if fp.Machine != elf.EM_AARCH64 {
		trust.Fatalf(1, "%s is for %s, not aarch64", infile, fp.Machine)
	}
	trust.Debugf("opening file %s, entry point is %x", infile, fp.Entry)

	img, vectors, err := kernelImage(fp)
	if err != nil {
		trust.Fatalf(1, "%s: %v", infile, err)
	}
	trust.Debugf("vector table at %#x, image is %d bytes", vectors, len(img))
	if err := os.WriteFile(outfile, img, 0644); err != nil {
		trust.Fatalf(1, "%v", err)
	}

	if *sdFlag != "" {
		files := []bootFile{}
		if *firmwareFlag != "" {
			files, err = readFirmware(*firmwareFlag)
			if err != nil {
				trust.Fatalf(1, "%v", err)
			}
		}
		config := defaultConfig
		if *configFlag != "" {
			data, err := os.ReadFile(*configFlag)
			if err != nil {
				trust.Fatalf(1, "%v", err)
			}
			config = string(data)
		}
		files = append(files,
			bootFile{name: "config.txt", data: []byte(config)},
			bootFile{name: "kernel8.img", data: img})
		if err := writeSDImage(*sdFlag, *sdSizeFlag, files); err != nil {
			trust.Fatalf(1, "sd image: %v", err)
		}
	}

	if *runFlag != "" {
		os.Exit(runKernel(*runFlag, outfile))
	}
}
