package main

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEntryBranch(t *testing.T) {
	for _, c := range []struct {
		entry    uint64
		expected uint32
	}{
		{0x80004, 0x14000001},
		{0x90000, 0x14004000},
		{0x80000 + 0x7FFFFFC, 0x15FFFFFF},
	} {
		b, err := entryBranch(c.entry, loadAddress)
		if err != nil {
			t.Errorf("entry %#x: unexpected error %v", c.entry, err)
			continue
		}
		if got := binary.LittleEndian.Uint32(b); got != c.expected {
			t.Errorf("entry %#x: expected %#x but got %#x", c.entry, c.expected, got)
		}
	}
	for _, bad := range []uint64{0x7FFFC, 0x90002, 0x80000 + branchRange} {
		if _, err := entryBranch(bad, loadAddress); err == nil {
			t.Errorf("entry %#x: expected an error", bad)
		}
	}
}

func TestBuildImage(t *testing.T) {
	sects := []loadable{
		{name: ".rodata", addr: 0x90010, data: []byte{5, 6}},
		{name: ".text", addr: 0x90000, data: []byte{1, 2, 3, 4}},
	}
	img, err := buildImage(sects, 0x90000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(img) != 0x10012 {
		t.Fatalf("expected image of %#x bytes but got %#x", 0x10012, len(img))
	}
	if got := binary.LittleEndian.Uint32(img); got != 0x14004000 {
		t.Errorf("expected branch 0x14004000 but got %#x", got)
	}
	if !bytes.Equal(img[0x10000:0x10004], []byte{1, 2, 3, 4}) {
		t.Errorf("expected text at 0x10000 but got %v", img[0x10000:0x10004])
	}
	if !bytes.Equal(img[0x10010:], []byte{5, 6}) {
		t.Errorf("expected rodata at 0x10010 but got %v", img[0x10010:])
	}
	for i := 4; i < 0x10000; i++ {
		if img[i] != 0 {
			t.Fatalf("expected gap to be zero, byte %#x is %d", i, img[i])
		}
	}
}

func TestBuildImageRejectsLowSections(t *testing.T) {
	sects := []loadable{{name: ".text", addr: 0x80000, data: []byte{1}}}
	_, err := buildImage(sects, 0x90000)
	var below *belowLoadErr
	if !errors.As(err, &below) {
		t.Fatalf("expected belowLoadErr but got %v", err)
	}
	if below.name != ".text" {
		t.Errorf("expected .text in error but got %s", below.name)
	}
}

func TestCheckSymbols(t *testing.T) {
	// names and layout as the linker emits them for the kernel
	syms := []elf.Symbol{
		{Name: "runtime.text", Value: 0x91000},
		{Name: resetSymbol + ".abi0", Value: 0xfbf30},
		{Name: resetSymbol, Value: 0xfbfa0},
		{Name: vectorsSymbol + ".abi0", Value: 0xfd800},
	}
	v, err := checkSymbols(0xfbf30, syms)
	if err != nil || v != 0xfd800 {
		t.Errorf("expected vectors at 0xfd800 but got %#x (%v)", v, err)
	}

	// the wrapper is not the reset handler
	_, err = checkSymbols(0xfbfa0, syms)
	var mismatch *entryMismatchErr
	if !errors.As(err, &mismatch) {
		t.Errorf("expected entryMismatchErr but got %v", err)
	}

	syms[3].Value = 0xfd880
	_, err = checkSymbols(0xfbf30, syms)
	var misaligned *misalignedVectorsErr
	if !errors.As(err, &misaligned) {
		t.Errorf("expected misalignedVectorsErr but got %v", err)
	} else if !strings.Contains(err.Error(), "2048") {
		t.Errorf("expected alignment in message but got %q", err.Error())
	}

	_, err = checkSymbols(0xfbf30, syms[:3])
	var missing *noSymbolErr
	if !errors.As(err, &missing) || missing.name != vectorsSymbol {
		t.Errorf("expected missing %s but got %v", vectorsSymbol, err)
	}
}

func TestCheckSymbolsUnsuffixed(t *testing.T) {
	syms := []elf.Symbol{
		{Name: resetSymbol, Value: 0x91400},
		{Name: vectorsSymbol, Value: 0x91800},
	}
	v, err := checkSymbols(0x91400, syms)
	if err != nil || v != 0x91800 {
		t.Errorf("expected vectors at 0x91800 but got %#x (%v)", v, err)
	}
}

// kernelELF is a minimal aarch64 executable laid out like a linked kernel:
// one text section at 0x91000 and the symbols gritimg looks for.
func kernelELF(t *testing.T, entry uint64, text []byte, syms map[string]uint64) string {
	t.Helper()
	const textAddr = 0x91000
	le := binary.LittleEndian

	strtab := []byte{0}
	var symtab bytes.Buffer
	binary.Write(&symtab, le, elf.Sym64{})
	for name, value := range syms {
		binary.Write(&symtab, le, elf.Sym64{
			Name:  uint32(len(strtab)),
			Info:  elf.ST_INFO(elf.STB_GLOBAL, elf.STT_FUNC),
			Shndx: 1,
			Value: value,
		})
		strtab = append(strtab, name...)
		strtab = append(strtab, 0)
	}
	shstrtab := []byte("\x00.text\x00.symtab\x00.strtab\x00.shstrtab\x00")

	const ehsize = 64
	textOff := uint64(ehsize)
	symOff := textOff + uint64(len(text))
	strOff := symOff + uint64(symtab.Len())
	shstrOff := strOff + uint64(len(strtab))
	shOff := (shstrOff + uint64(len(shstrtab)) + 7) &^ 7

	var out bytes.Buffer
	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_AARCH64),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     entry,
		Shoff:     shOff,
		Ehsize:    ehsize,
		Phentsize: 56,
		Shentsize: 64,
		Shnum:     5,
		Shstrndx:  4,
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	binary.Write(&out, le, hdr)
	out.Write(text)
	out.Write(symtab.Bytes())
	out.Write(strtab)
	out.Write(shstrtab)
	out.Write(make([]byte, shOff-uint64(out.Len())))

	for _, sh := range []elf.Section64{
		{},
		{Name: 1, Type: uint32(elf.SHT_PROGBITS), Flags: uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Addr: textAddr, Off: textOff, Size: uint64(len(text)), Addralign: 16},
		{Name: 7, Type: uint32(elf.SHT_SYMTAB), Off: symOff, Size: uint64(symtab.Len()),
			Link: 3, Info: 1, Addralign: 8, Entsize: 24},
		{Name: 15, Type: uint32(elf.SHT_STRTAB), Off: strOff, Size: uint64(len(strtab)), Addralign: 1},
		{Name: 23, Type: uint32(elf.SHT_STRTAB), Off: shstrOff, Size: uint64(len(shstrtab)), Addralign: 1},
	} {
		binary.Write(&out, le, sh)
	}

	path := filepath.Join(t.TempDir(), "grit.elf")
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		t.Fatalf("writing elf: %v", err)
	}
	return path
}

func TestKernelImageFromELF(t *testing.T) {
	text := make([]byte, 0x1000)
	for i := range text {
		text[i] = byte(i)
	}
	path := kernelELF(t, 0x91100, text, map[string]uint64{
		resetSymbol + ".abi0":   0x91100,
		resetSymbol:             0x91200,
		vectorsSymbol + ".abi0": 0x91800,
	})
	f, err := elf.Open(path)
	if err != nil {
		t.Fatalf("unable to open elf: %v", err)
	}
	defer f.Close()

	img, vectors, err := kernelImage(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors != 0x91800 {
		t.Errorf("expected vectors at 0x91800 but got %#x", vectors)
	}
	if len(img) != 0x12000 {
		t.Fatalf("expected image of %#x bytes but got %#x", 0x12000, len(img))
	}
	// b +0x11100
	if got := binary.LittleEndian.Uint32(img); got != 0x14004440 {
		t.Errorf("expected branch 0x14004440 but got %#x", got)
	}
	if !bytes.Equal(img[0x11000:], text) {
		t.Errorf("text is not at offset 0x11000")
	}
}

func TestKernelImageWrapperEntry(t *testing.T) {
	path := kernelELF(t, 0x91200, make([]byte, 0x1000), map[string]uint64{
		resetSymbol + ".abi0":   0x91100,
		resetSymbol:             0x91200,
		vectorsSymbol + ".abi0": 0x91800,
	})
	f, err := elf.Open(path)
	if err != nil {
		t.Fatalf("unable to open elf: %v", err)
	}
	defer f.Close()
	_, _, err = kernelImage(f)
	var mismatch *entryMismatchErr
	if !errors.As(err, &mismatch) {
		t.Errorf("expected entryMismatchErr but got %v", err)
	}
}

func TestKernelStopped(t *testing.T) {
	for _, c := range []struct {
		line     string
		expected bool
	}{
		{"exception repeated, halting\r", true},
		{"!fatal: kernel main returned", true},
		{"!vector table is not aligned to 2048 bytes, low bits 0x100", true},
		{"exception handled", false},
		{"Hello World!", false},
	} {
		if got := kernelStopped(c.line); got != c.expected {
			t.Errorf("%q: expected %v but got %v", c.line, c.expected, got)
		}
	}

	var out bytes.Buffer
	stopped, err := copyUntilStopped(&out, strings.NewReader("one\n!fatal: x\nthree\n"))
	if err != nil || !stopped {
		t.Errorf("expected stop without error but got %v, %v", stopped, err)
	}
	if out.String() != "one\n!fatal: x\n" {
		t.Errorf("expected output up to the fatal line but got %q", out.String())
	}
}
