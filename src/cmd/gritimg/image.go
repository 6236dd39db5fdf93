package main

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"

	"grit/src/exception"
	"grit/src/hardware/rpi"
)

const (
	vectorsSymbol = "grit/src/exception.vectors"
	resetSymbol   = "grit/src/boot.reset"

	// assembly functions carry this suffix in the elf symbol table; the
	// unsuffixed name, when present, is the linker's calling convention
	// wrapper and must not be the entry
	abi0Suffix = ".abi0"

	loadAddress = uint64(rpi.KernelLoadAddress)

	branchOpcode = 0x14000000
	branchRange  = 1 << 27 //+/- 128MiB
)

///////////////////////////////////////////////////////////////////////
// errors from checking the kernel elf file
///////////////////////////////////////////////////////////////////////
type belowLoadErr struct {
	name string
	addr uint64
}

func (b *belowLoadErr) Error() string {
	return fmt.Sprintf("section %s at %#x is below the end of the entry branch at %#x",
		b.name, b.addr, loadAddress+4)
}

type noSymbolErr struct {
	name string
}

func (n *noSymbolErr) Error() string {
	return fmt.Sprintf("symbol %s not found, is this a grit kernel?", n.name)
}

type misalignedVectorsErr struct {
	addr uint64
}

func (m *misalignedVectorsErr) Error() string {
	return fmt.Sprintf("vector table at %#x is not aligned to %d bytes", m.addr, exception.TableAlign)
}

type entryMismatchErr struct {
	entry, reset uint64
}

func (e *entryMismatchErr) Error() string {
	return fmt.Sprintf("elf entry point %#x is not %s at %#x", e.entry, resetSymbol, e.reset)
}

///////////////////////////////////////////////////////////////////////
// loadable is a section that has to be in the image
///////////////////////////////////////////////////////////////////////
type loadable struct {
	name string
	addr uint64
	data []byte
}

func loadables(f *elf.File) ([]loadable, error) {
	result := []loadable{}
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("reading section %s: %w", s.Name, err)
		}
		result = append(result, loadable{name: s.Name, addr: s.Addr, data: data})
	}
	return result, nil
}

// objcopy places each section at its address relative to the load address.
// The first word belongs to the entry branch.
func objcopy(dst io.WriterAt, sects []loadable, load uint64) (uint64, error) {
	end := load + 4
	for _, s := range sects {
		if s.addr < load+4 {
			return 0, &belowLoadErr{name: s.name, addr: s.addr}
		}
		if _, err := dst.WriteAt(s.data, int64(s.addr-load)); err != nil {
			return 0, fmt.Errorf("writing section %s: %w", s.name, err)
		}
		if s.addr+uint64(len(s.data)) > end {
			end = s.addr + uint64(len(s.data))
		}
	}
	return end - load, nil
}

// entryBranch is the "b entry" the firmware executes at the load address.
func entryBranch(entry, load uint64) ([]byte, error) {
	if entry < load || entry-load >= branchRange || entry%4 != 0 {
		return nil, fmt.Errorf("entry point %#x cannot be reached with a branch from %#x", entry, load)
	}
	word := uint32(branchOpcode | ((entry-load)/4)&0x3FFFFFF)
	result := make([]byte, 4)
	binary.LittleEndian.PutUint32(result, word)
	return result, nil
}

// checkSymbols makes sure the elf entry is the reset handler and the vector
// table can be installed in VBAR.
func checkSymbols(entry uint64, syms []elf.Symbol) (uint64, error) {
	vectors := findSymbol(syms, vectorsSymbol)
	reset := findSymbol(syms, resetSymbol)
	if reset == nil {
		return 0, &noSymbolErr{name: resetSymbol}
	}
	if vectors == nil {
		return 0, &noSymbolErr{name: vectorsSymbol}
	}
	if reset.Value != entry {
		return 0, &entryMismatchErr{entry: entry, reset: reset.Value}
	}
	if !exception.Aligned(uintptr(vectors.Value)) {
		return 0, &misalignedVectorsErr{addr: vectors.Value}
	}
	return vectors.Value, nil
}

// findSymbol prefers the assembly (abi0) definition of name.
func findSymbol(syms []elf.Symbol, name string) *elf.Symbol {
	var plain *elf.Symbol
	for i := range syms {
		switch syms[i].Name {
		case name + abi0Suffix:
			return &syms[i]
		case name:
			plain = &syms[i]
		}
	}
	return plain
}

// kernelImage is the whole kernel8.img for f.
func kernelImage(f *elf.File) ([]byte, uint64, error) {
	syms, err := f.Symbols()
	if err != nil {
		return nil, 0, fmt.Errorf("unable to load symbols: %w", err)
	}
	vectors, err := checkSymbols(f.Entry, syms)
	if err != nil {
		return nil, 0, err
	}
	sects, err := loadables(f)
	if err != nil {
		return nil, 0, err
	}
	img, err := buildImage(sects, f.Entry)
	return img, vectors, err
}

func buildImage(sects []loadable, entry uint64) ([]byte, error) {
	branch, err := entryBranch(entry, loadAddress)
	if err != nil {
		return nil, err
	}
	buf := &imageBuffer{}
	size, err := objcopy(buf, sects, loadAddress)
	if err != nil {
		return nil, err
	}
	buf.WriteAt(branch, 0)
	return buf.data[:size], nil
}

// imageBuffer is an io.WriterAt that grows to fit and leaves gaps zero.
type imageBuffer struct {
	data []byte
}

func (b *imageBuffer) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	end := int(off) + len(p)
	if end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}
	copy(b.data[off:], p)
	return len(p), nil
}
