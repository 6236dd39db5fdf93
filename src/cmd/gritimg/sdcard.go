package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/diskfs/go-diskfs/filesystem/fat32"
	"github.com/diskfs/go-diskfs/partition/mbr"

	"grit/src/lib/trust"
)

const (
	sectorSize     = 512
	partitionStart = 2048 //1MiB, where the usual tools put it
	volumeLabel    = "BOOT"
)

// the mini uart divisor assumes a 250MHz core clock
const defaultConfig = `arm_64bit=1
kernel=kernel8.img
enable_uart=1
core_freq=250
`

// firmwareFiles are what the GPU needs from the boot partition before it will
// load kernel8.img
var firmwareFiles = []string{"bootcode.bin", "start.elf", "fixup.dat"}

type bootFile struct {
	name string
	data []byte
}

// readFirmware loads the firmware files from dir.  Missing files are only a
// warning since qemu does not need them.
func readFirmware(dir string) ([]bootFile, error) {
	result := []bootFile{}
	for _, name := range firmwareFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			trust.Warnf("firmware file %s not found in %s", name, dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading firmware: %w", err)
		}
		result = append(result, bootFile{name: name, data: data})
	}
	return result, nil
}

// writeSDImage creates a raw disk image with one FAT32 partition holding files.
func writeSDImage(path string, sizeMiB int64, files []bootFile) error {
	size := sizeMiB * 1024 * 1024
	sectors := size / sectorSize
	if sectors <= partitionStart {
		return fmt.Errorf("sd image of %dMiB is too small", sizeMiB)
	}

	img, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer img.Close()
	if err := img.Truncate(size); err != nil {
		return fmt.Errorf("sizing %s: %w", path, err)
	}

	table := &mbr.Table{
		LogicalSectorSize:  sectorSize,
		PhysicalSectorSize: sectorSize,
		Partitions: []*mbr.Partition{
			{
				Bootable: true,
				Type:     mbr.Fat32LBA,
				Start:    partitionStart,
				Size:     uint32(sectors - partitionStart),
			},
		},
	}
	if err := table.Write(img, size); err != nil {
		return fmt.Errorf("partitioning %s: %w", path, err)
	}

	partSize := (sectors - partitionStart) * sectorSize
	bootfs, err := fat32.Create(img, partSize, partitionStart*sectorSize, sectorSize, volumeLabel)
	if err != nil {
		return fmt.Errorf("formatting %s: %w", path, err)
	}

	for _, f := range files {
		out, err := bootfs.OpenFile("/"+f.name, os.O_CREATE|os.O_RDWR)
		if err != nil {
			return fmt.Errorf("creating %s in image: %w", f.name, err)
		}
		if _, err := out.Write(f.data); err != nil {
			return fmt.Errorf("writing %s in image: %w", f.name, err)
		}
		trust.Debugf("wrote %s (%d bytes) to %s", f.name, len(f.data), path)
	}
	return img.Sync()
}
