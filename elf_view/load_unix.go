//go:build unix

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Returns the content of the file at path. The file is mapped read-only
// unless cfg disables it. The returned function unmaps the file; the slice
// must not be used after calling it.
func loadFile(path string, cfg *config) ([]byte, func() error, error) {
	if !cfg.mmap {
		return readFile(path, cfg)
	}
	f, e := os.Open(path)
	if e != nil {
		return nil, nil, e
	}
	defer f.Close()
	info, e := f.Stat()
	if e != nil {
		return nil, nil, e
	}
	if e = checkSize(path, info.Size(), cfg.maxSize); e != nil {
		return nil, nil, e
	}
	// Empty files and special files can't be mapped.
	if (info.Size() == 0) || !info.Mode().IsRegular() {
		return readFile(path, cfg)
	}
	data, e := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ,
		unix.MAP_SHARED)
	if e != nil {
		return nil, nil, fmt.Errorf("Failed mapping %s: %w", path, e)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
