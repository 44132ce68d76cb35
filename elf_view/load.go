package main

import (
	"errors"
	"fmt"
	"os"
)

var errTooLarge = errors.New("input too large")

func checkSize(path string, size, limit int64) error {
	if size > limit {
		return fmt.Errorf("%w: %s is %d bytes, the limit is %d", errTooLarge,
			path, size, limit)
	}
	return nil
}

// Reads the whole file into memory. Used when mapping is disabled or not
// available.
func readFile(path string, cfg *config) ([]byte, func() error, error) {
	info, e := os.Stat(path)
	if e != nil {
		return nil, nil, e
	}
	if e = checkSize(path, info.Size(), cfg.maxSize); e != nil {
		return nil, nil, e
	}
	raw, e := os.ReadFile(path)
	if e != nil {
		return nil, nil, e
	}
	return raw, func() error { return nil }, nil
}
