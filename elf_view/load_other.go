//go:build !unix

package main

func loadFile(path string, cfg *config) ([]byte, func() error, error) {
	return readFile(path, cfg)
}
