package elf_decoder

import (
	"fmt"
)

// Reads consecutive fixed-width fields from a byte slice. The first read that
// would run past the end of the data records the cursor's overrun error, and
// every read after that returns 0, so a sequence of reads only needs a single
// error check at the end.
type cursor struct {
	data    []byte
	offset  int
	order   ByteOrder
	overrun error
	err     error
}

func newCursor(data []byte, offset int, order ByteOrder,
	overrun error) *cursor {
	return &cursor{
		data:    data,
		offset:  offset,
		order:   order,
		overrun: overrun,
	}
}

// Returns the next n bytes and advances past them, or nil if fewer than n
// bytes remain.
func (c *cursor) next(n int) []byte {
	if c.err != nil {
		return nil
	}
	if (c.offset < 0) || (n > len(c.data)-c.offset) {
		c.err = fmt.Errorf("%w: %d-byte read at offset 0x%x, only %d bytes "+
			"available", c.overrun, n, c.offset, len(c.data))
		return nil
	}
	b := c.data[c.offset : c.offset+n]
	c.offset += n
	return b
}

func (c *cursor) uint8() uint8 {
	b := c.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *cursor) uint16() uint16 {
	b := c.next(2)
	if b == nil {
		return 0
	}
	return c.order.Uint16(b)
}

func (c *cursor) uint32() uint32 {
	b := c.next(4)
	if b == nil {
		return 0
	}
	return c.order.Uint32(b)
}

func (c *cursor) uint64() uint64 {
	b := c.next(8)
	if b == nil {
		return 0
	}
	return c.order.Uint64(b)
}

// Reads an address-sized field: 4 bytes for 32-bit files and 8 for 64-bit
// files.
func readAddress[A Address](c *cursor) A {
	var v A
	switch p := any(&v).(type) {
	case *uint32:
		*p = c.uint32()
	case *uint64:
		*p = c.uint64()
	}
	return v
}
