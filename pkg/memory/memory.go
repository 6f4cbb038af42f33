// Package memory resolves typed values in a foreign process's address
// space. The target is a recompiled big-endian guest, so every
// multi-byte scalar read from it is byte-swapped before use.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Reader provides random-access reads from a foreign address space.
// A failed or short read must return an error, never partial data.
type Reader interface {
	ReadMemory(buf []byte, addr uint64) (n int, err error)
}

// Scalar is the set of fixed-size value types that can be read from
// guest memory.
type Scalar interface {
	bool | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

var (
	// ErrEmptyPath is returned when a path has no offsets. There is no
	// final offset to read a value at, so the read fails deterministically.
	ErrEmptyPath = errors.New("memory path has no offsets")
)

// ReadPath resolves a value at the end of a chain of offsets applied to
// base. For every offset except the last, a big-endian u32 is read at
// the current address plus the offset and the chain re-anchors to
// base plus that value. The guest keeps a table of base-relative
// pointers, so each hop is relative to the original base, not to the
// previously resolved address. The final offset is added to the last
// resolved address and a value of type T is read there directly.
//
// Any failed read collapses the whole resolution to an error; callers
// supply their own defaults.
func ReadPath[T Scalar](mem Reader, base uint64, offsets []uint32) (T, error) {
	var zero T
	if len(offsets) == 0 {
		return zero, ErrEmptyPath
	}

	address := base
	last := offsets[len(offsets)-1]

	for _, offset := range offsets[:len(offsets)-1] {
		ptr, err := Read[uint32](mem, address+uint64(offset))
		if err != nil {
			return zero, err
		}
		address = base + uint64(ptr)
	}

	return Read[T](mem, address+uint64(last))
}

// Read reads a single scalar of type T at the absolute address addr,
// converting from the guest's big-endian representation. Booleans with
// a non-canonical byte value fail the read rather than producing an
// invalid value.
func Read[T Scalar](mem Reader, addr uint64) (T, error) {
	var v T

	buf := make([]byte, sizeOf(v))
	if _, err := mem.ReadMemory(buf, addr); err != nil {
		return v, err
	}

	switch p := any(&v).(type) {
	case *bool:
		switch buf[0] {
		case 0:
			*p = false
		case 1:
			*p = true
		default:
			return v, fmt.Errorf("invalid bool byte %#x at %#x", buf[0], addr)
		}
	case *uint8:
		*p = buf[0]
	case *uint16:
		*p = binary.BigEndian.Uint16(buf)
	case *uint32:
		*p = binary.BigEndian.Uint32(buf)
	case *uint64:
		*p = binary.BigEndian.Uint64(buf)
	case *float32:
		*p = math.Float32frombits(binary.BigEndian.Uint32(buf))
	case *float64:
		*p = math.Float64frombits(binary.BigEndian.Uint64(buf))
	}

	return v, nil
}

func sizeOf[T Scalar](v T) int {
	switch any(v).(type) {
	case bool, uint8:
		return 1
	case uint16:
		return 2
	case uint32, float32:
		return 4
	default:
		return 8
	}
}
