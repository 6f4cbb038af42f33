package memory

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMemory is a sparse address space. Reads touching an unmapped
// byte fail, like a read from an unmapped page in a real process.
type fakeMemory struct {
	bytes map[uint64]byte
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{bytes: make(map[uint64]byte)}
}

func (m *fakeMemory) ReadMemory(buf []byte, addr uint64) (int, error) {
	for i := range buf {
		b, ok := m.bytes[addr+uint64(i)]
		if !ok {
			return i, fmt.Errorf("unmapped address %#x", addr+uint64(i))
		}
		buf[i] = b
	}
	return len(buf), nil
}

func (m *fakeMemory) putU8(addr uint64, v uint8) {
	m.bytes[addr] = v
}

func (m *fakeMemory) putU32(addr uint64, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	for i, bb := range b {
		m.bytes[addr+uint64(i)] = bb
	}
}

func (m *fakeMemory) putF32(addr uint64, v float32) {
	m.putU32(addr, math.Float32bits(v))
}

func TestReadPath(t *testing.T) {
	const base = 0x7f0000000000

	t.Run("single offset reads directly at base", func(t *testing.T) {
		mem := newFakeMemory()
		mem.putU32(base+0x13c, 42)

		got, err := ReadPath[uint32](mem, base, []uint32{0x13c})
		require.NoError(t, err)
		assert.Equal(t, uint32(42), got)
	})

	t.Run("hops re-anchor to the original base", func(t *testing.T) {
		mem := newFakeMemory()
		// base+0x100 holds a base-relative pointer 0x2000,
		// base+0x2000+0x8 holds another base-relative pointer 0x3000,
		// the value lives at base+0x3000+0x5c.
		mem.putU32(base+0x100, 0x2000)
		mem.putU32(base+0x2000+0x8, 0x3000)
		mem.putF32(base+0x3000+0x5c, 123.5)

		got, err := ReadPath[float32](mem, base, []uint32{0x100, 0x8, 0x5c})
		require.NoError(t, err)
		assert.Equal(t, float32(123.5), got)

		// A linked-chain resolution would look for the second pointer
		// at 0x2000+0x8 absolute instead; make sure that cell being
		// mapped with a different value does not change the result.
		mem.putU32(0x2000+0x8, 0xdead)
		got, err = ReadPath[float32](mem, base, []uint32{0x100, 0x8, 0x5c})
		require.NoError(t, err)
		assert.Equal(t, float32(123.5), got)
	})

	t.Run("empty path fails deterministically", func(t *testing.T) {
		mem := newFakeMemory()
		_, err := ReadPath[uint32](mem, base, nil)
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("intermediate read failure collapses the whole path", func(t *testing.T) {
		mem := newFakeMemory()
		// First hop at base+0xA is unmapped; later cells exist.
		mem.putU32(base+0xB, 0x2000)
		mem.putU32(base+0x2000+0xC, 99)

		_, err := ReadPath[uint32](mem, base, []uint32{0xA, 0xB, 0xC})
		assert.Error(t, err)
	})

	t.Run("final read failure collapses the whole path", func(t *testing.T) {
		mem := newFakeMemory()
		mem.putU32(base+0x100, 0x2000)

		_, err := ReadPath[uint32](mem, base, []uint32{0x100, 0x50})
		assert.Error(t, err)
	})
}

func TestRead(t *testing.T) {
	t.Run("u32 is byte-swapped from big-endian", func(t *testing.T) {
		mem := newFakeMemory()
		mem.bytes[0x10] = 0x12
		mem.bytes[0x11] = 0x34
		mem.bytes[0x12] = 0x56
		mem.bytes[0x13] = 0x78

		got, err := Read[uint32](mem, 0x10)
		require.NoError(t, err)
		assert.Equal(t, uint32(0x12345678), got)
	})

	t.Run("u8", func(t *testing.T) {
		mem := newFakeMemory()
		mem.putU8(0x10, 7)

		got, err := Read[uint8](mem, 0x10)
		require.NoError(t, err)
		assert.Equal(t, uint8(7), got)
	})

	t.Run("f32", func(t *testing.T) {
		mem := newFakeMemory()
		mem.putF32(0x10, 1.25)

		got, err := Read[float32](mem, 0x10)
		require.NoError(t, err)
		assert.Equal(t, float32(1.25), got)
	})

	t.Run("canonical bool bytes", func(t *testing.T) {
		mem := newFakeMemory()
		mem.putU8(0x10, 0)
		mem.putU8(0x11, 1)

		got, err := Read[bool](mem, 0x10)
		require.NoError(t, err)
		assert.False(t, got)

		got, err = Read[bool](mem, 0x11)
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("non-canonical bool byte fails the read", func(t *testing.T) {
		mem := newFakeMemory()
		mem.putU8(0x10, 0x2a)

		_, err := Read[bool](mem, 0x10)
		assert.Error(t, err)
	})
}
