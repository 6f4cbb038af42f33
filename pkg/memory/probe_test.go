package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mwhitt/runsync/pkg/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	tests := []struct {
		name    string
		regions []process.Region
		want    uint64
		wantErr bool
	}{
		{
			name: "pair in the middle of the mappings",
			regions: []process.Region{
				{Start: 0x400000, Size: 0x52000},
				{Start: 0x100000000000, Size: 0x1000},
				{Start: 0x100000001000, Size: 0xFFFFF000},
				{Start: 0x7f0000000000, Size: 0x4000},
			},
			want: 0x100000000000,
		},
		{
			name: "guard page without the reservation does not match",
			regions: []process.Region{
				{Start: 0x100000000000, Size: 0x1000},
				{Start: 0x100000001000, Size: 0x2000},
				{Start: 0x200000000000, Size: 0x1000},
				{Start: 0x200000001000, Size: 0xFFFFF000},
			},
			want: 0x200000000000,
		},
		{
			name: "reservation without a preceding guard page does not match",
			regions: []process.Region{
				{Start: 0x100000000000, Size: 0x2000},
				{Start: 0x100000002000, Size: 0xFFFFF000},
			},
			wantErr: true,
		},
		{
			name:    "no regions",
			regions: nil,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(tt.regions)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrAnchorNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeTarget struct {
	regions [][]process.Region
	calls   int
	alive   bool
}

func (f *fakeTarget) Regions() ([]process.Region, error) {
	i := f.calls
	if i >= len(f.regions) {
		i = len(f.regions) - 1
	}
	f.calls++
	return f.regions[i], nil
}

func (f *fakeTarget) Alive() bool {
	return f.alive
}

func TestInit(t *testing.T) {
	t.Run("retries until the signature appears", func(t *testing.T) {
		target := &fakeTarget{
			alive: true,
			regions: [][]process.Region{
				nil,
				{{Start: 0x1000, Size: 0x4000}},
				{
					{Start: 0x1000, Size: 0x4000},
					{Start: 0x100000000000, Size: 0x1000},
					{Start: 0x100000001000, Size: 0xFFFFF000},
				},
			},
		}

		probe, err := Init(context.Background(), target, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, uint64(0x100000000000), probe.BaseClientPtr)
		assert.Equal(t, 3, target.calls)
	})

	t.Run("process death unwinds the retry loop", func(t *testing.T) {
		target := &fakeTarget{
			alive:   false,
			regions: [][]process.Region{nil},
		}

		_, err := Init(context.Background(), target, time.Millisecond)
		assert.ErrorIs(t, err, ErrProcessExited)
	})

	t.Run("context cancellation unwinds the retry loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		target := &fakeTarget{
			alive:   true,
			regions: [][]process.Region{nil},
		}

		_, err := Init(ctx, target, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
