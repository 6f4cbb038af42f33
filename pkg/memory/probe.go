package memory

import (
	"context"
	"errors"
	"time"

	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/process"
)

const (
	// The guest address space shows up in the host's mappings as a
	// one-page guard region immediately followed by the 0xFFFFF000-byte
	// reservation that completes the 4 GiB block. The recompiled binary
	// exports no symbol for its data table, but this size fingerprint
	// survives load-address randomization.
	guardRegionSize = 0x1000
	guestRegionSize = 0xFFFF_F000
)

var (
	// ErrAnchorNotFound is returned when the region signature is not
	// present in the process's mappings. Retriable: the reservation may
	// not exist yet early in process startup.
	ErrAnchorNotFound = errors.New("guest memory anchor not found")

	// ErrProcessExited is returned when the target process dies while
	// anchor discovery is still retrying.
	ErrProcessExited = errors.New("process exited during anchor discovery")
)

// Probe holds the anchor address every memory path is resolved against
// for the lifetime of one process attachment.
type Probe struct {
	// BaseClientPtr is the start of the guard region preceding the
	// guest reservation: the base of the guest's pointer table.
	BaseClientPtr uint64
}

// Discover scans mapped regions, in the order given, for the
// guard/reservation pair and returns the anchor address.
func Discover(regions []process.Region) (uint64, error) {
	for i := 0; i+1 < len(regions); i++ {
		if regions[i].Size == guardRegionSize && regions[i+1].Size == guestRegionSize {
			return regions[i].Start, nil
		}
	}
	return 0, ErrAnchorNotFound
}

// Target is the part of a process handle anchor discovery needs.
type Target interface {
	Regions() ([]process.Region, error)
	Alive() bool
}

// Init discovers the anchor, retrying at the tick cadence until it
// succeeds, the process exits, or ctx is cancelled. It must be re-run
// from scratch on every process attach.
func Init(ctx context.Context, proc Target, tick time.Duration) (*Probe, error) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		regions, err := proc.Regions()
		if err == nil {
			anchor, err := Discover(regions)
			if err == nil {
				log.Info("Guest memory anchor discovered at %#x", anchor)
				return &Probe{BaseClientPtr: anchor}, nil
			}
		}

		if !proc.Alive() {
			return nil, ErrProcessExited
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
