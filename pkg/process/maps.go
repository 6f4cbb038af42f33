package process

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Region is a mapped memory region of the target process.
type Region struct {
	// Start is the absolute address of the first byte of the region.
	Start uint64
	// Size is the length of the region in bytes.
	Size uint64
}

// End returns the address one past the last byte of the region.
func (r Region) End() uint64 {
	return r.Start + r.Size
}

// Regions enumerates the process's mapped memory regions in the order
// the kernel reports them.
func (p *Process) Regions() ([]Region, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil, fmt.Errorf("failed to open maps of pid %d: %v", p.pid, err)
	}
	defer f.Close()

	return parseRegions(f)
}

// parseRegions parses /proc/<pid>/maps content. Each line starts with
// "start-end" in hex; the rest of the line is ignored.
func parseRegions(r io.Reader) ([]Region, error) {
	var regions []Region

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		addrs, _, ok := strings.Cut(line, " ")
		if !ok {
			addrs = line
		}

		startStr, endStr, ok := strings.Cut(addrs, "-")
		if !ok {
			return nil, fmt.Errorf("malformed maps line: %q", line)
		}

		start, err := strconv.ParseUint(startStr, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed start address in maps line %q: %v", line, err)
		}
		end, err := strconv.ParseUint(endStr, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed end address in maps line %q: %v", line, err)
		}
		if end < start {
			return nil, fmt.Errorf("region end before start in maps line %q", line)
		}

		regions = append(regions, Region{Start: start, Size: end - start})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read maps: %v", err)
	}

	return regions, nil
}
