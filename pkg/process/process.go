package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwhitt/runsync/pkg/log"
)

// Process is a read-only handle to a running process's address space.
// Reads go through /proc/<pid>/mem, so no ptrace attach is required as
// long as the ptrace_scope policy allows same-user reads.
type Process struct {
	pid  int
	name string
	mem  *os.File
}

// ErrNotFound is returned when no candidate process name matches a
// running process.
type ErrNotFound struct {
	Names []string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no process found matching %v", e.Names)
}

// Attach opens a handle to the first running process whose comm name
// matches one of the candidate names, tried in order.
func Attach(names ...string) (*Process, error) {
	for _, name := range names {
		pid, err := findByName(name)
		if err != nil {
			continue
		}

		mem, err := os.Open(fmt.Sprintf("/proc/%d/mem", pid))
		if err != nil {
			return nil, fmt.Errorf("failed to open memory of pid %d: %v", pid, err)
		}

		log.Debug("Attached to process %s (pid %d)", name, pid)
		return &Process{
			pid:  pid,
			name: name,
			mem:  mem,
		}, nil
	}

	return nil, &ErrNotFound{Names: names}
}

// findByName scans /proc for a process with the given comm name.
// The comm name is truncated by the kernel to 15 characters, so
// candidate names longer than that are compared truncated.
func findByName(name string) (int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, fmt.Errorf("failed to read /proc: %v", err)
	}

	want := name
	if len(want) > 15 {
		want = want[:15]
	}

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		comm, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "comm"))
		if err != nil {
			continue
		}

		if strings.TrimSpace(string(comm)) == want {
			return pid, nil
		}
	}

	return 0, fmt.Errorf("no process named %s", name)
}

// Pid returns the process ID.
func (p *Process) Pid() int {
	return p.pid
}

// Name returns the candidate name the process was attached under.
func (p *Process) Name() string {
	return p.name
}

// ReadMemory reads len(buf) bytes at the absolute address addr.
// A short read is reported as an error so a partial value is never
// mistaken for a complete one.
func (p *Process) ReadMemory(buf []byte, addr uint64) (int, error) {
	n, err := p.mem.ReadAt(buf, int64(addr))
	if err != nil {
		return n, fmt.Errorf("failed to read %d bytes at %#x: %v", len(buf), addr, err)
	}
	if n != len(buf) {
		return n, fmt.Errorf("short read at %#x: %d of %d bytes", addr, n, len(buf))
	}
	return n, nil
}

// Alive reports whether the process still exists.
func (p *Process) Alive() bool {
	if _, err := os.Stat(fmt.Sprintf("/proc/%d", p.pid)); err != nil {
		return false
	}
	return true
}

// Close releases the handle.
func (p *Process) Close() error {
	return p.mem.Close()
}
