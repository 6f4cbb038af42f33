package timer

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/mwhitt/runsync/pkg/log"
)

const (
	remoteDialTimeout = 2 * time.Second
	remoteReadTimeout = time.Second
)

// RemoteTimer drives a LiveSplit Server endpoint over TCP using its
// newline-delimited command protocol. Commands are fire-and-forget;
// only the phase query reads a response. The connection is dialed
// lazily and re-dialed after any I/O error.
type RemoteTimer struct {
	addr   string
	lock   sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

func NewRemoteTimer(addr string) *RemoteTimer {
	return &RemoteTimer{addr: addr}
}

func (t *RemoteTimer) connect() error {
	if t.conn != nil {
		return nil
	}

	conn, err := net.DialTimeout("tcp", t.addr, remoteDialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to timer at %s: %v", t.addr, err)
	}

	log.Info("Connected to timer at %s", t.addr)
	t.conn = conn
	t.reader = bufio.NewReader(conn)
	return nil
}

func (t *RemoteTimer) drop() {
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
		t.reader = nil
	}
}

func (t *RemoteTimer) send(cmd string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.connect(); err != nil {
		log.Warn("%v", err)
		return
	}

	if _, err := fmt.Fprintf(t.conn, "%s\r\n", cmd); err != nil {
		log.Warn("Failed to send %q to timer: %v", cmd, err)
		t.drop()
	}
}

func (t *RemoteTimer) query(cmd string) (string, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.connect(); err != nil {
		return "", err
	}

	if _, err := fmt.Fprintf(t.conn, "%s\r\n", cmd); err != nil {
		t.drop()
		return "", fmt.Errorf("failed to send %q to timer: %v", cmd, err)
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(remoteReadTimeout)); err != nil {
		t.drop()
		return "", fmt.Errorf("failed to set read deadline: %v", err)
	}

	line, err := t.reader.ReadString('\n')
	if err != nil {
		t.drop()
		return "", fmt.Errorf("failed to read timer response: %v", err)
	}

	return strings.TrimSpace(line), nil
}

func (t *RemoteTimer) State() State {
	phase, err := t.query("getcurrenttimerphase")
	if err != nil {
		log.Warn("Failed to query timer phase: %v", err)
		return StateUnknown
	}

	switch phase {
	case "NotRunning":
		return StateNotRunning
	case "Running":
		return StateRunning
	case "Paused":
		return StatePaused
	case "Ended":
		return StateEnded
	default:
		log.Warn("Unknown timer phase %q", phase)
		return StateUnknown
	}
}

func (t *RemoteTimer) Start() {
	t.send("starttimer")
}

func (t *RemoteTimer) Split() {
	t.send("split")
}

func (t *RemoteTimer) Reset() {
	t.send("reset")
}

func (t *RemoteTimer) PauseGameTime() {
	t.send("pausegametime")
}

func (t *RemoteTimer) ResumeGameTime() {
	t.send("unpausegametime")
}

func (t *RemoteTimer) SetGameTime(d time.Duration) {
	t.send(fmt.Sprintf("setgametime %.2f", d.Seconds()))
}

// Close closes the connection if one is open.
func (t *RemoteTimer) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.reader = nil
	return err
}
