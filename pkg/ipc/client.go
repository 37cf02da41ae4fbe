package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrNotRunning is returned when nothing listens on the socket.
var ErrNotRunning = errors.New("sandbar is not running")

// DefaultTimeout bounds a client exchange.
const DefaultTimeout = 2 * time.Second

// Send writes lines to the bar at socketPath and waits for each to be
// acknowledged.
func Send(socketPath string, lines []string, timeout time.Duration) error {
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotRunning, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("send: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	r := bufio.NewScanner(conn)
	for _, line := range lines {
		want := replyOK
		if line == linePing {
			want = replyPong
		}
		if !r.Scan() {
			if err := r.Err(); err != nil {
				return fmt.Errorf("read reply: %w", err)
			}
			return errors.New("read reply: connection closed")
		}
		if got := r.Text(); got != want {
			return fmt.Errorf("unexpected reply %q", got)
		}
	}
	return nil
}

// Ping checks that a bar is listening on socketPath.
func Ping(socketPath string, timeout time.Duration) error {
	return Send(socketPath, []string{linePing}, timeout)
}
