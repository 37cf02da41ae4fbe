package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// shortDir keeps socket paths under the sun_path limit.
func shortDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "sbipc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func startServer(t *testing.T) *Server {
	t.Helper()
	dir := shortDir(t)
	s := NewServer(filepath.Join(dir, "s.sock"), filepath.Join(dir, "s.pid"), nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func recvLine(t *testing.T, s *Server) string {
	t.Helper()
	select {
	case line := <-s.Lines():
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for line")
		return ""
	}
}

func TestSendForwardsLines(t *testing.T) {
	s := startServer(t)

	done := make(chan error, 1)
	go func() {
		done <- Send(s.SocketPath(), []string{"all status hello", "eDP-1 hide"}, DefaultTimeout)
	}()

	for _, want := range []string{"all status hello", "eDP-1 hide"} {
		if got := recvLine(t, s); got != want {
			t.Errorf("line = %q, want %q", got, want)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestPingIsNotForwarded(t *testing.T) {
	s := startServer(t)

	if err := Ping(s.SocketPath(), DefaultTimeout); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	select {
	case line := <-s.Lines():
		t.Fatalf("ping forwarded as %q", line)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendNotRunning(t *testing.T) {
	dir := shortDir(t)
	err := Send(filepath.Join(dir, "missing.sock"), []string{"all show"}, 100*time.Millisecond)
	if !errors.Is(err, ErrNotRunning) {
		t.Fatalf("err = %v, want ErrNotRunning", err)
	}
}

func TestStartRefusesLivePid(t *testing.T) {
	dir := shortDir(t)
	pidPath := filepath.Join(dir, "s.pid")
	// The parent of the test binary is alive for the duration of the test.
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getppid())), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewServer(filepath.Join(dir, "s.sock"), pidPath, nil)
	if err := s.Start(); !errors.Is(err, ErrRunning) {
		s.Stop()
		t.Fatalf("Start err = %v, want ErrRunning", err)
	}
}

func TestStartReplacesStalePid(t *testing.T) {
	dir := shortDir(t)
	pidPath := filepath.Join(dir, "s.pid")
	if err := os.WriteFile(pidPath, []byte("not-a-pid"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewServer(filepath.Join(dir, "s.sock"), pidPath, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	data, err := os.ReadFile(pidPath)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), strconv.Itoa(os.Getpid()); got != want {
		t.Errorf("pidfile = %q, want %q", got, want)
	}
	s.Stop()
}

func TestStopRemovesFiles(t *testing.T) {
	dir := shortDir(t)
	sock := filepath.Join(dir, "s.sock")
	pid := filepath.Join(dir, "s.pid")
	s := NewServer(sock, pid, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	s.Stop()

	for _, path := range []string{sock, pid} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still exists: %v", path, err)
		}
	}
}
