package ipc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// claimPidfile writes our pid to path unless it names another live process.
func claimPidfile(path string) error {
	if pid, ok := readPid(path); ok && pid != os.Getpid() && alive(pid) {
		return fmt.Errorf("%w with pid %d", ErrRunning, pid)
	}
	os.Remove(path)
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("write pidfile: %w", err)
	}
	return nil
}

func readPid(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	return pid, err == nil && pid > 0
}

// alive checks pid with signal 0
func alive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}
