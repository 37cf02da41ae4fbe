// Package ipc accepts control lines on a unix socket so that sandbar can be
// driven without owning its stdin.
//
// The protocol is newline-delimited text. Every line a client sends is
// answered with "ok" once it is queued for the bar, except "ping", which is
// answered with "pong" and not forwarded.
package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// ErrRunning is returned by Start when another live process owns the
// pidfile.
var ErrRunning = errors.New("sandbar already running")

const (
	replyOK   = "ok"
	replyPong = "pong"
	linePing  = "ping"
)

const (
	maxLine      = 1 << 20
	replyTimeout = time.Second
)

// Server listens for control clients.
type Server struct {
	socketPath string
	pidPath    string
	logger     *log.Logger

	listener net.Listener
	lines    chan string
	done     chan struct{}
	stopped  sync.Once

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup
}

// NewServer creates a server for the given socket and pidfile. A nil
// logger discards.
func NewServer(socketPath, pidPath string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		socketPath: socketPath,
		pidPath:    pidPath,
		logger:     logger,
		lines:      make(chan string, 16),
		done:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
}

// Start begins listening for control clients
func (s *Server) Start() error {
	if err := claimPidfile(s.pidPath); err != nil {
		return err
	}
	// Remove stale socket left by a crashed instance
	os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		os.Remove(s.pidPath)
		return fmt.Errorf("listen %s: %w", s.socketPath, err)
	}
	s.listener = ln

	// Accept connections in background
	s.wg.Add(1)
	go s.accept()
	return nil
}

// Lines delivers control lines from all clients
func (s *Server) Lines() <-chan string {
	return s.lines
}

// SocketPath returns the socket path
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop shuts down the server, safe to call more than once
func (s *Server) Stop() {
	s.stopped.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.connsMu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.connsMu.Unlock()
		s.wg.Wait()
		os.Remove(s.socketPath)
		os.Remove(s.pidPath)
	})
}

// accept handles incoming connections
func (s *Server) accept() {
	defer s.wg.Done()
	for {
		c, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Printf("ipc accept: %v", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		s.connsMu.Lock()
		s.conns[c] = struct{}{}
		s.connsMu.Unlock()
		s.wg.Add(1)
		go s.serve(c)
	}
}

// serve forwards lines from one client until it hangs up.
func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer s.forget(conn)

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 4096), maxLine)
	for sc.Scan() {
		line := sc.Text()
		if line == linePing {
			s.reply(conn, replyPong)
			continue
		}
		select {
		case s.lines <- line:
		case <-s.done:
			return
		}
		s.reply(conn, replyOK)
	}
	if err := sc.Err(); err != nil {
		select {
		case <-s.done:
		default:
			s.logger.Printf("ipc client: %v", err)
		}
	}
}

func (s *Server) forget(conn net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
	conn.Close()
}

func (s *Server) reply(conn net.Conn, msg string) {
	conn.SetWriteDeadline(time.Now().Add(replyTimeout))
	io.WriteString(conn, msg+"\n")
}
