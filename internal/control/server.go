package control

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
)

// Server exposes the command executor over a line-based TCP protocol so
// external tooling can drive the virtual device.
type Server struct {
	mu       sync.Mutex
	listener net.Listener
	exec     *Executor
	addr     string
	running  bool
}

// NewServer creates a new control server
func NewServer(addr string, exec *Executor) *Server {
	return &Server{
		addr: addr,
		exec: exec,
	}
}

// Start starts the control server
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to start control server: %w", err)
	}

	s.listener = listener
	s.running = true

	log.Printf("Control server listening on %s", s.addr)

	go s.acceptLoop()

	return nil
}

// Addr returns the bound listen address, empty until Start succeeds.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop stops the control server
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			log.Printf("Accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves a single client connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	log.Printf("Control client connected: %s", conn.RemoteAddr())

	fmt.Fprintf(conn, "OK fauxcd 1.0\n")

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		fmt.Fprint(conn, s.exec.Execute(line))
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Connection error: %v", err)
	}

	log.Printf("Control client disconnected: %s", conn.RemoteAddr())
}
