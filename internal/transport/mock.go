package transport

import (
	"errors"
	"sync"
)

// Mock is a scriptable Transport for tests. Sessions it hands out do
// nothing; tests drive them through Finish to simulate a track running
// to its end.
type Mock struct {
	mu       sync.Mutex
	failNext bool
	started  []string
	last     *MockSession
}

// NewMock creates a mock transport.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string { return "mock" }

// FailNext makes the next Start call fail.
func (m *Mock) FailNext() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
}

// Start records the path and returns a fresh idle session.
func (m *Mock) Start(path string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock transport failure")
	}

	s := &MockSession{
		Path: path,
		done: make(chan struct{}),
	}
	m.started = append(m.started, path)
	m.last = s
	return s, nil
}

// Started returns the paths of every session started so far.
func (m *Mock) Started() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.started))
	copy(out, m.started)
	return out
}

// Last returns the most recently started session, or nil.
func (m *Mock) Last() *MockSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// MockSession is the session type handed out by Mock.
type MockSession struct {
	Path string

	mu       sync.Mutex
	paused   bool
	stopped  bool
	closed   bool
	finished bool
	done     chan struct{}
}

func (s *MockSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	return nil
}

func (s *MockSession) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	return nil
}

func (s *MockSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *MockSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MockSession) Done() <-chan struct{} { return s.done }

// Finish simulates the track running to its natural end.
func (s *MockSession) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.finished = true
		close(s.done)
	}
}

// Paused reports whether the session is currently paused.
func (s *MockSession) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Stopped reports whether Stop was called.
func (s *MockSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Closed reports whether Close was called.
func (s *MockSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var _ Transport = (*Mock)(nil)
var _ Session = (*MockSession)(nil)
