package oneshot

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"

	"fauxcd/internal/transport"
)

// Backend shells out to an external player, one process per track. It
// has no real pause capability: Pause kills the player and Resume
// restarts the track from the beginning. That degradation is inherent to
// the backend; callers needing position-preserving pause should use the
// beep backend instead.
type Backend struct {
	playerCmd string
}

// New creates an external-player transport. playerCmd defaults to aplay.
func New(playerCmd string) *Backend {
	if playerCmd == "" {
		playerCmd = "aplay"
	}
	return &Backend{playerCmd: playerCmd}
}

func (b *Backend) Name() string { return "oneshot" }

// Start launches the player process on path.
func (b *Backend) Start(path string) (transport.Session, error) {
	s := &session{
		playerCmd: b.playerCmd,
		path:      path,
		done:      make(chan struct{}),
	}
	if err := s.spawn(); err != nil {
		return nil, err
	}
	return s, nil
}

type session struct {
	playerCmd string
	path      string
	done      chan struct{}

	mu       sync.Mutex
	cmd      *exec.Cmd
	killed   bool
	closed   bool
	finished bool
}

// spawn starts a fresh player process and watches it for exit. Done only
// signals when the process exits on its own; a killed process stays
// quiet so that pause and stop are not mistaken for track completion.
func (s *session) spawn() error {
	cmd := exec.Command(s.playerCmd, s.path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", s.playerCmd, err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.killed = false
	s.mu.Unlock()

	go func() {
		err := cmd.Wait()

		s.mu.Lock()
		natural := s.cmd == cmd && !s.killed && !s.closed && !s.finished
		if natural {
			s.finished = true
		}
		s.mu.Unlock()

		if natural {
			if err != nil {
				log.Printf("Player exited with error: %v", err)
			}
			close(s.done)
		}
	}()

	return nil
}

// Pause kills the player; the track position is lost.
func (s *session) Pause() error {
	return s.kill()
}

// Resume restarts the track from the beginning; the external player
// keeps no position to seek back to.
func (s *session) Resume() error {
	s.mu.Lock()
	if s.closed || s.finished {
		s.mu.Unlock()
		return errors.New("session is no longer live")
	}
	s.mu.Unlock()

	return s.spawn()
}

func (s *session) Stop() error {
	return s.kill()
}

func (s *session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.kill()
}

func (s *session) kill() error {
	s.mu.Lock()
	s.killed = true
	cmd := s.cmd
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (s *session) Done() <-chan struct{} { return s.done }

var _ transport.Transport = (*Backend)(nil)
