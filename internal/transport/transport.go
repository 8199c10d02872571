package transport

// Transport abstracts "play this file from the start" for the device
// state machine. Backends differ in fidelity: the beep backend keeps its
// position across pause/resume, the oneshot backend approximates pause
// by stopping and resume by restarting from the beginning. The state
// machine is written against this interface only, so either plugs in
// without state-machine changes.
type Transport interface {
	// Start opens path and begins playback from the beginning.
	Start(path string) (Session, error)

	// Name identifies the backend.
	Name() string
}

// Session is one live playback resource. At most one session exists at a
// time; the device tears it down before starting another.
type Session interface {
	Pause() error
	Resume() error

	// Stop halts audio output. A stopped session cannot be restarted.
	Stop() error

	// Close releases the underlying file and decoder resources.
	Close() error

	// Done is closed when playback runs to its natural end. Sessions
	// torn down through Stop or Close do not signal it.
	Done() <-chan struct{}
}

// Factory creates a new transport instance
type Factory func() (Transport, error)
