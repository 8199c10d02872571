package beepout

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"fauxcd/internal/transport"
)

// CD-audio sample rate. The speaker runs at this rate; files recorded at
// other rates get resampled.
const speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(100*time.Millisecond))
	})
	return speakerErr
}

// Backend plays tracks in-process through the beep speaker. Pause and
// resume are real: the beep.Ctrl keeps its stream position while paused.
type Backend struct{}

// New creates a beep-backed transport.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return "beep" }

// Start decodes path as WAV and begins playing it from the start.
func (b *Backend) Start(path string) (transport.Session, error) {
	if err := initSpeaker(); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		stream = beep.Resample(4, format.SampleRate, speakerRate, streamer)
	}

	s := &session{
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: stream},
		done:     make(chan struct{}),
	}

	speaker.Play(beep.Seq(s.ctrl, beep.Callback(func() {
		close(s.done)
	})))

	return s, nil
}

type session struct {
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	done     chan struct{}

	mu     sync.Mutex
	closed bool
}

func (s *session) Pause() error {
	s.setPaused(true)
	return nil
}

func (s *session) Resume() error {
	s.setPaused(false)
	return nil
}

func (s *session) setPaused(paused bool) {
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop removes the stream from the speaker. Only one session is ever
// live, so clearing the whole speaker is safe. The completion callback
// never fires for a cleared stream, which keeps Done quiet as required.
func (s *session) Stop() error {
	speaker.Clear()
	return nil
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	// The decoder owns the file handle and closes it with the stream.
	return s.streamer.Close()
}

func (s *session) Done() <-chan struct{} { return s.done }

var _ transport.Transport = (*Backend)(nil)
