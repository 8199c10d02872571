package device

import (
	"errors"
	"log"
	"sync"

	"fauxcd/internal/catalog"
	"fauxcd/internal/transport"
)

var (
	// ErrDeviceBusy is returned by Open when the device is already open.
	ErrDeviceBusy = errors.New("device already open")

	// ErrNotOpen is returned by every operation other than Open on a
	// closed device.
	ErrNotOpen = errors.New("device not open")
)

// PlayState is the playback sub-state of an open device.
type PlayState int

const (
	StateStopped PlayState = iota
	StatePlaying
	StatePaused
)

func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// TimeFormat describes how track and duration values are encoded in
// protocol parameters. It affects parameter encode/decode only, never
// device behavior.
type TimeFormat uint32

const (
	FormatMilliseconds TimeFormat = 0
	FormatMSF          TimeFormat = 2
	// FormatTMSF is the compound track/minute/second/frame encoding and
	// the default after Open.
	FormatTMSF TimeFormat = 10
)

// Config carries the construction parameters for a Device.
type Config struct {
	// Base directory used to resolve track numbers to files
	TrackDir string

	// Track numbering limits; zero values mean the conventional 2..99
	FirstTrack int
	MaxTrack   int
}

// Device is one virtual CD-audio device. It owns the full lifecycle
// (closed -> open -> stopped/playing/paused) and is the only mutator of
// its state; every operation runs under the device mutex. A zero-state
// Device is closed, and all operations other than Open fail until Open
// succeeds.
type Device struct {
	mu sync.Mutex

	trackDir   string
	firstTrack int
	maxTrack   int
	transport  transport.Transport

	open       bool
	handle     uint32
	state      PlayState
	current    int
	rangeStart int
	rangeEnd   int
	timeFormat TimeFormat

	cat     *catalog.Catalog
	session transport.Session
	playGen uint64 // bumps on every session change, invalidates stale watchers
}

// New creates a closed device bound to a playback transport.
func New(cfg Config, t transport.Transport) *Device {
	if cfg.FirstTrack <= 0 {
		cfg.FirstTrack = 2
	}
	if cfg.MaxTrack <= 0 {
		cfg.MaxTrack = 99
	}
	return &Device{
		trackDir:   cfg.TrackDir,
		firstTrack: cfg.FirstTrack,
		maxTrack:   cfg.MaxTrack,
		transport:  t,
	}
}

// Open claims the device under the given handle, scans the track catalog
// and resets the device state. Fails with ErrDeviceBusy if already open.
func (d *Device) Open(handle uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.open {
		return ErrDeviceBusy
	}

	d.cat = catalog.Scan(d.trackDir, d.firstTrack, d.maxTrack)

	d.open = true
	d.handle = handle
	d.state = StateStopped
	d.current = d.firstTrack
	d.rangeStart = 0
	d.rangeEnd = 0
	d.timeFormat = FormatTMSF

	log.Printf("Opened virtual CD device %d (%d tracks under %s)",
		handle, d.cat.NumTracks(), d.trackDir)

	return nil
}

// Close stops playback, tears down the transport session and returns the
// device to the closed state.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNotOpen
	}

	d.stopLocked()

	log.Printf("Closed virtual CD device %d", d.handle)

	d.open = false
	d.handle = 0
	d.current = 0
	d.rangeStart = 0
	d.rangeEnd = 0
	d.timeFormat = 0
	d.cat = nil

	return nil
}

// Play starts playback at from and remembers to as the end of the play
// range. A zero from defaults to the current track, a zero to defaults
// to the catalog's highest track. Any in-progress playback is stopped
// first. A track the transport cannot start leaves the device stopped
// without an error: callers poll status in a loop and a hard failure
// would be disruptive to that pattern.
func (d *Device) Play(from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNotOpen
	}

	if from == 0 {
		from = d.current
	}
	if to == 0 {
		to = d.cat.NumTracks()
	}

	log.Printf("Play from track %d to %d", from, to)

	d.stopLocked()

	d.current = from
	d.rangeStart = from
	d.rangeEnd = to

	d.startCurrentLocked()

	return nil
}

// Stop tears down the transport session from any open sub-state;
// idempotent.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNotOpen
	}

	d.stopLocked()
	return nil
}

// Pause suspends playback. It is a no-op unless the device is playing.
func (d *Device) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNotOpen
	}
	if d.state != StatePlaying || d.session == nil {
		return nil
	}

	if err := d.session.Pause(); err != nil {
		log.Printf("Transport pause failed: %v", err)
	}
	d.state = StatePaused

	return nil
}

// Resume continues playback after Pause. It is a no-op unless the device
// is paused.
func (d *Device) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNotOpen
	}
	if d.state != StatePaused || d.session == nil {
		return nil
	}

	if err := d.session.Resume(); err != nil {
		log.Printf("Transport resume failed: %v", err)
		return nil
	}
	d.state = StatePlaying

	return nil
}

// Seek updates the current track without starting playback or changing
// the playback state.
func (d *Device) Seek(track int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNotOpen
	}

	d.current = track
	log.Printf("Seek to track %d", track)

	return nil
}

// SetTimeFormat updates the parameter encoding format. It never affects
// playback.
func (d *Device) SetTimeFormat(f TimeFormat) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return ErrNotOpen
	}

	d.timeFormat = f
	return nil
}

// stopLocked tears down the live session, if any, and settles the state
// on stopped. Callers hold d.mu.
func (d *Device) stopLocked() {
	if d.session != nil {
		d.playGen++ // supersede the session watcher
		if err := d.session.Stop(); err != nil {
			log.Printf("Transport stop failed: %v", err)
		}
		if err := d.session.Close(); err != nil {
			log.Printf("Transport close failed: %v", err)
		}
		d.session = nil
	}
	d.state = StateStopped
}

// startCurrentLocked asks the transport to start the current track. On
// any failure the state stays stopped. Callers hold d.mu.
func (d *Device) startCurrentLocked() {
	if !d.cat.Exists(d.current) {
		log.Printf("Track %d not present, staying stopped", d.current)
		return
	}

	s, err := d.transport.Start(d.cat.TrackPath(d.current))
	if err != nil {
		log.Printf("Transport failed to start track %d: %v", d.current, err)
		return
	}

	d.session = s
	d.state = StatePlaying
	d.playGen++

	go d.watch(s, d.playGen)
}

// watch waits for a session to finish naturally and advances the play
// range. A session superseded by a later Play/Stop/Close is ignored via
// the generation counter.
func (d *Device) watch(s transport.Session, gen uint64) {
	<-s.Done()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.playGen != gen || d.session != s || d.state != StatePlaying {
		return
	}

	if err := s.Close(); err != nil {
		log.Printf("Transport close failed: %v", err)
	}
	d.session = nil

	next := 0
	for n := d.current + 1; n <= d.rangeEnd; n++ {
		if d.cat.Exists(n) {
			next = n
			break
		}
	}

	if next == 0 {
		log.Printf("Reached end of play range at track %d", d.current)
		d.state = StateStopped
		return
	}

	d.current = next
	d.state = StateStopped
	d.startCurrentLocked()
}
