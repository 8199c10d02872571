package device

import "time"

// Status reads. Each accessor takes the device mutex so callers always
// observe a consistent, non-torn value; none of them mutates state.

// IsOpen reports whether the device has been opened.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Handle returns the dispatcher-assigned handle, 0 when closed.
func (d *Device) Handle() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handle
}

// Matches reports whether the device is open under the given handle.
// The dispatcher uses it to decide whether a command is ours.
func (d *Device) Matches(handle uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open && d.handle == handle
}

// State returns the playback sub-state.
func (d *Device) State() PlayState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// CurrentTrack returns the current track number.
func (d *Device) CurrentTrack() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Range returns the play range set by the last Play.
func (d *Device) Range() (from, to int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rangeStart, d.rangeEnd
}

// TimeFormat returns the active parameter encoding format.
func (d *Device) TimeFormat() TimeFormat {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timeFormat
}

// NumTracks returns the catalog's highest existing track number, 0 when
// closed.
func (d *Device) NumTracks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cat == nil {
		return 0
	}
	return d.cat.NumTracks()
}

// MediaPresent reports whether the catalog found at least one track.
func (d *Device) MediaPresent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cat != nil && d.cat.NumTracks() > 0
}

// TrackLength returns the estimated duration of one track, 0 for absent
// tracks or a closed device.
func (d *Device) TrackLength(track int) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cat == nil {
		return 0
	}
	return d.cat.TrackLength(track)
}

// TotalLength returns the summed estimated duration of all existing
// tracks.
func (d *Device) TotalLength() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cat == nil {
		return 0
	}
	return d.cat.TotalLength()
}

// Ready reports readiness; an open device is always ready.
func (d *Device) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}
