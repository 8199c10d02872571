package mci

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fauxcd/internal/device"
	"fauxcd/internal/transport"
)

const testHandle = 3

// newTestDriver builds a driver over a temp directory with one-second
// raw tracks 2 and 3.
func newTestDriver(t *testing.T) (*Driver, *transport.Mock) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range []int{2, 3} {
		path := filepath.Join(dir, fmt.Sprintf("track%02d.wav", n))
		data := bytes.Repeat([]byte{0x5a}, 176400)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	mock := transport.NewMock()
	dev := device.New(device.Config{TrackDir: dir}, mock)
	return NewDriver(dev), mock
}

// openTestDriver additionally claims the device under testHandle.
func openTestDriver(t *testing.T) (*Driver, *transport.Mock) {
	t.Helper()
	dr, mock := newTestDriver(t)
	handled, err := dr.Handle(testHandle, CmdOpen, 0, &OpenParams{})
	if !handled || err != nil {
		t.Fatalf("open: handled=%v err=%v", handled, err)
	}
	return dr, mock
}

// queryStatus runs one status command and returns the answer.
func queryStatus(t *testing.T, dr *Driver, item StatusItem, flags Flags, track uint32) uint32 {
	t.Helper()
	p := &StatusParams{Item: item, Track: track}
	handled, err := dr.Handle(testHandle, CmdStatus, FlagStatusItem|flags, p)
	if !handled || err != nil {
		t.Fatalf("status %d: handled=%v err=%v", item, handled, err)
	}
	return p.Return
}

func TestOpenEchoesDeviceID(t *testing.T) {
	dr, _ := newTestDriver(t)

	p := &OpenParams{}
	handled, err := dr.Handle(testHandle, CmdOpen, 0, p)
	if !handled {
		t.Fatal("open not handled")
	}
	if err != nil {
		t.Fatalf("open = %v", err)
	}
	if p.DeviceID != testHandle {
		t.Errorf("DeviceID = %d, want %d", p.DeviceID, testHandle)
	}
}

func TestDoubleOpenIsBusy(t *testing.T) {
	dr, _ := openTestDriver(t)

	handled, err := dr.Handle(testHandle+1, CmdOpen, 0, &OpenParams{})
	if !handled {
		t.Fatal("second open not handled")
	}
	if err != device.ErrDeviceBusy {
		t.Errorf("second open = %v, want ErrDeviceBusy", err)
	}
}

func TestWrongHandleDeclined(t *testing.T) {
	dr, _ := openTestDriver(t)

	handled, err := dr.Handle(testHandle+1, CmdStop, 0, nil)
	if handled {
		t.Error("command for another handle was handled")
	}
	if err != nil {
		t.Errorf("declined command returned %v", err)
	}
}

func TestClosedDeviceDeclinesEverythingButOpen(t *testing.T) {
	dr, _ := newTestDriver(t)

	for _, cmd := range []Command{CmdClose, CmdPlay, CmdStop, CmdPause, CmdResume, CmdSeek, CmdStatus, CmdSet, CmdGetDevCaps} {
		handled, err := dr.Handle(testHandle, cmd, 0, nil)
		if handled || err != nil {
			t.Errorf("cmd %#04x on closed device: handled=%v err=%v, want declined", uint16(cmd), handled, err)
		}
	}
}

func TestUnknownCommandDeclined(t *testing.T) {
	dr, _ := openTestDriver(t)

	for _, cmd := range []Command{CmdInfo, 0x0999} {
		handled, err := dr.Handle(testHandle, cmd, 0, nil)
		if handled || err != nil {
			t.Errorf("cmd %#04x: handled=%v err=%v, want declined", uint16(cmd), handled, err)
		}
	}
}

func TestPlayFromCompoundPositions(t *testing.T) {
	dr, mock := openTestDriver(t)

	p := &PlayParams{
		From: PackTMSF(3, 0, 0, 0),
		To:   PackTMSF(3, 0, 0, 0),
	}
	handled, err := dr.Handle(testHandle, CmdPlay, FlagFrom|FlagTo, p)
	if !handled || err != nil {
		t.Fatalf("play: handled=%v err=%v", handled, err)
	}

	dev := dr.Device()
	if got := dev.CurrentTrack(); got != 3 {
		t.Errorf("CurrentTrack() = %d, want 3", got)
	}
	if got := dev.State(); got != device.StatePlaying {
		t.Errorf("State() = %v, want Playing", got)
	}
	if got := len(mock.Started()); got != 1 {
		t.Errorf("transport started %d sessions, want 1", got)
	}
}

func TestPlayFromPlainPosition(t *testing.T) {
	dr, _ := openTestDriver(t)

	set := &SetParams{TimeFormat: uint32(device.FormatMilliseconds)}
	if handled, err := dr.Handle(testHandle, CmdSet, FlagSetTimeFormat, set); !handled || err != nil {
		t.Fatalf("set: handled=%v err=%v", handled, err)
	}

	p := &PlayParams{From: 3}
	if handled, err := dr.Handle(testHandle, CmdPlay, FlagFrom, p); !handled || err != nil {
		t.Fatalf("play: handled=%v err=%v", handled, err)
	}
	if got := dr.Device().CurrentTrack(); got != 3 {
		t.Errorf("CurrentTrack() = %d, want 3", got)
	}
}

func TestPlayWithoutFlagsUsesDefaults(t *testing.T) {
	dr, _ := openTestDriver(t)

	// From/To in the block are ignored without the matching flags.
	p := &PlayParams{From: PackTMSF(3, 0, 0, 0), To: PackTMSF(3, 0, 0, 0)}
	if handled, err := dr.Handle(testHandle, CmdPlay, 0, p); !handled || err != nil {
		t.Fatalf("play: handled=%v err=%v", handled, err)
	}

	from, to := dr.Device().Range()
	if from != 2 || to != 3 {
		t.Errorf("Range() = (%d, %d), want defaults (2, 3)", from, to)
	}
}

func TestSeek(t *testing.T) {
	dr, _ := openTestDriver(t)

	p := &SeekParams{To: PackTMSF(3, 0, 0, 0)}
	if handled, err := dr.Handle(testHandle, CmdSeek, FlagTo, p); !handled || err != nil {
		t.Fatalf("seek: handled=%v err=%v", handled, err)
	}
	if got := dr.Device().CurrentTrack(); got != 3 {
		t.Errorf("CurrentTrack() = %d, want 3", got)
	}
	if got := dr.Device().State(); got != device.StateStopped {
		t.Errorf("State() = %v, want Stopped after seek", got)
	}
}

func TestStatusQueries(t *testing.T) {
	dr, _ := openTestDriver(t)

	if got := queryStatus(t, dr, StatusNumberOfTracks, 0, 0); got != 3 {
		t.Errorf("number of tracks = %d, want 3", got)
	}
	if got := queryStatus(t, dr, StatusMediaPresent, 0, 0); got != 1 {
		t.Errorf("media present = %d, want 1", got)
	}
	if got := queryStatus(t, dr, StatusReady, 0, 0); got != 1 {
		t.Errorf("ready = %d, want 1", got)
	}
	if got := queryStatus(t, dr, StatusCurrentTrack, 0, 0); got != 2 {
		t.Errorf("current track = %d, want 2", got)
	}
	if got := queryStatus(t, dr, StatusTimeFormat, 0, 0); got != uint32(device.FormatTMSF) {
		t.Errorf("time format = %d, want %d", got, device.FormatTMSF)
	}
	if got := queryStatus(t, dr, StatusTypeTrack, FlagTrack, 2); got != TrackTypeAudio {
		t.Errorf("track type = %d, want %d", got, TrackTypeAudio)
	}
}

func TestStatusLengthsInMilliseconds(t *testing.T) {
	dr, _ := openTestDriver(t)

	// Two raw one-second tracks.
	if got := queryStatus(t, dr, StatusLength, FlagTrack, 2); got != 1000 {
		t.Errorf("track length = %dms, want 1000", got)
	}
	if got := queryStatus(t, dr, StatusLength, 0, 0); got != 2000 {
		t.Errorf("total length = %dms, want 2000", got)
	}
	if got := queryStatus(t, dr, StatusLength, FlagTrack, 9); got != 0 {
		t.Errorf("absent track length = %dms, want 0", got)
	}
}

func TestStatusModeFollowsState(t *testing.T) {
	dr, _ := openTestDriver(t)

	if got := queryStatus(t, dr, StatusMode, 0, 0); got != ModeStop {
		t.Errorf("mode = %d, want stop %d", got, ModeStop)
	}

	if handled, err := dr.Handle(testHandle, CmdPlay, 0, nil); !handled || err != nil {
		t.Fatalf("play: handled=%v err=%v", handled, err)
	}
	if got := queryStatus(t, dr, StatusMode, 0, 0); got != ModePlay {
		t.Errorf("mode = %d, want play %d", got, ModePlay)
	}

	if handled, err := dr.Handle(testHandle, CmdPause, 0, nil); !handled || err != nil {
		t.Fatalf("pause: handled=%v err=%v", handled, err)
	}
	if got := queryStatus(t, dr, StatusMode, 0, 0); got != ModePause {
		t.Errorf("mode = %d, want pause %d", got, ModePause)
	}

	if handled, err := dr.Handle(testHandle, CmdResume, 0, nil); !handled || err != nil {
		t.Fatalf("resume: handled=%v err=%v", handled, err)
	}
	if got := queryStatus(t, dr, StatusMode, 0, 0); got != ModePlay {
		t.Errorf("mode = %d, want play %d", got, ModePlay)
	}

	if handled, err := dr.Handle(testHandle, CmdStop, 0, nil); !handled || err != nil {
		t.Fatalf("stop: handled=%v err=%v", handled, err)
	}
	if got := queryStatus(t, dr, StatusMode, 0, 0); got != ModeStop {
		t.Errorf("mode = %d, want stop %d", got, ModeStop)
	}
}

func TestStatusPositionEncoding(t *testing.T) {
	dr, _ := openTestDriver(t)

	got := queryStatus(t, dr, StatusPosition, 0, 0)
	if TMSFTrack(got) != 2 || got != PositionFromTrack(2) {
		t.Errorf("position = %#08x, want track 2 at frame 0", got)
	}

	got = queryStatus(t, dr, StatusPosition, FlagTrack, 3)
	if got != PositionFromTrack(3) {
		t.Errorf("position of track 3 = %#08x, want %#08x", got, PositionFromTrack(3))
	}
}

func TestStatusUnknownItemAnswersZero(t *testing.T) {
	dr, _ := openTestDriver(t)

	p := &StatusParams{Item: 0x7777, Return: 99}
	handled, err := dr.Handle(testHandle, CmdStatus, FlagStatusItem, p)
	if !handled || err != nil {
		t.Fatalf("status: handled=%v err=%v", handled, err)
	}
	if p.Return != 0 {
		t.Errorf("Return = %d, want 0 for unknown item", p.Return)
	}
}

func TestStatusNilParamsRejected(t *testing.T) {
	dr, _ := openTestDriver(t)

	handled, err := dr.Handle(testHandle, CmdStatus, FlagStatusItem, nil)
	if !handled {
		t.Fatal("status not handled")
	}
	if err != ErrNullParameterBlock {
		t.Errorf("status(nil) = %v, want ErrNullParameterBlock", err)
	}
}

func TestSetTimeFormatRoundTrip(t *testing.T) {
	dr, _ := openTestDriver(t)

	p := &SetParams{TimeFormat: uint32(device.FormatMSF)}
	if handled, err := dr.Handle(testHandle, CmdSet, FlagSetTimeFormat, p); !handled || err != nil {
		t.Fatalf("set: handled=%v err=%v", handled, err)
	}
	if got := queryStatus(t, dr, StatusTimeFormat, 0, 0); got != uint32(device.FormatMSF) {
		t.Errorf("time format = %d, want %d", got, device.FormatMSF)
	}

	// Without the format flag the command is accepted but changes nothing.
	p = &SetParams{TimeFormat: uint32(device.FormatTMSF)}
	if handled, err := dr.Handle(testHandle, CmdSet, 0, p); !handled || err != nil {
		t.Fatalf("set without flag: handled=%v err=%v", handled, err)
	}
	if got := queryStatus(t, dr, StatusTimeFormat, 0, 0); got != uint32(device.FormatMSF) {
		t.Errorf("time format = %d, want unchanged %d", got, device.FormatMSF)
	}
}

func TestDevCapsTable(t *testing.T) {
	dr, _ := openTestDriver(t)

	tests := []struct {
		item CapsItem
		want uint32
	}{
		{CapsCanPlay, 1},
		{CapsHasAudio, 1},
		{CapsDeviceType, DevTypeCDAudio},
		{CapsCanRecord, 0},
		{CapsCanEject, 0},
		{CapsCanSave, 0},
		{CapsHasVideo, 0},
		{CapsUsesFiles, 0},
		{CapsCompoundDevice, 0},
	}
	for _, tt := range tests {
		p := &DevCapsParams{Item: tt.item}
		handled, err := dr.Handle(testHandle, CmdGetDevCaps, FlagDevCapsItem, p)
		if !handled || err != nil {
			t.Fatalf("devcaps %d: handled=%v err=%v", tt.item, handled, err)
		}
		if p.Return != tt.want {
			t.Errorf("capability %d = %d, want %d", tt.item, p.Return, tt.want)
		}
	}
}

func TestCloseReleasesHandle(t *testing.T) {
	dr, _ := openTestDriver(t)

	if handled, err := dr.Handle(testHandle, CmdClose, 0, nil); !handled || err != nil {
		t.Fatalf("close: handled=%v err=%v", handled, err)
	}

	// The handle is free again.
	if handled, err := dr.Handle(testHandle, CmdStop, 0, nil); handled || err != nil {
		t.Errorf("stop after close: handled=%v err=%v, want declined", handled, err)
	}
	if handled, err := dr.Handle(testHandle, CmdOpen, 0, &OpenParams{}); !handled || err != nil {
		t.Errorf("reopen: handled=%v err=%v", handled, err)
	}
}

func TestDeviceTypePredicates(t *testing.T) {
	names := []struct {
		name string
		want bool
	}{
		{"cdaudio", true},
		{"CDAudio", true},
		{"CDAUDIO", true},
		{"waveaudio", false},
		{"", false},
	}
	for _, tt := range names {
		if got := IsCDAudioDeviceName(tt.name); got != tt.want {
			t.Errorf("IsCDAudioDeviceName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	ids := []struct {
		id   uint32
		want bool
	}{
		{DevTypeCDAudio, true},
		{DevTypeCDAudio | 1<<16, false},
		{0, false},
		{517, false},
	}
	for _, tt := range ids {
		if got := IsCDAudioDeviceID(tt.id); got != tt.want {
			t.Errorf("IsCDAudioDeviceID(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
