package mci

import (
	"testing"

	"fauxcd/internal/device"
)

func TestPackTMSF(t *testing.T) {
	if got := PackTMSF(2, 30, 15, 8); got != 0x080F1E02 {
		t.Errorf("PackTMSF(2, 30, 15, 8) = %#08x, want 0x080F1E02", got)
	}
	if got := PackTMSF(0, 0, 0, 0); got != 0 {
		t.Errorf("PackTMSF(0, 0, 0, 0) = %#08x, want 0", got)
	}
}

func TestTMSFRoundTrip(t *testing.T) {
	tests := []struct {
		track, minute, second, frame uint8
	}{
		{1, 0, 0, 0},
		{2, 3, 4, 5},
		{99, 59, 59, 74},
		{255, 255, 255, 255},
	}
	for _, tt := range tests {
		v := PackTMSF(tt.track, tt.minute, tt.second, tt.frame)
		if got := TMSFTrack(v); got != tt.track {
			t.Errorf("TMSFTrack(%#08x) = %d, want %d", v, got, tt.track)
		}
		if got := TMSFMinute(v); got != tt.minute {
			t.Errorf("TMSFMinute(%#08x) = %d, want %d", v, got, tt.minute)
		}
		if got := TMSFSecond(v); got != tt.second {
			t.Errorf("TMSFSecond(%#08x) = %d, want %d", v, got, tt.second)
		}
		if got := TMSFFrame(v); got != tt.frame {
			t.Errorf("TMSFFrame(%#08x) = %d, want %d", v, got, tt.frame)
		}
	}
}

func TestTrackFromPosition(t *testing.T) {
	compound := PackTMSF(7, 1, 2, 3)

	if got := TrackFromPosition(compound, device.FormatTMSF); got != 7 {
		t.Errorf("TrackFromPosition(compound, TMSF) = %d, want 7", got)
	}
	// In plain formats the whole value is the track number.
	if got := TrackFromPosition(12, device.FormatMilliseconds); got != 12 {
		t.Errorf("TrackFromPosition(12, ms) = %d, want 12", got)
	}
	if got := TrackFromPosition(12, device.FormatMSF); got != 12 {
		t.Errorf("TrackFromPosition(12, msf) = %d, want 12", got)
	}
}

func TestPositionFromTrack(t *testing.T) {
	v := PositionFromTrack(5)
	if got := TMSFTrack(v); got != 5 {
		t.Errorf("TMSFTrack(PositionFromTrack(5)) = %d, want 5", got)
	}
	if TMSFMinute(v) != 0 || TMSFSecond(v) != 0 || TMSFFrame(v) != 0 {
		t.Errorf("PositionFromTrack(5) = %#08x, want zero minute/second/frame", v)
	}
}
