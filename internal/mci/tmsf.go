package mci

import "fauxcd/internal/device"

// Compound time format codec: track, minute, second and frame packed one
// byte each into a uint32, track in the low byte. These are pure
// functions; the device state machine never sees the packing.

// PackTMSF builds a compound position value.
func PackTMSF(track, minute, second, frame uint8) uint32 {
	return uint32(track) | uint32(minute)<<8 | uint32(second)<<16 | uint32(frame)<<24
}

// TMSFTrack extracts the track byte from a compound value.
func TMSFTrack(v uint32) uint8 { return uint8(v) }

// TMSFMinute extracts the minute byte from a compound value.
func TMSFMinute(v uint32) uint8 { return uint8(v >> 8) }

// TMSFSecond extracts the second byte from a compound value.
func TMSFSecond(v uint32) uint8 { return uint8(v >> 16) }

// TMSFFrame extracts the frame byte from a compound value.
func TMSFFrame(v uint32) uint8 { return uint8(v >> 24) }

// TrackFromPosition decodes a position parameter under the given time
// format. The compound format carries the track in its low byte; every
// other format treats the value as a plain track number, since only
// track granularity is honored.
func TrackFromPosition(v uint32, f device.TimeFormat) int {
	if f == device.FormatTMSF {
		return int(TMSFTrack(v))
	}
	return int(v)
}

// PositionFromTrack encodes a track as a compound position at the start
// of the track (minute, second and frame all zero).
func PositionFromTrack(track int) uint32 {
	return PackTMSF(uint8(track), 0, 0, 0)
}
