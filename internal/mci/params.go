package mci

// Parameter blocks. The dispatcher hands these in by pointer;
// out-parameters are written back into the block.

// OpenParams accompanies CmdOpen. DeviceID is echoed back on success.
type OpenParams struct {
	DeviceID uint32
}

// PlayParams accompanies CmdPlay. From and To are positions in the
// device's active time format and are honored only when the matching
// FlagFrom/FlagTo bit is set.
type PlayParams struct {
	From uint32
	To   uint32
}

// SeekParams accompanies CmdSeek. To is honored only with FlagTo.
type SeekParams struct {
	To uint32
}

// StatusParams accompanies CmdStatus. Track qualifies per-track queries
// when FlagTrack is set; the answer lands in Return.
type StatusParams struct {
	Item   StatusItem
	Track  uint32
	Return uint32
}

// SetParams accompanies CmdSet. TimeFormat is honored only with
// FlagSetTimeFormat.
type SetParams struct {
	TimeFormat uint32
}

// DevCapsParams accompanies CmdGetDevCaps; the answer lands in Return.
type DevCapsParams struct {
	Item   CapsItem
	Return uint32
}
