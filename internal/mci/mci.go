// Package mci implements the control-command interpreter for the
// emulated CD-audio device: it recognizes commands addressed to the
// virtual device, decodes their protocol parameter encodings and
// dispatches them to the device state machine.
package mci

import "strings"

// Command is a control-protocol command code. The values mirror the
// binary protocol legacy callers speak and must not change.
type Command uint16

const (
	CmdOpen       Command = 0x0803
	CmdClose      Command = 0x0804
	CmdPlay       Command = 0x0806
	CmdSeek       Command = 0x0807
	CmdStop       Command = 0x0808
	CmdPause      Command = 0x0809
	CmdInfo       Command = 0x080A
	CmdGetDevCaps Command = 0x080B
	CmdSet        Command = 0x080D
	CmdStatus     Command = 0x0814
	CmdResume     Command = 0x0855
)

// Flags qualify a command with optional parameters.
type Flags uint32

const (
	FlagNotify Flags = 0x0001
	FlagWait   Flags = 0x0002
	FlagFrom   Flags = 0x0004
	FlagTo     Flags = 0x0008
	FlagTrack  Flags = 0x0010

	FlagStatusItem    Flags = 0x0100
	FlagSetTimeFormat Flags = 0x0400
	FlagDevCapsItem   Flags = 0x0100
)

// StatusItem selects what a status command queries.
type StatusItem uint32

const (
	StatusLength         StatusItem = 1
	StatusPosition       StatusItem = 2
	StatusNumberOfTracks StatusItem = 3
	StatusMode           StatusItem = 4
	StatusMediaPresent   StatusItem = 5
	StatusTimeFormat     StatusItem = 6
	StatusReady          StatusItem = 7
	StatusCurrentTrack   StatusItem = 8

	// CD-audio extension: per-track type query
	StatusTypeTrack StatusItem = 0x4001
)

// CapsItem selects what a device-capability command queries.
type CapsItem uint32

const (
	CapsCanRecord      CapsItem = 1
	CapsHasAudio       CapsItem = 2
	CapsHasVideo       CapsItem = 3
	CapsDeviceType     CapsItem = 4
	CapsUsesFiles      CapsItem = 5
	CapsCompoundDevice CapsItem = 6
	CapsCanEject       CapsItem = 7
	CapsCanPlay        CapsItem = 8
	CapsCanSave        CapsItem = 9
)

// Mode values reported through StatusMode.
const (
	ModeNotReady uint32 = 524
	ModeStop     uint32 = 525
	ModePlay     uint32 = 526
	ModeRecord   uint32 = 527
	ModeSeek     uint32 = 528
	ModePause    uint32 = 529
	ModeOpen     uint32 = 530
)

const (
	// DevTypeCDAudio is the device class code for CD audio.
	DevTypeCDAudio uint32 = 516

	// TrackTypeAudio is the per-track type reported for every emulated
	// track; a mixed-mode data track is never exposed.
	TrackTypeAudio uint32 = 1088
)

// IsCDAudioDeviceName reports whether a textual device type names the
// CD-audio device class. The match is case-insensitive.
func IsCDAudioDeviceName(name string) bool {
	return strings.EqualFold(name, "cdaudio")
}

// IsCDAudioDeviceID reports whether a packed numeric device type names
// CD audio: the class code in the low word with an empty high word.
func IsCDAudioDeviceID(id uint32) bool {
	return id&0xffff == DevTypeCDAudio && id>>16 == 0
}
