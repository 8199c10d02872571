package mci

import (
	"errors"
	"log"
	"time"

	"fauxcd/internal/device"
)

// ErrNullParameterBlock is returned when a command that requires a
// parameter block receives none.
var ErrNullParameterBlock = errors.New("null parameter block")

// Driver routes control commands to one virtual CD-audio device. The
// host's dispatcher calls Handle for every message it multiplexes;
// Handle reports whether the message was ours.
type Driver struct {
	dev *device.Device
}

// NewDriver creates a driver for the given device.
func NewDriver(dev *device.Device) *Driver {
	return &Driver{dev: dev}
}

// Device returns the driven device.
func (dr *Driver) Device() *device.Device {
	return dr.dev
}

// Handle interprets one control command. It returns handled=false for
// commands that target another device's handle (Open excepted, which
// always tries to claim its handle) and for command codes outside the
// supported set, letting the dispatcher try another handler. Commands
// answered with a safe default never surface an error.
func (dr *Driver) Handle(handle uint32, cmd Command, flags Flags, params any) (bool, error) {
	if cmd != CmdOpen && !dr.dev.Matches(handle) {
		return false, nil
	}

	switch cmd {
	case CmdOpen:
		return true, dr.open(handle, params)
	case CmdClose:
		return true, dr.dev.Close()
	case CmdPlay:
		return true, dr.play(flags, params)
	case CmdStop:
		return true, dr.dev.Stop()
	case CmdPause:
		return true, dr.dev.Pause()
	case CmdResume:
		return true, dr.dev.Resume()
	case CmdSeek:
		return true, dr.seek(flags, params)
	case CmdStatus:
		return true, dr.status(flags, params)
	case CmdSet:
		return true, dr.set(flags, params)
	case CmdGetDevCaps:
		return true, dr.devCaps(flags, params)
	default:
		// Unrecognized commands (including INFO) go back to the
		// dispatcher's default handler.
		return false, nil
	}
}

func (dr *Driver) open(handle uint32, params any) error {
	if err := dr.dev.Open(handle); err != nil {
		return err
	}
	if p, ok := params.(*OpenParams); ok && p != nil {
		p.DeviceID = handle
	}
	return nil
}

func (dr *Driver) play(flags Flags, params any) error {
	var from, to int

	if p, ok := params.(*PlayParams); ok && p != nil {
		f := dr.dev.TimeFormat()
		if flags&FlagFrom != 0 {
			from = TrackFromPosition(p.From, f)
		}
		if flags&FlagTo != 0 {
			to = TrackFromPosition(p.To, f)
		}
	}

	return dr.dev.Play(from, to)
}

func (dr *Driver) seek(flags Flags, params any) error {
	p, ok := params.(*SeekParams)
	if !ok || p == nil || flags&FlagTo == 0 {
		return nil
	}
	return dr.dev.Seek(TrackFromPosition(p.To, dr.dev.TimeFormat()))
}

func (dr *Driver) status(flags Flags, params any) error {
	p, ok := params.(*StatusParams)
	if !ok || p == nil {
		return ErrNullParameterBlock
	}
	if flags&FlagStatusItem == 0 {
		return nil
	}

	dev := dr.dev

	switch p.Item {
	case StatusLength:
		if flags&FlagTrack != 0 {
			p.Return = uint32(dev.TrackLength(int(p.Track)) / time.Millisecond)
		} else {
			p.Return = uint32(dev.TotalLength() / time.Millisecond)
		}

	case StatusNumberOfTracks:
		p.Return = uint32(dev.NumTracks())

	case StatusMode:
		p.Return = modeOf(dev.State())

	case StatusMediaPresent:
		p.Return = boolValue(dev.MediaPresent())

	case StatusCurrentTrack:
		p.Return = uint32(dev.CurrentTrack())

	case StatusPosition:
		// Coarse position: the relevant track at frame 0.
		if flags&FlagTrack != 0 {
			p.Return = PositionFromTrack(int(p.Track))
		} else {
			p.Return = PositionFromTrack(dev.CurrentTrack())
		}

	case StatusReady:
		p.Return = boolValue(dev.Ready())

	case StatusTimeFormat:
		p.Return = uint32(dev.TimeFormat())

	case StatusTypeTrack:
		// Every emulated track is audio.
		p.Return = TrackTypeAudio

	default:
		// Tolerate forward-compatible callers querying items we do not
		// know: answer zero rather than failing.
		log.Printf("Unhandled status item %d", p.Item)
		p.Return = 0
	}

	return nil
}

func (dr *Driver) set(flags Flags, params any) error {
	p, ok := params.(*SetParams)
	if !ok || p == nil {
		return ErrNullParameterBlock
	}
	if flags&FlagSetTimeFormat == 0 {
		return nil
	}
	return dr.dev.SetTimeFormat(device.TimeFormat(p.TimeFormat))
}

// devCaps answers from a static capability table; nothing here depends
// on device state.
func (dr *Driver) devCaps(flags Flags, params any) error {
	p, ok := params.(*DevCapsParams)
	if !ok || p == nil {
		return ErrNullParameterBlock
	}
	if flags&FlagDevCapsItem == 0 {
		return nil
	}

	switch p.Item {
	case CapsCanPlay, CapsHasAudio:
		p.Return = 1
	case CapsDeviceType:
		p.Return = DevTypeCDAudio
	case CapsCanRecord, CapsCanEject, CapsCanSave,
		CapsHasVideo, CapsUsesFiles, CapsCompoundDevice:
		p.Return = 0
	default:
		log.Printf("Unhandled capability item %d", p.Item)
		p.Return = 0
	}

	return nil
}

func modeOf(s device.PlayState) uint32 {
	switch s {
	case device.StatePlaying:
		return ModePlay
	case device.StatePaused:
		return ModePause
	default:
		return ModeStop
	}
}

func boolValue(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
