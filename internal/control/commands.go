package control

import (
	"fmt"
	"strconv"
	"strings"

	"fauxcd/internal/device"
	"fauxcd/internal/mci"
)

// Executor translates text verbs into control-protocol calls, playing
// the role of the host's command dispatcher for the bundled front ends
// (TCP server and interactive console). All semantics live behind the
// driver; this layer only builds parameter blocks and formats replies.
type Executor struct {
	driver *mci.Driver
	handle uint32
}

// NewExecutor creates an executor that addresses the device under the
// given dispatcher handle.
func NewExecutor(driver *mci.Driver, handle uint32) *Executor {
	return &Executor{driver: driver, handle: handle}
}

// Execute processes a single command line and returns the full reply,
// newline-terminated.
func (e *Executor) Execute(line string) string {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "OK\n"
	}

	verb := strings.ToLower(parts[0])
	args := parts[1:]

	switch verb {
	case "ping":
		return "OK\n"

	case "type":
		return e.cmdType(args)

	case "open":
		return e.dispatch("open", mci.CmdOpen, 0, &mci.OpenParams{})

	case "close":
		return e.dispatch("close", mci.CmdClose, 0, nil)

	case "play":
		return e.cmdPlay(args)

	case "stop":
		return e.dispatch("stop", mci.CmdStop, 0, nil)

	case "pause":
		return e.dispatch("pause", mci.CmdPause, 0, nil)

	case "resume":
		return e.dispatch("resume", mci.CmdResume, 0, nil)

	case "seek":
		return e.cmdSeek(args)

	case "status":
		return e.cmdStatus(args)

	case "caps":
		return e.cmdCaps(args)

	case "format":
		return e.cmdFormat(args)

	default:
		return fmt.Sprintf("ACK {%s} unknown command\n", verb)
	}
}

// dispatch runs one command through the driver and formats the outcome.
func (e *Executor) dispatch(verb string, cmd mci.Command, flags mci.Flags, params any) string {
	handled, err := e.driver.Handle(e.handle, cmd, flags, params)
	if !handled {
		return fmt.Sprintf("ACK {%s} device not open\n", verb)
	}
	if err != nil {
		return fmt.Sprintf("ACK {%s} %s\n", verb, err.Error())
	}
	return "OK\n"
}

// cmdType checks whether a device-type name would be routed here at all.
func (e *Executor) cmdType(args []string) string {
	if len(args) < 1 {
		return "ACK {type} missing argument\n"
	}
	if mci.IsCDAudioDeviceName(args[0]) {
		return "type: cdaudio\nOK\n"
	}
	return fmt.Sprintf("ACK {type} not a cdaudio device: %s\n", args[0])
}

// cmdPlay handles 'play [from [to]]' with plain track numbers. Track
// numbers below 256 encode identically in the plain and compound
// formats, so the raw value works under either active format.
func (e *Executor) cmdPlay(args []string) string {
	var flags mci.Flags
	params := &mci.PlayParams{}

	if len(args) > 0 {
		from, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return "ACK {play} invalid from track\n"
		}
		params.From = uint32(from)
		flags |= mci.FlagFrom
	}
	if len(args) > 1 {
		to, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return "ACK {play} invalid to track\n"
		}
		params.To = uint32(to)
		flags |= mci.FlagTo
	}

	return e.dispatch("play", mci.CmdPlay, flags, params)
}

func (e *Executor) cmdSeek(args []string) string {
	if len(args) < 1 {
		return "ACK {seek} missing track\n"
	}
	track, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return "ACK {seek} invalid track\n"
	}
	return e.dispatch("seek", mci.CmdSeek, mci.FlagTo, &mci.SeekParams{To: uint32(track)})
}

// statusItems maps the console names onto protocol status items.
var statusItems = map[string]mci.StatusItem{
	"length":   mci.StatusLength,
	"tracks":   mci.StatusNumberOfTracks,
	"mode":     mci.StatusMode,
	"media":    mci.StatusMediaPresent,
	"current":  mci.StatusCurrentTrack,
	"position": mci.StatusPosition,
	"ready":    mci.StatusReady,
	"format":   mci.StatusTimeFormat,
	"type":     mci.StatusTypeTrack,
}

// cmdStatus handles 'status <item> [track]'.
func (e *Executor) cmdStatus(args []string) string {
	if len(args) < 1 {
		return "ACK {status} missing item\n"
	}

	name := strings.ToLower(args[0])
	item, ok := statusItems[name]
	if !ok {
		return fmt.Sprintf("ACK {status} unknown item: %s\n", name)
	}

	flags := mci.FlagStatusItem
	params := &mci.StatusParams{Item: item}

	if len(args) > 1 {
		track, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return "ACK {status} invalid track\n"
		}
		params.Track = uint32(track)
		flags |= mci.FlagTrack
	}

	handled, err := e.driver.Handle(e.handle, mci.CmdStatus, flags, params)
	if !handled {
		return "ACK {status} device not open\n"
	}
	if err != nil {
		return fmt.Sprintf("ACK {status} %s\n", err.Error())
	}

	if item == mci.StatusMode {
		return fmt.Sprintf("%s: %s\nOK\n", name, modeName(params.Return))
	}
	return fmt.Sprintf("%s: %d\nOK\n", name, params.Return)
}

// capsItems maps the console names onto protocol capability items.
var capsItems = map[string]mci.CapsItem{
	"play":     mci.CapsCanPlay,
	"record":   mci.CapsCanRecord,
	"eject":    mci.CapsCanEject,
	"save":     mci.CapsCanSave,
	"audio":    mci.CapsHasAudio,
	"video":    mci.CapsHasVideo,
	"files":    mci.CapsUsesFiles,
	"compound": mci.CapsCompoundDevice,
	"devtype":  mci.CapsDeviceType,
}

// cmdCaps handles 'caps <item>'.
func (e *Executor) cmdCaps(args []string) string {
	if len(args) < 1 {
		return "ACK {caps} missing item\n"
	}

	name := strings.ToLower(args[0])
	item, ok := capsItems[name]
	if !ok {
		return fmt.Sprintf("ACK {caps} unknown item: %s\n", name)
	}

	params := &mci.DevCapsParams{Item: item}
	handled, err := e.driver.Handle(e.handle, mci.CmdGetDevCaps, mci.FlagDevCapsItem, params)
	if !handled {
		return "ACK {caps} device not open\n"
	}
	if err != nil {
		return fmt.Sprintf("ACK {caps} %s\n", err.Error())
	}

	return fmt.Sprintf("%s: %d\nOK\n", name, params.Return)
}

// cmdFormat handles 'format <tmsf|msf|ms>'.
func (e *Executor) cmdFormat(args []string) string {
	if len(args) < 1 {
		return "ACK {format} missing format\n"
	}

	var f device.TimeFormat
	switch strings.ToLower(args[0]) {
	case "tmsf":
		f = device.FormatTMSF
	case "msf":
		f = device.FormatMSF
	case "ms", "milliseconds":
		f = device.FormatMilliseconds
	default:
		return fmt.Sprintf("ACK {format} unknown format: %s\n", args[0])
	}

	return e.dispatch("format", mci.CmdSet, mci.FlagSetTimeFormat,
		&mci.SetParams{TimeFormat: uint32(f)})
}

func modeName(mode uint32) string {
	switch mode {
	case mci.ModePlay:
		return "playing"
	case mci.ModePause:
		return "paused"
	case mci.ModeStop:
		return "stopped"
	default:
		return "unknown"
	}
}
