package catalog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Byte rate assumed for track files without a readable header:
// 44.1kHz, 16-bit stereo PCM. Length estimates derived from it are
// approximate; callers must not assume sample accuracy.
const rawBytesPerSecond = 176400

// Track holds what the catalog knows about one track number.
type Track struct {
	Exists bool
	Length time.Duration
}

// Catalog records which track numbers have a backing audio file and how
// long each file is estimated to play. It is built once per device open
// and is read-only afterwards.
type Catalog struct {
	baseDir    string
	firstTrack int
	maxTrack   int
	numTracks  int
	tracks     []Track // indexed by track number, 0..maxTrack
}

// Scan probes baseDir for track files numbered firstTrack..maxTrack and
// estimates each existing file's duration. Missing files are recorded as
// absent with zero length.
func Scan(baseDir string, firstTrack, maxTrack int) *Catalog {
	c := &Catalog{
		baseDir:    baseDir,
		firstTrack: firstTrack,
		maxTrack:   maxTrack,
		tracks:     make([]Track, maxTrack+1),
	}

	for n := firstTrack; n <= maxTrack; n++ {
		path := c.TrackPath(n)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		length := probeLength(path, info.Size())
		c.tracks[n] = Track{Exists: true, Length: length}
		c.numTracks = n

		log.Printf("Found track %d: %s (est. %v)", n, path, length)
	}

	log.Printf("Total tracks found: %d", c.numTracks)

	return c
}

// TrackPath resolves a track number to its backing file path.
func (c *Catalog) TrackPath(n int) string {
	return filepath.Join(c.baseDir, fmt.Sprintf("track%02d.wav", n))
}

// Exists reports whether a backing file was found for the track.
func (c *Catalog) Exists(n int) bool {
	if n < 0 || n >= len(c.tracks) {
		return false
	}
	return c.tracks[n].Exists
}

// TrackLength returns the estimated duration of a track, or 0 if the
// track does not exist. It never fails.
func (c *Catalog) TrackLength(n int) time.Duration {
	if !c.Exists(n) {
		return 0
	}
	return c.tracks[n].Length
}

// TotalLength returns the summed estimated duration of all existing
// tracks.
func (c *Catalog) TotalLength() time.Duration {
	var total time.Duration
	for n := c.firstTrack; n <= c.numTracks; n++ {
		if c.tracks[n].Exists {
			total += c.tracks[n].Length
		}
	}
	return total
}

// NumTracks returns the highest track number found to exist. The catalog
// is not required to be contiguous; this acts as the upper bound for
// default play ranges.
func (c *Catalog) NumTracks() int {
	return c.numTracks
}

// probeLength estimates a track file's duration. A well-formed WAV
// header wins; raw or truncated payloads fall back to the assumed
// CD-audio byte rate.
func probeLength(path string, size int64) time.Duration {
	f, err := os.Open(path)
	if err == nil {
		defer f.Close()

		dec := wav.NewDecoder(f)
		if dec.IsValidFile() {
			if dur, err := dec.Duration(); err == nil && dur > 0 {
				return dur
			}
			if est := estimateFromFormat(dec.Format(), size); est > 0 {
				return est
			}
		}
	}

	return time.Duration(size) * time.Second / rawBytesPerSecond
}

// estimateFromFormat derives a byte-rate estimate from a decoded header
// when the decoder cannot compute an exact duration. Samples are assumed
// 16-bit wide.
func estimateFromFormat(f *audio.Format, size int64) time.Duration {
	if f == nil || f.SampleRate <= 0 || f.NumChannels <= 0 {
		return 0
	}
	bytesPerSec := int64(f.SampleRate) * int64(f.NumChannels) * 2
	return time.Duration(size) * time.Second / time.Duration(bytesPerSec)
}
