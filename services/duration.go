package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	"github.com/go-flac/go-flac"
	"github.com/tcolgate/mp3"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"musicvault/logger"
)

// ProberChain asks each prober in turn and returns the first positive duration
type ProberChain []DurationProber

// NewDefaultProber builds the container-probing chain. The format-specific
// probers only answer for their own extension; ffprobe is the catch-all.
func NewDefaultProber(useFFprobe bool) ProberChain {
	chain := ProberChain{
		&FLACProber{},
		&WAVProber{},
		&MP3Prober{},
	}
	if useFFprobe {
		chain = append(chain, &FFprobeProber{})
	}
	return chain
}

func (c ProberChain) Probe(path string) (uint64, error) {
	var errs []error
	for _, p := range c {
		seconds, err := probeSafely(p, path)
		if err == nil && seconds > 0 {
			return seconds, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	logger.Debug("no prober found a duration",
		logger.String("path", path),
		logger.ErrorField(errors.Join(errs...)))
	return 0, fmt.Errorf("%s: %w", path, ErrDurationUnavailable)
}

// probeSafely turns a panic inside a parsing library into ErrDurationUnavailable
func probeSafely(p DurationProber, path string) (seconds uint64, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("duration prober panicked",
				logger.String("path", path),
				logger.String("panic", fmt.Sprint(r)))
			seconds, err = 0, fmt.Errorf("prober panicked: %v: %w", r, ErrDurationUnavailable)
		}
	}()
	return p.Probe(path)
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// FLACProber reads total samples and sample rate from the STREAMINFO block
type FLACProber struct{}

func (p *FLACProber) Probe(path string) (uint64, error) {
	if !hasExt(path, ".flac") {
		return 0, ErrDurationUnavailable
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Only the metadata blocks are read, never the audio frames
	f, err := flac.ParseMetadata(file)
	if err != nil {
		return 0, fmt.Errorf("failed to parse FLAC metadata: %w", err)
	}

	for _, block := range f.Meta {
		if block.Type != flac.StreamInfo {
			continue
		}
		data := block.Data
		if len(data) < 18 {
			break
		}

		// 20 bits sample rate, 3 bits channels, 5 bits depth, 36 bits total samples
		sampleRate := uint64(data[10])<<12 | uint64(data[11])<<4 | uint64(data[12])>>4
		totalSamples := uint64(data[13]&0x0F)<<32 |
			uint64(data[14])<<24 |
			uint64(data[15])<<16 |
			uint64(data[16])<<8 |
			uint64(data[17])

		if sampleRate > 0 && totalSamples > 0 {
			return totalSamples / sampleRate, nil
		}
		break
	}

	return 0, fmt.Errorf("FLAC stream info has no sample count: %w", ErrDurationUnavailable)
}

// WAVProber divides the PCM chunk size by the average byte rate
type WAVProber struct{}

func (p *WAVProber) Probe(path string) (uint64, error) {
	if !hasExt(path, ".wav", ".wave") {
		return 0, ErrDurationUnavailable
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	d := wav.NewDecoder(file)
	duration, err := d.Duration()
	if err != nil {
		return 0, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("WAV file has no PCM data: %w", ErrDurationUnavailable)
	}

	return uint64(duration.Seconds()), nil
}

// MP3Prober walks every MPEG audio frame. Each frame's duration is its sample
// count over the sample rate, so the sum works for CBR and VBR alike.
type MP3Prober struct{}

func (p *MP3Prober) Probe(path string) (uint64, error) {
	if !hasExt(path, ".mp3") {
		return 0, ErrDurationUnavailable
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	decoder := mp3.NewDecoder(file)
	var (
		frame   mp3.Frame
		skipped int
		frames  int
		total   float64
	)
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				logger.Debug("mp3 frame walk stopped early",
					logger.String("path", path),
					logger.ErrorField(err))
			}
			break
		}
		frames++
		total += frame.Duration().Seconds()
	}

	if frames == 0 || total < 1 {
		return 0, fmt.Errorf("no MPEG audio frames: %w", ErrDurationUnavailable)
	}
	return uint64(total), nil
}

// FFprobeProber shells out to ffprobe for any container it understands. The
// audio stream's duration_ts times its time_base wins over the container's
// own duration field.
type FFprobeProber struct{}

func (p *FFprobeProber) Probe(path string) (uint64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return durationFromProbe(out)
}

func durationFromProbe(probeJSON string) (uint64, error) {
	for _, stream := range gjson.Get(probeJSON, "streams").Array() {
		if stream.Get("codec_type").String() != "audio" {
			continue
		}

		ts := stream.Get("duration_ts").Uint()
		num, den, ok := parseTimeBase(stream.Get("time_base").String())
		if ts > 0 && ok {
			if seconds := ts * num / den; seconds > 0 {
				return seconds, nil
			}
		}
	}

	if seconds := gjson.Get(probeJSON, "format.duration").Float(); seconds >= 1 {
		return uint64(seconds), nil
	}

	return 0, fmt.Errorf("ffprobe reported no timing data: %w", ErrDurationUnavailable)
}

func parseTimeBase(tb string) (num, den uint64, ok bool) {
	n, d, found := strings.Cut(tb, "/")
	if !found {
		return 0, 0, false
	}
	num, errNum := strconv.ParseUint(n, 10, 64)
	den, errDen := strconv.ParseUint(d, 10, 64)
	if errNum != nil || errDen != nil || num == 0 || den == 0 {
		return 0, 0, false
	}
	return num, den, true
}
