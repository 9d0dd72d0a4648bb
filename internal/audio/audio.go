// Package audio decodes phone-call recordings into mono float64 samples at
// a fixed sample rate, ready for spectrogram analysis.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wavdec "github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// TargetSampleRate is the sample rate all signals are resampled to before
// spectrogram analysis.
const TargetSampleRate = 22050

// Signal is a decoded, mono, resampled, peak-normalized audio signal.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the signal length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// rawAudio is the decoder-agnostic intermediate: one slice of float64 per
// channel, all the same length, plus the source sample rate.
type rawAudio struct {
	channels   [][]float64
	sampleRate int
}

// Load decodes path into a mono Signal at TargetSampleRate, peak-normalized
// to 1.0. Multi-channel input is downmixed by arithmetic mean. An all-zero
// input passes through unchanged. On any decode failure Load returns an
// empty Signal and a non-nil error; callers that want to treat decode
// failure as "no hashes" should check len(Samples) == 0 rather than
// branching on the error.
func Load(path string) (Signal, error) {
	raw, err := decode(path)
	if err != nil {
		return Signal{SampleRate: TargetSampleRate}, fmt.Errorf("audio: decode %s: %w", path, err)
	}

	mono := downmix(raw.channels)
	resampled := resample(mono, raw.sampleRate, TargetSampleRate)
	normalized := normalizePeak(resampled)

	return Signal{Samples: normalized, SampleRate: TargetSampleRate}, nil
}

func decode(path string) (rawAudio, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return rawAudio{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	switch ext {
	case ".wav":
		return decodeWAV(f)
	case ".mp3":
		return decodeMP3(f)
	case ".flac":
		return decodeFLAC(f)
	case ".ogg":
		return decodeOGG(f)
	default:
		return rawAudio{}, fmt.Errorf("unsupported extension %q", ext)
	}
}

func decodeWAV(f *os.File) (rawAudio, error) {
	d := wavdec.NewDecoder(f)
	if !d.IsValidFile() {
		return rawAudio{}, fmt.Errorf("not a valid wav file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return rawAudio{}, fmt.Errorf("decode wav pcm: %w", err)
	}

	numChans := buf.Format.NumChannels
	if numChans < 1 {
		numChans = 1
	}

	maxVal := float64(int(1) << (uint(buf.SourceBitDepth) - 1))
	if buf.SourceBitDepth == 0 {
		maxVal = 32768
	}

	channels := make([][]float64, numChans)
	for c := range channels {
		channels[c] = make([]float64, 0, len(buf.Data)/numChans)
	}

	for i, v := range buf.Data {
		channels[i%numChans] = append(channels[i%numChans], float64(v)/maxVal)
	}

	return rawAudio{channels: channels, sampleRate: buf.Format.SampleRate}, nil
}

func decodeMP3(f *os.File) (rawAudio, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return rawAudio{}, fmt.Errorf("create mp3 decoder: %w", err)
	}

	var left, right []float64
	frame := make([]byte, 4096)
	for {
		n, err := dec.Read(frame)
		if n > 0 {
			// go-mp3 always emits 16-bit little-endian stereo PCM.
			for i := 0; i+4 <= n; i += 4 {
				l := int16(uint16(frame[i]) | uint16(frame[i+1])<<8)
				r := int16(uint16(frame[i+2]) | uint16(frame[i+3])<<8)
				left = append(left, float64(l)/32768.0)
				right = append(right, float64(r)/32768.0)
			}
		}
		if err != nil {
			break
		}
	}

	return rawAudio{channels: [][]float64{left, right}, sampleRate: dec.SampleRate()}, nil
}

func decodeFLAC(f *os.File) (rawAudio, error) {
	stream, err := flac.New(f)
	if err != nil {
		return rawAudio{}, fmt.Errorf("open flac stream: %w", err)
	}

	numChans := int(stream.Info.NChannels)
	if numChans < 1 {
		numChans = 1
	}
	maxVal := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	channels := make([][]float64, numChans)

	for {
		frame, err := stream.ParseNext()
		if err != nil {
			break
		}
		numSamples := len(frame.Subframes[0].Samples)
		for i := 0; i < numSamples; i++ {
			for c := 0; c < numChans && c < len(frame.Subframes); c++ {
				channels[c] = append(channels[c], float64(frame.Subframes[c].Samples[i])/maxVal)
			}
		}
	}

	return rawAudio{channels: channels, sampleRate: int(stream.Info.SampleRate)}, nil
}

func decodeOGG(f *os.File) (rawAudio, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return rawAudio{}, fmt.Errorf("open ogg vorbis stream: %w", err)
	}

	numChans := reader.Channels()
	if numChans < 1 {
		numChans = 1
	}

	channels := make([][]float64, numChans)
	buf := make([]float32, 4096*numChans)
	for {
		n, err := reader.Read(buf)
		for i := 0; i+numChans <= n; i += numChans {
			for c := 0; c < numChans; c++ {
				channels[c] = append(channels[c], float64(buf[i+c]))
			}
		}
		if err != nil {
			break
		}
	}

	return rawAudio{channels: channels, sampleRate: reader.SampleRate()}, nil
}

// downmix averages across channels into a single mono slice.
func downmix(channels [][]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		return channels[0]
	}

	n := len(channels[0])
	for _, c := range channels {
		if len(c) < n {
			n = len(c)
		}
	}

	mono := make([]float64, n)
	inv := 1.0 / float64(len(channels))
	for i := 0; i < n; i++ {
		var sum float64
		for _, c := range channels {
			sum += c[i]
		}
		mono[i] = sum * inv
	}
	return mono
}

// resample converts samples from one sample rate to another using linear
// interpolation. No pack dependency implements resampling, so it is hand
// -rolled, matching how every pack repo hand-rolls its own decimator.
func resample(samples []float64, from, to int) []float64 {
	if from <= 0 || to <= 0 || from == to || len(samples) == 0 {
		return samples
	}

	ratio := float64(from) / float64(to)
	outLen := int(float64(len(samples)) / ratio)
	if outLen <= 0 {
		return nil
	}

	out := make([]float64, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		idx := int(srcPos)
		frac := srcPos - float64(idx)

		if idx+1 < len(samples) {
			out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
		} else {
			out[i] = samples[len(samples)-1]
		}
	}
	return out
}

// normalizePeak scales samples so the maximum absolute value is 1.0. An
// all-zero signal is returned unchanged; division by zero never happens.
func normalizePeak(samples []float64) []float64 {
	if len(samples) == 0 {
		return samples
	}

	peak := 0.0
	for _, v := range samples {
		if a := abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return samples
	}

	out := make([]float64, len(samples))
	inv := 1.0 / peak
	for i, v := range samples {
		out[i] = v * inv
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// SupportedExtensions lists the file extensions Load accepts.
func SupportedExtensions() []string {
	return []string{".wav", ".mp3", ".flac", ".ogg"}
}

// IsSupported reports whether path has a decodable extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions() {
		if e == ext {
			return true
		}
	}
	return false
}
