// Package spectrogram computes the log-amplitude magnitude STFT that feeds
// peak picking.
package spectrogram

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Config bundles the STFT tunables.
type Config struct {
	NFFT   int     // window size in samples
	Hop    int     // hop size in samples
	AmpMin float64 // dB floor below which peaks are discarded
}

// DefaultConfig returns a 2048-sample window, 512-sample hop, and a
// -60 dB amplitude floor.
func DefaultConfig() Config {
	return Config{
		NFFT:   2048,
		Hop:    512,
		AmpMin: -60.0,
	}
}

// dbFloor is the absolute numerical floor used when a spectrogram frame is
// silent, so log10(0) never happens.
const dbFloor = 1e-10

// Compute returns the log-amplitude magnitude spectrogram of y, indexed
// [timeFrame][freqBin]. Reference for the dB conversion is the maximum
// magnitude across the whole array, computed strictly after magnitude
// extraction, never before.
func Compute(y []float64, cfg Config) [][]float64 {
	if len(y) == 0 {
		return nil
	}

	window := hannWindow(cfg.NFFT)
	// Output shape is ceil(len(y)/hop) frames; the final frame is zero
	// -padded rather than dropped.
	numFrames := (len(y) + cfg.Hop - 1) / cfg.Hop

	numBins := cfg.NFFT/2 + 1
	magnitude := make([][]float64, numFrames)
	maxMag := 0.0

	for frame := 0; frame < numFrames; frame++ {
		start := frame * cfg.Hop
		windowed := make([]float64, cfg.NFFT)
		for i := 0; i < cfg.NFFT; i++ {
			idx := start + i
			if idx < len(y) {
				windowed[i] = y[idx] * window[i]
			}
		}

		spectrum := fft.FFTReal(windowed)
		mags := make([]float64, numBins)
		for b := 0; b < numBins && b < len(spectrum); b++ {
			mags[b] = cmplxAbs(spectrum[b])
			if mags[b] > maxMag {
				maxMag = mags[b]
			}
		}
		magnitude[frame] = mags
	}

	ref := maxMag
	if ref < dbFloor {
		ref = dbFloor
	}

	specDB := make([][]float64, numFrames)
	for frame, mags := range magnitude {
		row := make([]float64, len(mags))
		for b, m := range mags {
			amp := m / ref
			if amp < dbFloor {
				amp = dbFloor
			}
			row[b] = 20 * math.Log10(amp)
		}
		specDB[frame] = row
	}

	return specDB
}

// hannWindow builds a Hann window of the given size. No pack dependency
// provides window functions, so this is hand-rolled like every example
// repo in the corpus does.
func hannWindow(size int) []float64 {
	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < size; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size-1))
	}
	return w
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
