// Package peaks implements 2-D local-maximum peak picking over a
// log-amplitude spectrogram.
package peaks

// Peak is a coordinate in the spectrogram: (freqBin, timeFrame).
type Peak struct {
	FreqBin   int
	TimeFrame int
}

// structureRadius is the iteration count applied to the 4-connected
// structuring element (iterate_structure ×20), which yields a diamond
// -shaped (L1-ball) neighborhood of radius 20. There is no Go equivalent of
// scipy.ndimage's binary_dilation/binary_erosion/iterate_structure anywhere
// in the example corpus, so the neighborhood is enumerated directly rather
// than built by repeated dilation — the resulting shape is identical.
const structureRadius = 20

// offsets is the set of (dFreq, dTime) pairs within L1 distance
// structureRadius of the origin, including the origin itself. This is the
// structuring element used for both the local-maximum test and the
// zero-background erosion.
var offsets = buildOffsets(structureRadius)

func buildOffsets(radius int) [][2]int {
	var out [][2]int
	for df := -radius; df <= radius; df++ {
		rem := radius - abs(df)
		for dt := -rem; dt <= rem; dt++ {
			out = append(out, [2]int{df, dt})
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Pick returns the detected peaks in specDB, indexed [timeFrame][freqBin],
// in row-major (time-then-freq) order. A point is a detected peak iff it is
// a local maximum of specDB within the diamond neighborhood AND is not part
// of a zero-background plateau (the local-max XOR eroded-zero-background
// test), AND its value exceeds ampMin.
func Pick(specDB [][]float64, ampMin float64) []Peak {
	if len(specDB) == 0 {
		return nil
	}

	numFrames := len(specDB)

	var detected []Peak
	for t := 0; t < numFrames; t++ {
		numBins := len(specDB[t])
		for f := 0; f < numBins; f++ {
			isMax := isLocalMax(specDB, t, f)
			isEroded := erodedZeroBackground(specDB, t, f)
			if isMax != isEroded { // XOR
				if specDB[t][f] > ampMin {
					detected = append(detected, Peak{FreqBin: f, TimeFrame: t})
				}
			}
		}
	}

	return detected
}

// isLocalMax reports whether specDB[t][f] equals the maximum value over the
// diamond neighborhood centered at (t, f). Out-of-bounds neighbors are
// excluded from the comparison (there is no data there to exceed the
// center).
func isLocalMax(specDB [][]float64, t, f int) bool {
	center := specDB[t][f]
	for _, off := range offsets {
		nt := t + off[1]
		nf := f + off[0]
		if nt < 0 || nt >= len(specDB) {
			continue
		}
		row := specDB[nt]
		if nf < 0 || nf >= len(row) {
			continue
		}
		if row[nf] > center {
			return false
		}
	}
	return true
}

// erodedZeroBackground reports whether (t, f) survives binary erosion of
// the zero-background mask (specDB == 0) using the same diamond structuring
// element, with out-of-bounds neighbors treated as border_value=1 (true),
// matching scipy's erosion border semantics.
func erodedZeroBackground(specDB [][]float64, t, f int) bool {
	for _, off := range offsets {
		nt := t + off[1]
		nf := f + off[0]
		if nt < 0 || nt >= len(specDB) {
			continue // border_value = 1: does not falsify the AND
		}
		row := specDB[nt]
		if nf < 0 || nf >= len(row) {
			continue
		}
		if row[nf] != 0 {
			return false
		}
	}
	return true
}
