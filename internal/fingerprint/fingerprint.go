// Package fingerprint turns spectral peaks into combinatorial hashes: each
// anchor peak is paired with up to FanValue peaks ahead of it within a
// bounded time window, and each pair is reduced to a compact hash via SHA-1.
package fingerprint

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/scamguard/fpengine/internal/peaks"
)

// Config bundles the hashing tunables.
type Config struct {
	FanValue  int // max number of target peaks paired with each anchor
	MinDeltaT int // minimum anchor-target frame distance, inclusive
	MaxDeltaT int // maximum anchor-target frame distance, inclusive
}

// DefaultConfig returns a fan-out of 15 and a delta-time window of
// [0, 200] frames.
func DefaultConfig() Config {
	return Config{
		FanValue:  15,
		MinDeltaT: 0,
		MaxDeltaT: 200,
	}
}

// Hash is a single fingerprint entry: a 20-hex-char combinatorial hash and
// the time frame of the anchor peak it was generated from.
type Hash struct {
	Value       string
	AnchorFrame int
}

// Generate derives the combinatorial hash set from a list of peaks. Peaks
// are sorted by time frame, then by frequency bin, so anchor/target pairing
// is deterministic
// regardless of the order Pick returned them in.
func Generate(ps []peaks.Peak, cfg Config) []Hash {
	if len(ps) < 2 {
		return nil
	}

	sorted := make([]peaks.Peak, len(ps))
	copy(sorted, ps)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TimeFrame != sorted[j].TimeFrame {
			return sorted[i].TimeFrame < sorted[j].TimeFrame
		}
		return sorted[i].FreqBin < sorted[j].FreqBin
	})

	var hashes []Hash
	for i, anchor := range sorted {
		paired := 0
		for j := i + 1; j < len(sorted) && paired < cfg.FanValue; j++ {
			target := sorted[j]
			deltaT := target.TimeFrame - anchor.TimeFrame
			if deltaT < cfg.MinDeltaT {
				continue
			}
			if deltaT > cfg.MaxDeltaT {
				break // sorted by time: no later target is in range either
			}

			hashes = append(hashes, Hash{
				Value:       hashValue(anchor.FreqBin, target.FreqBin, deltaT),
				AnchorFrame: anchor.TimeFrame,
			})
			paired++
		}
	}

	return hashes
}

// hashValue reduces an (anchor freq, target freq, delta-t) triple to a
// 20-character hex digest, truncated from a SHA-1 sum of their decimal
// values joined by "|".
func hashValue(freqA, freqB, deltaT int) string {
	input := fmt.Sprintf("%d|%d|%d", freqA, freqB, deltaT)
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:20]
}
