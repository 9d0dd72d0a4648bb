package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scamguard/fpengine/internal/peaks"
)

func TestGenerate_EmptyOrSinglePeakYieldsNoHashes(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, Generate(nil, cfg))
	assert.Empty(t, Generate([]peaks.Peak{{FreqBin: 1, TimeFrame: 1}}, cfg))
}

func TestGenerate_TwoPeaksDeltaZero(t *testing.T) {
	cfg := DefaultConfig()
	ps := []peaks.Peak{
		{FreqBin: 10, TimeFrame: 5},
		{FreqBin: 20, TimeFrame: 5},
	}

	hashes := Generate(ps, cfg)
	require.Len(t, hashes, 1)
	assert.Len(t, hashes[0].Value, 20)
	assert.Equal(t, 5, hashes[0].AnchorFrame)
}

func TestGenerate_DeltaBeyondWindowEmitsNoHash(t *testing.T) {
	cfg := DefaultConfig()
	ps := []peaks.Peak{
		{FreqBin: 10, TimeFrame: 0},
		{FreqBin: 20, TimeFrame: 201},
	}

	assert.Empty(t, Generate(ps, cfg))
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	ps := []peaks.Peak{
		{FreqBin: 3, TimeFrame: 9},
		{FreqBin: 5, TimeFrame: 2},
		{FreqBin: 7, TimeFrame: 2},
	}

	a := Generate(ps, cfg)
	b := Generate(ps, cfg)
	assert.Equal(t, a, b)
}

func TestGenerate_RespectsFanValue(t *testing.T) {
	cfg := Config{FanValue: 2, MinDeltaT: 0, MaxDeltaT: 1000}

	var ps []peaks.Peak
	for i := 0; i < 10; i++ {
		ps = append(ps, peaks.Peak{FreqBin: i, TimeFrame: i})
	}

	hashes := Generate(ps, cfg)
	anchorCount := map[int]int{}
	for _, h := range hashes {
		anchorCount[h.AnchorFrame]++
	}
	for _, count := range anchorCount {
		assert.LessOrEqual(t, count, 2)
	}
}

func TestGenerate_SparseInTimeYieldsNoHashes(t *testing.T) {
	cfg := DefaultConfig()
	var ps []peaks.Peak
	for i := 0; i < 5; i++ {
		ps = append(ps, peaks.Peak{FreqBin: i, TimeFrame: i * 1000})
	}

	assert.Empty(t, Generate(ps, cfg), "peaks spaced far beyond max delta-t must yield no hashes")
}
