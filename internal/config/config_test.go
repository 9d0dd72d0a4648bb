package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCallConfig_MatchesSpecConstants(t *testing.T) {
	cfg := DefaultCallConfig()

	assert.Equal(t, 2048, cfg.Spectrogram.NFFT)
	assert.Equal(t, 512, cfg.Spectrogram.Hop)
	assert.Equal(t, -60.0, cfg.Spectrogram.AmpMin)
	assert.Equal(t, 15, cfg.Fingerprint.FanValue)
	assert.Equal(t, 0, cfg.Fingerprint.MinDeltaT)
	assert.Equal(t, 200, cfg.Fingerprint.MaxDeltaT)
	assert.Equal(t, 0.20, cfg.MatchRatio)
}

func TestLoad_ReadsMatchRatioOverride(t *testing.T) {
	os.Setenv("FPENGINE_MATCH_RATIO", "0.35")
	defer os.Unsetenv("FPENGINE_MATCH_RATIO")

	cfg := Load()
	assert.Equal(t, 0.35, cfg.Fingerprint.MatchRatio)
}
