// Package config loads the engine's environment-backed configuration and
// bundles the fingerprinting tunables into named presets.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/scamguard/fpengine/internal/fingerprint"
	"github.com/scamguard/fpengine/internal/spectrogram"
)

// FingerprintConfig bundles every tunable that affects hash generation, so
// a different preset is a config change rather than a call-site change.
type FingerprintConfig struct {
	Spectrogram spectrogram.Config
	Fingerprint fingerprint.Config
	MatchRatio  float64 // operational threshold, default 0.20
}

// DefaultCallConfig returns the tunables specified for phone-call
// fingerprinting: a 2048/512 STFT, -60dB floor, fan-out of 15, Δt up to
// 200 frames, and a 0.20 match-ratio threshold.
func DefaultCallConfig() FingerprintConfig {
	return FingerprintConfig{
		Spectrogram: spectrogram.DefaultConfig(),
		Fingerprint: fingerprint.DefaultConfig(),
		MatchRatio:  0.20,
	}
}

// Config is the engine's process-level configuration, loaded from
// environment variables (optionally backed by a .env file).
type Config struct {
	IndexPath       string // SQLITE file backing the fingerprint store
	CorpusRoot      string // root directory of known-fraud recordings
	CategoryMapPath string // YAML mapping of recording id -> category
	ExcludeDirs     map[string]bool
	LogPath         string // JSON log file path; empty selects the command's default log file
	Fingerprint     FingerprintConfig
}

// Load reads configuration from the environment, first attempting to load
// a .env file in the working directory (its absence is not an error, just
// like every other command in this stack).
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		IndexPath:       getEnv("FPENGINE_INDEX_PATH", "fingerprints.db"),
		CorpusRoot:      getEnv("FPENGINE_CORPUS_ROOT", "./corpus"),
		CategoryMapPath: getEnv("FPENGINE_CATEGORY_MAP", "categories.yaml"),
		LogPath:         getEnv("FPENGINE_LOG_PATH", ""),
		ExcludeDirs:     map[string]bool{"Legit_Call": true},
		Fingerprint:     DefaultCallConfig(),
	}

	if ratio := os.Getenv("FPENGINE_MATCH_RATIO"); ratio != "" {
		if v, err := strconv.ParseFloat(ratio, 64); err == nil {
			cfg.Fingerprint.MatchRatio = v
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
