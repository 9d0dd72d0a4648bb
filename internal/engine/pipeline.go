package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/scamguard/fpengine/internal/audio"
	"github.com/scamguard/fpengine/internal/config"
	"github.com/scamguard/fpengine/internal/fingerprint"
	"github.com/scamguard/fpengine/internal/logger"
	"github.com/scamguard/fpengine/internal/peaks"
	"github.com/scamguard/fpengine/internal/spectrogram"
)

// fingerprintFile runs C1 through C4 against path and returns its hash set.
// Decode failures and degenerate audio (too few peaks to hash) are absorbed
// here: both simply yield a nil hash slice, matching the component-local
// error policy from the taxonomy (errDecodeFailed, errDegenerateAudio never
// leave this function as returned errors; they are only logged).
func fingerprintFile(path string, cfg config.FingerprintConfig, log *zap.Logger) []fingerprint.Hash {
	signal, err := audio.Load(path)
	if err != nil {
		log.Warn("decode failed, yielding no hashes",
			zap.String("path", path), zap.Error(fmt.Errorf("%w: %v", errDecodeFailed, err)))
		return nil
	}
	if len(signal.Samples) == 0 {
		return nil
	}

	log.Debug("decoded audio", zap.String("path", path), logger.WithDuration(signal.Duration()))

	specDB := spectrogram.Compute(signal.Samples, cfg.Spectrogram)
	detected := peaks.Pick(specDB, cfg.Spectrogram.AmpMin)

	hashes := fingerprint.Generate(detected, cfg.Fingerprint)
	if len(hashes) == 0 {
		log.Debug("no peaks within delta-t window, yielding no hashes",
			zap.String("path", path), zap.Error(errDegenerateAudio))
	} else {
		log.Debug("hashes generated", zap.String("path", path), logger.WithHashCount(len(hashes)))
	}

	return hashes
}
