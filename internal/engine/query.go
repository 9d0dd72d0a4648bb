package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scamguard/fpengine/internal/audio"
	"github.com/scamguard/fpengine/internal/category"
	"github.com/scamguard/fpengine/internal/config"
	"github.com/scamguard/fpengine/internal/hybrid"
	"github.com/scamguard/fpengine/internal/logger"
	"github.com/scamguard/fpengine/internal/match"
	"github.com/scamguard/fpengine/internal/store"
)

// Mode selects which collaborators a query consults.
type Mode string

const (
	ModeFingerprint Mode = "fingerprint"
	ModeHybrid      Mode = "hybrid"
	ModeAuto        Mode = "auto"
)

// hybridAudioSeconds is the fixed window the neural classifier consumes,
// per the collaborator contract.
const hybridAudioSeconds = 15

// Engine bundles the store handle, category mapping, configuration, and
// collaborator implementations constructed once at startup and reused
// across queries, rather than scattering them across ambient package-level
// globals.
type Engine struct {
	Store       *store.Store
	Categories  category.Mapping
	Config      config.FingerprintConfig
	Classifier  hybrid.Classifier
	Transcriber hybrid.Transcriber
	Log         *zap.Logger
}

// New constructs an Engine with no-op hybrid collaborators. Callers that
// have a real classifier/transcriber can overwrite those fields before the
// first Query.
func New(st *store.Store, cats category.Mapping, cfg config.FingerprintConfig, log *zap.Logger) *Engine {
	if cfg.Fingerprint.FanValue <= 0 {
		panic(fmt.Errorf("%w: fan value must be positive, got %d", ErrInvalidParameter, cfg.Fingerprint.FanValue))
	}
	if cfg.MatchRatio < 0 {
		panic(fmt.Errorf("%w: match ratio must be non-negative, got %f", ErrInvalidParameter, cfg.MatchRatio))
	}

	return &Engine{
		Store:       st,
		Categories:  cats,
		Config:      cfg,
		Classifier:  hybrid.NopClassifier{},
		Transcriber: hybrid.NopTranscriber{},
		Log:         log,
	}
}

// Query fingerprints path and decides a verdict according to mode.
//
// In ModeFingerprint, only the fingerprint matcher runs. In ModeHybrid,
// only the neural classifier runs (the fingerprint stage is skipped
// entirely). In ModeAuto, the fingerprint matcher runs first; a
// KNOWN_FRAUD verdict returns immediately, otherwise the engine falls
// through to the classifier with no memoized fingerprint state, discarding
// whatever partial fingerprint data was computed.
func (e *Engine) Query(ctx context.Context, path string, mode Mode) (Verdict, error) {
	switch mode {
	case ModeFingerprint:
		return e.queryFingerprint(path)
	case ModeHybrid:
		return e.queryHybrid(ctx, path)
	case ModeAuto:
		v, err := e.queryFingerprint(path)
		if err != nil {
			return Verdict{}, err
		}
		if v.Label == KnownFraud {
			return v, nil
		}
		return e.queryHybrid(ctx, path)
	default:
		return Verdict{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidParameter, mode)
	}
}

func (e *Engine) queryFingerprint(path string) (Verdict, error) {
	hashes := fingerprintFile(path, e.Config, e.Log)
	if len(hashes) == 0 {
		return noMatch("preprocessing failed or no usable peaks"), nil
	}

	values := make([]string, len(hashes))
	for i, h := range hashes {
		values[i] = h.Value
	}

	result, err := match.Score(e.Store, values)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if result.BestMatch == "" || result.MatchRatio < e.Config.MatchRatio {
		e.Log.Debug("no match above threshold", logger.WithMatchRatio(result.MatchRatio))
		return Verdict{Label: Legit, MatchRatio: result.MatchRatio, Details: "below match threshold"}, nil
	}

	confidence := result.MatchRatio / e.Config.MatchRatio
	if confidence > 1.0 {
		confidence = 1.0
	}

	e.Log.Info("fingerprint match",
		logger.WithRecordingID(result.BestMatch), logger.WithMatchRatio(result.MatchRatio))

	return Verdict{
		Label:      KnownFraud,
		Confidence: confidence,
		ScamType:   e.Categories.CategoryOf(result.BestMatch),
		MatchRatio: result.MatchRatio,
		BestMatch:  result.BestMatch,
		Details:    "fingerprint match",
	}, nil
}

func (e *Engine) queryHybrid(ctx context.Context, path string) (Verdict, error) {
	signal, err := audio.Load(path)
	if err != nil {
		return noMatch("preprocessing failed"), nil
	}

	windowed := fitToWindow(signal.Samples, signal.SampleRate, hybridAudioSeconds)

	transcript, err := e.Transcriber.Transcribe(ctx, signal.Samples, signal.SampleRate)
	if err != nil {
		transcript = ""
	}

	result, err := e.Classifier.Classify(ctx, hybrid.ClassifyInput{
		Samples:    windowed,
		SampleRate: signal.SampleRate,
		Transcript: transcript,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("engine: classify %s: %w", path, err)
	}

	if result.Score >= 0.5 {
		return Verdict{Label: KnownFraud, Confidence: result.Score, Details: "hybrid classifier"}, nil
	}
	return Verdict{Label: Legit, Confidence: 1 - result.Score, Details: "hybrid classifier"}, nil
}

// fitToWindow pads with silence or truncates samples to exactly
// seconds*sampleRate samples.
func fitToWindow(samples []float64, sampleRate, seconds int) []float64 {
	target := sampleRate * seconds
	if len(samples) >= target {
		return samples[:target]
	}
	out := make([]float64, target)
	copy(out, samples)
	return out
}
