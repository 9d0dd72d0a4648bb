package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scamguard/fpengine/internal/category"
	"github.com/scamguard/fpengine/internal/config"
	"github.com/scamguard/fpengine/internal/match"
	"github.com/scamguard/fpengine/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	eng := New(st, category.Mapping{"a.mp3": "Banking_Fraud"}, config.DefaultCallConfig(), zap.NewNop())
	return eng, st
}

func TestQuery_NoMatchOnEmptyIndex(t *testing.T) {
	eng, _ := newTestEngine(t)

	v, err := eng.Query(context.Background(), "/does/not/exist.wav", ModeFingerprint)
	require.NoError(t, err)
	require.Equal(t, Legit, v.Label)
}

func TestScore_StoredRecordingClearsEngineThreshold(t *testing.T) {
	eng, st := newTestEngine(t)

	entries := make([]store.HashEntry, 100)
	hashes := make([]string, 100)
	for i := range entries {
		h := string(rune('a' + i%26))
		entries[i] = store.HashEntry{Hash: h, RecordingID: "a.mp3", AnchorFrame: i}
		hashes[i] = h
	}
	require.NoError(t, st.ReplaceRecording("a.mp3", entries, store.Recording{Category: "Banking_Fraud"}))

	result, err := match.Score(st, hashes)
	require.NoError(t, err)
	require.Equal(t, "a.mp3", result.BestMatch)
	require.GreaterOrEqual(t, result.MatchRatio, eng.Config.MatchRatio)
}

func TestNew_PanicsOnInvalidFanValue(t *testing.T) {
	cfg := config.DefaultCallConfig()
	cfg.Fingerprint.FanValue = 0

	require.Panics(t, func() {
		st, _ := store.Open(":memory:", zap.NewNop())
		New(st, category.Mapping{}, cfg, zap.NewNop())
	})
}
