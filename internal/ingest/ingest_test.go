package ingest

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scamguard/fpengine/internal/category"
	"github.com/scamguard/fpengine/internal/config"
	"github.com/scamguard/fpengine/internal/store"
)

func writeSineWAV(t *testing.T, path string, seconds float64) {
	t.Helper()

	const sampleRate = 22050
	n := int(seconds * sampleRate)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:   make([]int, n),
	}
	for i := 0; i < n; i++ {
		buf.Data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/sampleRate))
	}

	require.NoError(t, enc.Write(buf))
}

func TestBuild_FingerprintsAndIndexesCorpus(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Banking_Fraud"), 0o755))
	writeSineWAV(t, filepath.Join(root, "Banking_Fraud", "a.wav"), 3)

	legit := filepath.Join(root, "Legit_Call")
	require.NoError(t, os.MkdirAll(legit, 0o755))
	writeSineWAV(t, filepath.Join(legit, "b.wav"), 3)

	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	cats := category.Mapping{"a.wav": "Banking_Fraud", "b.wav": "Legit_Call"}

	report, err := Build(context.Background(), st, root, map[string]bool{"Legit_Call": true}, cats, config.DefaultCallConfig(), zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, report.FilesProcessed)

	recordings, err := st.Recordings()
	require.NoError(t, err)
	require.Len(t, recordings, 1)
	require.Equal(t, "a.wav", recordings[0].ID)
}

func TestBuild_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeSineWAV(t, filepath.Join(root, "a.wav"), 2)

	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	cfg := config.DefaultCallConfig()
	_, err = Build(context.Background(), st, root, nil, category.Mapping{}, cfg, zap.NewNop())
	require.NoError(t, err)

	first, err := st.Recordings()
	require.NoError(t, err)

	_, err = Build(context.Background(), st, root, nil, category.Mapping{}, cfg, zap.NewNop())
	require.NoError(t, err)

	second, err := st.Recordings()
	require.NoError(t, err)

	require.Equal(t, first[0].HashCount, second[0].HashCount)
}

func TestBuild_AbortsBatchOnStoreFailure(t *testing.T) {
	root := t.TempDir()
	writeSineWAV(t, filepath.Join(root, "a.wav"), 2)
	writeSineWAV(t, filepath.Join(root, "b.wav"), 2)

	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, st.Close()) // force every ReplaceRecording call to fail

	report, err := Build(context.Background(), st, root, nil, category.Mapping{}, config.DefaultCallConfig(), zap.NewNop())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStoreUnavailable))
	require.Equal(t, 0, report.FilesProcessed)
}
