package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsEmptyMapping(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	want := Mapping{"a.mp3": "Banking_Fraud", "y.mp3": "UPI_Payment_Scam"}

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestGenerate_UsesParentDirAsCategory(t *testing.T) {
	root := t.TempDir()
	categoryDir := filepath.Join(root, "Banking_Fraud")
	require.NoError(t, os.MkdirAll(categoryDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(categoryDir, "a.mp3"), []byte("x"), 0o644))

	legitDir := filepath.Join(root, "Legit_Call")
	require.NoError(t, os.MkdirAll(legitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legitDir, "b.mp3"), []byte("x"), 0o644))

	isAudio := func(path string) bool { return filepath.Ext(path) == ".mp3" }

	m, err := Generate(root, isAudio, map[string]bool{"Legit_Call": true})
	require.NoError(t, err)

	require.Equal(t, "Banking_Fraud", m.CategoryOf("a.mp3"))
	require.Empty(t, m.CategoryOf("b.mp3"))
}
