package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestReplaceRecording_InsertsAndReplaces(t *testing.T) {
	st := openTestStore(t)

	err := st.ReplaceRecording("a.mp3", []HashEntry{
		{Hash: "h1", RecordingID: "a.mp3", AnchorFrame: 0},
		{Hash: "h2", RecordingID: "a.mp3", AnchorFrame: 3},
	}, Recording{Category: "Banking_Fraud"})
	require.NoError(t, err)

	rows, err := st.Lookup([]string{"h1", "h2"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	err = st.ReplaceRecording("a.mp3", []HashEntry{
		{Hash: "h3", RecordingID: "a.mp3", AnchorFrame: 1},
	}, Recording{Category: "Banking_Fraud"})
	require.NoError(t, err)

	rows, err = st.Lookup([]string{"h1", "h2", "h3"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "h3", rows[0].Hash)
}

func TestLookup_ChunksAcrossLargeInput(t *testing.T) {
	st := openTestStore(t)

	entries := make([]HashEntry, 0, 1200)
	hashes := make([]string, 0, 1200)
	for i := 0; i < 1200; i++ {
		h := string(rune('a' + i%26))
		entries = append(entries, HashEntry{Hash: h, RecordingID: "big.mp3", AnchorFrame: i})
		hashes = append(hashes, h)
	}
	require.NoError(t, st.ReplaceRecording("big.mp3", entries, Recording{}))

	rows, err := st.Lookup(hashes)
	require.NoError(t, err)
	require.Len(t, rows, 1200)
}

func TestRecordingCategory(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.ReplaceRecording("y.mp3", nil, Recording{Category: "UPI_Payment_Scam"}))

	cat, err := st.RecordingCategory("y.mp3")
	require.NoError(t, err)
	require.Equal(t, "UPI_Payment_Scam", cat)
}
