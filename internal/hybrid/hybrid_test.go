package hybrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopClassifier_AlwaysAbstains(t *testing.T) {
	var c Classifier = NopClassifier{}

	result, err := c.Classify(context.Background(), ClassifyInput{})
	require.NoError(t, err)
	assert.Zero(t, result.Score)
}

func TestNopTranscriber_AlwaysEmpty(t *testing.T) {
	var tr Transcriber = NopTranscriber{}

	transcript, err := tr.Transcribe(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, transcript)
}
