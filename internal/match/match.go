// Package match implements the query-time scorer: probe the index with a
// query recording's hash values and aggregate per-recording votes into a
// single match decision.
package match

import (
	"fmt"
	"sort"

	"github.com/scamguard/fpengine/internal/store"
)

// Result is the scorer's output before it is wrapped in an engine-level
// Verdict: the best-matching recording id (empty if none), its ratio of
// matched query hashes, and the total number of query hashes.
type Result struct {
	BestMatch  string
	MatchRatio float64
	QueryCount int
}

// Score probes the store with queryHashes and returns the best-matching
// recording by straight vote: every index row that matches a query hash
// contributes one vote to its recording_id, regardless of whether that
// hash also matched other recordings. Ties are broken lexicographically by
// recording_id for determinism.
//
// An empty queryHashes list scores as NoMatch with a ratio of 0, never as
// an error.
func Score(st *store.Store, queryHashes []string) (Result, error) {
	n := len(queryHashes)
	if n == 0 {
		return Result{}, nil
	}

	rows, err := st.Lookup(queryHashes)
	if err != nil {
		return Result{}, fmt.Errorf("match: lookup: %w", err)
	}

	votes := make(map[string]int, len(rows))
	for _, row := range rows {
		votes[row.RecordingID]++
	}

	best, bestVotes := bestCandidate(votes)
	if best == "" {
		return Result{QueryCount: n}, nil
	}

	return Result{
		BestMatch:  best,
		MatchRatio: float64(bestVotes) / float64(n),
		QueryCount: n,
	}, nil
}

func bestCandidate(votes map[string]int) (string, int) {
	var candidates []string
	for id := range votes {
		candidates = append(candidates, id)
	}
	sort.Strings(candidates)

	var best string
	var bestVotes int
	for _, id := range candidates {
		if votes[id] > bestVotes {
			best = id
			bestVotes = votes[id]
		}
	}
	return best, bestVotes
}
