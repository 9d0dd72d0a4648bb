package engine

// Label is the closed set of outcomes a query can produce.
type Label string

const (
	KnownFraud Label = "KNOWN_FRAUD"
	Legit      Label = "LEGIT"
	Error      Label = "ERROR"
)

// Verdict is the fixed-shape output of a query, never a variable-field
// record: every field is present regardless of Label, populated with the
// zero value where it does not apply.
type Verdict struct {
	Label      Label
	Confidence float64
	ScamType   string
	MatchRatio float64
	BestMatch  string // empty when there is no match
	Details    string
}

// noMatch is the canonical empty-handed verdict.
func noMatch(details string) Verdict {
	return Verdict{Label: Legit, Details: details}
}
