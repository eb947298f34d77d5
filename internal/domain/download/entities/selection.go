package entities

// SelectionConstraints are the process-wide selection limits
type SelectionConstraints struct {
	MaxVideoBytes        int64
	MaxAudioBytes        int64
	MaxCombinedBytes     int64
	PreferredLanguages   []string
	RequireKnownFilesize bool
}

// SelectionResult is the outcome of one selection decision
type SelectionResult struct {
	Video           *EncodingCandidate
	Audio           *EncodingCandidate
	Title           string
	DurationSeconds int
	Width           *int
	Height          *int
}

// SameStream reports whether video and audio resolve to one combined candidate
func (r SelectionResult) SameStream() bool {
	return r.Video != nil && r.Audio != nil && r.Video.ID == r.Audio.ID
}

// CombinedSize sums the chosen stream sizes, unknown sizes count as 0
func (r SelectionResult) CombinedSize() int64 {
	if r.SameStream() {
		return r.Video.SizeOrZero()
	}
	return r.Video.SizeOrZero() + r.Audio.SizeOrZero()
}

// FormatSpec returns the engine format request for the chosen pair
func (r SelectionResult) FormatSpec() string {
	switch {
	case r.Video == nil && r.Audio == nil:
		return ""
	case r.Audio == nil || r.SameStream():
		return r.Video.ID
	case r.Video == nil:
		return r.Audio.ID
	default:
		return r.Video.ID + "+" + r.Audio.ID
	}
}
