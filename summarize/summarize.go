package summarize

// Summarizer turns raw agent output into a short synopsis by trying its
// matcher strategies in priority order. It is deterministic, never fails,
// and is safe for concurrent use.
type Summarizer struct {
	matchers []Matcher
}

// DefaultMatchers returns the standard strategy chain in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		ThoughtSectionMatcher{},
		FlightSearchMatcher{},
		ExtractedContentMatcher{},
		JSONTruncateMatcher{},
		StepLogMatcher{},
	}
}

// New creates a Summarizer with the default matcher chain.
func New() *Summarizer {
	return NewWithMatchers(DefaultMatchers()...)
}

// NewWithMatchers creates a Summarizer with an explicit strategy chain,
// tried in the given order.
func NewWithMatchers(matchers ...Matcher) *Summarizer {
	return &Summarizer{matchers: matchers}
}

// Summarize returns the synopsis from the first matching strategy, falling
// back to a 100-character truncation when nothing matches.
func (s *Summarizer) Summarize(raw string) string {
	for _, m := range s.matchers {
		if synopsis, ok := m.Match(raw); ok {
			return synopsis
		}
	}
	return "Result: " + Truncate(raw, 100)
}
