package summarize

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Matcher is one summarization strategy. Match returns the synopsis and true
// when the strategy applies to the raw result, or ("", false) otherwise.
// Matchers must be stateless and side-effect free.
type Matcher interface {
	// Name identifies the strategy for logging and tests.
	Name() string

	// Match attempts to produce a synopsis from the raw result.
	Match(raw string) (string, bool)
}

// thoughtMarkers locate the agent's final-thought sections inside verbose run
// transcripts. Checked in order; the first marker present anywhere wins.
var thoughtMarkers = []string{
	"✨ Manus's thoughts:",
	"Manus's thoughts:",
	"Agent thoughts:",
}

// terminationMarkers bound a thought section: text after the earliest one is
// tool-dispatch noise, not the agent's answer.
var terminationMarkers = []string{
	"Tools being prepared: ['terminate']",
	`Tools being prepared: ["terminate"]`,
	"Using tool: terminate",
}

// ThoughtSectionMatcher extracts the text after the last occurrence of a
// thought marker, cut at the earliest termination marker. The agent's final
// thoughts carry its actual answer, so this strategy has highest priority
// and returns the section verbatim with no length cap.
type ThoughtSectionMatcher struct{}

// Name implements Matcher.
func (ThoughtSectionMatcher) Name() string { return "thought_section" }

// Match implements Matcher.
func (ThoughtSectionMatcher) Match(raw string) (string, bool) {
	for _, marker := range thoughtMarkers {
		last := strings.LastIndex(raw, marker)
		if last < 0 {
			continue
		}

		section := raw[last:]
		end := len(section)
		for _, term := range terminationMarkers {
			if pos := strings.Index(section, term); pos >= 0 && pos < end {
				end = pos
			}
		}

		section = strings.TrimSpace(section[:end])
		clean := strings.TrimSpace(marker)
		return strings.TrimSpace(strings.ReplaceAll(section, clean, "")), true
	}
	return "", false
}

// FlightSearchMatcher recognizes the browsing capability's flight-search
// payload and composes a one-line synopsis: route, dates, the first priced
// fare and the first nonstop duration.
type FlightSearchMatcher struct{}

// Name implements Matcher.
func (FlightSearchMatcher) Name() string { return "flight_search" }

// Match implements Matcher.
func (FlightSearchMatcher) Match(raw string) (string, bool) {
	if !gjson.Valid(raw) {
		return "", false
	}

	parsed := gjson.Parse(raw)
	if !parsed.IsObject() || !parsed.Get("flight_search_details").Exists() {
		return "", false
	}

	route := "Unknown route"
	if r := parsed.Get("flight_search_details.route"); r.Exists() {
		route = r.String()
	}
	dates := "Unknown dates"
	if d := parsed.Get("flight_search_details.dates"); d.Exists() {
		dates = d.String()
	}

	cheapest := "Unknown"
	fastest := "No nonstop flights"
	for _, flight := range parsed.Get("available_flights").Array() {
		if cheapest == "Unknown" {
			if price := flight.Get("price"); truthy(price) {
				cheapest = price.String()
			}
		}
		if fastest == "No nonstop flights" {
			duration := flight.Get("duration")
			if truthy(duration) && strings.Contains(flight.Get("stops").String(), "Nonstop") {
				fastest = fmt.Sprintf("Duration: %s", duration.String())
			}
		}
	}

	return fmt.Sprintf("Flight search for %s, %s. Cheapest: %s. %s", route, dates, cheapest, fastest), true
}

// truthy reports whether a JSON value is non-empty and non-zero. Missing
// keys, nulls, false, zero numbers, empty strings, and empty collections
// all count as absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		raw := strings.TrimSpace(r.Raw)
		return raw != "[]" && raw != "{}"
	default:
		return true
	}
}

// extractedContentKeys mark structured page extractions produced by the
// browsing capability.
var extractedContentKeys = []string{
	"interactive_elements",
	"available_flights",
	"flight_search",
}

// ExtractedContentMatcher recognizes extracted page content and reports the
// number of top-level data points instead of dumping the payload.
type ExtractedContentMatcher struct{}

// Name implements Matcher.
func (ExtractedContentMatcher) Name() string { return "extracted_content" }

// Match implements Matcher.
func (ExtractedContentMatcher) Match(raw string) (string, bool) {
	if !gjson.Valid(raw) {
		return "", false
	}

	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return "", false
	}

	for _, key := range extractedContentKeys {
		if parsed.Get(key).Exists() {
			return fmt.Sprintf("Extracted page information with %d data points", len(parsed.Map())), true
		}
	}
	return "", false
}

// JSONTruncateMatcher handles any remaining structured result by truncating
// its raw form to 150 characters.
type JSONTruncateMatcher struct{}

// Name implements Matcher.
func (JSONTruncateMatcher) Name() string { return "json_truncate" }

// Match implements Matcher.
func (JSONTruncateMatcher) Match(raw string) (string, bool) {
	if !gjson.Valid(raw) {
		return "", false
	}
	return "Result: " + Truncate(raw, 150), true
}

// StepLogMatcher detects "Step N: ..." run transcripts and returns the last
// non-empty step segment.
type StepLogMatcher struct{}

// Name implements Matcher.
func (StepLogMatcher) Name() string { return "step_log" }

// Match implements Matcher.
func (StepLogMatcher) Match(raw string) (string, bool) {
	segments := strings.Split(raw, "Step ")
	if len(segments) < 2 {
		return "", false
	}

	tail := segments
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}
	for i := len(tail) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(tail[i]); s != "" {
			return "Final result: " + s, true
		}
	}
	return "", false
}

// Truncate caps s at n runes, appending "..." when anything was cut. Rune
// based so multibyte text (the thought markers include one) is never split.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
