// Package summarize compresses raw, free-form agent output into short
// human-readable synopses. Raw results may be verbose step logs, structured
// JSON payloads, or anything in between, so summarization is heuristic and
// lossy by design.
//
// The heuristics are modeled as an ordered list of independent Matcher
// strategies tried in fixed priority order; the first match wins. Summarize
// is a total function: when no strategy matches it degrades to truncation
// rather than failing.
package summarize
