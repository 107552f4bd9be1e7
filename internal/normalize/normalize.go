// Package normalize provides text and timestamp cleanup for scraped posts.
package normalize

import (
	"log/slog"
	"regexp"
	"strings"
	"time"
)

var (
	// Everything outside letters, digits, underscore, whitespace and the
	// small punctuation set news posts are allowed to keep. Emoji, arrows,
	// decorative symbols and the like all fall through here.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s,.!?"'-]`)
	whitespace = regexp.MustCompile(`\s+`)

	// Runs of shouting punctuation collapse to a single mark. Periods are
	// left alone so ellipses survive.
	bangs     = regexp.MustCompile(`!{2,}`)
	questions = regexp.MustCompile(`\?{2,}`)
	commas    = regexp.MustCompile(`,{2,}`)
)

// dateLayouts are tried in order when parsing source timestamps. Telegram
// emits RFC 3339 with an explicit offset; the bare forms cover feeds that
// drop the zone.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CanonicalDateFormat is the timestamp layout stored in the corpus.
const CanonicalDateFormat = "02-01-2006 15:04:05"

// CleanText strips emoji and decorative symbols from a post, collapses
// whitespace and repeated punctuation, and trims the result. Empty input is
// returned unchanged.
func CleanText(text string) string {
	if text == "" {
		return text
	}
	text = disallowed.ReplaceAllString(text, " ")
	text = bangs.ReplaceAllString(text, "!")
	text = questions.ReplaceAllString(text, "?")
	text = commas.ReplaceAllString(text, ",")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// FormatDate converts an ISO-8601 timestamp (a trailing Z is treated as UTC)
// to DD-MM-YYYY HH:MM:SS. A value that does not parse is logged and returned
// unchanged; a bad timestamp must never abort ingestion.
func FormatDate(raw string, log *slog.Logger) string {
	if raw == "" {
		return raw
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(CanonicalDateFormat)
		}
	}
	if log != nil {
		log.Warn("unparseable timestamp kept as-is", slog.String("raw", raw))
	}
	return raw
}
