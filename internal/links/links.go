// Package links extracts outbound destination URLs from YouTube
// redirect-wrapper links embedded in rendered page text.
package links

import (
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonesrussell/ytlinks/internal/youtube"
)

// eventPriority ranks redirect event tags. Lower rank sorts first; tags not
// listed here rank after all known tags.
var eventPriority = map[string]int{
	"channel_header":         0,
	"channel_about_metadata": 1,
	"channel_description":    2,
}

// unknownEventRank is the rank assigned to event tags missing from eventPriority.
const unknownEventRank = 3

// candidate is a redirect link found during the scan, before sorting and dedup.
type candidate struct {
	event string
	dest  string
	index int
}

// Parse scans page text for YouTube redirect-wrapper URLs and returns the
// deduplicated destination URLs they carry, ordered by event priority and
// then by discovery order. Malformed candidates and candidates without a
// destination are skipped.
func Parse(pageText string) []string {
	structured := make([]candidate, 0)

	for i, raw := range scanRedirectURLs(pageText) {
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}

		params := parsed.Query()
		dest := params.Get("q")
		if dest == "" {
			continue
		}

		// Destinations are sometimes double-encoded in the wild; a second
		// decode is a no-op for singly-encoded values. PathUnescape keeps
		// literal "+" characters intact.
		if unescaped, escErr := url.PathUnescape(dest); escErr == nil {
			dest = unescaped
		}

		structured = append(structured, candidate{
			event: params.Get("event"),
			dest:  dest,
			index: i,
		})
	}

	// Favour header links while preserving discovery order within a tag.
	sort.Slice(structured, func(a, b int) bool {
		ra, rb := eventRank(structured[a].event), eventRank(structured[b].event)
		if ra != rb {
			return ra < rb
		}
		return structured[a].index < structured[b].index
	})

	seen := make(map[string]struct{}, len(structured))
	out := make([]string, 0, len(structured))

	for _, c := range structured {
		if _, dup := seen[c.dest]; dup {
			continue
		}
		seen[c.dest] = struct{}{}
		out = append(out, c.dest)
	}

	return out
}

// Filter keeps only links containing at least one of the given substrings,
// matched case-insensitively. A nil or empty term list keeps every link.
func Filter(links []string, terms []string) []string {
	if len(terms) == 0 {
		return links
	}

	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
	}

	out := make([]string, 0, len(links))

	for _, link := range links {
		lowerLink := strings.ToLower(link)
		for _, term := range lowered {
			if strings.Contains(lowerLink, term) {
				out = append(out, link)
				break
			}
		}
	}

	return out
}

// eventRank maps an event tag to its sort rank.
func eventRank(event string) int {
	if rank, ok := eventPriority[event]; ok {
		return rank
	}
	return unknownEventRank
}

// scanRedirectURLs returns every redirect-wrapper URL in the text, in
// discovery order. A candidate extends from the redirect prefix up to the
// first whitespace character or closing parenthesis.
func scanRedirectURLs(pageText string) []string {
	var found []string

	start := 0
	for {
		idx := strings.Index(pageText[start:], youtube.RedirectPrefix)
		if idx == -1 {
			break
		}
		idx += start

		end := idx
		for end < len(pageText) {
			r, size := utf8.DecodeRuneInString(pageText[end:])
			if unicode.IsSpace(r) || r == ')' {
				break
			}
			end += size
		}

		found = append(found, pageText[idx:end])
		start = end
	}

	return found
}
