// Package subscriptions reads channel subscriptions from a Google Takeout
// CSV export.
package subscriptions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonesrussell/ytlinks/internal/youtube"
)

// ErrNoSubscriptions indicates the CSV contained no usable rows.
var ErrNoSubscriptions = errors.New("no subscriptions found")

// Subscription is a single channel subscription parsed from the export.
// Immutable after construction.
type Subscription struct {
	Title     string
	URL       string
	ChannelID string
}

// AboutURL returns the canonical about-page URL for the subscription.
func (s Subscription) AboutURL() (string, error) {
	return youtube.AboutURL(s.URL, s.ChannelID)
}

// Header aliases accepted for each canonical field. Matching is
// case-insensitive with underscores treated as spaces.
var (
	titleAliases = map[string]struct{}{"channel title": {}, "title": {}}
	urlAliases   = map[string]struct{}{"channel url": {}, "url": {}}
	idAliases    = map[string]struct{}{"channel id": {}, "id": {}}
)

// Reader reads subscriptions from a Takeout CSV file.
type Reader struct {
	path string
}

// NewReader creates a reader for the given CSV path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Read parses the CSV and returns every usable subscription. Rows missing
// both a title and a resolvable URL are skipped. A missing file is surfaced
// to the caller as an error.
func (r *Reader) Read() ([]Subscription, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open subscriptions file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads subscriptions from CSV content. The input is expected to be
// UTF-8 with an optional byte-order mark.
func Parse(input io.Reader) ([]Subscription, error) {
	cr := csv.NewReader(input)
	cr.FieldsPerRecord = -1 // Takeout exports occasionally have ragged rows.

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var subs []Subscription

	for {
		record, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read csv row: %w", readErr)
		}

		if sub, ok := rowToSubscription(header, record); ok {
			subs = append(subs, sub)
		}
	}

	return subs, nil
}

// rowToSubscription maps a CSV row onto a Subscription using header aliases.
// Returns false when the row has neither a title nor a resolvable URL.
func rowToSubscription(header, record []string) (Subscription, bool) {
	title := firstMatch(header, record, titleAliases)
	rawURL := firstMatch(header, record, urlAliases)
	channelID := firstMatch(header, record, idAliases)

	if rawURL == "" && channelID != "" {
		rawURL = youtube.Origin + "/channel/" + strings.TrimSpace(channelID)
	}

	if title == "" || rawURL == "" {
		return Subscription{}, false
	}

	return Subscription{
		Title:     strings.TrimSpace(title),
		URL:       strings.TrimSpace(rawURL),
		ChannelID: channelID,
	}, true
}

// firstMatch returns the first cell whose header matches one of the aliases.
func firstMatch(header, record []string, aliases map[string]struct{}) string {
	for i, name := range header {
		if i >= len(record) {
			break
		}
		if _, ok := aliases[normalizeColumnName(name)]; ok && record[i] != "" {
			return record[i]
		}
	}
	return ""
}

// normalizeColumnName lowercases a header name and treats underscores as spaces.
func normalizeColumnName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", " ")
}
