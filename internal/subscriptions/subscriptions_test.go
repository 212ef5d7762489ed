package subscriptions_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ytlinks/internal/subscriptions"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
		want []subscriptions.Subscription
	}{
		{
			name: "takeout headers",
			csv: "Channel Id,Channel Url,Channel Title\n" +
				"UC123,https://www.youtube.com/channel/UC123,Foo Channel\n",
			want: []subscriptions.Subscription{
				{
					Title:     "Foo Channel",
					URL:       "https://www.youtube.com/channel/UC123",
					ChannelID: "UC123",
				},
			},
		},
		{
			name: "simple title and url headers",
			csv: "Title,URL\n" +
				"Bar,https://www.youtube.com/c/bar\n",
			want: []subscriptions.Subscription{
				{Title: "Bar", URL: "https://www.youtube.com/c/bar"},
			},
		},
		{
			name: "underscored headers",
			csv: "channel_title,channel_url\n" +
				"Baz,https://www.youtube.com/c/baz\n",
			want: []subscriptions.Subscription{
				{Title: "Baz", URL: "https://www.youtube.com/c/baz"},
			},
		},
		{
			name: "url synthesized from channel id",
			csv: "Channel Title,Channel Id\n" +
				"Qux,UC999\n",
			want: []subscriptions.Subscription{
				{
					Title:     "Qux",
					URL:       "https://www.youtube.com/channel/UC999",
					ChannelID: "UC999",
				},
			},
		},
		{
			name: "byte-order mark tolerated",
			csv: "\ufeffChannel Title,Channel Url\n" +
				"Foo,https://www.youtube.com/c/foo\n",
			want: []subscriptions.Subscription{
				{Title: "Foo", URL: "https://www.youtube.com/c/foo"},
			},
		},
		{
			name: "row missing title and url skipped",
			csv: "Channel Title,Channel Url\n" +
				",\n" +
				"Foo,https://www.youtube.com/c/foo\n",
			want: []subscriptions.Subscription{
				{Title: "Foo", URL: "https://www.youtube.com/c/foo"},
			},
		},
		{
			name: "ragged row tolerated",
			csv: "Channel Id,Channel Url,Channel Title\n" +
				"UC123,https://www.youtube.com/channel/UC123\n",
			want: nil,
		},
		{
			name: "header only",
			csv:  "Channel Title,Channel Url\n",
			want: nil,
		},
		{
			name: "empty input",
			csv:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := subscriptions.Parse(strings.NewReader(tt.csv))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "subscriptions.csv")

	content := "Channel Title,Channel Url\nFoo,https://www.youtube.com/c/foo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	subs, err := subscriptions.NewReader(path).Read()
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Foo", subs[0].Title)
	assert.Equal(t, "https://www.youtube.com/c/foo", subs[0].URL)
}

func TestReader_Read_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := subscriptions.NewReader(filepath.Join(t.TempDir(), "nope.csv")).Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSubscription_AboutURL(t *testing.T) {
	t.Parallel()

	sub := subscriptions.Subscription{
		Title: "Foo",
		URL:   "https://www.youtube.com/c/foo",
	}

	got, err := sub.AboutURL()
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/c/foo/about", got)

	bad := subscriptions.Subscription{Title: "Bad", URL: "https://example.com/foo"}
	_, err = bad.AboutURL()
	require.Error(t, err)
}
