// Package subs implements the subs command, which displays the parsed
// subscriptions from a Takeout export in a formatted table.
package subs

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/ytlinks/internal/subscriptions"
)

// Command returns the subs command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "subs [subscriptions_csv]",
		Short: "List the subscriptions parsed from a Takeout export",
		Long: `Parse a Google Takeout subscriptions CSV and display the recognized
channels without fetching anything. Useful for checking what a scrape run
would process.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := subscriptions.NewReader(args[0])

			subs, err := reader.Read()
			if err != nil {
				return fmt.Errorf("could not open subscriptions file %s: %w", args[0], err)
			}

			if len(subs) == 0 {
				return fmt.Errorf("%w in %s", subscriptions.ErrNoSubscriptions, args[0])
			}

			renderTable(subs)
			fmt.Printf("%d subscription(s)\n", len(subs))

			return nil
		},
	}
}

// renderTable formats and displays the subscriptions in a table.
func renderTable(subs []subscriptions.Subscription) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Title", "URL", "Channel ID"})

	for _, sub := range subs {
		t.AppendRow(table.Row{sub.Title, sub.URL, sub.ChannelID})
	}

	t.Render()
}
