package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hesabkit/hesabchat/internal/app"
)

var errJournalDisabled = errors.New("conversation journal is disabled in the configuration")

func newHistoryCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the persisted conversation journal",
	}

	var limit int
	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent conversation entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Journal == nil {
				return errJournalDisabled
			}
			entries, err := container.Journal.Records(limit, search)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no entries")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s %s\n",
					e.Timestamp.Format("2006-01-02 15:04"), e.Actor, e.Text)
			}
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	listCmd.Flags().StringVar(&search, "search", "", "only show entries containing this text")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Journal == nil {
				return errJournalDisabled
			}
			if err := container.Journal.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "journal cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Export the journal as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Journal == nil {
				return errJournalDisabled
			}
			if err := container.Journal.ExportJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the journal file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Journal == nil {
				return errJournalDisabled
			}
			fmt.Fprintln(cmd.OutOrStdout(), container.Journal.Path())
			return nil
		},
	})

	return cmd
}
