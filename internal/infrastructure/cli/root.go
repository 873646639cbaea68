// Package cli wires the cobra commands around the conversation core.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hesabkit/hesabchat/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(opts.Verbose)
	if err != nil {
		return nil, err
	}

	chatCmd := newChatCommand(container)

	root := &cobra.Command{
		Use:   "hesabchat",
		Short: "hesabchat - conversational accounting assistant",
		Long:  "hesabchat is a chat client for your accounting backend: ask for reports, transactions and balance charts in plain language.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return chatCmd.RunE(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(chatCmd)
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root, nil
}
