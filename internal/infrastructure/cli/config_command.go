package cli

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hesabkit/hesabchat/internal/app"
	"github.com/hesabkit/hesabchat/internal/infrastructure/config"
)

func newConfigCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change client settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigLoader.Load()
			if err != nil {
				return err
			}
			raw, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", container.ConfigLoader.Path(), raw)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-backend <url>",
		Short: "Change the backend address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := container.ConfigLoader.Load()
			if err != nil {
				return err
			}
			updated := old
			updated.BackendAddress = args[0]
			if err := container.ConfigLoader.Save(updated); err != nil {
				return err
			}
			container.Gateway.SetAddress(args[0])
			if diff := cmp.Diff(old, updated); diff != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "configuration changed (-old +new):\n%s", diff)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			def := config.Default()
			if err := container.ConfigLoader.Save(def); err != nil {
				return err
			}
			container.Gateway.SetAddress(def.BackendAddress)
			fmt.Fprintln(cmd.OutOrStdout(), "configuration reset to defaults")
			return nil
		},
	})

	return cmd
}
