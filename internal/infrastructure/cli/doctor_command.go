package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hesabkit/hesabchat/internal/app"
)

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the client environment and backend connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := container.DoctorService.Run(cmd.Context())

			failed := false
			for _, c := range checks {
				mark := "✓"
				switch c.Status {
				case "warn":
					mark = "!"
				case "fail":
					mark = "✗"
					failed = true
				}
				fmt.Fprintf(cmd.OutOrStdout(), " %s %-18s %s\n", mark, c.Name, c.Details)
			}
			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}
