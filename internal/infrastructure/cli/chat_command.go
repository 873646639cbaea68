package cli

import (
	"bufio"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hesabkit/hesabchat/internal/app"
	"github.com/hesabkit/hesabchat/internal/services"
)

func newChatCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, container.ChatService)
		},
	}
}

func runREPL(cmd *cobra.Command, svc *services.ChatService) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "hesabchat: type a question, /dashboard, /ledger, /invoices, /missing,")
	fmt.Fprintln(out, "/save, /attach <file>, /scan, /address <url>, or /quit.")

	seen := len(svc.SnapshotState().Entries)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		snap, err := dispatch(cmd, svc, line)
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}
		for _, entry := range snap.Entries[min(seen, len(snap.Entries)):] {
			RenderEntry(out, entry)
		}
		seen = len(snap.Entries)
	}
}

func dispatch(cmd *cobra.Command, svc *services.ChatService, line string) (services.Snapshot, error) {
	ctx := cmd.Context()
	switch {
	case strings.HasPrefix(line, "/attach "):
		path := strings.TrimSpace(strings.TrimPrefix(line, "/attach "))
		data, err := os.ReadFile(path)
		if err != nil {
			return svc.SnapshotState(), err
		}
		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return svc.Attach(ctx, filepath.Base(path), data, contentType)
	case line == "/scan":
		return svc.ScanLastAttachment(ctx)
	case strings.HasPrefix(line, "/address "):
		svc.SetBackendAddress(strings.TrimPrefix(line, "/address "))
		fmt.Fprintf(cmd.OutOrStdout(), "backend address set to %s\n", svc.SnapshotState().BackendAddress)
		return svc.SnapshotState(), nil
	default:
		spinner := NewSpinner(cmd.ErrOrStderr())
		spinner.Start()
		snap, err := svc.Send(ctx, line)
		spinner.Stop()
		return snap, err
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
