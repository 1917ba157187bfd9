package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/templui/folio/cmd/folio/cmd"
)

func main() {
	rootCmd := cmd.RootCmd()

	rootCmd.AddCommand(cmd.LoginCmd())
	rootCmd.AddCommand(cmd.ListCmd())
	rootCmd.AddCommand(cmd.AddCmd())
	rootCmd.AddCommand(cmd.EditCmd())
	rootCmd.AddCommand(cmd.DeleteCmd())
	rootCmd.AddCommand(cmd.DescriptionCmd())
	rootCmd.AddCommand(cmd.StyleCmd())
	rootCmd.AddCommand(cmd.HashPasswordCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
