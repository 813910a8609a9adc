package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dori/weektodo/internal/app"
)

func addLists(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Print custom lists and their tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Store.Load(ctx); err != nil {
					return err
				}
				printLists(cmd.OutOrStdout(), a.Store.Snapshot().Lists)
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}
