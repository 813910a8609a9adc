package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/weektodo/internal/app"
)

func addMonth(topLevel *cobra.Command, opts *globalOptions) {
	var month string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a month calendar with task counts",
		Example: `
weektodo month
weektodo month --month 2024-02
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			shown := now
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, now.Location())
				if err != nil {
					return fmt.Errorf("--month %q: want YYYY-MM", month)
				}
				shown = m
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Store.Load(ctx); err != nil {
					return err
				}
				printMonth(cmd.OutOrStdout(), shown.Year(), shown.Month(), now, a.Store.Snapshot().Tasks)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show as YYYY-MM (default: this month)")

	topLevel.AddCommand(cmd)
}
