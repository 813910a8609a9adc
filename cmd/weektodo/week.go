package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/weektodo/internal/app"
	"github.com/dori/weektodo/internal/quickadd"
)

func addWeek(topLevel *cobra.Command, opts *globalOptions) {
	var when string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the week's tasks, Friday to Thursday",
		Example: `
weektodo week
weektodo week --date 2024-03-13
weektodo week --date nextweek
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			anchor := now
			if when != "" {
				d, ok := quickadd.ParseNaturalDate(when, now)
				if !ok {
					return fmt.Errorf("--date %q: want today, tomorrow, a weekday or YYYY-MM-DD", when)
				}
				anchor = d
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Store.Load(ctx); err != nil {
					return err
				}
				printWeek(cmd.OutOrStdout(), anchor, now, a.Store.Snapshot().Tasks)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&when, "date", "d", "", "Any day in the week to show (default: today)")

	topLevel.AddCommand(cmd)
}
