package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/weektodo/internal/app"
	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/quickadd"
)

func addAdd(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Quick add a task",
		Long: `Add a task scheduled for today unless a due: token says otherwise.

Tokens:
  @HH:MM                 time of day
  !low !medium !high     priority (also !l !m !h)
  #red #blue ...         color (red blue green yellow purple pink orange teal)
  *daily *weekly *monthly  recurrence
  due:<when>             today, tomorrow, nextweek, a weekday or YYYY-MM-DD
  list:<name>            add to a custom list instead of a day`,
		Example: `
weektodo add Buy groceries
weektodo add "Call mom @18:30 !high #purple due:fri"
weektodo add Eggs list:Groceries
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				entry, err := quickadd.Parse(strings.Join(args, " "), time.Now())
				if err != nil {
					return err
				}

				var t model.Task
				if entry.List != "" {
					if err := a.Store.Load(ctx); err != nil {
						return err
					}
					l, ok := a.Store.ListByName(entry.List)
					if !ok {
						return fmt.Errorf("no list named %q", entry.List)
					}
					if t, err = a.Store.AddTaskToList(ctx, l.ID, entry.Fields); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s to %s ", bold.Sprint(t.Title), l.Name)
				} else {
					if t, err = a.Store.AddTask(ctx, entry.Fields); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s on %s ", bold.Sprint(t.Title), t.Date)
				}
				_, _ = faint.Fprintf(cmd.OutOrStdout(), "(%s)\n", t.ID)
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}
