package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dori/weektodo/internal/app"
	"github.com/dori/weektodo/internal/dnd"
)

func addMove(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "move <task-id> <target>",
		Short: "Move a task onto a day or a custom list",
		Long: `Move a task the way dragging it in the UI would. The target is
date-YYYY-MM-DD for a day or list-<id> for a custom list.`,
		Example: `
weektodo move 12 date-2024-03-15
weektodo move 12 list-3
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, target := args[0], args[1]
			if _, err := dnd.ParseTarget(target); err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Store.Load(ctx); err != nil {
					return err
				}
				drag := dnd.New(a.Store)
				if _, ok := drag.PickUp(taskID); !ok {
					return fmt.Errorf("task %s not found", taskID)
				}
				t, err := drag.Drop(ctx, taskID, target)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Moved %s to %s\n", bold.Sprint(t.Title), t.Location())
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}
