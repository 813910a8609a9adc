package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dori/weektodo/internal/app"
	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/suggest"
)

func addChat(topLevel *cobra.Command, opts *globalOptions) {
	var (
		remote bool
		apply  bool
	)

	cmd := &cobra.Command{
		Use:   "chat <message...>",
		Short: "Ask the assistant to break something down into tasks",
		Example: `
weektodo chat help me plan a work project
weektodo chat --apply I want to start a workout routine
weektodo chat --remote organize my day
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				useRemote := remote || (a.Config.Chat.Remote && !cmd.Flags().Changed("remote"))

				var reply suggest.Suggestion
				if useRemote {
					resp, err := a.API.Chat(ctx, message)
					if err != nil {
						a.Log.Warn().Err(err).Msg("remote chat failed")
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), suggest.ErrorReply)
						return err
					}
					reply = suggest.Suggestion{Message: resp.Message, Tasks: resp.Tasks}
				} else {
					reply = suggest.Reply(message)
				}

				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(w, reply.Message)
				for i, t := range reply.Tasks {
					_, _ = faint.Fprintf(w, "%3d. ", i+1)
					_, _ = fmt.Fprintln(w, t)
				}

				if !apply || len(reply.Tasks) == 0 {
					return nil
				}
				n, err := suggest.Insert(ctx, reply.Tasks, time.Now(), a.Config.Chat.Stagger,
					func(ctx context.Context, fields model.TaskFields) error {
						_, err := a.Store.AddTask(ctx, fields)
						return err
					})
				_, _ = fmt.Fprintf(w, "✨ Added %d tasks to today's list.\n", n)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Ask the remote assistant instead of the built-in one")
	cmd.Flags().BoolVar(&apply, "apply", false, "Add the suggested tasks to today")

	topLevel.AddCommand(cmd)
}
