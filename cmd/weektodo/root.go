package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dori/weektodo/internal/app"
	"github.com/dori/weektodo/internal/config"
	"github.com/dori/weektodo/internal/ui"
	"github.com/dori/weektodo/internal/ui/theme"
)

// globalOptions are shared by every command
type globalOptions struct {
	configFile string
	envFile    string
	apiURL     string
}

func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(config.Options{File: o.configFile, EnvFile: o.envFile})
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// withApp runs fn against a command-line app: no lock, no cache, logs on
// stderr.
func (o *globalOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := o.load()
	if err != nil {
		return err
	}
	a, err := app.New(cfg, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var (
		viewName  string
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "weektodo",
		Short: "A week planner for the terminal",
		Long: `weektodo plans your week on a Friday-first grid, keeps custom lists,
and breaks goals down into tasks. Tasks live on a remote task store.`,
		Example: `
weektodo
weektodo --view calendar --theme gruvbox
weektodo add "Call mom @18:30 !high #purple due:fri"
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if viewName != "" {
				cfg.UI.StartView = viewName
			}
			if themeName != "" {
				cfg.UI.Theme = themeName
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runTUI(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default: weektodo.yaml in the usual places)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Environment file to load first (default: .env)")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Remote task store base URL, overrides api.base_url")
	cmd.Flags().StringVar(&viewName, "view", "", "Starting view (week, calendar, lists, chat)")
	cmd.Flags().StringVar(&themeName, "theme", "", "Theme name (nord, dracula, gruvbox, catppuccin)")

	addAdd(cmd, opts)
	addWeek(cmd, opts)
	addMonth(cmd, opts)
	addLists(cmd, opts)
	addMove(cmd, opts)
	addChat(cmd, opts)
	addConfig(cmd, opts)
	addVersion(cmd)

	return cmd
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t, ok := theme.ByName(cfg.UI.Theme)
	if !ok {
		return fmt.Errorf("ui.theme %q: unknown theme", cfg.UI.Theme)
	}
	theme.SetTheme(t)

	application, err := app.New(cfg, app.Options{Interactive: true})
	if err != nil {
		return err
	}
	defer application.Close()

	start, err := ui.ParseView(cfg.UI.StartView)
	if err != nil {
		return err
	}

	// Show the last known state while the remote store answers
	application.Warm(ctx)

	model := ui.NewRootModel(ctx, application, start)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
