package main

import (
	"github.com/spf13/cobra"
)

func addConfig(topLevel *cobra.Command, opts *globalOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if cfg.File != "" {
				_, _ = faint.Fprintf(w, "# %s\n", cfg.File)
			}
			_, err = w.Write(out)
			return err
		},
	}

	topLevel.AddCommand(cmd)
}
