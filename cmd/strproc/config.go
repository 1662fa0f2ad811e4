package main

import (
	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_string_processor/internal/config"
)

func (c *cli) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect strproc configuration",
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Display the configuration after defaults, config file, STRPROC_*
environment variables and flags have been merged.

Examples:
  strproc config show                 # YAML
  strproc config show --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(c.v, c.configPath)
			if err != nil {
				return err
			}
			out, err := loaded.Render(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	showCmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml, json)")

	configCmd.AddCommand(showCmd)
	return configCmd
}
