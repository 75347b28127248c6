package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/reftree/pkg/config"
)

func (c *CLI) configCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				return config.Write(cmd.OutOrStdout(), cfg)
			}
			if err := config.Save(cfg, output); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Wrote config")
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
