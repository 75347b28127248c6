package cli

import (
	"github.com/spf13/cobra"

	rtio "github.com/matzehuels/reftree/pkg/io"
)

func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <network.json>",
		Short: "Validate a network and rewrite it in canonical order",
		Long: `Validate a network and rewrite it in canonical order.

Users are written root by root in pre-order, so every referrer precedes its
referrals. Without --output the network is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return rtio.WriteJSON(f, cmd.OutOrStdout())
			}
			if err := rtio.ExportJSON(f, output); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printSuccess(w, "Exported %s", pluralize(f.Len(), "user", "users"))
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
