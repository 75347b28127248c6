package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/forest"
	"github.com/matzehuels/reftree/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderFormat picks the output format from the file extension.
func renderFormat(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case formatDOT, "gv":
		return formatDOT, nil
	case formatSVG:
		return formatSVG, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want .svg or .dot)", ext)
	}
}

// highlightTop returns the IDs of the k users with the largest reach.
func highlightTop(f *forest.Forest, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}
	top, err := analytics.New(f).TopReferrersByReach(k)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(top))
	for _, u := range top {
		if u.Score > 0 {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		detailed bool
		top      int
	)

	cmd := &cobra.Command{
		Use:   "render <network.json>",
		Short: "Draw a referral network as a node-link diagram",
		Long: `Draw a referral network as a node-link diagram.

The output format follows the file extension: .dot writes Graphviz source,
.svg renders in-process with Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := renderFormat(output)
			if err != nil {
				return err
			}
			f, err := loadNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			highlight, err := highlightTop(f, top)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			dot := nodelink.ToDOT(f, nodelink.Options{Detailed: detailed, Highlight: highlight})
			data := []byte(dot)
			if format == formatSVG {
				if data, err = nodelink.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("Rendered " + pluralize(f.Len(), "user", "users"))

			w := cmd.OutOrStdout()
			printSuccess(w, "Wrote %s", strings.ToUpper(format))
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "network.svg", "output file (.svg or .dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include depth and reach in labels")
	cmd.Flags().IntVar(&top, "top", 3, "highlight the n users with the largest reach (0 = none)")
	return cmd
}
