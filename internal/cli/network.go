package cli

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reftree/pkg/analytics"
	"github.com/matzehuels/reftree/pkg/forest"
)

// networkStats summarises the shape of a forest.
type networkStats struct {
	Users    int
	Roots    int
	Linked   int
	MaxDepth int
	MaxReach analytics.UserWithScore
}

func computeStats(f *forest.Forest) networkStats {
	s := networkStats{Users: f.Len(), Roots: len(f.Roots())}
	s.Linked = s.Users - s.Roots
	for _, id := range f.Users() {
		if d, err := f.Depth(id); err == nil && d > s.MaxDepth {
			s.MaxDepth = d
		}
	}
	top, err := analytics.New(f).TopReferrersByReach(1)
	if err == nil && len(top) == 1 {
		s.MaxReach = top[0]
	}
	return s
}

func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <network.json>",
		Short: "Summarise a referral network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s := computeStats(f)
			w := cmd.OutOrStdout()
			printKeyValue(w, "Users", strconv.Itoa(s.Users))
			printKeyValue(w, "Roots", strconv.Itoa(s.Roots))
			printKeyValue(w, "Referred", strconv.Itoa(s.Linked))
			printKeyValue(w, "Max depth", strconv.Itoa(s.MaxDepth))
			if s.MaxReach.ID != "" {
				printKeyValue(w, "Top referrer", fmt.Sprintf("%s (%d)", s.MaxReach.ID, s.MaxReach.Score))
			}
			return nil
		},
	}
}

func (c *CLI) reachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reach <network.json> <user>",
		Short: "Count every user a user has referred, directly or indirectly",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id := args[1]
			n, err := analytics.New(f).TotalReferralCount(id)
			if err != nil {
				return err
			}
			direct, _ := f.DirectReferrals(id)

			w := cmd.OutOrStdout()
			printKeyValue(w, "User", id)
			if ref := f.Referrer(id); ref != "" {
				printKeyValue(w, "Referred by", ref)
			}
			printKeyValue(w, "Direct", strconv.Itoa(len(direct)))
			printKeyValue(w, "Total reach", StyleNumber.Render(strconv.Itoa(n)))
			return nil
		},
	}
}

func (c *CLI) topCommand() *cobra.Command {
	var (
		k      int
		browse bool
	)

	cmd := &cobra.Command{
		Use:   "top <network.json>",
		Short: "List the users with the largest reach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a := analytics.New(f)
			if browse {
				return runBrowser(cmd, "Top referrers", "Reach", a.ReachAll(), f)
			}
			top, err := a.TopReferrersByReach(k)
			if err != nil {
				return err
			}
			printRanking(cmd.OutOrStdout(), fmt.Sprintf("Top %d referrers", k), "Reach", top)
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "k", "k", 10, "number of users to list")
	cmd.Flags().BoolVar(&browse, "browse", false, "browse every user interactively")
	return cmd
}

func (c *CLI) expansionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expansion <network.json>",
		Short: "Rank root referrers by the audience their trees reach",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := analytics.New(f).UniqueReachExpansion()
			printRanking(cmd.OutOrStdout(), "Unique reach expansion", "Reach", res)
			return nil
		},
	}
}

func (c *CLI) centralityCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "centrality <network.json>",
		Short: "Rank users by how much referral flow passes through them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadNetwork(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := analytics.New(f).FlowCentrality()
			if limit > 0 && len(res) > limit {
				res = res[:limit]
			}
			printRanking(cmd.OutOrStdout(), "Flow centrality", "Score", res)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n users (0 = all)")
	return cmd
}

// runBrowser opens the interactive ranking browser over scores.
func runBrowser(cmd *cobra.Command, title, scoreHeader string, scores map[string]int, f *forest.Forest) error {
	m := NewRankingModel(title, scoreHeader, rankScores(scores), f)
	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}
