package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/reftree/pkg/bonus"
	"github.com/matzehuels/reftree/pkg/growth"
)

// newSimulation builds a simulation from the loaded config.
func (c *CLI) newSimulation() (*growth.Simulation, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return growth.New(cfg.Simulation)
}

func (c *CLI) simulateCommand() *cobra.Command {
	var (
		p     float64
		days  int
		every int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project cumulative expected referrals day by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := c.newSimulation()
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			totals, err := sim.Simulate(p, days)
			if err != nil {
				return err
			}
			prog.done("Simulated " + pluralize(days, "day", "days"))

			w := cmd.OutOrStdout()
			if len(totals) == 0 {
				printInfo(w, "No days simulated")
				return nil
			}
			t := newTable("Day", "Cumulative referrals")
			for day, total := range totals {
				n := day + 1
				if every > 1 && n%every != 0 && n != len(totals) {
					continue
				}
				t.Row(strconv.Itoa(n), formatAmount(total))
			}
			fmt.Fprintln(w, t.Render())
			return nil
		},
	}

	cmd.Flags().Float64VarP(&p, "probability", "p", 0.5, "daily referral success probability per active referrer")
	cmd.Flags().IntVarP(&days, "days", "d", 30, "number of days to simulate")
	cmd.Flags().IntVar(&every, "every", 1, "only print every n-th day (the last day is always printed)")
	return cmd
}

func (c *CLI) daysCommand() *cobra.Command {
	var (
		p      float64
		target int
	)

	cmd := &cobra.Command{
		Use:   "days",
		Short: "Find the first day cumulative referrals reach a target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := c.newSimulation()
			if err != nil {
				return err
			}
			n, ok, err := sim.DaysToTarget(p, target)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !ok {
				printWarning(w, "Target %d is not reachable at p=%s", target, formatFloat(p))
				return nil
			}
			printSuccess(w, "Target %d reached on day %s", target, StyleNumber.Render(strconv.Itoa(n)))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&p, "probability", "p", 0.5, "daily referral success probability per active referrer")
	cmd.Flags().IntVarP(&target, "target", "t", 1000, "cumulative referral target")
	return cmd
}

// sweepResult is one probability's outcome in a sweep.
type sweepResult struct {
	P    float64
	Days int
	OK   bool
}

// sweepProbabilities evaluates DaysToTarget for each probability in
// [from, to] with the given step, in parallel. Results keep input order.
func sweepProbabilities(ctx context.Context, sim *growth.Simulation, target int, from, to, step float64) ([]sweepResult, error) {
	if !(step > 0) {
		return nil, fmt.Errorf("%w: step %v must be positive", growth.ErrInvalidProbability, step)
	}
	if from > to {
		return nil, fmt.Errorf("%w: from %v is greater than to %v", growth.ErrInvalidProbability, from, to)
	}

	n := int(math.Floor((to-from)/step+1e-9)) + 1
	results := make([]sweepResult, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n {
		p := math.Min(from+float64(i)*step, to)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			days, ok, err := sim.DaysToTarget(p, target)
			if err != nil {
				return fmt.Errorf("p=%v: %w", p, err)
			}
			results[i] = sweepResult{P: p, Days: days, OK: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *CLI) sweepCommand() *cobra.Command {
	var (
		target         int
		from, to, step float64
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare days-to-target across a range of probabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := c.newSimulation()
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), cmd.ErrOrStderr(), "Sweeping probabilities...")
			spinner.Start()
			results, err := sweepProbabilities(cmd.Context(), sim, target, from, to, step)
			if err != nil {
				spinner.StopWithError("Sweep failed")
				return err
			}
			spinner.Stop()

			printSweep(cmd.OutOrStdout(), target, results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&target, "target", "t", 1000, "cumulative referral target")
	cmd.Flags().Float64Var(&from, "from", 0.05, "first probability")
	cmd.Flags().Float64Var(&to, "to", 1, "last probability")
	cmd.Flags().Float64Var(&step, "step", 0.05, "probability increment")
	return cmd
}

func printSweep(w io.Writer, target int, results []sweepResult) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Days to reach %d", target)))
	t := newTable("p", "Days")
	for _, r := range results {
		days := "unreachable"
		if r.OK {
			days = strconv.Itoa(r.Days)
		}
		t.Row(strconv.FormatFloat(r.P, 'f', 4, 64), days)
	}
	fmt.Fprintln(w, t.Render())
}

func (c *CLI) bonusCommand() *cobra.Command {
	var (
		days, hires int
		base, slope float64
	)

	cmd := &cobra.Command{
		Use:   "bonus",
		Short: "Find the smallest referral bonus that meets a hiring target",
		Long: `Find the smallest referral bonus that meets a hiring target.

The bonus is converted to a daily referral probability with a linear adoption
model, p = base + slope × bonus, capped at the configured ceiling. Bonuses are
searched in [0, max_bonus] at the configured increment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("base") {
				cfg.Adoption.Base = base
			}
			if cmd.Flags().Changed("slope") {
				cfg.Adoption.Slope = slope
			}

			sim, err := growth.New(cfg.Simulation)
			if err != nil {
				return err
			}
			opt, err := bonus.New(sim, cfg.Bonus)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			amount, ok, err := opt.MinBonusForTarget(days, hires, cfg.Adoption.Func(), 0)
			if err != nil {
				return err
			}
			prog.done("Bonus search finished")

			w := cmd.OutOrStdout()
			if !ok {
				printWarning(w, "No bonus up to %s reaches %d hires in %d days", formatFloat(cfg.Bonus.MaxBonus), hires, days)
				return nil
			}
			printSuccess(w, "Minimum bonus: %s", StyleNumber.Render(formatFloat(amount)))
			printKeyValue(w, "Probability", formatFloat(cfg.Adoption.Func()(amount)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 30, "hiring horizon in days")
	cmd.Flags().IntVarP(&hires, "target", "t", 1000, "required cumulative referrals")
	cmd.Flags().Float64Var(&base, "base", 0, "adoption probability with no bonus (overrides config)")
	cmd.Flags().Float64Var(&slope, "slope", 0, "adoption probability gained per bonus unit (overrides config)")
	return cmd
}
