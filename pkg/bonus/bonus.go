// Package bonus searches for the smallest referral bonus that hits a hiring
// target.
//
// The [Optimizer] treats a growth model as an oracle: for a candidate bonus it
// converts the bonus into a referral probability with a caller-supplied
// [AdoptionFunc], simulates the horizon, and compares the final cumulative
// total to the target. Bonuses are discrete multiples of an increment, so the
// search is an integer binary search over increment indices and every result
// is an exact multiple of the increment.
//
// The search is only correct when the adoption function is non-decreasing in
// the bonus. That is a precondition on the caller and is not checked.
package bonus

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/reftree/pkg/growth"
	"github.com/matzehuels/reftree/pkg/observability"
)

// ErrInvalidConfig is returned by [New] for unusable bonus bounds.
var ErrInvalidConfig = errors.New("invalid bonus config")

const (
	// DefaultMaxBonus is the largest bonus the search considers.
	DefaultMaxBonus = 1000

	// DefaultIncrement is the bonus granularity.
	DefaultIncrement = 50

	// MaxSteps bounds the number of increments in the domain.
	MaxSteps = 1 << 24
)

// AdoptionFunc maps a bonus amount to a daily referral success probability.
// It must be non-decreasing and return values in [0, 1].
type AdoptionFunc func(bonus float64) float64

// Config bounds the bonus domain to [0, MaxBonus] in steps of Increment.
type Config struct {
	MaxBonus  float64 `toml:"max_bonus" json:"max_bonus"`
	Increment float64 `toml:"increment" json:"increment"`
}

// DefaultConfig returns a 0..1000 domain in steps of 50.
func DefaultConfig() Config {
	return Config{MaxBonus: DefaultMaxBonus, Increment: DefaultIncrement}
}

// Validate reports whether the bounds describe a non-empty discrete domain.
func (c Config) Validate() error {
	if !(c.Increment > 0) || math.IsInf(c.Increment, 0) {
		return fmt.Errorf("%w: increment %v must be positive", ErrInvalidConfig, c.Increment)
	}
	if c.MaxBonus < 0 || math.IsNaN(c.MaxBonus) || math.IsInf(c.MaxBonus, 0) {
		return fmt.Errorf("%w: max bonus %v", ErrInvalidConfig, c.MaxBonus)
	}
	if r := c.MaxBonus / c.Increment; r > MaxSteps {
		return fmt.Errorf("%w: %v increments exceed the limit of %d", ErrInvalidConfig, r, MaxSteps)
	}
	return nil
}

// steps returns the index of the largest allowed bonus. The slack absorbs
// quotients such as 0.3/0.1 that land just below a whole number.
func (c Config) steps() int { return int(math.Floor(c.MaxBonus/c.Increment + 1e-9)) }

// bonusAt returns the bonus for a step index, never above MaxBonus.
func (c Config) bonusAt(step int) float64 { return min(float64(step)*c.Increment, c.MaxBonus) }

// Optimizer finds minimal bonuses using a growth oracle.
type Optimizer struct {
	oracle growth.Oracle
	cfg    Config
}

// New creates an optimizer over oracle with the given bonus domain.
func New(oracle growth.Oracle, cfg Config) (*Optimizer, error) {
	if oracle == nil {
		return nil, fmt.Errorf("%w: nil oracle", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{oracle: oracle, cfg: cfg}, nil
}

// MinBonusForTarget returns the smallest bonus in the domain whose simulated
// cumulative referrals after days reach targetHires.
//
// A non-positive target or negative horizon needs no bonus and returns
// (0, true). ok is false when no bonus can work: days is 0 with a positive
// target, or even the maximum bonus falls short. eps is accepted for interface
// compatibility and ignored; the discrete search needs no tolerance.
//
// Errors from the oracle, such as adopt returning a probability outside
// [0, 1], are returned wrapped with the offending bonus.
func (o *Optimizer) MinBonusForTarget(days, targetHires int, adopt AdoptionFunc, eps float64) (bonus float64, ok bool, err error) {
	_ = eps
	if targetHires <= 0 || days < 0 {
		return 0, true, nil
	}
	if days == 0 {
		return 0, false, nil
	}

	start := time.Now()
	evaluations := 0
	defer func() {
		observability.Simulation().OnBonusSearch(context.Background(), evaluations, ok, time.Since(start))
	}()

	meets := func(step int) (bool, error) {
		evaluations++
		b := o.cfg.bonusAt(step)
		totals, err := o.oracle.Simulate(adopt(b), days)
		if err != nil {
			return false, fmt.Errorf("simulate bonus %v: %w", b, err)
		}
		return len(totals) > 0 && totals[len(totals)-1] >= float64(targetHires), nil
	}

	hi := o.cfg.steps()
	feasible, err := meets(hi)
	if err != nil || !feasible {
		return 0, false, err
	}

	lo := 0
	for lo < hi {
		mid := lo + (hi-lo)/2
		good, err := meets(mid)
		if err != nil {
			return 0, false, err
		}
		if good {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return o.cfg.bonusAt(lo), true, nil
}
