package growth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/reftree/pkg/observability"
)

var (
	// ErrInvalidProbability is returned when p is NaN or outside [0, 1].
	ErrInvalidProbability = errors.New("probability must be in [0, 1]")

	// ErrInvalidDayCount is returned when a day count is negative.
	ErrInvalidDayCount = errors.New("day count must be a non-negative integer")

	// ErrInvalidTarget is returned when a target total is negative.
	ErrInvalidTarget = errors.New("target must be a non-negative integer")

	// ErrInvalidConfig is returned by [New] for unusable parameters.
	ErrInvalidConfig = errors.New("invalid simulation config")
)

const (
	// DefaultInitialReferrers is the referrer population on day zero.
	DefaultInitialReferrers = 100

	// DefaultCapacity is the lifetime referral budget of each referrer.
	DefaultCapacity = 10

	// DefaultMaxDays bounds DaysToTarget before it gives up.
	DefaultMaxDays = 100_000

	// DefaultEpsilon is the mass below which growth is treated as stalled.
	DefaultEpsilon = 1e-9
)

// Config holds the simulation parameters.
type Config struct {
	InitialReferrers float64 `toml:"initial_referrers" json:"initial_referrers"`
	Capacity         int     `toml:"capacity" json:"capacity"`
	MaxDays          int     `toml:"max_days" json:"max_days"`
	Epsilon          float64 `toml:"epsilon" json:"epsilon"`
}

// DefaultConfig returns 100 initial referrers with a capacity of 10.
func DefaultConfig() Config {
	return Config{
		InitialReferrers: DefaultInitialReferrers,
		Capacity:         DefaultCapacity,
		MaxDays:          DefaultMaxDays,
		Epsilon:          DefaultEpsilon,
	}
}

// Validate reports whether the configuration can drive a simulation.
func (c Config) Validate() error {
	switch {
	case c.InitialReferrers < 0 || math.IsNaN(c.InitialReferrers) || math.IsInf(c.InitialReferrers, 0):
		return fmt.Errorf("%w: initial referrers %v", ErrInvalidConfig, c.InitialReferrers)
	case c.Capacity < 1:
		return fmt.Errorf("%w: capacity %d must be at least 1", ErrInvalidConfig, c.Capacity)
	case c.MaxDays < 1:
		return fmt.Errorf("%w: max days %d must be at least 1", ErrInvalidConfig, c.MaxDays)
	case c.Epsilon < 0 || math.IsNaN(c.Epsilon):
		return fmt.Errorf("%w: epsilon %v", ErrInvalidConfig, c.Epsilon)
	}
	return nil
}

// Oracle is anything that can answer cumulative growth for a probability and
// horizon. [*Simulation] is the canonical implementation.
type Oracle interface {
	Simulate(p float64, days int) ([]float64, error)
}

// Simulation is the deterministic expected-value growth model.
type Simulation struct {
	cfg Config
}

var _ Oracle = (*Simulation)(nil)

// New validates cfg and returns a simulation using it.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{cfg: cfg}, nil
}

// Config returns the parameters the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// Simulate returns the cumulative expected referrals at the end of each of the
// given number of days. days == 0 yields an empty slice.
func (s *Simulation) Simulate(p float64, days int) ([]float64, error) {
	if err := validateProbability(p); err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDayCount, days)
	}
	defer s.observe("simulate", days, time.Now())

	st := s.newState()
	totals := make([]float64, 0, days)
	cumulative := 0.0
	for range days {
		cumulative += st.step(p)
		totals = append(totals, cumulative)
	}
	return totals, nil
}

// DaysToTarget returns the first day on which cumulative expected referrals
// reach target. ok is false when the target is practically unreachable: p is 0,
// growth has stalled below the configured epsilon, or MaxDays passed.
// A target of 0 is met on day 0.
func (s *Simulation) DaysToTarget(p float64, target int) (days int, ok bool, err error) {
	if err := validateProbability(p); err != nil {
		return 0, false, err
	}
	if target < 0 {
		return 0, false, fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}
	if target == 0 {
		return 0, true, nil
	}
	if p == 0 {
		return 0, false, nil
	}

	start := time.Now()
	defer func() { s.observe("days_to_target", days, start) }()

	st := s.newState()

	goal := float64(target)
	cumulative := 0.0
	for day := 1; day <= s.cfg.MaxDays; day++ {
		added := st.step(p)
		cumulative += added
		if cumulative >= goal {
			return day, true, nil
		}
		if added < s.cfg.Epsilon && st.active() < s.cfg.Epsilon {
			return day, false, nil
		}
	}
	return s.cfg.MaxDays, false, nil
}

func (s *Simulation) observe(kind string, days int, start time.Time) {
	observability.Simulation().OnSimulate(context.Background(), kind, days, time.Since(start))
}

func validateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return nil
}

// state is the expected referrer count per remaining capacity.
type state struct {
	buckets []float64
	next    []float64
}

func (s *Simulation) newState() *state {
	st := &state{
		buckets: make([]float64, s.cfg.Capacity+1),
		next:    make([]float64, s.cfg.Capacity+1),
	}
	st.buckets[s.cfg.Capacity] = s.cfg.InitialReferrers
	return st
}

// step advances one day and returns the day's new referrals.
func (st *state) step(p float64) float64 {
	capacity := len(st.buckets) - 1
	clear(st.next)
	st.next[0] = st.buckets[0]

	added := 0.0
	for c := 1; c <= capacity; c++ {
		count := st.buckets[c]
		if count == 0 {
			continue
		}
		successful := count * p
		st.next[c-1] += successful
		st.next[c] += count * (1 - p)
		added += successful
	}
	st.next[capacity] += added

	st.buckets, st.next = st.next, st.buckets
	return added
}

// active returns the expected number of referrers with capacity left.
func (st *state) active() float64 {
	total := 0.0
	for _, v := range st.buckets[1:] {
		total += v
	}
	return total
}
