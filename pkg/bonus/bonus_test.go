package bonus

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/reftree/pkg/growth"
)

// linearOracle reports a final cumulative total of p×scale on the last day.
type linearOracle struct {
	scale float64
	calls int
}

func (o *linearOracle) Simulate(p float64, days int) ([]float64, error) {
	o.calls++
	if p < 0 || p > 1 {
		return nil, growth.ErrInvalidProbability
	}
	out := make([]float64, days)
	if days > 0 {
		out[days-1] = p * o.scale
	}
	return out, nil
}

// identity makes the simulated total equal to the bonus. Dividing by a power
// of two keeps the round trip exact.
func identity(b float64) float64 { return b / 1024 }

func newOptimizer(t *testing.T) (*Optimizer, *linearOracle) {
	t.Helper()
	oracle := &linearOracle{scale: 1024}
	o, err := New(oracle, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o, oracle
}

func TestMinBonusForTarget(t *testing.T) {
	tests := []struct {
		name   string
		days   int
		target int
		want   float64
		wantOK bool
	}{
		{"rounds up between increments", 10, 337, 350, true},
		{"exact increment", 10, 400, 400, true},
		{"smallest positive", 10, 1, 50, true},
		{"needs maximum", 10, 1000, 1000, true},
		{"infeasible", 10, 1001, 0, false},
		{"zero target", 10, 0, 0, true},
		{"negative target", 10, -5, 0, true},
		{"negative days", -1, 500, 0, true},
		{"zero days", 0, 500, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newOptimizer(t)
			got, ok, err := o.MinBonusForTarget(tt.days, tt.target, identity, 0.01)
			if err != nil {
				t.Fatalf("MinBonusForTarget: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MinBonusForTarget(%d, %d) = %v, %v; want %v, %v", tt.days, tt.target, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMinBonusForTarget_MultipleOfIncrement(t *testing.T) {
	o, _ := newOptimizer(t)
	for target := 1; target <= 1000; target += 37 {
		got, ok, err := o.MinBonusForTarget(5, target, identity, 0)
		if err != nil || !ok {
			t.Fatalf("target %d: %v, %v, %v", target, got, ok, err)
		}
		if math.Mod(got, DefaultIncrement) != 0 {
			t.Errorf("target %d: bonus %v is not a multiple of %d", target, got, DefaultIncrement)
		}
		if got < float64(target) || got-DefaultIncrement >= float64(target) {
			t.Errorf("target %d: bonus %v is not the smallest sufficient increment", target, got)
		}
	}
}

func TestMinBonusForTarget_InfeasibleChecksMaxFirst(t *testing.T) {
	o, oracle := newOptimizer(t)
	if _, ok, _ := o.MinBonusForTarget(10, 5000, identity, 0); ok {
		t.Fatal("expected infeasible")
	}
	if oracle.calls != 1 {
		t.Errorf("oracle called %d times, want 1", oracle.calls)
	}
}

func TestMinBonusForTarget_LogarithmicCalls(t *testing.T) {
	oracle := &linearOracle{scale: 1_000_000}
	o, err := New(oracle, Config{MaxBonus: 1_000_000, Increment: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := o.MinBonusForTarget(1, 123_457, func(b float64) float64 { return b / 1_000_000 }, 0); !ok {
		t.Fatal("expected feasible")
	}
	if oracle.calls > 22 {
		t.Errorf("oracle called %d times, want a binary search", oracle.calls)
	}
}

func TestMinBonusForTarget_FractionalDomain(t *testing.T) {
	// step adopts fully once the bonus reaches threshold.
	step := func(threshold float64) AdoptionFunc {
		return func(b float64) float64 {
			if b >= threshold {
				return 1
			}
			return 0
		}
	}
	tests := []struct {
		name   string
		cfg    Config
		adopt  AdoptionFunc
		want   float64
		wantOK bool
	}{
		{"top step reachable", Config{MaxBonus: 0.3, Increment: 0.1}, step(0.3), 0.3, true},
		{"inner step", Config{MaxBonus: 0.3, Increment: 0.1}, step(0.15), 0.2, true},
		{"above max", Config{MaxBonus: 0.3, Increment: 0.1}, step(0.31), 0, false},
		{"non-divisible max", Config{MaxBonus: 0.7, Increment: 0.3}, step(0.6), 0.6, true},
		{"large domain", Config{MaxBonus: 1e6, Increment: 1}, step(10), 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := New(&linearOracle{scale: 1}, tt.cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got, ok, err := o.MinBonusForTarget(1, 1, tt.adopt, 0)
			if err != nil {
				t.Fatalf("MinBonusForTarget: %v", err)
			}
			if ok != tt.wantOK || math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MinBonusForTarget = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMinBonusForTarget_OracleError(t *testing.T) {
	o, _ := newOptimizer(t)
	_, ok, err := o.MinBonusForTarget(10, 100, func(float64) float64 { return 2 }, 0)
	if ok || !errors.Is(err, growth.ErrInvalidProbability) {
		t.Errorf("ok = %v, err = %v; want ErrInvalidProbability", ok, err)
	}
}

func TestMinBonusForTarget_WithGrowthSimulation(t *testing.T) {
	sim, err := growth.New(growth.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	o, err := New(sim, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	adopt := LinearAdoption(0.01, 0.0002, 1)

	const days, target = 30, 5000
	got, ok, err := o.MinBonusForTarget(days, target, adopt, 0)
	if err != nil || !ok {
		t.Fatalf("MinBonusForTarget = %v, %v, %v", got, ok, err)
	}

	final := func(b float64) float64 {
		totals, _ := sim.Simulate(adopt(b), days)
		return totals[len(totals)-1]
	}
	if final(got) < target {
		t.Errorf("bonus %v yields %v, below target", got, final(got))
	}
	if got > 0 && final(got-DefaultIncrement) >= target {
		t.Errorf("bonus %v is not minimal", got)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	oracle := &linearOracle{scale: 1}
	tests := []Config{
		{MaxBonus: 100, Increment: 0},
		{MaxBonus: 100, Increment: -5},
		{MaxBonus: -1, Increment: 10},
		{MaxBonus: math.NaN(), Increment: 10},
		{MaxBonus: 1e30, Increment: 1},
		{MaxBonus: 1, Increment: 1e-300},
		{MaxBonus: MaxSteps + 1, Increment: 1},
	}
	for _, cfg := range tests {
		if _, err := New(oracle, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("New(%+v) error = %v, want ErrInvalidConfig", cfg, err)
		}
	}
	if _, err := New(nil, DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestAdoptionFuncs(t *testing.T) {
	lin := LinearAdoption(0.1, 0.001, 0.5)
	if got := lin(0); got != 0.1 {
		t.Errorf("LinearAdoption(0) = %v, want 0.1", got)
	}
	if got := lin(10_000); got != 0.5 {
		t.Errorf("LinearAdoption clamps to ceiling, got %v", got)
	}
	if got := LinearAdoption(-1, 0, 1)(0); got != 0 {
		t.Errorf("LinearAdoption clamps to zero, got %v", got)
	}

	logi := LogisticAdoption(500, 0.01, 0.8)
	if got := logi(500); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("LogisticAdoption(midpoint) = %v, want 0.4", got)
	}
	prev := -1.0
	for b := 0.0; b <= 1000; b += 50 {
		p := logi(b)
		if p < prev || p < 0 || p > 0.8 {
			t.Fatalf("LogisticAdoption(%v) = %v not monotone in [0, 0.8]", b, p)
		}
		prev = p
	}
}
