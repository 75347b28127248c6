// Package growth simulates expected referral growth over time.
//
// # Model
//
// Every referrer has a lifetime budget of successful referrals (the capacity).
// The state is the expected number of referrers at each remaining budget,
// indexed 0..capacity; index 0 holds exhausted referrers. The values are
// expectations, not integer head counts.
//
// Each simulated day, the referrers in every bucket c ≥ 1 succeed with
// probability p: count×p of them move to bucket c-1 and count×(1-p) stay. The
// successes summed over all buckets are that day's new referrals. New referrals
// join bucket capacity as referrers but only start referring the next day.
//
// # Usage
//
//	sim, _ := growth.New(growth.DefaultConfig())
//	totals, _ := sim.Simulate(0.1, 30)          // cumulative per day
//	days, ok, _ := sim.DaysToTarget(0.1, 5000)  // ok=false means unreachable
//
// A [Simulation] holds only its configuration, so one value can be shared by
// any number of goroutines.
package growth
