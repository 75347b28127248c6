// Package analytics computes reach and influence scores over a referral forest.
//
// The [Analyzer] reads a [Source] (implemented by [forest.Forest]) and never
// mutates it. Four queries are provided:
//
//   - [Analyzer.TotalReferralCount]: direct plus indirect referrals of one user
//   - [Analyzer.TopReferrersByReach]: the k users with the largest reach
//   - [Analyzer.UniqueReachExpansion]: roots with non-empty subtrees, by reach
//   - [Analyzer.FlowCentrality]: depth × descendants for every user
//
// # Traversal
//
// Trees can degenerate into chains whose height equals the user count, so
// every traversal is iterative with an explicit stack. Batch queries make one
// post-order pass per root and visit each user exactly once.
//
// # Unique reach
//
// Trees in a forest are disjoint, so each root's descendant set never overlaps
// another's. Taking every root with non-zero reach is already a maximum
// coverage selection; no greedy marginal-gain loop is needed.
//
// # Flow centrality
//
// At most one path connects two users in a forest, so the number of
// root-to-descendant paths through u grows with (ancestors of u) × (descendants
// of u). Depth stands in for the ancestor count. Roots and leaves score 0.
//
// [forest.Forest]: github.com/matzehuels/reftree/pkg/forest
package analytics
