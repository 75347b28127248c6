// Package pkg holds the reftree libraries.
//
// # Overview
//
// Reftree models a referral network as a forest in which every user has at
// most one referrer. The packages split into three groups:
//
//  1. Engine: [forest] keeps the network acyclic, [analytics] answers reach
//     and influence queries, [growth] projects referral growth, and [bonus]
//     searches for the cheapest bonus that meets a hiring target.
//  2. Boundary: [io] reads and writes the JSON network format, [config] loads
//     TOML settings, [errors] turns engine errors into coded errors, and [api]
//     serves everything over HTTP.
//  3. Support: [pqueue] is the bounded heap behind top-k queries,
//     [observability] carries metrics hooks, [render] draws networks and
//     [buildinfo] reports the version.
//
// # Data Flow
//
//	network.json ──[io]──▶ [forest] ──▶ [analytics] ──▶ CLI / [api]
//	reftree.toml ─[config]─▶ [growth] ──▶ [bonus]
//
// [forest]: github.com/matzehuels/reftree/pkg/forest
// [analytics]: github.com/matzehuels/reftree/pkg/analytics
// [growth]: github.com/matzehuels/reftree/pkg/growth
// [bonus]: github.com/matzehuels/reftree/pkg/bonus
// [io]: github.com/matzehuels/reftree/pkg/io
// [config]: github.com/matzehuels/reftree/pkg/config
// [errors]: github.com/matzehuels/reftree/pkg/errors
// [api]: github.com/matzehuels/reftree/pkg/api
// [pqueue]: github.com/matzehuels/reftree/pkg/pqueue
// [observability]: github.com/matzehuels/reftree/pkg/observability
// [render]: github.com/matzehuels/reftree/pkg/render
// [buildinfo]: github.com/matzehuels/reftree/pkg/buildinfo
package pkg
