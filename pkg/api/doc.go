// Package api exposes a referral network over HTTP.
//
// # Routes
//
//	POST   /users                  register {id?, referrer?}
//	GET    /users/{id}             user details
//	GET    /users/{id}/referrals   direct referrals
//	PUT    /users/{id}/referrer    link {referrer}
//	DELETE /users/{id}             delete, orphaning direct referrals
//	GET    /users/{id}/reach       total referral count
//	GET    /analytics/top?k=N      top referrers by reach
//	GET    /analytics/expansion    roots by unique reach
//	GET    /analytics/centrality   flow centrality ranking
//	POST   /simulate               cumulative growth {p, days}
//	POST   /simulate/days          days to target {p, target}
//	POST   /bonus                  minimum bonus {days, target}
//	GET    /healthz                liveness and build version
//	GET    /metrics                Prometheus exposition
//
// Failures are JSON objects {"code": ..., "message": ...}. The code is one of
// the [errors.Code] values and selects the status: 404 for unknown users, 409
// for duplicates and cycles, 400 for bad input.
//
// Horizons above the configured server max_days are rejected before
// simulating, and k is capped at max_top_k.
//
// The forest is not safe for concurrent mutation, so the server serialises
// access with a read-write lock. Analytics queries share the read lock.
//
// [errors.Code]: github.com/matzehuels/reftree/pkg/errors.Code
package api
