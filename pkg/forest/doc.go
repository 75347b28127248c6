// Package forest models a referral network as a forest of users.
//
// # Overview
//
// Every user has at most one referrer. Following referrer edges upward always
// ends at a root (a user nobody referred), so the network is a set of disjoint
// rooted trees. The [Forest] type owns all users and both directions of every
// edge: the referrer ID stored on the referred user and the ordered referrals
// list stored on the referrer. Every mutation writes both directions together
// or neither.
//
// # Basic Usage
//
//	f := forest.New()
//	f.RegisterUser("alice", "")
//	f.RegisterUser("bob", "alice")
//	f.RegisterUser("carol", "")
//	f.LinkUserToReferrer("bob", "carol")
//
// [Forest.RegisterUser] generates a UUID when the ID is empty.
// [Forest.DeleteUser] turns the deleted user's direct referrals into new roots
// rather than deleting or reattaching their subtrees.
//
// # Invariants
//
//   - IDs are unique and non-empty
//   - a referrer, when set, exists and differs from the user
//   - referrals lists are exactly the inverse of referrer fields
//   - there are no cycles
//
// [Forest.Validate] checks all of them in O(U + E); tests call it after random
// operation sequences.
//
// # Concurrency
//
// Forest performs no locking. Callers that share an instance between
// goroutines must hold one exclusive lock per instance for the duration of each
// call, as [github.com/matzehuels/reftree/pkg/api] does.
package forest
