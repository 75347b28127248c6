package forest

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUserID is returned when an explicit user ID is required but empty.
	ErrInvalidUserID = errors.New("user ID must not be empty")

	// ErrUnknownUser is returned when the user being queried, linked or deleted
	// does not exist.
	ErrUnknownUser = errors.New("unknown user")

	// ErrUnknownReferrer is returned by [Forest.RegisterUser] and
	// [Forest.LinkUserToReferrer] when the named referrer does not exist.
	ErrUnknownReferrer = errors.New("unknown referrer")

	// ErrDuplicateUser is returned by [Forest.RegisterUser] when the ID is
	// already registered.
	ErrDuplicateUser = errors.New("duplicate user")

	// ErrSelfReferral is returned when a user is named as its own referrer.
	ErrSelfReferral = errors.New("user cannot refer itself")

	// ErrAlreadyReferred is returned by [Forest.LinkUserToReferrer] when the
	// user already has a referrer.
	ErrAlreadyReferred = errors.New("user already has a referrer")

	// ErrCycleDetected is returned by [Forest.LinkUserToReferrer] when the new
	// edge would close a cycle, i.e. the user is an ancestor of the referrer.
	ErrCycleDetected = errors.New("referral would create a cycle")

	// ErrBrokenInvariant is returned by [Forest.Validate] when the internal
	// structure is inconsistent. It indicates a bug, never bad input.
	ErrBrokenInvariant = errors.New("forest invariant violated")
)

// user is the mutable record behind a registered ID.
type user struct {
	id        string
	referrer  string   // "" for roots
	referrals []string // insertion order
	seq       uint64   // registration sequence, orders Users and Roots
}

// UserDetails is a read-only snapshot of a user's scalar fields.
// ReferrerID is empty for root users.
type UserDetails struct {
	ID         string `json:"id"`
	ReferrerID string `json:"referrer_id,omitempty"`
}

// HasReferrer reports whether the user is attached to a referrer.
func (u UserDetails) HasReferrer() bool { return u.ReferrerID != "" }

// Forest is the referral network: a set of users where each user has at most
// one referrer and referral edges never form a cycle.
//
// The zero value is not usable - use [New].
// Forest is not safe for concurrent use without external synchronization.
type Forest struct {
	users   map[string]*user
	nextSeq uint64
	newID   func() string
}

// New creates an empty forest.
func New() *Forest {
	return &Forest{
		users: make(map[string]*user),
		newID: uuid.NewString,
	}
}

// RegisterUser adds a user and, when referrerID is non-empty, attaches it to
// that referrer. An empty id asks the forest to generate a fresh one. The
// registered ID is returned.
//
// Returns ErrDuplicateUser if id is taken, ErrSelfReferral if id equals
// referrerID, or ErrUnknownReferrer if the referrer does not exist. On error the
// forest is unchanged.
func (f *Forest) RegisterUser(id, referrerID string) (string, error) {
	if id == "" {
		id = f.freshID()
	}
	if _, exists := f.users[id]; exists {
		return "", fmt.Errorf("%w: %q", ErrDuplicateUser, id)
	}
	if referrerID != "" {
		if referrerID == id {
			return "", fmt.Errorf("%w: %q", ErrSelfReferral, id)
		}
		if _, ok := f.users[referrerID]; !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownReferrer, referrerID)
		}
	}

	u := &user{id: id, seq: f.nextSeq}
	f.nextSeq++
	f.users[id] = u
	if referrerID != "" {
		f.attach(f.users[referrerID], u)
	}
	return id, nil
}

func (f *Forest) freshID() string {
	for {
		id := f.newID()
		if _, taken := f.users[id]; !taken && id != "" {
			return id
		}
	}
}

// UserDetails returns a snapshot of the user's ID and referrer.
func (f *Forest) UserDetails(id string) (UserDetails, error) {
	u, ok := f.users[id]
	if !ok {
		return UserDetails{}, fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	return UserDetails{ID: u.id, ReferrerID: u.referrer}, nil
}

// DirectReferrals returns the IDs the user referred, in the order the
// referrals were made. The returned slice is a copy.
func (f *Forest) DirectReferrals(id string) ([]string, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	return slices.Clone(u.referrals), nil
}

// LinkUserToReferrer records that referrerID referred userID.
//
// The user must currently be a root (ErrAlreadyReferred otherwise). Linking a
// user to itself fails with ErrSelfReferral, and linking it below one of its own
// descendants fails with ErrCycleDetected. The cycle check walks the
// referrer chain upward from referrerID, which is O(depth) and sufficient
// because the structure is already a forest: there is exactly one such chain.
//
// A user that became a root because its referrer was deleted may be linked
// again.
func (f *Forest) LinkUserToReferrer(referrerID, userID string) error {
	ref, ok := f.users[referrerID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownReferrer, referrerID)
	}
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUser, userID)
	}
	if u.referrer != "" {
		return fmt.Errorf("%w: %q is referred by %q", ErrAlreadyReferred, userID, u.referrer)
	}
	if referrerID == userID {
		return fmt.Errorf("%w: %q", ErrSelfReferral, userID)
	}
	if f.isAncestor(userID, referrerID) {
		return fmt.Errorf("%w: %q is an ancestor of %q", ErrCycleDetected, userID, referrerID)
	}

	f.attach(ref, u)
	return nil
}

// isAncestor reports whether candidate appears on the referrer chain of id.
func (f *Forest) isAncestor(candidate, id string) bool {
	for cur := f.users[id].referrer; cur != ""; cur = f.users[cur].referrer {
		if cur == candidate {
			return true
		}
	}
	return false
}

// attach writes both halves of a referral edge.
func (f *Forest) attach(ref, u *user) {
	u.referrer = ref.id
	ref.referrals = append(ref.referrals, u.id)
}

// detach removes both halves of u's referral edge, if any.
func (f *Forest) detach(u *user) {
	if u.referrer == "" {
		return
	}
	ref := f.users[u.referrer]
	ref.referrals = slices.DeleteFunc(ref.referrals, func(s string) bool { return s == u.id })
	u.referrer = ""
}

// DeleteUser removes a user. Its direct referrals become roots and keep their
// own subtrees; they are not reattached to the deleted user's referrer.
func (f *Forest) DeleteUser(id string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	for _, child := range u.referrals {
		f.users[child].referrer = ""
	}
	u.referrals = nil
	f.detach(u)
	delete(f.users, id)
	return nil
}

// Has reports whether id is registered.
func (f *Forest) Has(id string) bool {
	_, ok := f.users[id]
	return ok
}

// Len returns the number of registered users.
func (f *Forest) Len() int { return len(f.users) }

// Referrer returns the user's referrer ID, or "" for roots and unknown users.
func (f *Forest) Referrer(id string) string {
	if u, ok := f.users[id]; ok {
		return u.referrer
	}
	return ""
}

// Children returns the user's direct referrals in insertion order.
// Returns nil for leaves and unknown users. The slice is a read-only view.
func (f *Forest) Children(id string) []string {
	if u, ok := f.users[id]; ok {
		return u.referrals
	}
	return nil
}

// Users returns every user ID in registration order.
func (f *Forest) Users() []string {
	return f.sortedIDs(func(*user) bool { return true })
}

// Roots returns the IDs of users without a referrer, in registration order.
func (f *Forest) Roots() []string {
	return f.sortedIDs(func(u *user) bool { return u.referrer == "" })
}

func (f *Forest) sortedIDs(keep func(*user) bool) []string {
	picked := make([]*user, 0, len(f.users))
	for _, u := range f.users {
		if keep(u) {
			picked = append(picked, u)
		}
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].seq < picked[j].seq })
	ids := make([]string, len(picked))
	for i, u := range picked {
		ids[i] = u.id
	}
	return ids
}

// Depth returns the number of referrer edges between the user and its root.
// Roots have depth 0. Returns ErrUnknownUser if id is absent.
func (f *Forest) Depth(id string) (int, error) {
	u, ok := f.users[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	depth := 0
	for cur := u.referrer; cur != ""; cur = f.users[cur].referrer {
		depth++
	}
	return depth, nil
}

// Validate checks every structural invariant and returns nil if the forest is
// consistent:
//
//  1. every referrer exists and no user refers itself
//  2. referrals lists and referrer fields mirror each other exactly
//  3. referrals lists contain no duplicates
//  4. following referrer edges always reaches a root (no cycles)
//
// Violations wrap ErrBrokenInvariant.
func (f *Forest) Validate() error {
	for id, u := range f.users {
		if u.referrer == "" {
			continue
		}
		if u.referrer == id {
			return fmt.Errorf("%w: %q refers itself", ErrBrokenInvariant, id)
		}
		ref, ok := f.users[u.referrer]
		if !ok {
			return fmt.Errorf("%w: %q has missing referrer %q", ErrBrokenInvariant, id, u.referrer)
		}
		if !slices.Contains(ref.referrals, id) {
			return fmt.Errorf("%w: %q missing from referrals of %q", ErrBrokenInvariant, id, u.referrer)
		}
	}

	for id, u := range f.users {
		seen := make(map[string]bool, len(u.referrals))
		for _, child := range u.referrals {
			if seen[child] {
				return fmt.Errorf("%w: %q listed twice under %q", ErrBrokenInvariant, child, id)
			}
			seen[child] = true
			c, ok := f.users[child]
			if !ok || c.referrer != id {
				return fmt.Errorf("%w: %q lists %q which does not point back", ErrBrokenInvariant, id, child)
			}
		}
	}

	return f.detectCycles()
}

func (f *Forest) detectCycles() error {
	const (
		unvisited = iota
		onPath
		done
	)

	state := make(map[string]int, len(f.users))
	for id := range f.users {
		var path []string
		cur := id
		for cur != "" && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			cur = f.users[cur].referrer
		}
		if cur != "" && state[cur] == onPath {
			return fmt.Errorf("%w: cycle through %q", ErrBrokenInvariant, cur)
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}
