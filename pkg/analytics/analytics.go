package analytics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/reftree/pkg/forest"
	"github.com/matzehuels/reftree/pkg/observability"
	"github.com/matzehuels/reftree/pkg/pqueue"
)

// ErrInvalidLimit is returned by [Analyzer.TopReferrersByReach] for negative k.
var ErrInvalidLimit = errors.New("limit must not be negative")

// Source is the read-only view of a referral forest the analyzer needs.
type Source interface {
	Has(id string) bool
	Len() int
	Users() []string
	Roots() []string
	Children(id string) []string
}

var _ Source = (*forest.Forest)(nil)

// UserWithScore pairs a user with a query-specific score.
type UserWithScore struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// Metrics is the set of analytics queries over a referral network.
type Metrics interface {
	TotalReferralCount(id string) (int, error)
	TopReferrersByReach(k int) ([]UserWithScore, error)
	UniqueReachExpansion() []UserWithScore
	FlowCentrality() []UserWithScore
}

// Analyzer implements [Metrics] over a [Source].
// It holds no state of its own; results reflect the source at call time.
type Analyzer struct {
	src Source
}

var _ Metrics = (*Analyzer)(nil)

// New creates an analyzer reading from src.
func New(src Source) *Analyzer {
	return &Analyzer{src: src}
}

// TotalReferralCount returns the number of users below id: its direct
// referrals plus all of theirs, transitively. Leaves have reach 0.
// Returns forest.ErrUnknownUser if id is absent.
func (a *Analyzer) TotalReferralCount(id string) (int, error) {
	defer a.observe("reach", time.Now())
	if !a.src.Has(id) {
		return 0, fmt.Errorf("%w: %q", forest.ErrUnknownUser, id)
	}

	count := 0
	stack := slices.Clone(a.src.Children(id))
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, a.src.Children(cur)...)
	}
	return count, nil
}

// ReachAll returns the reach of every user, computed in a single post-order
// pass per tree.
func (a *Analyzer) ReachAll() map[string]int {
	reach := make(map[string]int, a.src.Len())
	for _, root := range a.src.Roots() {
		a.walk(root, func(v visit) {
			reach[v.id] = v.descendants
		})
	}
	return reach
}

// TopReferrersByReach returns the k users with the largest reach, largest
// first. The result has min(k, users) entries; k == 0 yields an empty slice.
// Equal scores are ordered by ID.
func (a *Analyzer) TopReferrersByReach(k int) ([]UserWithScore, error) {
	defer a.observe("top", time.Now())
	if k < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, k)
	}

	top := pqueue.NewBounded(min(k, a.src.Len()), lessByScore)
	for _, root := range a.src.Roots() {
		a.walk(root, func(v visit) {
			top.Push(UserWithScore{ID: v.id, Score: v.descendants})
		})
	}
	return top.DrainDescending(), nil
}

// lessByScore ranks lower scores below higher ones and, among equal scores,
// later IDs below earlier ones.
func lessByScore(x, y UserWithScore) bool {
	if x.Score != y.Score {
		return x.Score < y.Score
	}
	return x.ID > y.ID
}

// UniqueReachExpansion returns every root with at least one descendant,
// scored by subtree reach, largest first. Roots with equal reach keep
// registration order.
func (a *Analyzer) UniqueReachExpansion() []UserWithScore {
	defer a.observe("expansion", time.Now())

	var out []UserWithScore
	for _, root := range a.src.Roots() {
		var reach int
		a.walk(root, func(v visit) {
			if v.id == root {
				reach = v.descendants
			}
		})
		if reach > 0 {
			out = append(out, UserWithScore{ID: root, Score: reach})
		}
	}
	sortDescending(out)
	return out
}

// FlowCentrality scores every user by depth × descendant count, largest first.
// Equal scores are ordered by ID. An empty forest yields an empty slice.
func (a *Analyzer) FlowCentrality() []UserWithScore {
	defer a.observe("centrality", time.Now())

	out := make([]UserWithScore, 0, a.src.Len())
	for _, root := range a.src.Roots() {
		a.walk(root, func(v visit) {
			out = append(out, UserWithScore{ID: v.id, Score: v.depth * v.descendants})
		})
	}
	slices.SortFunc(out, func(x, y UserWithScore) int {
		if x.Score != y.Score {
			return y.Score - x.Score
		}
		return strings.Compare(x.ID, y.ID)
	})
	return out
}

func sortDescending(s []UserWithScore) {
	slices.SortStableFunc(s, func(x, y UserWithScore) int { return y.Score - x.Score })
}

func (a *Analyzer) observe(query string, start time.Time) {
	observability.Analytics().OnQuery(context.Background(), query, a.src.Len(), time.Since(start))
}

// visit is the per-node result of a post-order walk.
type visit struct {
	id          string
	depth       int
	descendants int
}

// walk traverses the tree under root iteratively and calls fn for each node
// after all of its descendants, with the node's depth below root and its
// descendant count. Each node is visited exactly once.
func (a *Analyzer) walk(root string, fn func(visit)) {
	type frame struct {
		id    string
		depth int
		next  int // index of the next child to descend into
		total int // descendants accumulated so far
	}

	stack := []frame{{id: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := a.src.Children(top.id)
		if top.next < len(children) {
			child := children[top.next]
			top.next++
			stack = append(stack, frame{id: child, depth: top.depth + 1})
			continue
		}

		done := *top
		stack = stack[:len(stack)-1]
		fn(visit{id: done.id, depth: done.depth, descendants: done.total})
		if len(stack) > 0 {
			stack[len(stack)-1].total += done.total + 1
		}
	}
}
