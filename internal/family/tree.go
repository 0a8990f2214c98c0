// Package family implements the in-memory relationship graph behind
// types.FamilyTree.
//
// Every person the tree knows lives in an arena keyed by ID; relations are
// IDs resolved through the arena. Callers only ever see clones.
package family

import (
	"sync"

	"github.com/tidwall/btree"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lineage/pkg/metrics"
	"github.com/mesh-intelligence/lineage/pkg/types"
)

var _ types.FamilyTree = (*Tree)(nil)

// Operation names used for logging and metrics.
const (
	opSetHead       = "set_head"
	opAddChild      = "add_child"
	opAssignParent  = "assign_parent"
	opMarry         = "marry"
	opDivorce       = "divorce"
	opAdopt         = "adopt"
	opRename        = "rename"
	opSetVitalDates = "set_vital_dates"
)

// arenaDegree is the B-tree degree of the member arena.
const arenaDegree = 32

// Tree is a relationship graph rooted at a head person. It is safe for
// concurrent use: queries share a read lock and each mutation holds the
// write lock for its whole duration.
type Tree struct {
	mu      sync.RWMutex
	members *btree.Map[string, *types.Person]
	head    string

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger. Failed mutations are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics sets the collectors operations are counted in.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tree) {
		t.metrics = m
	}
}

// NewTree creates an empty tree. Call SetHead to give it a progenitor.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		members: btree.NewMap[string, *types.Person](arenaDegree),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Head returns the progenitor.
func (t *Tree) Head() (*types.Person, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, ok := t.members.Get(t.head)
	if !ok {
		return nil, false
	}
	return h.Clone(), true
}

// SetHead designates p as the progenitor. When p is already a member it is
// promoted in place and the arena is kept. Otherwise the arena is replaced by
// a network holding only p, stripped of relations it carried from elsewhere.
// A nil p, or one without an ID or a valid sex, is ignored.
func (t *Tree) SetHead(p *types.Person) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p == nil || p.ID == "" || !p.Sex.Valid() {
		t.fail(opSetHead, "person is not a valid standalone person")
		return
	}
	if _, ok := t.members.Get(p.ID); ok {
		t.head = p.ID
		t.succeed(opSetHead)
		return
	}

	t.members = btree.NewMap[string, *types.Person](arenaDegree)
	t.store(detached(p))
	t.head = p.ID
	t.succeed(opSetHead)
}

// Get returns the member with the given ID, reachable or not.
func (t *Tree) Get(id string) (*types.Person, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.members.Get(id)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Len returns the number of members in the arena.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.members.Len()
}

// Members returns the persons found by the lookup traversal, in
// breadth-first order.
func (t *Tree) Members() []*types.Person {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := []*types.Person{}
	t.walkLookup(func(p *types.Person) bool {
		out = append(out, p.Clone())
		return true
	})
	return out
}

// store adds p to the arena. The caller holds the write lock.
func (t *Tree) store(p *types.Person) {
	t.members.Set(p.ID, p)
	t.metrics.SetMembers(t.members.Len())
}

// fail records a failed mutation and returns false.
func (t *Tree) fail(op, reason string, fields ...zap.Field) bool {
	t.metrics.Observe(op, false)
	t.logger.Debug(op+" failed", append([]zap.Field{zap.String("reason", reason)}, fields...)...)
	return false
}

// succeed records a successful mutation and returns true.
func (t *Tree) succeed(op string) bool {
	t.metrics.Observe(op, true)
	return true
}

// detached returns a clone of p with every relation cleared, ready to be
// stored as a new member.
func detached(p *types.Person) *types.Person {
	c := p.Clone()
	c.MotherID = ""
	c.FatherID = ""
	c.GuardianID = ""
	c.WasAdopted = false
	c.ChildIDs = []string{}
	c.PartnerIDs = []string{}
	c.Married = false
	return c
}

// clones snapshots a slice of arena members.
func clones(ps []*types.Person) []*types.Person {
	out := make([]*types.Person, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Clone())
	}
	return out
}
