package family

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/mesh-intelligence/lineage/pkg/types"
)

// expandFunc lists the IDs a traversal moves to from p, in order.
type expandFunc func(p *types.Person) []string

// childEdges follows descendants only.
func childEdges(p *types.Person) []string {
	return p.ChildIDs
}

// lookupEdges follows descendants, then partners.
func lookupEdges(p *types.Person) []string {
	next := make([]string, 0, len(p.ChildIDs)+len(p.PartnerIDs))
	next = append(next, p.ChildIDs...)
	return append(next, p.PartnerIDs...)
}

// bfs visits members breadth-first from seeds, expanding each visited member
// with expand. Each member is visited at most once, so cycles terminate.
// IDs missing from the arena are skipped. visit returns false to stop.
func (t *Tree) bfs(seeds []string, expand expandFunc, visit func(p *types.Person) bool) {
	seen := make(map[string]bool, len(seeds))
	queue := make([]string, 0, len(seeds))
	for _, id := range seeds {
		if id != "" && !seen[id] {
			seen[id] = true
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		p, ok := t.members.Get(id)
		if !ok {
			continue
		}
		if !visit(p) {
			return
		}
		for _, next := range expand(p) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
}

// walkLookup runs the lookup traversal: seeded with the head and the head's
// partners, expanding children then partners.
func (t *Tree) walkLookup(visit func(p *types.Person) bool) {
	head, ok := t.members.Get(t.head)
	if !ok {
		return
	}
	seeds := append([]string{head.ID}, head.PartnerIDs...)
	t.bfs(seeds, lookupEdges, visit)
}

// walkLineage runs the lineage traversal: from the head through child
// edges only.
func (t *Tree) walkLineage(visit func(p *types.Person) bool) {
	if t.head == "" {
		return
	}
	t.bfs([]string{t.head}, childEdges, visit)
}

// resolve finds the canonical member for target by ID among the persons
// the lookup traversal reaches.
func (t *Tree) resolve(target *types.Person) (*types.Person, bool) {
	if target == nil || target.ID == "" {
		return nil, false
	}
	var found *types.Person
	t.walkLookup(func(p *types.Person) bool {
		if p.ID == target.ID {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// memberOrNew resolves target, falls back to an arena member with the same
// ID, and otherwise returns a detached clone that the caller stores once its
// operation commits. ok is false when target cannot become a member.
func (t *Tree) memberOrNew(target *types.Person) (p *types.Person, isNew, ok bool) {
	if target == nil || target.ID == "" || !target.Sex.Valid() {
		return nil, false, false
	}
	if p, ok := t.resolve(target); ok {
		return p, false, true
	}
	if p, ok := t.members.Get(target.ID); ok {
		return p, false, true
	}
	return detached(target), true, true
}

// isAncestor reports whether anc is reachable from p by walking up mother,
// father, and guardian edges.
func (t *Tree) isAncestor(anc, p *types.Person) bool {
	up := func(q *types.Person) []string {
		return []string{q.MotherID, q.FatherID, q.GuardianID}
	}
	found := false
	t.bfs(up(p), up, func(q *types.Person) bool {
		if q.ID == anc.ID {
			found = true
			return false
		}
		return true
	})
	return found
}

// FindByIdentity returns the first person in breadth-first order whose name
// matches case-insensitively and whose birthday matches exactly.
func (t *Tree) FindByIdentity(name string, birthday civil.Date) (*types.Person, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var found *types.Person
	t.walkLookup(func(p *types.Person) bool {
		if strings.EqualFold(p.Name, name) && p.Birthday == birthday {
			found = p
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return found.Clone(), true
}

// FindByReference resolves target to the canonical member with its ID.
func (t *Tree) FindByReference(target *types.Person) (*types.Person, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.resolve(target)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// FindAllByName returns every case-insensitive name match in
// breadth-first order. The result is empty, not nil, when nothing matches.
func (t *Tree) FindAllByName(name string) []*types.Person {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := []*types.Person{}
	t.walkLookup(func(p *types.Person) bool {
		if strings.EqualFold(p.Name, name) {
			out = append(out, p.Clone())
		}
		return true
	})
	return out
}

// IsReachable reports whether target descends from the head through child
// edges. The head is reachable from itself.
func (t *Tree) IsReachable(target *types.Person) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.reachable(target)
}

func (t *Tree) reachable(target *types.Person) bool {
	if target == nil || target.ID == "" {
		return false
	}
	found := false
	t.walkLineage(func(p *types.Person) bool {
		if p.ID == target.ID {
			found = true
			return false
		}
		return true
	})
	return found
}
