package family

import (
	"github.com/mesh-intelligence/lineage/pkg/types"
)

// closeGenerations bounds the AreCloselyRelated heuristic.
const closeGenerations = 3

// Spouse returns p's current spouse.
func (t *Tree) Spouse(p *types.Person) (*types.Person, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rp, ok := t.resolve(p)
	if !ok {
		return nil, false
	}
	id, ok := rp.Spouse()
	if !ok {
		return nil, false
	}
	sp, ok := t.members.Get(id)
	if !ok {
		return nil, false
	}
	return sp.Clone(), true
}

// Parents returns p's father then mother, skipping absent ones. The result
// is empty, not nil, when p has no parents or is not a member.
func (t *Tree) Parents(p *types.Person) []*types.Person {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rp, ok := t.resolve(p)
	if !ok {
		return []*types.Person{}
	}
	return clones(t.lookupIDs(rp.ParentIDs()))
}

// ExPartners returns p's former partners in the order they were first wed,
// without repeats and without the current spouse.
func (t *Tree) ExPartners(p *types.Person) []*types.Person {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rp, ok := t.resolve(p)
	if !ok {
		return []*types.Person{}
	}
	current, married := rp.Spouse()
	seen := map[string]bool{}
	var ids []string
	for _, id := range rp.PartnerIDs {
		if seen[id] || (married && id == current) {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return clones(t.lookupIDs(ids))
}

// Siblings returns the children of target's father followed by those of its
// mother, each once, without target itself. Half-siblings through either
// parent are included. The result is empty, not nil, when target is not a
// member or has no parents.
func (t *Tree) Siblings(target *types.Person) []*types.Person {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rt, ok := t.resolve(target)
	if !ok {
		return []*types.Person{}
	}

	seen := map[string]bool{rt.ID: true}
	var ids []string
	for _, parentID := range rt.ParentIDs() {
		parent, ok := t.members.Get(parentID)
		if !ok {
			continue
		}
		for _, id := range parent.ChildIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return clones(t.lookupIDs(ids))
}

// AreBloodRelated reports whether a and b both descend from the head
// through child edges. Partner edges do not count.
func (t *Tree) AreBloodRelated(a, b *types.Person) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.reachable(a) && t.reachable(b)
}

// AreCloselyRelated reports whether a and b share an ancestor within three
// generations on the same side: the father's father line or the mother's
// mother line, compared generation by generation. A missing ancestor never
// matches.
func (t *Tree) AreCloselyRelated(a, b *types.Person) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ra, ok := t.resolve(a)
	if !ok {
		return false
	}
	rb, ok := t.resolve(b)
	if !ok {
		return false
	}

	fatherOf := func(p *types.Person) string { return p.FatherID }
	motherOf := func(p *types.Person) string { return p.MotherID }
	for gen := 1; gen <= closeGenerations; gen++ {
		for _, parentOf := range []func(*types.Person) string{fatherOf, motherOf} {
			ancA := t.ancestor(ra, parentOf, gen)
			if ancA != "" && ancA == t.ancestor(rb, parentOf, gen) {
				return true
			}
		}
	}
	return false
}

// ancestor follows parentOf gen times from p and returns the ID reached, or
// "" when the line ends first.
func (t *Tree) ancestor(p *types.Person, parentOf func(*types.Person) string, gen int) string {
	cur := p
	for i := 0; i < gen; i++ {
		id := parentOf(cur)
		if id == "" {
			return ""
		}
		next, ok := t.members.Get(id)
		if !ok {
			return ""
		}
		cur = next
	}
	return cur.ID
}

// lookupIDs returns the arena members for ids, skipping unknown IDs.
func (t *Tree) lookupIDs(ids []string) []*types.Person {
	out := make([]*types.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := t.members.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}
