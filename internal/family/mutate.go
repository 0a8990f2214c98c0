package family

import (
	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lineage/pkg/types"
)

// Each mutation runs every check before its first write, so a false result
// always leaves the tree as it was.

// AddChild attaches child to parent and to a co-parent. With a spouse, both
// parent and spouse must be members married to each other. Without one, an
// unknown co-parent of the opposite sex is synthesized. A child that is not
// yet a member is added.
func (t *Tree) AddChild(parent, spouse, child *types.Person) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	par, ok := t.resolve(parent)
	if !ok {
		return t.fail(opAddChild, "parent not found")
	}

	var co *types.Person
	coNew := false
	if spouse != nil {
		sp, ok := t.resolve(spouse)
		if !ok {
			return t.fail(opAddChild, "spouse not found", zap.String("parent", par.ID))
		}
		if !mutualSpouses(par, sp) {
			return t.fail(opAddChild, "parent and spouse are not married to each other",
				zap.String("parent", par.ID), zap.String("spouse", sp.ID))
		}
		co = sp
	} else {
		co = types.SynthesizeOppositeSexPartner(par, "")
		coNew = true
	}
	if co.Sex == par.Sex {
		return t.fail(opAddChild, "co-parent has the same sex as parent", zap.String("parent", par.ID))
	}

	ch, chNew, ok := t.memberOrNew(child)
	if !ok {
		return t.fail(opAddChild, "child is not a valid person")
	}
	if ch.ID == par.ID || ch.ID == co.ID {
		return t.fail(opAddChild, "child cannot be its own parent", zap.String("child", ch.ID))
	}
	if !parentSlotFree(ch, par) || !parentSlotFree(ch, co) {
		return t.fail(opAddChild, "child already has a different parent of that sex", zap.String("child", ch.ID))
	}
	if !chNew && (t.isAncestor(ch, par) || (!coNew && t.isAncestor(ch, co))) {
		return t.fail(opAddChild, "child is an ancestor of the parent", zap.String("child", ch.ID))
	}

	if chNew {
		t.store(ch)
	}
	if coNew {
		t.store(co)
	}
	attachChild(par, ch)
	attachChild(co, ch)

	t.logger.Debug("child added",
		zap.String("parent", par.ID), zap.String("co_parent", co.ID), zap.String("child", ch.ID))
	return t.succeed(opAddChild)
}

// AssignParent fills the child's mother or father slot, whichever matches
// parent's sex. The child must be a member with that slot empty. A parent
// that is not yet a member is added.
func (t *Tree) AssignParent(parent, child *types.Person) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.resolve(child)
	if !ok {
		return t.fail(opAssignParent, "child not found")
	}
	if ch.MotherID != "" && ch.FatherID != "" {
		return t.fail(opAssignParent, "child already has both parents", zap.String("child", ch.ID))
	}

	par, parNew, ok := t.memberOrNew(parent)
	if !ok {
		return t.fail(opAssignParent, "parent is not a valid person", zap.String("child", ch.ID))
	}
	if par.ID == ch.ID {
		return t.fail(opAssignParent, "person cannot be its own parent", zap.String("child", ch.ID))
	}
	if parentSlot(ch, par.Sex) != "" {
		return t.fail(opAssignParent, "child already has a parent of that sex",
			zap.String("child", ch.ID), zap.Stringer("sex", par.Sex))
	}
	if !parNew && t.isAncestor(ch, par) {
		return t.fail(opAssignParent, "child is an ancestor of the parent", zap.String("child", ch.ID))
	}

	if parNew {
		t.store(par)
	}
	attachChild(par, ch)
	return t.succeed(opAssignParent)
}

// Marry weds a and b and makes each the other's current spouse.
//
// Self-marriage fails. When both are members already married to each other
// the marriage is re-affirmed, which leaves both partner histories as they
// were. When both are unmarried members they are wed. When only one is a
// member, the other is looked up in the arena by ID, which finds persons
// such as synthesized co-parents that lookup does not reach. Failing that,
// an opposite-sex partner carrying the other's name is synthesized and wed
// to the member. A member married to someone else cannot marry.
func (t *Tree) Marry(a, b *types.Person) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if a == nil || b == nil {
		return t.fail(opMarry, "missing party")
	}
	if a == b || (a.ID != "" && a.ID == b.ID) {
		return t.fail(opMarry, "a person cannot marry itself", zap.String("person", a.ID))
	}

	ra, okA := t.resolve(a)
	rb, okB := t.resolve(b)
	if okA && !okB {
		rb, okB = t.members.Get(b.ID)
	} else if okB && !okA {
		ra, okA = t.members.Get(a.ID)
	}

	switch {
	case okA && okB:
		if mutualSpouses(ra, rb) {
			// Dissolve and re-establish: the pair moves back to the tail
			// of each other's history, where it already is.
			ra.PartnerIDs = ra.PartnerIDs[:len(ra.PartnerIDs)-1]
			rb.PartnerIDs = rb.PartnerIDs[:len(rb.PartnerIDs)-1]
			wed(ra, rb)
			return t.succeed(opMarry)
		}
		if ra.Married || rb.Married {
			return t.fail(opMarry, "a party is married to someone else",
				zap.String("a", ra.ID), zap.String("b", rb.ID))
		}
		wed(ra, rb)
	case okA:
		if ra.Married {
			return t.fail(opMarry, "party is married to someone else", zap.String("person", ra.ID))
		}
		t.wedSynthesized(ra, b.Name)
	case okB:
		if rb.Married {
			return t.fail(opMarry, "party is married to someone else", zap.String("person", rb.ID))
		}
		t.wedSynthesized(rb, a.Name)
	default:
		return t.fail(opMarry, "neither party found")
	}
	return t.succeed(opMarry)
}

// wedSynthesized weds member to a new opposite-sex person named name.
func (t *Tree) wedSynthesized(member *types.Person, name string) {
	partner := types.SynthesizeOppositeSexPartner(member, name)
	t.store(partner)
	wed(member, partner)
	t.logger.Debug("synthesized spouse",
		zap.String("person", member.ID), zap.String("spouse", partner.ID), zap.String("name", name))
}

// Divorce ends p's current marriage. p's spouse must name p as its own
// current spouse. Both married flags are cleared; partner histories keep
// their entries.
func (t *Tree) Divorce(p *types.Person) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rp, ok := t.resolve(p)
	if !ok {
		return t.fail(opDivorce, "person not found")
	}
	spouseID, ok := rp.Spouse()
	if !ok {
		return t.fail(opDivorce, "person is not married", zap.String("person", rp.ID))
	}
	sp, ok := t.members.Get(spouseID)
	if !ok || !mutualSpouses(rp, sp) {
		return t.fail(opDivorce, "spouse does not name person as spouse",
			zap.String("person", rp.ID), zap.String("spouse", spouseID))
	}

	rp.Married = false
	sp.Married = false
	return t.succeed(opDivorce)
}

// Adopt makes newParent the guardian of child and lists child among
// newParent's children. Biological parents are left alone. A child that is
// not yet a member is added. Fails when child is already newParent's child or
// already has another guardian.
func (t *Tree) Adopt(newParent, child *types.Person) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	np, ok := t.resolve(newParent)
	if !ok {
		return t.fail(opAdopt, "new parent not found")
	}
	ch, chNew, ok := t.memberOrNew(child)
	if !ok {
		return t.fail(opAdopt, "child is not a valid person", zap.String("parent", np.ID))
	}
	if ch.ID == np.ID {
		return t.fail(opAdopt, "person cannot adopt itself", zap.String("parent", np.ID))
	}
	if np.HasChild(ch.ID) {
		return t.fail(opAdopt, "already a child of the new parent",
			zap.String("parent", np.ID), zap.String("child", ch.ID))
	}
	if ch.GuardianID != "" {
		return t.fail(opAdopt, "child already has a guardian",
			zap.String("child", ch.ID), zap.String("guardian", ch.GuardianID))
	}
	if !chNew && t.isAncestor(ch, np) {
		return t.fail(opAdopt, "child is an ancestor of the new parent", zap.String("child", ch.ID))
	}

	if chNew {
		t.store(ch)
	}
	np.ChildIDs = append(np.ChildIDs, ch.ID)
	ch.GuardianID = np.ID
	ch.WasAdopted = true
	return t.succeed(opAdopt)
}

// Rename changes a member's display name.
func (t *Tree) Rename(p *types.Person, name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rp, ok := t.resolve(p)
	if !ok {
		return t.fail(opRename, "person not found")
	}
	rp.Name = name
	return t.succeed(opRename)
}

// SetVitalDates replaces a member's birthday and deathdate. A zero date
// clears the value. Fails when deathdate precedes birthday.
func (t *Tree) SetVitalDates(p *types.Person, birthday, deathdate civil.Date) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rp, ok := t.resolve(p)
	if !ok {
		return t.fail(opSetVitalDates, "person not found")
	}
	if err := types.ValidateVitalDates(birthday, deathdate); err != nil {
		return t.fail(opSetVitalDates, err.Error(), zap.String("person", rp.ID))
	}
	rp.Birthday = birthday
	rp.Deathdate = deathdate
	return t.succeed(opSetVitalDates)
}

// mutualSpouses reports whether a and b are each other's current spouse.
func mutualSpouses(a, b *types.Person) bool {
	as, okA := a.Spouse()
	bs, okB := b.Spouse()
	return okA && okB && as == b.ID && bs == a.ID
}

// wed appends each party to the other's history and marks both married.
func wed(a, b *types.Person) {
	a.PartnerIDs = append(a.PartnerIDs, b.ID)
	b.PartnerIDs = append(b.PartnerIDs, a.ID)
	a.Married = true
	b.Married = true
}

// parentSlot returns the child's parent ID for the given sex.
func parentSlot(child *types.Person, sex types.Sex) string {
	if sex == types.SexFemale {
		return child.MotherID
	}
	return child.FatherID
}

// parentSlotFree reports whether parent may occupy the child's slot for its
// sex: the slot is empty or already holds parent.
func parentSlotFree(child, parent *types.Person) bool {
	slot := parentSlot(child, parent.Sex)
	return slot == "" || slot == parent.ID
}

// attachChild records parent as the child's mother or father and appends
// the child to parent's children unless already there.
func attachChild(parent, child *types.Person) {
	if !parent.HasChild(child.ID) {
		parent.ChildIDs = append(parent.ChildIDs, child.ID)
	}
	if parent.Sex == types.SexFemale {
		child.MotherID = parent.ID
	} else {
		child.FatherID = parent.ID
	}
}
