package types

import "cloud.google.com/go/civil"

// FamilyTree is a relationship graph rooted at a head Person.
//
// Person arguments are resolved against the tree by ID before use, so a
// caller may pass either a snapshot the tree returned or a Person it built
// itself. Returned Persons are snapshots.
//
// Mutations report failure with a false result and leave the tree
// unchanged; they never return an error.
type FamilyTree interface {
	// Head returns the progenitor. ok is false for an empty tree.
	Head() (p *Person, ok bool)

	// SetHead designates p as the progenitor. A member of the tree is
	// promoted in place; any other Person replaces the whole network.
	SetHead(p *Person)

	// Get returns the member with the given ID whether or not it is
	// currently reachable from the head.
	Get(id string) (*Person, bool)

	// Len returns the number of members held, reachable or not.
	Len() int

	// Members returns every person reachable from the head through child
	// and partner edges, in breadth-first order.
	Members() []*Person

	// FindByIdentity returns the first person in breadth-first order whose
	// name matches case-insensitively and whose birthday matches exactly.
	FindByIdentity(name string, birthday civil.Date) (*Person, bool)

	// FindByReference resolves target to its canonical member.
	FindByReference(target *Person) (*Person, bool)

	// FindAllByName returns every case-insensitive name match in
	// breadth-first order. The result is never nil.
	FindAllByName(name string) []*Person

	// IsReachable reports whether target descends from the head through
	// child edges (the head itself included).
	IsReachable(target *Person) bool

	// AddChild attaches child to parent and, when spouse is non-nil, to
	// spouse as well. Without a spouse an unknown co-parent of the opposite
	// sex is synthesized.
	AddChild(parent, spouse, child *Person) bool

	// AssignParent fills the child's mother or father slot, whichever
	// matches parent's sex, when that slot is empty.
	AssignParent(parent, child *Person) bool

	// Marry weds a and b. When only one of them is reachable, the other is
	// taken from the tree by ID, or failing that an opposite-sex partner
	// carrying the other's name is synthesized. Fails when either party is
	// currently married to someone else.
	Marry(a, b *Person) bool

	// Divorce ends p's current marriage. Partner history is preserved.
	Divorce(p *Person) bool

	// Adopt makes newParent the guardian of child. Fails when child already
	// has a guardian, is already newParent's child, or is an ancestor of
	// newParent.
	Adopt(newParent, child *Person) bool

	// Rename changes a member's display name.
	Rename(p *Person, name string) bool

	// SetVitalDates replaces a member's birthday and deathdate.
	SetVitalDates(p *Person, birthday, deathdate civil.Date) bool

	// Spouse returns p's current spouse.
	Spouse(p *Person) (*Person, bool)

	// Parents returns p's father then mother, skipping absent ones.
	Parents(p *Person) []*Person

	// ExPartners returns p's former partners in the order they were wed.
	ExPartners(p *Person) []*Person

	// Siblings returns the other children of p's father and mother.
	Siblings(target *Person) []*Person

	// AreBloodRelated reports whether a and b both descend from the head.
	AreBloodRelated(a, b *Person) bool

	// AreCloselyRelated reports whether a and b share a paternal-line or
	// maternal-line ancestor within three generations.
	AreCloselyRelated(a, b *Person) bool
}
