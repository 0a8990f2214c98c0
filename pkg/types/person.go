package types

import (
	"fmt"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Person is one individual of a family tree. Relations are held as IDs of
// other Persons in the same tree; an empty ID means the relation is absent.
//
// Values handed out by a FamilyTree are snapshots. Changing a snapshot does
// not change the tree; pass it back to a tree operation instead.
type Person struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Sex       Sex        `json:"sex"`
	Birthday  civil.Date `json:"birthday,omitzero"`
	Deathdate civil.Date `json:"deathdate,omitzero"`

	MotherID   string `json:"mother_id,omitempty"`
	FatherID   string `json:"father_id,omitempty"`
	GuardianID string `json:"guardian_id,omitempty"`
	WasAdopted bool   `json:"was_adopted"`

	// ChildIDs is ordered by insertion and never holds the same ID twice.
	ChildIDs []string `json:"child_ids"`

	// PartnerIDs is the partner history. The last entry is the current
	// spouse while Married is true; every other entry is an ex-partner.
	PartnerIDs []string `json:"partner_ids"`
	Married    bool     `json:"married"`
}

// NewPerson creates a standalone Person with a fresh UUID v7 ID and no
// relations. sex is classified with ParseSex; on failure no Person is
// returned. A zero birthday or deathdate means the date is unknown.
func NewPerson(name, sex string, birthday, deathdate civil.Date) (*Person, error) {
	s, err := ParseSex(sex)
	if err != nil {
		return nil, err
	}
	if !vitalDatesOrdered(birthday, deathdate) {
		return nil, ErrInvalidVitalDates
	}
	return newPerson(name, s), nil
}

// SynthesizeOppositeSexPartner creates the unknown counterpart of p: a new
// standalone Person of the opposite sex, carrying name when one is known.
// Trees use it for the unrecorded co-parent of a child and for a spouse who
// is not yet a member.
func SynthesizeOppositeSexPartner(p *Person, name string) *Person {
	return newPerson(name, p.Sex.Opposite())
}

func newPerson(name string, sex Sex) *Person {
	return &Person{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Name:       name,
		Sex:        sex,
		ChildIDs:   []string{},
		PartnerIDs: []string{},
	}
}

// vitalDatesOrdered reports whether death does not precede birth. Unknown
// dates never conflict.
func vitalDatesOrdered(birthday, deathdate civil.Date) bool {
	if !dateKnown(birthday) || !dateKnown(deathdate) {
		return true
	}
	return !deathdate.Before(birthday)
}

// ValidateVitalDates returns ErrInvalidVitalDates when deathdate precedes
// birthday.
func ValidateVitalDates(birthday, deathdate civil.Date) error {
	if !vitalDatesOrdered(birthday, deathdate) {
		return ErrInvalidVitalDates
	}
	return nil
}

// HasBirthday reports whether the birthday is known.
func (p *Person) HasBirthday() bool { return dateKnown(p.Birthday) }

// HasDeathdate reports whether the deathdate is known.
func (p *Person) HasDeathdate() bool { return dateKnown(p.Deathdate) }

// Spouse returns the current spouse ID. ok is false when the person is not
// married.
func (p *Person) Spouse() (id string, ok bool) {
	if !p.Married || len(p.PartnerIDs) == 0 {
		return "", false
	}
	return p.PartnerIDs[len(p.PartnerIDs)-1], true
}

// ParentIDs returns the father then the mother, skipping whichever is
// absent. The result is empty, not nil, for a parentless person.
func (p *Person) ParentIDs() []string {
	parents := []string{}
	if p.FatherID != "" {
		parents = append(parents, p.FatherID)
	}
	if p.MotherID != "" {
		parents = append(parents, p.MotherID)
	}
	return parents
}

// HasChild reports whether id is among the person's children.
func (p *Person) HasChild(id string) bool {
	return slices.Contains(p.ChildIDs, id)
}

// HasPartner reports whether id appears anywhere in the partner history.
func (p *Person) HasPartner(id string) bool {
	return slices.Contains(p.PartnerIDs, id)
}

// IsChildOf reports whether parent lists p among its children.
func (p *Person) IsChildOf(parent *Person) bool {
	return parent.HasChild(p.ID)
}

// IsExOf reports whether p is in other's partner history without being
// other's current spouse.
func (p *Person) IsExOf(other *Person) bool {
	if spouse, ok := other.Spouse(); ok && spouse == p.ID {
		return false
	}
	return other.HasPartner(p.ID)
}

// Clone returns a deep copy.
func (p *Person) Clone() *Person {
	c := *p
	c.ChildIDs = append(make([]string, 0, len(p.ChildIDs)), p.ChildIDs...)
	c.PartnerIDs = append(make([]string, 0, len(p.PartnerIDs)), p.PartnerIDs...)
	return &c
}

// Equal reports structural equality: every field, nested collections
// included, must match. Trees resolve members by ID, not with Equal.
func (p *Person) Equal(other *Person) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Sex == other.Sex &&
		p.Birthday == other.Birthday &&
		p.Deathdate == other.Deathdate &&
		p.MotherID == other.MotherID &&
		p.FatherID == other.FatherID &&
		p.GuardianID == other.GuardianID &&
		p.WasAdopted == other.WasAdopted &&
		p.Married == other.Married &&
		slices.Equal(p.ChildIDs, other.ChildIDs) &&
		slices.Equal(p.PartnerIDs, other.PartnerIDs)
}

func (p *Person) String() string {
	name := p.Name
	if name == "" {
		name = "(unknown)"
	}
	s := fmt.Sprintf("%s [%s]", name, p.Sex)
	switch {
	case p.HasBirthday() && p.HasDeathdate():
		s += fmt.Sprintf(" %s to %s", p.Birthday, p.Deathdate)
	case p.HasBirthday():
		s += fmt.Sprintf(" born %s", p.Birthday)
	case p.HasDeathdate():
		s += fmt.Sprintf(" died %s", p.Deathdate)
	}
	return s
}
