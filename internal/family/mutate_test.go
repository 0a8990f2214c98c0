package family

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lineage/pkg/types"
)

// couple builds a tree headed by Alice, married to a synthesized Bill.
func couple(t *testing.T) (tr *Tree, alice, bill *types.Person) {
	t.Helper()
	alice = person(t, "Alice", "f", "1950-01-01")
	tr = treeWithHead(t, alice)
	require.True(t, tr.Marry(alice, &types.Person{Name: "Bill"}))
	bill, ok := tr.Spouse(alice)
	require.True(t, ok)
	return tr, alice, bill
}

// assertUnchanged fails when the arena differs from before.
func assertUnchanged(t *testing.T, tr *Tree, before []*types.Person) {
	t.Helper()
	if diff := cmp.Diff(before, snapshot(tr)); diff != "" {
		t.Errorf("failed operation mutated the tree (-before +after):\n%s", diff)
	}
}

func TestAddChild(t *testing.T) {
	t.Run("with spouse attaches to both", func(t *testing.T) {
		tr, alice, bill := couple(t)
		kid := person(t, "Kid", "m", "")
		require.True(t, tr.AddChild(alice, bill, kid))

		got := mustGet(t, tr, kid.ID)
		assert.Equal(t, alice.ID, got.MotherID)
		assert.Equal(t, bill.ID, got.FatherID)
		assert.Equal(t, []string{kid.ID}, mustGet(t, tr, alice.ID).ChildIDs)
		assert.Equal(t, []string{kid.ID}, mustGet(t, tr, bill.ID).ChildIDs)
		assert.Equal(t, 3, tr.Len(), "no co-parent synthesized")
	})

	t.Run("father as parent and mother as spouse", func(t *testing.T) {
		tr, alice, bill := couple(t)
		kid := person(t, "Kid", "f", "")
		require.True(t, tr.AddChild(bill, alice, kid))
		got := mustGet(t, tr, kid.ID)
		assert.Equal(t, alice.ID, got.MotherID)
		assert.Equal(t, bill.ID, got.FatherID)
	})

	t.Run("without spouse synthesizes co-parent", func(t *testing.T) {
		alice := person(t, "Alice", "f", "")
		tr := treeWithHead(t, alice)
		kid := person(t, "Kid", "m", "")
		require.True(t, tr.AddChild(alice, nil, kid))

		got := mustGet(t, tr, kid.ID)
		assert.Equal(t, alice.ID, got.MotherID)
		co := mustGet(t, tr, got.FatherID)
		assert.Equal(t, types.SexMale, co.Sex)
		assert.Equal(t, []string{kid.ID}, co.ChildIDs)
		assert.False(t, co.Married, "the co-parent is not a spouse")
	})

	t.Run("child found from head and slot matches parent sex", func(t *testing.T) {
		bob := person(t, "Bob", "m", "")
		tr := treeWithHead(t, bob)
		kid := person(t, "Kid", "f", "2001-02-03")
		require.True(t, tr.AddChild(bob, nil, kid))

		found, ok := tr.FindByIdentity("kid", kid.Birthday)
		require.True(t, ok)
		assert.Equal(t, bob.ID, found.FatherID)
		assert.Equal(t, types.SexFemale, mustGet(t, tr, found.MotherID).Sex)
	})

	t.Run("re-adding the same child skips duplicates", func(t *testing.T) {
		tr, alice, bill := couple(t)
		kid := person(t, "Kid", "m", "")
		require.True(t, tr.AddChild(alice, bill, kid))
		require.True(t, tr.AddChild(alice, bill, kid))
		assert.Equal(t, []string{kid.ID}, mustGet(t, tr, alice.ID).ChildIDs)
		assert.Equal(t, []string{kid.ID}, mustGet(t, tr, bill.ID).ChildIDs)
	})

	tests := []struct {
		name  string
		setup func(t *testing.T, tr *Tree, alice, bill *types.Person) (parent, spouse, child *types.Person)
	}{
		{
			name: "parent not found",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				return person(t, "Stranger", "f", ""), nil, person(t, "Kid", "m", "")
			},
		},
		{
			name: "spouse not found",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				return alice, person(t, "Stranger", "m", ""), person(t, "Kid", "m", "")
			},
		},
		{
			name: "spouse is not the current spouse",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				require.True(t, tr.Divorce(alice))
				return alice, bill, person(t, "Kid", "m", "")
			},
		},
		{
			name: "child is the parent",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				return alice, bill, alice
			},
		},
		{
			name: "child without ID",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				return alice, bill, &types.Person{Name: "Kid", Sex: types.SexMale}
			},
		},
		{
			name: "child without valid sex",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				return alice, bill, &types.Person{ID: "kid", Name: "Kid"}
			},
		},
		{
			name: "child already has another mother",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				kid := person(t, "Kid", "m", "")
				require.True(t, tr.AddChild(alice, bill, kid))
				dana := person(t, "Dana", "f", "")
				require.True(t, tr.AddChild(alice, bill, dana))
				return dana, nil, kid
			},
		},
		{
			name: "child is an ancestor of the parent",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person, *types.Person) {
				kid := person(t, "Kid", "m", "")
				require.True(t, tr.AddChild(alice, bill, kid))
				// Alice has no parents, so only the cycle check can stop this.
				return kid, nil, alice
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, alice, bill := couple(t)
			parent, spouse, child := tt.setup(t, tr, alice, bill)
			before := snapshot(tr)

			assert.False(t, tr.AddChild(parent, spouse, child))
			assertUnchanged(t, tr, before)
		})
	}
}

func TestAssignParent(t *testing.T) {
	alice := person(t, "Alice", "f", "")
	tr := treeWithHead(t, alice)
	orphan := person(t, "Orphan", "m", "")
	require.True(t, tr.Adopt(alice, orphan))

	dad := person(t, "Dad", "m", "")
	require.True(t, tr.AssignParent(dad, orphan))
	got := mustGet(t, tr, orphan.ID)
	assert.Equal(t, dad.ID, got.FatherID)
	assert.Empty(t, got.MotherID)
	assert.True(t, mustGet(t, tr, dad.ID).HasChild(orphan.ID))

	before := snapshot(tr)
	assert.False(t, tr.AssignParent(person(t, "Other Dad", "m", ""), orphan), "father slot is taken")
	assertUnchanged(t, tr, before)

	mum := person(t, "Mum", "f", "")
	require.True(t, tr.AssignParent(mum, orphan))
	got = mustGet(t, tr, orphan.ID)
	assert.Equal(t, mum.ID, got.MotherID)
	assert.Equal(t, alice.ID, got.GuardianID, "guardianship is independent")

	before = snapshot(tr)
	assert.False(t, tr.AssignParent(person(t, "Third", "f", ""), orphan), "both slots filled")
	assert.False(t, tr.AssignParent(dad, person(t, "Stranger", "m", "")), "child not found")
	assert.False(t, tr.AssignParent(orphan, orphan), "own parent")
	assertUnchanged(t, tr, before)
}

func TestAssignParentRejectsCycle(t *testing.T) {
	alice := person(t, "Alice", "f", "")
	tr := treeWithHead(t, alice)
	kid := person(t, "Kid", "m", "")
	require.True(t, tr.AddChild(alice, nil, kid))
	grandkid := person(t, "Grandkid", "f", "")
	require.True(t, tr.Adopt(kid, grandkid))

	// Grandkid descends from Alice through Kid, so cannot become her mother.
	before := snapshot(tr)
	assert.False(t, tr.AssignParent(grandkid, alice))
	assertUnchanged(t, tr, before)
}

func TestMarry(t *testing.T) {
	t.Run("self-marriage fails", func(t *testing.T) {
		alice := person(t, "Alice", "f", "")
		tr := treeWithHead(t, alice)
		before := snapshot(tr)
		assert.False(t, tr.Marry(alice, alice))
		assert.False(t, tr.Marry(alice, &types.Person{ID: alice.ID, Name: "copy"}))
		assertUnchanged(t, tr, before)
	})

	t.Run("one member synthesizes the other", func(t *testing.T) {
		alice := person(t, "Alice", "f", "")
		tr := treeWithHead(t, alice)
		require.True(t, tr.Marry(&types.Person{Name: "Zed"}, alice))

		spouse, ok := tr.Spouse(alice)
		require.True(t, ok)
		assert.Equal(t, "Zed", spouse.Name)
		assert.Equal(t, types.SexMale, spouse.Sex)
		assert.True(t, spouse.Married)
		assert.Equal(t, []string{alice.ID}, spouse.PartnerIDs)
	})

	t.Run("outsider person value is replaced by a synthesized partner", func(t *testing.T) {
		alice := person(t, "Alice", "f", "")
		tr := treeWithHead(t, alice)
		outsider := person(t, "Yan", "f", "1960-01-01")
		require.True(t, tr.Marry(alice, outsider))

		spouse, _ := tr.Spouse(alice)
		assert.Equal(t, "Yan", spouse.Name)
		assert.Equal(t, types.SexMale, spouse.Sex, "opposite of the member, not the supplied sex")
		assert.NotEqual(t, outsider.ID, spouse.ID)
	})

	t.Run("neither found fails", func(t *testing.T) {
		alice := person(t, "Alice", "f", "")
		tr := treeWithHead(t, alice)
		before := snapshot(tr)
		assert.False(t, tr.Marry(person(t, "A", "m", ""), person(t, "B", "f", "")))
		assert.False(t, tr.Marry(nil, alice))
		assertUnchanged(t, tr, before)
	})

	t.Run("re-marrying a current spouse is a no-op", func(t *testing.T) {
		tr, alice, bill := couple(t)
		before := snapshot(tr)
		require.True(t, tr.Marry(alice, bill))
		require.True(t, tr.Marry(bill, alice))
		assertUnchanged(t, tr, before)

		spouse, _ := tr.Spouse(alice)
		assert.Equal(t, bill.ID, spouse.ID)
	})

	t.Run("married member cannot marry someone else", func(t *testing.T) {
		tr, alice, _ := couple(t)
		before := snapshot(tr)
		assert.False(t, tr.Marry(alice, &types.Person{Name: "Other"}))
		assertUnchanged(t, tr, before)
	})

	t.Run("two unmarried members wed and history grows", func(t *testing.T) {
		tr, alice, bill := couple(t)
		require.True(t, tr.Divorce(alice))
		require.True(t, tr.Marry(alice, bill))

		a := mustGet(t, tr, alice.ID)
		assert.True(t, a.Married)
		assert.Equal(t, []string{bill.ID, bill.ID}, a.PartnerIDs)
		assert.Empty(t, tr.ExPartners(alice), "current spouse is not an ex")
	})
}

func TestMarryStoredCoParent(t *testing.T) {
	for _, memberFirst := range []bool{true, false} {
		t.Run(fmt.Sprintf("member first %v", memberFirst), func(t *testing.T) {
			alice := person(t, "Alice", "f", "")
			tr := treeWithHead(t, alice)
			kid := person(t, "Kid", "m", "")
			require.True(t, tr.AddChild(alice, nil, kid))
			father := mustGet(t, tr, mustGet(t, tr, kid.ID).FatherID)
			_, found := tr.FindByReference(father)
			require.False(t, found, "synthesized co-parent is not reachable by lookup")
			size := tr.Len()

			if memberFirst {
				require.True(t, tr.Marry(alice, father))
			} else {
				require.True(t, tr.Marry(father, alice))
			}
			assert.Equal(t, size, tr.Len(), "no partner synthesized")
			spouse, ok := tr.Spouse(alice)
			require.True(t, ok)
			assert.Equal(t, father.ID, spouse.ID)

			second := person(t, "Second", "f", "")
			require.True(t, tr.AddChild(alice, father, second))
			assert.Equal(t, father.ID, mustGet(t, tr, second.ID).FatherID)
		})
	}
}

func TestDivorce(t *testing.T) {
	t.Run("clears both flags and keeps history", func(t *testing.T) {
		tr, alice, bill := couple(t)
		require.True(t, tr.Divorce(bill))

		a := mustGet(t, tr, alice.ID)
		b := mustGet(t, tr, bill.ID)
		assert.False(t, a.Married)
		assert.False(t, b.Married)
		assert.Len(t, a.PartnerIDs, 1)
		assert.Len(t, b.PartnerIDs, 1)
		_, ok := tr.Spouse(alice)
		assert.False(t, ok)
		assert.Equal(t, []string{bill.ID}, ids(tr.ExPartners(alice)))
	})

	t.Run("unmarried person fails", func(t *testing.T) {
		alice := person(t, "Alice", "f", "")
		tr := treeWithHead(t, alice)
		assert.False(t, tr.Divorce(alice))
	})

	t.Run("unknown person fails", func(t *testing.T) {
		tr, _, _ := couple(t)
		assert.False(t, tr.Divorce(person(t, "Stranger", "m", "")))
	})

	t.Run("inconsistent spouse fails", func(t *testing.T) {
		tr, alice, bill := couple(t)
		// Break the mutual link directly in the arena.
		b, _ := tr.members.Get(bill.ID)
		b.Married = false
		before := snapshot(tr)

		assert.False(t, tr.Divorce(alice))
		assertUnchanged(t, tr, before)
	})
}

func TestAdopt(t *testing.T) {
	t.Run("sets guardian and keeps biological parents", func(t *testing.T) {
		tr, alice, bill := couple(t)
		kid := person(t, "Kid", "f", "")
		require.True(t, tr.AddChild(alice, bill, kid))
		dana := person(t, "Dana", "f", "")
		require.True(t, tr.AddChild(alice, bill, dana))

		require.True(t, tr.Adopt(dana, kid))
		got := mustGet(t, tr, kid.ID)
		assert.Equal(t, dana.ID, got.GuardianID)
		assert.True(t, got.WasAdopted)
		assert.Equal(t, alice.ID, got.MotherID)
		assert.Equal(t, bill.ID, got.FatherID)
		assert.True(t, mustGet(t, tr, dana.ID).HasChild(kid.ID))
	})

	t.Run("outsider child joins the tree", func(t *testing.T) {
		alice := person(t, "Alice", "f", "")
		tr := treeWithHead(t, alice)
		orphan := person(t, "Orphan", "m", "2010-10-10")
		require.True(t, tr.Adopt(alice, orphan))

		found, ok := tr.FindByIdentity("orphan", orphan.Birthday)
		require.True(t, ok)
		assert.Empty(t, found.ParentIDs())
		assert.True(t, tr.IsReachable(orphan))
	})

	tests := []struct {
		name  string
		setup func(t *testing.T, tr *Tree, alice, bill *types.Person) (parent, child *types.Person)
	}{
		{
			name: "already a biological child",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person) {
				kid := person(t, "Kid", "m", "")
				require.True(t, tr.AddChild(alice, bill, kid))
				return alice, kid
			},
		},
		{
			name: "already adopted by the same parent",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person) {
				kid := person(t, "Kid", "m", "")
				require.True(t, tr.Adopt(alice, kid))
				return alice, kid
			},
		},
		{
			name: "already has another guardian",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person) {
				kid := person(t, "Kid", "m", "")
				require.True(t, tr.Adopt(alice, kid))
				return bill, kid
			},
		},
		{
			name: "new parent not found",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person) {
				return person(t, "Stranger", "f", ""), person(t, "Kid", "m", "")
			},
		},
		{
			name: "adopting oneself",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person) {
				return alice, alice
			},
		},
		{
			name: "adopting an ancestor",
			setup: func(t *testing.T, tr *Tree, alice, bill *types.Person) (*types.Person, *types.Person) {
				kid := person(t, "Kid", "m", "")
				require.True(t, tr.AddChild(alice, bill, kid))
				return kid, bill
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, alice, bill := couple(t)
			parent, child := tt.setup(t, tr, alice, bill)
			before := snapshot(tr)

			assert.False(t, tr.Adopt(parent, child))
			assertUnchanged(t, tr, before)
		})
	}
}
