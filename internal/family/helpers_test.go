package family

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lineage/pkg/types"
)

// person builds a standalone person; born may be empty.
func person(t *testing.T, name, sex, born string) *types.Person {
	t.Helper()
	birthday, err := types.ParseOptionalDate(born)
	require.NoError(t, err)
	p, err := types.NewPerson(name, sex, birthday, civil.Date{})
	require.NoError(t, err)
	return p
}

// treeWithHead returns a tree whose head is a clone of head.
func treeWithHead(t *testing.T, head *types.Person, opts ...Option) *Tree {
	t.Helper()
	tr := NewTree(opts...)
	tr.SetHead(head)
	got, ok := tr.Head()
	require.True(t, ok)
	require.Equal(t, head.ID, got.ID)
	return tr
}

// mustGet returns the current snapshot of id.
func mustGet(t *testing.T, tr *Tree, id string) *types.Person {
	t.Helper()
	p, ok := tr.Get(id)
	require.True(t, ok, "member %s not found", id)
	return p
}

// ids lists the IDs of persons in order.
func ids(ps []*types.Person) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

// snapshot captures every arena member, in arena order.
func snapshot(tr *Tree) []*types.Person {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	var out []*types.Person
	tr.members.Scan(func(_ string, p *types.Person) bool {
		out = append(out, p.Clone())
		return true
	})
	return out
}
