package catalog

import (
	"fmt"
	"math/rand"
	"testing"

	"lemonshop_server/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(n int64) structs.ID { return structs.IDFromInt(n) }

func parent(n int64) *structs.ID { return id(n).Ptr() }

func ids(paths []structs.CategoryPath) []structs.ID {
	out := make([]structs.ID, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.ID)
	}
	return out
}

func sampleForest() []structs.Category {
	return []structs.Category{
		{ID: id(1), Name: "Jewelry", Order: 1},
		{ID: id(2), Name: "Rings", ParentID: parent(1), Order: 1},
		{ID: id(3), Name: "Chains", ParentID: parent(1), Order: 0},
		{ID: id(4), Name: "Gold", ParentID: parent(2), Order: 0},
		{ID: id(5), Name: "Bags", Order: 0},
		{ID: id(6), Name: "Lost", ParentID: parent(99), Order: 0},
	}
}

func TestBuildTreeSortsSiblings(t *testing.T) {
	tree := BuildTree(sampleForest())

	require.Len(t, tree, 2)
	assert.Equal(t, "Bags", tree[0].Name)
	assert.Equal(t, "Jewelry", tree[1].Name)
	require.Len(t, tree[1].Children, 2)
	assert.Equal(t, "Chains", tree[1].Children[0].Name)
	assert.Equal(t, "Rings", tree[1].Children[1].Name)
	require.Len(t, tree[1].Children[1].Children, 1)
	assert.Equal(t, "Gold", tree[1].Children[1].Children[0].Name)
	assert.NotNil(t, tree[0].Children)
}

func TestBuildTreeStableTies(t *testing.T) {
	flat := []structs.Category{
		{ID: id(1), Name: "b", Order: 0},
		{ID: id(2), Name: "a", Order: 0},
		{ID: id(3), Name: "c", Order: 0},
	}
	tree := BuildTree(flat)
	require.Len(t, tree, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{tree[0].Name, tree[1].Name, tree[2].Name})
}

func TestBuildTreeTerminatesOnCycles(t *testing.T) {
	flat := []structs.Category{
		{ID: id(1), Name: "root"},
		{ID: id(2), Name: "a", ParentID: parent(3)},
		{ID: id(3), Name: "b", ParentID: parent(2)},
		{ID: id(4), Name: "self", ParentID: parent(4)},
		{ID: id(1), Name: "dup"},
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 1)
	assert.Equal(t, "root", tree[0].Name)
	assert.Empty(t, tree[0].Children)
}

func TestFlattenPaths(t *testing.T) {
	paths := FlatList(sampleForest())

	want := []structs.CategoryPath{
		{ID: id(5), Name: "Bags", Path: "Bags"},
		{ID: id(1), Name: "Jewelry", Path: "Jewelry"},
		{ID: id(3), Name: "Chains", Path: "Jewelry / Chains"},
		{ID: id(2), Name: "Rings", Path: "Jewelry / Rings"},
		{ID: id(4), Name: "Gold", Path: "Jewelry / Rings / Gold"},
	}
	assert.Equal(t, want, paths)
}

func TestDescendants(t *testing.T) {
	got := Descendants(sampleForest(), id(1))
	assert.Equal(t, map[structs.ID]struct{}{id(2): {}, id(3): {}, id(4): {}}, got)

	assert.Empty(t, Descendants(sampleForest(), id(4)))
	assert.Empty(t, Descendants(sampleForest(), id(42)))

	cyclic := []structs.Category{
		{ID: id(1), ParentID: parent(2)},
		{ID: id(2), ParentID: parent(1)},
	}
	assert.Equal(t, map[structs.ID]struct{}{id(2): {}}, Descendants(cyclic, id(1)))
}

func TestValidParents(t *testing.T) {
	got := ids(ValidParents(sampleForest(), id(2)))
	assert.ElementsMatch(t, []structs.ID{id(5), id(1), id(3)}, got)
}

func TestScenarioAddMoveDelete(t *testing.T) {
	flat := []structs.Category{
		{ID: id(1), Name: "A", Order: 0},
		{ID: id(2), Name: "B", ParentID: parent(1), Order: 0},
	}

	flat, c := Add(flat, "C", nil)
	assert.Equal(t, id(3), c.ID)
	assert.Equal(t, 1, c.Order)
	assert.True(t, c.IsRoot())

	flat, moved := Move(flat, id(2), nil)
	require.True(t, moved)
	b, ok := Find(flat, id(2))
	require.True(t, ok)
	assert.True(t, b.IsRoot())
	assert.Equal(t, 2, b.Order)

	flat, removed := DeleteWithDescendants(flat, id(1))
	assert.Equal(t, []structs.ID{id(1)}, removed)
	assert.ElementsMatch(t, []structs.ID{id(2), id(3)}, []structs.ID{flat[0].ID, flat[1].ID})
	assert.Len(t, flat, 2)
}

func TestAddOrders(t *testing.T) {
	flat := sampleForest()

	_, child := Add(flat, "Silver", parent(2))
	assert.Equal(t, 1, child.Order)
	assert.Equal(t, id(2), child.Parent())
	assert.Equal(t, id(7), child.ID)

	_, leaf := Add(flat, "Deep", parent(4))
	assert.Equal(t, 0, leaf.Order)

	_, first := Add(nil, "First", nil)
	assert.Equal(t, id(1), first.ID)
	assert.Equal(t, 0, first.Order)
}

func TestAddNeverReusesIssuedIDs(t *testing.T) {
	var flat []structs.Category
	var issued int64
	var seen []structs.ID

	for i := range 5 {
		var c structs.Category
		flat, c = AddAfter(flat, fmt.Sprintf("c%d", i), nil, issued)
		issued = c.ID.Int()
		if len(seen) > 0 {
			assert.Greater(t, c.ID.Int(), seen[len(seen)-1].Int())
		}
		seen = append(seen, c.ID)
	}

	flat, _ = DeleteWithDescendants(flat, id(5))
	_, c := AddAfter(flat, "again", nil, issued)
	assert.Equal(t, id(6), c.ID)
}

func TestAddIgnoresStrayIDs(t *testing.T) {
	flat := []structs.Category{
		{ID: "f-braslet", Name: "old"},
		{ID: "12abc", Name: "odd"},
		{ID: id(3), Name: "three"},
	}
	_, c := Add(flat, "new", nil)
	assert.Equal(t, id(13), c.ID)
}

func TestAddDoesNotMutateInput(t *testing.T) {
	flat := sampleForest()
	before := len(flat)
	_, _ = Add(flat[:2:2], "x", nil)
	assert.Len(t, flat, before)
	assert.Equal(t, "Chains", flat[2].Name)
}

func TestRename(t *testing.T) {
	flat := sampleForest()
	out, ok := Rename(flat, id(5), "Purses")
	require.True(t, ok)
	assert.Equal(t, "Purses", out[4].Name)
	assert.Equal(t, "Bags", flat[4].Name)

	_, ok = Rename(flat, id(77), "x")
	assert.False(t, ok)
}

func TestReorder(t *testing.T) {
	flat := sampleForest()

	out, ok := ReorderUp(flat, id(2))
	require.True(t, ok)
	children := BuildTree(out)[1].Children
	assert.Equal(t, "Rings", children[0].Name)
	assert.Equal(t, "Chains", children[1].Name)

	back, ok := ReorderDown(out, id(2))
	require.True(t, ok)
	assert.Equal(t, FlatList(flat), FlatList(back))
}

func TestReorderBoundaries(t *testing.T) {
	flat := sampleForest()

	out, ok := ReorderUp(flat, id(3))
	assert.False(t, ok)
	assert.Equal(t, flat, out)

	out, ok = ReorderDown(flat, id(2))
	assert.False(t, ok)
	assert.Equal(t, flat, out)

	_, ok = ReorderUp(flat, id(404))
	assert.False(t, ok)
}

func TestReorderTiedOrders(t *testing.T) {
	flat := []structs.Category{
		{ID: id(1), Name: "a"},
		{ID: id(2), Name: "b"},
		{ID: id(3), Name: "c"},
	}

	out, ok := ReorderDown(flat, id(1))
	require.True(t, ok)
	tree := BuildTree(out)
	assert.Equal(t, []string{"b", "a", "c"}, []string{tree[0].Name, tree[1].Name, tree[2].Name})

	back, ok := ReorderUp(out, id(1))
	require.True(t, ok)
	assert.Equal(t, FlatList(flat), FlatList(back))
}

func TestMoveRejections(t *testing.T) {
	flat := sampleForest()

	tests := []struct {
		name     string
		id       structs.ID
		parentID *structs.ID
	}{
		{"self parent", id(1), parent(1)},
		{"into own child", id(1), parent(2)},
		{"into own grandchild", id(1), parent(4)},
		{"unknown category", id(404), nil},
		{"unknown parent", id(5), parent(404)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Move(flat, tt.id, tt.parentID)
			assert.False(t, ok)
			assert.Equal(t, flat, out)
		})
	}
}

func TestMoveUnderSibling(t *testing.T) {
	out, ok := Move(sampleForest(), id(5), parent(3))
	require.True(t, ok)
	bags, _ := Find(out, id(5))
	assert.Equal(t, id(3), bags.Parent())
	assert.Equal(t, 0, bags.Order)
}

func TestRandomMovesStayAcyclic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	flat := []structs.Category{}
	for i := range 12 {
		var p *structs.ID
		if i > 0 && rng.Intn(3) > 0 {
			p = parent(int64(rng.Intn(i) + 1))
		}
		flat, _ = Add(flat, fmt.Sprintf("n%d", i), p)
	}

	for range 300 {
		target := id(int64(rng.Intn(12) + 1))
		var p *structs.ID
		if rng.Intn(4) > 0 {
			p = parent(int64(rng.Intn(12) + 1))
		}

		desc := Descendants(flat, target)
		out, ok := Move(flat, target, p)
		if p != nil {
			_, inSubtree := desc[*p]
			if *p == target || inSubtree {
				assert.False(t, ok)
			}
		}
		flat = out

		for _, c := range flat {
			assert.True(t, reachesRoot(flat, c), "category %s is its own ancestor", c.ID)
		}
		assert.Len(t, FlatList(flat), 12)
	}
}

func reachesRoot(flat []structs.Category, c structs.Category) bool {
	for range len(flat) + 1 {
		if c.IsRoot() {
			return true
		}
		next, ok := Find(flat, c.Parent())
		if !ok {
			return false
		}
		c = next
	}
	return false
}

func TestDeleteWithDescendantsExactSet(t *testing.T) {
	flat := sampleForest()

	out, removed := DeleteWithDescendants(flat, id(2))
	assert.ElementsMatch(t, []structs.ID{id(2), id(4)}, removed)
	assert.ElementsMatch(t, []structs.ID{id(1), id(3), id(5), id(6)}, []structs.ID{out[0].ID, out[1].ID, out[2].ID, out[3].ID})
	assert.Len(t, out, 4)

	same, removed := DeleteWithDescendants(flat, id(404))
	assert.Nil(t, removed)
	assert.Equal(t, flat, same)
}
