package catalog

import (
	"cmp"
	"slices"

	"lemonshop_server/lib"
	"lemonshop_server/structs"
)

func categoryKey(c structs.Category) int64 {
	return c.ID.Int()
}

// Add appends a new category under parentID (nil for a root) with the next
// free id and an order trailing its new siblings.
func Add(flat []structs.Category, name string, parentID *structs.ID) ([]structs.Category, structs.Category) {
	return AddAfter(flat, name, parentID, 0)
}

// AddAfter is Add for a collection whose ids up to issued were already handed
// out at some point.
func AddAfter(flat []structs.Category, name string, parentID *structs.ID, issued int64) ([]structs.Category, structs.Category) {
	var parent *structs.ID
	if parentID != nil {
		parent = parentID.Ptr()
	}

	cat := structs.Category{
		ID:       structs.IDFromInt(lib.NextIDAfter(flat, categoryKey, issued)),
		Name:     name,
		ParentID: parent,
		Order:    trailingOrder(flat, parent, ""),
	}

	out := make([]structs.Category, 0, len(flat)+1)
	out = append(out, flat...)
	return append(out, cat), cat
}

// Rename sets the name of category id
func Rename(flat []structs.Category, id structs.ID, name string) ([]structs.Category, bool) {
	i := indexOf(flat, id)
	if i < 0 {
		return flat, false
	}
	out := slices.Clone(flat)
	out[i].Name = name
	return out, true
}

// ReorderUp swaps the order of id with its previous sibling. The first
// sibling stays where it is.
func ReorderUp(flat []structs.Category, id structs.ID) ([]structs.Category, bool) {
	return reorder(flat, id, -1)
}

// ReorderDown swaps the order of id with its next sibling. The last sibling
// stays where it is.
func ReorderDown(flat []structs.Category, id structs.ID) ([]structs.Category, bool) {
	return reorder(flat, id, 1)
}

func reorder(flat []structs.Category, id structs.ID, step int) ([]structs.Category, bool) {
	i := indexOf(flat, id)
	if i < 0 {
		return flat, false
	}

	// indices into flat of the sibling group, in render order
	parent := flat[i].ParentID
	var group []int
	for j, c := range flat {
		if structs.SameID(c.ParentID, parent) {
			group = append(group, j)
		}
	}
	slices.SortStableFunc(group, func(a, b int) int {
		return cmp.Compare(flat[a].Order, flat[b].Order)
	})

	pos := slices.Index(group, i)
	target := pos + step
	if target < 0 || target >= len(group) {
		return flat, false
	}

	out := slices.Clone(flat)
	a, b := group[pos], group[target]

	// Tied orders would make the swap invisible, renumber the group first.
	if out[a].Order == out[b].Order {
		for rank, j := range group {
			out[j].Order = rank
		}
	}
	out[a].Order, out[b].Order = out[b].Order, out[a].Order
	return out, true
}

// Move re-parents id under newParentID (nil for root) with a trailing order
// among its new siblings. It is rejected, leaving flat untouched, when id does
// not exist, when the new parent does not exist, or when the new parent is id
// itself or one of its descendants.
func Move(flat []structs.Category, id structs.ID, newParentID *structs.ID) ([]structs.Category, bool) {
	i := indexOf(flat, id)
	if i < 0 {
		return flat, false
	}

	var parent *structs.ID
	if newParentID != nil {
		parent = newParentID.Ptr()
	}

	if parent != nil {
		if *parent == id {
			return flat, false
		}
		if _, inSubtree := Descendants(flat, id)[*parent]; inSubtree {
			return flat, false
		}
		if indexOf(flat, *parent) < 0 {
			return flat, false
		}
	}

	out := slices.Clone(flat)
	out[i].ParentID = parent
	out[i].Order = trailingOrder(flat, parent, id)
	return out, true
}

// DeleteWithDescendants removes id and its whole subtree in one pass and
// returns the removed ids. Products pointing at them are left as they are.
func DeleteWithDescendants(flat []structs.Category, id structs.ID) ([]structs.Category, []structs.ID) {
	if indexOf(flat, id) < 0 {
		return flat, nil
	}

	doomed := Descendants(flat, id)
	doomed[id] = struct{}{}

	out := make([]structs.Category, 0, len(flat))
	var removed []structs.ID
	for _, c := range flat {
		if _, drop := doomed[c.ID]; drop {
			removed = append(removed, c.ID)
			continue
		}
		out = append(out, c)
	}
	return out, removed
}

// trailingOrder is 1 + the highest order under parent, or 0 when parent has
// no children. skip is left out of the sibling set.
func trailingOrder(flat []structs.Category, parent *structs.ID, skip structs.ID) int {
	order, found := 0, false
	for _, c := range flat {
		if c.ID == skip || !structs.SameID(c.ParentID, parent) {
			continue
		}
		if !found || c.Order+1 > order {
			order = c.Order + 1
			found = true
		}
	}
	return order
}
