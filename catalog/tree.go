// Package catalog implements the category forest: building the nested tree
// from the flat parent/order list and the structural edits on that list.
//
// All functions are pure. They never modify the slice they are given and
// return a new flat list instead.
package catalog

import (
	"cmp"
	"slices"

	"lemonshop_server/structs"
)

const pathSeparator = " / "

// BuildTree groups the flat list by parent and attaches every bucket to its
// parent, siblings sorted by order (stable for ties). Categories whose parent
// does not exist are not part of any tree. A visited set guarantees that every
// category is placed at most once, so cyclic input still terminates.
func BuildTree(flat []structs.Category) []*structs.CategoryNode {
	byParent := groupByParent(flat)
	visited := make(map[structs.ID]bool, len(flat))

	var attach func(parent structs.ID) []*structs.CategoryNode
	attach = func(parent structs.ID) []*structs.CategoryNode {
		nodes := make([]*structs.CategoryNode, 0, len(byParent[parent]))
		for _, c := range byParent[parent] {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			nodes = append(nodes, &structs.CategoryNode{Category: c})
		}
		for _, n := range nodes {
			n.Children = attach(n.ID)
		}
		return nodes
	}

	return attach("")
}

// Flatten walks the forest in pre-order. Path is the chain of names from the
// root down to and including the category itself.
func Flatten(tree []*structs.CategoryNode) []structs.CategoryPath {
	out := make([]structs.CategoryPath, 0)

	var walk func(nodes []*structs.CategoryNode, prefix string)
	walk = func(nodes []*structs.CategoryNode, prefix string) {
		for _, n := range nodes {
			path := n.Name
			if prefix != "" {
				path = prefix + pathSeparator + n.Name
			}
			out = append(out, structs.CategoryPath{ID: n.ID, Name: n.Name, Path: path})
			walk(n.Children, path)
		}
	}
	walk(tree, "")

	return out
}

// FlatList is Flatten(BuildTree(flat))
func FlatList(flat []structs.Category) []structs.CategoryPath {
	return Flatten(BuildTree(flat))
}

// Descendants returns every category transitively reachable from id through
// parent links. id itself is never part of the result.
func Descendants(flat []structs.Category, id structs.ID) map[structs.ID]struct{} {
	children := make(map[structs.ID][]structs.ID)
	for _, c := range flat {
		if !c.IsRoot() {
			children[c.Parent()] = append(children[c.Parent()], c.ID)
		}
	}

	out := make(map[structs.ID]struct{})
	queue := []structs.ID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if _, seen := out[child]; seen || child == id {
				continue
			}
			out[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return out
}

// ValidParents lists the categories id may be moved under: everything but
// the category itself and its own subtree.
func ValidParents(flat []structs.Category, id structs.ID) []structs.CategoryPath {
	excluded := Descendants(flat, id)
	excluded[id] = struct{}{}

	out := make([]structs.CategoryPath, 0)
	for _, p := range FlatList(flat) {
		if _, skip := excluded[p.ID]; !skip {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the category with the given id
func Find(flat []structs.Category, id structs.ID) (structs.Category, bool) {
	i := indexOf(flat, id)
	if i < 0 {
		return structs.Category{}, false
	}
	return flat[i], true
}

func indexOf(flat []structs.Category, id structs.ID) int {
	return slices.IndexFunc(flat, func(c structs.Category) bool { return c.ID == id })
}

func groupByParent(flat []structs.Category) map[structs.ID][]structs.Category {
	byParent := make(map[structs.ID][]structs.Category)
	for _, c := range flat {
		byParent[c.Parent()] = append(byParent[c.Parent()], c)
	}
	for _, siblings := range byParent {
		slices.SortStableFunc(siblings, func(a, b structs.Category) int {
			return cmp.Compare(a.Order, b.Order)
		})
	}
	return byParent
}
