package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"marketplace-admin/models"
)

// Node is the flat form of a category: each node carries its own parent id.
type Node struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Level       int        `json:"level"`
	SortOrder   int        `json:"sort_order"`
	IsActive    bool       `json:"is_active"`
}

// TreeNode is a category with its children. Every node is owned by exactly
// one parent's Children slice (or the root slice).
type TreeNode struct {
	Node
	Children []*TreeNode `json:"children"`
}

// Option is one entry of a flattened, indented category selector.
type Option struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Depth int       `json:"depth"`
}

// ErrCycle is returned when a re-parent would make a category its own ancestor.
var ErrCycle = errors.New("category cannot be moved under itself or its descendants")

const (
	indentUnit  = "\u00a0\u00a0"
	branchGlyph = "└ "
)

// NodeFromCategory converts a stored category to its flat tree form.
func NodeFromCategory(c models.Category) Node {
	return Node{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
}

func NodesFromCategories(categories []models.Category) []Node {
	nodes := make([]Node, len(categories))
	for i, c := range categories {
		nodes[i] = NodeFromCategory(c)
	}
	return nodes
}

// BuildTree nests a flat list. A node whose parent is not in the list becomes
// a root. Siblings and roots keep input order. Nodes caught in a parent cycle
// are promoted to roots so that every input node appears exactly once.
func BuildTree(flat []Node) []*TreeNode {
	byID := make(map[uuid.UUID]*TreeNode, len(flat))
	nodes := make([]*TreeNode, len(flat))
	for i, n := range flat {
		t := &TreeNode{Node: n, Children: []*TreeNode{}}
		nodes[i] = t
		if _, dup := byID[n.ID]; !dup {
			byID[n.ID] = t
		}
	}

	parentOf := make(map[*TreeNode]*TreeNode, len(nodes))
	roots := []*TreeNode{}
	for _, t := range nodes {
		if t.ParentID != nil {
			if p, ok := byID[*t.ParentID]; ok && p != t {
				p.Children = append(p.Children, t)
				parentOf[t] = p
				continue
			}
		}
		roots = append(roots, t)
	}

	visited := make(map[*TreeNode]bool, len(nodes))
	mark := func(n *TreeNode, _ int) { visited[n] = true }
	Walk(roots, mark)

	for _, t := range nodes {
		if visited[t] {
			continue
		}
		if p := parentOf[t]; p != nil {
			p.Children = removeChild(p.Children, t)
		}
		roots = append(roots, t)
		Walk([]*TreeNode{t}, mark)
	}

	return roots
}

func removeChild(children []*TreeNode, target *TreeNode) []*TreeNode {
	out := children[:0]
	for _, c := range children {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits the forest in pre-order, passing each node's depth.
func Walk(roots []*TreeNode, fn func(n *TreeNode, depth int)) {
	var visit func(nodes []*TreeNode, depth int)
	visit = func(nodes []*TreeNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(roots, 0)
}

// FlattenWithDepth emits the forest in pre-order as selector options. Each
// label is indented by two non-breaking spaces per level, and non-root
// labels carry a branch glyph.
func FlattenWithDepth(roots []*TreeNode) []Option {
	var options []Option
	Walk(roots, func(n *TreeNode, depth int) {
		options = append(options, Option{ID: n.ID, Label: indentLabel(n.Name, depth), Depth: depth})
	})
	return options
}

func indentLabel(name string, depth int) string {
	if depth == 0 {
		return name
	}
	return strings.Repeat(indentUnit, depth) + branchGlyph + name
}

// SortTree orders siblings at every level with a stable sort.
func SortTree(roots []*TreeNode, less func(a, b Node) bool) {
	sort.SliceStable(roots, func(i, j int) bool { return less(roots[i].Node, roots[j].Node) })
	for _, n := range roots {
		SortTree(n.Children, less)
	}
}

// BySortOrder orders by sort_order, then name.
func BySortOrder(a, b Node) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.Name < b.Name
}

// Count returns the number of nodes in the forest.
func Count(roots []*TreeNode) int {
	total := 0
	Walk(roots, func(*TreeNode, int) { total++ })
	return total
}

// Path returns the chain from the root down to id, or nil when id is unknown.
func Path(flat []Node, id uuid.UUID) []Node {
	byID := make(map[uuid.UUID]Node, len(flat))
	for _, n := range flat {
		byID[n.ID] = n
	}

	var chain []Node
	seen := map[uuid.UUID]bool{}
	cur, ok := byID[id]
	for ok && !seen[cur.ID] {
		seen[cur.ID] = true
		chain = append(chain, cur)
		if cur.ParentID == nil {
			break
		}
		cur, ok = byID[*cur.ParentID]
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// WouldCreateCycle reports whether re-parenting id under newParent would make
// id its own ancestor.
func WouldCreateCycle(flat []Node, id, newParent uuid.UUID) bool {
	if id == newParent {
		return true
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(flat))
	for _, n := range flat {
		parents[n.ID] = n.ParentID
	}

	seen := map[uuid.UUID]bool{}
	cur := newParent
	for !seen[cur] {
		if cur == id {
			return true
		}
		seen[cur] = true
		p, ok := parents[cur]
		if !ok || p == nil {
			return false
		}
		cur = *p
	}
	return false
}
