package output

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"marketplace-admin/catalog"
	"marketplace-admin/panel"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Writer
	Writer = &buf
	t.Cleanup(func() { Writer = prev })
	return &buf
}

func TestTreeBranches(t *testing.T) {
	buf := capture(t)
	root := uuid.New()
	Tree([]*catalog.TreeNode{
		{
			Node: catalog.Node{ID: root, Name: "Home", IsActive: true},
			Children: []*catalog.TreeNode{
				{Node: catalog.Node{ID: uuid.New(), Name: "Kitchen", IsActive: true}},
				{Node: catalog.Node{ID: uuid.New(), Name: "Garden"}},
			},
		},
		{Node: catalog.Node{ID: uuid.New(), Name: "Toys", IsActive: true}},
	})

	out := buf.String()
	assert.Contains(t, out, "├── Home")
	assert.Contains(t, out, "│   ├── Kitchen")
	assert.Contains(t, out, "│   └── Garden (inactive)")
	assert.Contains(t, out, "└── Toys")
	assert.Contains(t, out, root.String()[:8])
}

func TestTreeEmpty(t *testing.T) {
	buf := capture(t)
	Tree(nil)
	assert.Contains(t, buf.String(), "No categories")
}

func TestToastsImplementNotifier(t *testing.T) {
	buf := capture(t)
	var n panel.Notifier = Toasts{}
	n.Success("Category activated")
	n.Warning("Category no longer exists")
	n.Error("Failed to update Category")

	out := buf.String()
	assert.Contains(t, out, "✓ Category activated")
	assert.Contains(t, out, "⚠ Category no longer exists")
	assert.Contains(t, out, "✗ Failed to update Category")
}

func TestTableAligns(t *testing.T) {
	buf := capture(t)
	Table([]string{"ID", "NAME"}, [][]string{{"1", "Books"}, {"22", "Toys"}})
	assert.Equal(t, "ID  NAME\n1   Books\n22  Toys\n", buf.String())
}
