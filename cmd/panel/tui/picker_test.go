package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin/catalog"
	"marketplace-admin/models"
	"marketplace-admin/panel"
)

func pickerEditor() *panel.VariantEditor {
	size := &models.Attribute{ID: uuid.New(), Name: "Size"}
	size.Values = []models.AttributeValue{
		{ID: uuid.New(), AttributeID: size.ID, Value: "S"},
		{ID: uuid.New(), AttributeID: size.ID, Value: "M", SortOrder: 1},
	}
	links := []models.CategoryAttribute{{AttributeID: size.ID, Attribute: size, IsVariant: true}}
	return panel.NewVariantEditor(catalog.Base{SKU: "TEE", SellerPrice: 100, CommissionRate: 8}, links)
}

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestPickerTogglesSelection(t *testing.T) {
	ed := pickerEditor()
	var m tea.Model = NewPickerModel(ed)

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	m = press(m, space, tea.KeyMsg{Type: tea.KeyDown}, space)
	assert.Equal(t, 2, ed.Selection.Count())

	m = press(m, space)
	assert.Equal(t, 1, ed.Selection.Count())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.(PickerModel).Confirmed)

	rows := ed.Generate()
	require.Len(t, rows, 1)
	assert.Equal(t, "S", rows[0].VariantName)
	assert.Contains(t, m.View(), "1 value(s) selected")
}

func TestPickerCancel(t *testing.T) {
	m, cmd := NewPickerModel(pickerEditor()).Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.False(t, m.(PickerModel).Confirmed)
}

func TestPickerCursorStaysInRange(t *testing.T) {
	var m tea.Model = NewPickerModel(pickerEditor())
	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.(PickerModel).cursor)
}
