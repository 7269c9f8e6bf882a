// Package tui holds the interactive variant value picker.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"marketplace-admin/panel"
)

type choice struct {
	attrID  uuid.UUID
	valueID uuid.UUID
	attr    string
	label   string
}

// PickerModel lets the seller tick values for each variant attribute. The
// selection is written straight into the editor.
type PickerModel struct {
	editor    *panel.VariantEditor
	choices   []choice
	cursor    int
	Confirmed bool
}

func NewPickerModel(editor *panel.VariantEditor) PickerModel {
	var choices []choice
	for _, a := range editor.Attributes {
		for _, v := range a.Values {
			choices = append(choices, choice{attrID: a.AttributeID, valueID: v.ID, attr: a.Name, label: v.Label})
		}
	}
	return PickerModel{editor: editor, choices: choices}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.choices) > 0 {
			c := m.choices[m.cursor]
			m.editor.Toggle(c.attrID, c.valueID)
		}
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select variant values"))
	b.WriteString("\n")

	if len(m.choices) == 0 {
		b.WriteString(mutedStyle.Render("This category has no variant attributes."))
		b.WriteString("\n")
	}

	current := ""
	for i, c := range m.choices {
		if c.attr != current {
			current = c.attr
			b.WriteString(headerStyle.Render(current))
			b.WriteString("\n")
		}
		box := "[ ]"
		if m.editor.Selection.Has(c.attrID, c.valueID) {
			box = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf("  %s %s", box, c.label)
		if i == m.cursor {
			line = cursorStyle.Render("▸") + line[1:]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d value(s) selected", m.editor.Selection.Count())))
	b.WriteString("\n")
	b.WriteString(FormatKey("↑/↓", "move") + " • " + FormatKey("space", "toggle") + " • " +
		FormatKey("enter", "generate") + " • " + FormatKey("esc/q", "cancel"))
	return boxStyle.Render(b.String())
}

// RunPicker shows the picker and reports whether the seller confirmed.
func RunPicker(editor *panel.VariantEditor) (bool, error) {
	final, err := tea.NewProgram(NewPickerModel(editor)).Run()
	if err != nil {
		return false, fmt.Errorf("variant picker: %w", err)
	}
	return final.(PickerModel).Confirmed, nil
}
