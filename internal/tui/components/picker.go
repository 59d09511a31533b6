// Package components holds the reusable widgets of the terminal UI.
package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultVisibleCurrencies is how many rows the picker shows at once.
const DefaultVisibleCurrencies = 10

// CurrencyPickerModel lets the user choose one catalog currency, narrowing
// the list by typing part of its code or name.
type CurrencyPickerModel struct {
	theme      themes.Theme
	selected   *model.Currency
	title      string
	currencies []model.Currency
	visible    []model.Currency
	filter     textinput.Model
	cursor     int
	offset     int
	rows       int
	width      int
	complete   bool
	cancelled  bool
}

// NewCurrencyPickerModel creates a picker over catalog with the cursor on
// current.
func NewCurrencyPickerModel(title string, catalog model.Catalog, current model.CurrencyCode, theme themes.Theme) CurrencyPickerModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.Prompt = "/ "
	filter.CharLimit = 32
	filter.Focus()

	m := CurrencyPickerModel{
		theme:      theme,
		title:      title,
		currencies: catalog.Currencies(),
		filter:     filter,
		rows:       DefaultVisibleCurrencies,
	}
	m.applyFilter()

	if i := catalog.IndexOf(current); i >= 0 {
		m.cursor = i
		m.scrollToCursor()
	}

	return m
}

// Init returns initial commands.
func (m CurrencyPickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m CurrencyPickerModel) Update(msg tea.Msg) (CurrencyPickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "up", "ctrl+p":
		m.move(-1)
	case "down", "ctrl+n":
		m.move(1)
	case "pgup":
		m.move(-m.rows)
	case "pgdown":
		m.move(m.rows)
	case "home":
		m.move(-len(m.visible))
	case "end":
		m.move(len(m.visible))

	case "enter":
		if m.cursor < len(m.visible) {
			currency := m.visible[m.cursor]
			m.selected = &currency
			m.complete = true
		}

	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
		m.cancelled = true
		m.complete = true

	default:
		before := m.filter.Value()
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if m.filter.Value() != before {
			m.applyFilter()
		}
		return m, cmd
	}

	return m, nil
}

// View renders the picker.
func (m CurrencyPickerModel) View() string {
	title := m.theme.Subtitle.Render(m.title)

	if len(m.visible) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			m.filter.View(),
			"",
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render("No currency matches"),
		)
	}

	end := min(m.offset+m.rows, len(m.visible))
	lines := make([]string, 0, end-m.offset+2)

	if m.offset > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Muted).Render("  ↑ more above"))
	}

	for i := m.offset; i < end; i++ {
		prefix := "  "
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(m.theme.Primary).Render("> ")
		}
		line := prefix + m.visible[i].Label()
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	if end < len(m.visible) {
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Muted).Render(
			fmt.Sprintf("  ↓ %d more below", len(m.visible)-end),
		))
	}

	count := lipgloss.NewStyle().Foreground(m.theme.Muted).Render(
		fmt.Sprintf("%d of %d currencies", len(m.visible), len(m.currencies)),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.filter.View(),
		"",
		strings.Join(lines, "\n"),
		"",
		count,
	)
}

// IsComplete returns whether the user picked a currency or backed out.
func (m CurrencyPickerModel) IsComplete() bool {
	return m.complete
}

// Result returns the chosen currency. ok is false when the picker was
// cancelled or is still open.
func (m CurrencyPickerModel) Result() (currency model.Currency, ok bool) {
	if m.selected == nil || m.cancelled {
		return model.Currency{}, false
	}
	return *m.selected, true
}

// Resize updates the component size.
func (m *CurrencyPickerModel) Resize(width, height int) {
	m.width = width
	m.filter.Width = max(width-4, 10)
	// Title, filter, blank, two scroll hints, blank and count.
	m.rows = max(height-7, 3)
	m.scrollToCursor()
}

func (m *CurrencyPickerModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = make([]model.Currency, 0, len(m.currencies))
	for _, c := range m.currencies {
		if query == "" || strings.Contains(strings.ToLower(c.Label()), query) {
			m.visible = append(m.visible, c)
		}
	}
	m.cursor = 0
	m.offset = 0
}

func (m *CurrencyPickerModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.visible)-1))
	m.scrollToCursor()
}

func (m *CurrencyPickerModel) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
}
