package tui

import (
	"strings"

	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/charmbracelet/lipgloss"
)

const skeletonWidth = 24

func (m Model) render() string {
	title := m.theme.Title.Render("💱 Currency Converter")

	var body string
	if m.picking {
		body = m.theme.RoundedBox.Render(m.picker.View())
	} else {
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderField(FieldAmount, "Amount", m.input.View()),
			m.renderField(FieldFrom, "From", m.renderCurrency(m.state.From)),
			m.renderField(FieldTo, "To", m.renderCurrency(m.state.To)),
			"",
			m.renderResult(),
		)
	}

	sections := []string{title, body}
	if m.state.Listening {
		sections = append(sections, "", m.theme.StatusInfo.Render("🎙 Listening... (esc to stop)"))
	}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, "", toasts)
	}
	sections = append(sections, "", m.help.View(m.keymap))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (m Model) renderField(f Field, label, value string) string {
	box := m.theme.BlurredBox
	if m.focus == f && !m.picking {
		box = m.theme.FocusedBox
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.theme.Label.Render(label),
		box.Width(skeletonWidth+4).Render(value),
	)
}

// renderCurrency shows the selected currency, a skeleton while the catalog
// loads, or the load failure.
func (m Model) renderCurrency(code model.CurrencyCode) string {
	switch {
	case m.state.CatalogErr != "":
		return m.theme.StatusError.Render(m.state.CatalogErr)
	case !m.state.Catalog.Loaded():
		return m.theme.Skeleton.Render(strings.Repeat(" ", skeletonWidth))
	}

	if c, ok := m.state.Catalog.Lookup(code); ok {
		return c.Label()
	}
	if code == "" {
		return m.theme.StatusPending.Render("Select a currency")
	}
	return string(code)
}

func (m Model) renderResult() string {
	switch m.state.Status {
	case model.StateLoading:
		line := m.spinner.View() + " Converting..."
		if m.state.Result != nil {
			line = converter.FormatResult(*m.state.Result) + "  " + m.spinner.View()
		}
		return m.theme.StatusPending.Render(line)
	case model.StateSuccess:
		if m.state.Result != nil {
			return m.theme.Result.Render(converter.FormatResult(*m.state.Result))
		}
	case model.StateError:
		return m.theme.StatusError.Render(m.state.Err)
	}
	return m.theme.StatusPending.Render("Enter an amount to convert")
}

func (m Model) renderToasts() string {
	lines := make([]string, 0, len(m.active))
	for _, t := range m.active {
		style := m.theme.StatusInfo
		if t.toast.Level == service.LevelError {
			style = m.theme.StatusError
		}
		lines = append(lines, style.Render(t.toast.Message))
	}
	return strings.Join(lines, "\n")
}
