package tui

import (
	"github.com/Veraticus/the-spice-must-convert/internal/converter"
	"github.com/Veraticus/the-spice-must-convert/internal/model"
	"github.com/Veraticus/the-spice-must-convert/internal/notify"
	"github.com/Veraticus/the-spice-must-convert/internal/tui/components"
	"github.com/Veraticus/the-spice-must-convert/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the part of converter.Controller the UI drives.
type Controller interface {
	SetText(text string)
	SelectFrom(code model.CurrencyCode)
	SelectTo(code model.CurrencyCode)
	Swap()
	Convert()
	Reset()
	StartVoice()
	StopVoice()
}

var _ Controller = (*converter.Controller)(nil)

type activeToast struct {
	toast notify.Toast
	id    int
}

// Model holds the main TUI state.
type Model struct {
	controller Controller
	states     <-chan converter.State
	toasts     <-chan notify.Toast
	theme      themes.Theme
	keymap     KeyMap
	state      converter.State
	help       help.Model
	input      textinput.Model
	spinner    spinner.Model
	picker     components.CurrencyPickerModel
	active     []activeToast
	config     Config
	textGen    uint64
	nextToast  int
	width      int
	height     int
	focus      Field
	picking    bool
	synced     bool
	quitting   bool
}

// New creates the model. states delivers controller snapshots and toasts
// delivers notifications; either may be nil.
func New(ctrl Controller, states <-chan converter.State, toasts <-chan notify.Toast, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textinput.New()
	input.Placeholder = "e.g. 100 or 10*2+5"
	input.Prompt = ""
	input.CharLimit = 64
	input.Width = 32
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	return Model{
		controller: ctrl,
		states:     states,
		toasts:     toasts,
		theme:      cfg.Theme,
		keymap:     DefaultKeyMap(),
		input:      input,
		spinner:    s,
		help:       h,
		config:     cfg,
		width:      cfg.Width,
		height:     cfg.Height,
		focus:      FieldAmount,
	}
}

// Init starts listening for controller output.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForState(m.states),
		waitForToast(m.toasts),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.picker.Resize(msg.Width, msg.Height-4)
		return m, nil

	case stateMsg:
		m.applyState(msg.state)
		return m, waitForState(m.states)

	case toastMsg:
		id := m.nextToast
		m.nextToast++
		m.active = append(m.active, activeToast{id: id, toast: msg.toast})
		return m, tea.Batch(waitForToast(m.toasts), expireToast(id, m.config.ToastDuration))

	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	if m.picking {
		return m.updatePicker(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// State returns the last controller state the UI received.
func (m Model) State() converter.State {
	return m.state
}

// Focus returns the focused field.
func (m Model) Focus() Field {
	return m.focus
}

func (m *Model) applyState(s converter.State) {
	// Only overwrite the input when the text was replaced from outside;
	// snapshots that lag behind typing must not clobber newer keystrokes.
	if !m.synced || s.TextGen != m.textGen {
		m.input.SetValue(s.Text)
		m.input.CursorEnd()
		m.textGen = s.TextGen
		m.synced = true
	}
	m.state = s
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Swap):
		m.controller.Swap()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.controller.Reset()
		return m, nil

	case key.Matches(msg, m.keymap.Voice):
		if m.state.Listening {
			m.controller.StopVoice()
		} else {
			m.controller.StartVoice()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Dismiss):
		if m.state.Listening {
			m.controller.StopVoice()
		}
		return m, nil

	case key.Matches(msg, m.keymap.NextField):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keymap.PrevField):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keymap.Select):
		switch m.focus {
		case FieldAmount:
			m.controller.Convert()
			return m, nil
		case FieldFrom:
			return m.openPicker("Convert from", m.state.From)
		case FieldTo:
			return m.openPicker("Convert to", m.state.To)
		}
	}

	if m.focus != FieldAmount {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != before {
		m.controller.SetText(text)
	}
	return m, cmd
}

func (m *Model) setFocus(f Field) tea.Cmd {
	m.focus = f
	if f == FieldAmount {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m Model) openPicker(title string, current model.CurrencyCode) (tea.Model, tea.Cmd) {
	if !m.state.Catalog.Loaded() {
		return m, nil
	}
	m.picker = components.NewCurrencyPickerModel(title, m.state.Catalog, current, m.theme)
	m.picker.Resize(m.width, m.height-4)
	m.picking = true
	return m, m.picker.Init()
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if !m.picker.IsComplete() {
		return m, cmd
	}

	m.picking = false
	if currency, ok := m.picker.Result(); ok {
		switch m.focus {
		case FieldFrom:
			m.controller.SelectFrom(currency.Code)
		case FieldTo:
			m.controller.SelectTo(currency.Code)
		}
	}
	return m, nil
}

func (m *Model) dropToast(id int) {
	kept := make([]activeToast, 0, len(m.active))
	for _, t := range m.active {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.active = kept
}
