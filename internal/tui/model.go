// Package tui is the interactive dashboard: an entry form and a live report.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/advice"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/entry"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// View is the active dashboard tab.
type View int

const (
	ViewForm View = iota
	ViewReport
)

// Form fields in focus order.
const (
	fieldAmount = iota
	fieldCategory
	fieldDescription
	fieldCount
)

type statusKind int

const (
	statusNone statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Model holds the dashboard state.
type Model struct {
	ctx        context.Context
	session    *ledger.Session
	theme      themes.Theme
	help       help.Model
	ratio      progress.Model
	config     Config
	status     string
	advice     []advice.Advice
	inputs     []textinput.Model
	summary    report.Summary
	keymap     KeyMap
	window     report.Window
	statusKind statusKind
	width      int
	height     int
	focus      int
	view       View
	quitting   bool
}

// New creates a dashboard for session.
func New(ctx context.Context, session *ledger.Session, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := Model{
		ctx:     ctx,
		session: session,
		config:  cfg,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		ratio:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		window:  cfg.Window,
		width:   cfg.Width,
		height:  cfg.Height,
		view:    ViewForm,
		inputs:  newInputs(session),
	}
	m.help.ShowAll = false
	m.inputs[fieldAmount].Focus()
	m.recompute()
	return m
}

func newInputs(session *ledger.Session) []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)

	amount := textinput.New()
	amount.Placeholder = "0.00"
	amount.CharLimit = 16
	amount.Prompt = "Amount:      "
	inputs[fieldAmount] = amount

	names := make([]string, 0, session.Registry().Len())
	for _, c := range session.Registry().All() {
		names = append(names, c.Name)
	}
	cat := textinput.New()
	cat.Placeholder = "Groceries"
	cat.CharLimit = 32
	cat.Prompt = "Category:    "
	cat.ShowSuggestions = true
	cat.SetSuggestions(names)
	inputs[fieldCategory] = cat

	desc := textinput.New()
	desc.Placeholder = "optional"
	desc.CharLimit = 120
	desc.Prompt = "Description: "
	inputs[fieldDescription] = desc

	return inputs
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, refresh)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.recompute()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.SwitchView):
		return m.switchView()
	}

	if m.view == ViewReport {
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.CycleWindow):
			m.window = nextWindow(m.window)
			m.recompute()
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	case key.Matches(msg, m.keymap.NextField):
		return m.moveFocus(1)
	case key.Matches(msg, m.keymap.PrevField):
		return m.moveFocus(-1)
	}

	return m.updateFocused(msg)
}

func (m Model) switchView() (tea.Model, tea.Cmd) {
	if m.view == ViewForm {
		m.view = ViewReport
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		m.recompute()
		return m, nil
	}
	m.view = ViewForm
	return m, m.inputs[m.focus].Focus()
}

func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m, m.inputs[m.focus].Focus()
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ViewForm {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// submit adds and saves the entry on the event loop.
func (m Model) submit() (tea.Model, tea.Cmd) {
	txn, err := m.session.Add(m.ctx, m.form())
	return m.handleEntryAdded(txn, err), nil
}

func (m Model) form() entry.Form {
	return entry.Form{
		Amount:      m.inputs[fieldAmount].Value(),
		Category:    m.inputs[fieldCategory].Value(),
		Description: m.inputs[fieldDescription].Value(),
	}
}

func (m Model) handleEntryAdded(txn model.Transaction, err error) Model {
	switch {
	case err == nil:
		m.setStatus(statusSuccess, fmt.Sprintf("Saved %s %s",
			txn.Category.Name,
			cli.FormatAmount(txn.Amount, m.config.Currency)))
	case errors.Is(err, ledger.ErrNotPersisted):
		m.setStatus(statusWarning, "Recorded, but saving failed: "+err.Error())
	default:
		m.setStatus(statusError, common.UserMessage(err))
		return m
	}

	m.resetForm()
	m.recompute()
	return m
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.focus = fieldAmount
	if m.view == ViewForm {
		m.inputs[m.focus].Focus()
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) recompute() {
	m.summary = m.session.Summary(m.window)
	m.advice = m.session.Advice()
}

// expenseRatio is expense over income, capped at one.
func (m Model) expenseRatio() float64 {
	t := m.summary.Totals
	if t.Income <= 0 {
		if t.Expense > 0 {
			return 1
		}
		return 0
	}
	r := float64(t.Expense) / float64(t.Income)
	if r > 1 {
		return 1
	}
	return r
}

func nextWindow(w report.Window) report.Window {
	switch w {
	case report.WindowWeek:
		return report.WindowMonth
	case report.WindowMonth:
		return report.WindowAllTime
	default:
		return report.WindowWeek
	}
}
