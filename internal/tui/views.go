package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.view {
	case ViewReport:
		body = m.renderReport()
	default:
		body = m.renderForm()
	}

	sections := []string{m.renderTabs(), body}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	if m.config.ShowHelp {
		sections = append(sections, m.help.View(m.keymap))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	tab := func(label string, v View) string {
		if m.view == v {
			return m.theme.ActiveTab.Render(label)
		}
		return m.theme.InactiveTab.Render(label)
	}
	user := m.theme.StatusPending.Render(m.session.User().Username)
	return lipgloss.JoinHorizontal(lipgloss.Top, tab("New entry", ViewForm), tab("Report", ViewReport), "  ", user)
}

func (m Model) renderForm() string {
	lines := make([]string, 0, fieldCount)
	for i, in := range m.inputs {
		line := in.View()
		if i == m.focus {
			line = m.theme.Selected.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	form := m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, form, m.renderCategoryHint())
}

func (m Model) renderCategoryHint() string {
	registry := m.session.Registry()
	var groups []string
	for _, typ := range []model.CategoryType{model.CategoryTypeIncome, model.CategoryTypeExpense} {
		names := make([]string, 0)
		for _, c := range registry.ListByType(typ) {
			names = append(names, themes.GetCategoryIcon(c.Name)+" "+c.Name)
		}
		groups = append(groups, m.theme.Bold.Render(string(typ)+": ")+strings.Join(names, "  "))
	}
	return m.theme.Subtitle.Render(strings.Join(groups, "\n"))
}

func (m Model) renderReport() string {
	currency := m.config.Currency
	s := m.summary

	ratio := fmt.Sprintf("Spent %.0f%% of income\n%s", m.expenseRatio()*100, m.ratio.ViewAs(m.expenseRatio()))
	totals := lipgloss.JoinVertical(lipgloss.Left, cli.RenderTotals(s.Totals, currency), "", ratio)

	spending := m.theme.Bold.Render(fmt.Sprintf("Spending (%s)", s.Window)) + "\n" +
		cli.RenderSpending(s.Spending, cli.DefaultChartWidth, currency)

	recent := m.theme.Bold.Render("Recent") + "\n" + cli.RenderRecent(s.Recent, currency)

	sections := []string{
		m.theme.RoundedBox.Render(totals),
		m.theme.RoundedBox.Render(spending),
		m.theme.RoundedBox.Render(recent),
	}
	if len(m.advice) > 0 {
		sections = append(sections, m.theme.RoundedBox.Render(cli.RenderAdvice(m.advice)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatus() string {
	switch m.statusKind {
	case statusSuccess:
		return m.theme.StatusSuccess.Render(cli.SuccessIcon + " " + m.status)
	case statusWarning:
		return m.theme.StatusWarning.Render(m.status)
	case statusError:
		return m.theme.StatusError.Render(cli.ErrorIcon + " " + m.status)
	default:
		return ""
	}
}
