package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/haulage/internal/report"
)

const reportTimeout = time.Minute

type reportKind string

const (
	reportDrivers  reportKind = "drivers"
	reportRoutes   reportKind = "routes"
	reportAccounts reportKind = "accounts"
	reportTrips    reportKind = "trips"
	reportRevenue  reportKind = "revenue"
)

type reportsState int

const (
	reportsStateTimeframe reportsState = iota
	reportsStateKind
	reportsStateLoading
	reportsStateResult
)

type ReportsModel struct {
	CommonModel
	reportService *report.Service

	state           reportsState
	timeframePicker TimeframePicker
	form            *huh.Form
	spinner         spinner.Model
	table           table.Model

	rng     report.Range
	kind    reportKind
	summary string
	err     error
}

func NewReportsModel(svc *report.Service) ReportsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportsModel{
		reportService:   svc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		spinner:         s,
	}
}

func (m ReportsModel) Title() string { return "Reports" }

func (m ReportsModel) ShortHelp() string {
	switch m.state {
	case reportsStateResult:
		return "Esc: pick another report | ↑/↓: scroll"
	case reportsStateLoading:
		return "Loading..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportsModel) Init() tea.Cmd {
	return nil
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.rng = tfMsg.Range()
		m.form = buildKindForm()
		m.state = reportsStateKind

		return m, m.form.Init()
	}

	switch m.state {
	case reportsStateTimeframe:
		return m.updateTimeframe(msg)
	case reportsStateKind:
		return m.updateKind(msg)
	case reportsStateLoading:
		return m.updateLoading(msg)
	case reportsStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ReportsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ReportsModel) updateKind(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = reportsStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.kind = reportKind(m.form.GetString("kind"))
	m.state = reportsStateLoading
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runReportCmd(m.kind, m.rng, m.form.GetString("plate")))
}

func (m ReportsModel) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(reportResultMsg); ok {
		m.state = reportsStateResult
		m.err = result.err
		m.summary = result.summary

		m.table = table.New(
			table.WithColumns(result.columns),
			table.WithRows(result.rows),
			table.WithFocused(true),
			table.WithHeight(15),
		)

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ReportsModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.form = buildKindForm()
			m.state = reportsStateKind

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func buildKindForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Report").
				Options(
					huh.NewOption("Driver earnings", string(reportDrivers)),
					huh.NewOption("Route revenue", string(reportRoutes)),
					huh.NewOption("Accounts by truck type", string(reportAccounts)),
					huh.NewOption("Trips", string(reportTrips)),
					huh.NewOption("Revenue streams", string(reportRevenue)),
				),

			huh.NewInput().
				Key("plate").
				Title("Plate (trips only, optional)").
				Placeholder("NGS-4359"),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReportsModel) View() string {
	switch m.state {
	case reportsStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case reportsStateKind:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case reportsStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Building %s report...", m.spinner.View(), m.kind),
		)

	case reportsStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ReportsModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(m.summary),
			"",
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.table.View()),
		),
	)
}

type reportResultMsg struct {
	columns []table.Column
	rows    []table.Row
	summary string
	err     error
}

func (m ReportsModel) runReportCmd(kind reportKind, rng report.Range, plate string) tea.Cmd {
	svc := m.reportService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		switch kind {
		case reportDrivers:
			res, err := svc.Drivers(ctx, rng)
			if err != nil {
				return reportResultMsg{err: err}
			}

			return driversTable(res)
		case reportRoutes:
			res, err := svc.Routes(ctx, rng)
			if err != nil {
				return reportResultMsg{err: err}
			}

			return routesTable(res)
		case reportAccounts:
			res, err := svc.Accounts(ctx, rng)
			if err != nil {
				return reportResultMsg{err: err}
			}

			return accountsTable(res)
		case reportTrips:
			res, err := svc.Trips(ctx, rng, plate)
			if err != nil {
				return reportResultMsg{err: err}
			}

			return tripsTable(res)
		case reportRevenue:
			res, err := svc.RevenueStreams(ctx, rng)
			if err != nil {
				return reportResultMsg{err: err}
			}

			return revenueTable(res)
		}

		return reportResultMsg{err: fmt.Errorf("unknown report %q", kind)}
	}
}

func driversTable(res *report.DriversReport) reportResultMsg {
	rows := make([]table.Row, len(res.Drivers))
	for i, d := range res.Drivers {
		rows[i] = table.Row{
			d.Driver, strconv.Itoa(d.TotalTrips),
			FormatAmount(d.TotalFrontLoad), FormatAmount(d.TotalBackLoad), FormatAmount(d.TotalAmount),
			strings.Join(d.Routes, ", "), strings.Join(d.Trucks, ", "),
		}
	}

	return reportResultMsg{
		columns: []table.Column{
			{Title: "Driver", Width: 22}, {Title: "Trips", Width: 6},
			{Title: "Front", Width: 12}, {Title: "Back", Width: 12}, {Title: "Total", Width: 12},
			{Title: "Routes", Width: 24}, {Title: "Trucks", Width: 20},
		},
		rows:    rows,
		summary: fmt.Sprintf("%d drivers, %d trips, %s total", res.TotalDrivers, res.Summary.Trips, FormatAmount(res.Summary.Amount)),
	}
}

func routesTable(res *report.RoutesReport) reportResultMsg {
	rows := make([]table.Row, len(res.Routes))
	for i, r := range res.Routes {
		rows[i] = table.Row{
			r.Route, strconv.Itoa(r.TotalTrips),
			FormatAmount(r.TotalFrontLoad), FormatAmount(r.TotalBackLoad), FormatAmount(r.TotalRevenue),
			strings.Join(r.Drivers, ", "),
		}
	}

	return reportResultMsg{
		columns: []table.Column{
			{Title: "Route", Width: 20}, {Title: "Trips", Width: 6},
			{Title: "Front", Width: 12}, {Title: "Back", Width: 12}, {Title: "Revenue", Width: 12},
			{Title: "Drivers", Width: 30},
		},
		rows:    rows,
		summary: fmt.Sprintf("%d routes", len(res.Routes)),
	}
}

func accountsTable(res []report.AccountSummary) reportResultMsg {
	rows := make([]table.Row, len(res))
	for i, a := range res {
		rows[i] = table.Row{
			a.AccountType, a.TruckType, strconv.Itoa(a.Count),
			FormatAmount(a.TotalDebit), FormatAmount(a.TotalCredit), FormatAmount(a.TotalFinal),
		}
	}

	return reportResultMsg{
		columns: []table.Column{
			{Title: "Account Type", Width: 32}, {Title: "Truck Type", Width: 12}, {Title: "Count", Width: 6},
			{Title: "Debit", Width: 12}, {Title: "Credit", Width: 12}, {Title: "Final", Width: 12},
		},
		rows:    rows,
		summary: fmt.Sprintf("%d account groups", len(res)),
	}
}

func tripsTable(res []report.TripSummary) reportResultMsg {
	rows := make([]table.Row, len(res))
	for i, t := range res {
		rows[i] = table.Row{
			t.Date, t.PlateNumber, t.Driver, strings.Join(t.Routes, ", "), strconv.Itoa(t.TripCount),
			FormatAmount(t.FrontAmount), FormatAmount(t.BackAmount), FormatAmount(t.TotalAmount),
		}
	}

	return reportResultMsg{
		columns: []table.Column{
			{Title: "Date", Width: 10}, {Title: "Plate", Width: 10}, {Title: "Driver", Width: 20},
			{Title: "Routes", Width: 20}, {Title: "Entries", Width: 7},
			{Title: "Front", Width: 12}, {Title: "Back", Width: 12}, {Title: "Total", Width: 12},
		},
		rows:    rows,
		summary: fmt.Sprintf("%d trips", len(res)),
	}
}

func revenueTable(res *report.RevenueReport) reportResultMsg {
	rows := make([]table.Row, 0, len(res.OpexBreakdown))
	for _, c := range res.OpexBreakdown {
		rows = append(rows, table.Row{c.AccountType, FormatAmount(c.Amount), c.Percentage.StringFixed(2) + "%"})
	}

	return reportResultMsg{
		columns: []table.Column{
			{Title: "Operating Expense", Width: 36}, {Title: "Amount", Width: 14}, {Title: "Share", Width: 8},
		},
		rows: rows,
		summary: fmt.Sprintf("Front %s | Back %s | Allowance %s | Fuel %s | Opex %s",
			FormatAmount(res.Revenue.FrontLoadAmount), FormatAmount(res.Revenue.BackLoadAmount),
			FormatAmount(res.Expenses.Allowance), FormatAmount(res.Expenses.FuelAmount),
			FormatAmount(res.Expenses.TotalOpex)),
	}
}
