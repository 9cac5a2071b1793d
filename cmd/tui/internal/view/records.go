package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

type recordsState int

const (
	recordsStateTimeframe recordsState = iota
	recordsStateList
	recordsStateEditing
	recordsStateTrip
)

// recordItem wraps a ledger record to implement list.Item.
type recordItem struct {
	rec *ledger.Record
}

func (i recordItem) Title() string {
	lock := ""
	if i.rec.Locked {
		lock = lipgloss.NewStyle().Faint(true).Render(" [locked]")
	}

	return fmt.Sprintf("%s  %-10s  %-24s  %12s  %s%s",
		FormatDate(i.rec.Date), i.rec.AccountNumber, i.rec.AccountType.NameOr("-"),
		FormatAmount(i.rec.FinalTotal), i.rec.Plate(), lock)
}

func (i recordItem) Description() string {
	var parts []string

	for _, p := range []struct{ label, value string }{
		{"driver", i.rec.Driver.NameOr("")},
		{"route", i.rec.Route.NameOr("")},
		{"front", i.rec.FrontLoad.NameOr("")},
		{"back", i.rec.BackLoad.NameOr("")},
	} {
		if p.value != "" {
			parts = append(parts, p.label+": "+p.value)
		}
	}

	if len(parts) == 0 {
		return i.rec.Remarks
	}

	return strings.Join(parts, "  ")
}

func (i recordItem) FilterValue() string {
	return i.rec.AccountNumber + " " + i.rec.Plate() + " " + i.rec.Remarks
}

type RecordsModel struct {
	CommonModel
	ledgerService *ledger.Service

	state           recordsState
	timeframePicker TimeframePicker
	list            list.Model
	form            *huh.Form
	records         []*ledger.Record
	selected        *ledger.Record

	rng     report.Range
	loading bool
	status  string
}

func NewRecordsModel(ledgerSvc *ledger.Service) RecordsModel {
	l := list.New([]list.Item{}, recordItemDelegate{}, 0, 0)
	l.Title = "Ledger Records"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return RecordsModel{
		ledgerService:   ledgerSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		list:            l,
	}
}

func (m RecordsModel) Title() string { return "Ledger Records" }

func (m RecordsModel) ShortHelp() string {
	switch m.state {
	case recordsStateTimeframe:
		return "Esc: back | Enter: select"
	case recordsStateList:
		return "Esc: back | Enter: edit | t: fix trip | l: lock | L: lock all shown | /: filter"
	case recordsStateEditing, recordsStateTrip:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m RecordsModel) Init() tea.Cmd {
	return nil
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.rng = msg.Range()
		m.loading = true
		m.state = recordsStateList

		return m, m.loadCmd()

	case loadRecordsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.records = msg.records
		m.refreshListItems()

		if len(msg.records) == 0 {
			m.status = "No records found."
		}

		return m, nil

	case recordActionMsg:
		m.state = recordsStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case recordsStateTimeframe:
		return m.updateTimeframe(msg)
	case recordsStateList:
		return m.updateList(msg)
	case recordsStateEditing, recordsStateTrip:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m RecordsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m RecordsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter":
			return m.startEditing()
		case "t":
			return m.startTripFix()
		case "l":
			if item, ok := m.list.SelectedItem().(recordItem); ok {
				return m, m.lockCmd([]uuid.UUID{item.rec.ID})
			}

			return m, nil
		case "L":
			ids := make([]uuid.UUID, 0, len(m.records))
			for _, r := range m.records {
				if !r.Locked {
					ids = append(ids, r.ID)
				}
			}

			if len(ids) == 0 {
				m.status = "No unlocked records found."
				return m, nil
			}

			return m, m.lockCmd(ids)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m RecordsModel) startEditing() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return m, nil
	}

	if selected.rec.Locked {
		m.status = "Record is locked."
		return m, nil
	}

	ref := ""
	if selected.rec.ReferenceNumber != nil {
		ref = *selected.rec.ReferenceNumber
	}

	m.selected = selected.rec
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(new(selected.rec.Description)),

			huh.NewText().
				Key("remarks").
				Title("Remarks").
				Value(new(selected.rec.Remarks)),

			huh.NewInput().
				Key("reference").
				Title("Reference Number").
				Value(new(ref)),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = recordsStateEditing

	return m, m.form.Init()
}

func (m RecordsModel) startTripFix() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return m, nil
	}

	if selected.rec.Plate() == "" {
		m.status = "Record has no truck; trips are keyed by plate and date."
		return m, nil
	}

	m.selected = selected.rec
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("field").
				Title("Field").
				Options(
					huh.NewOption("Route", string(ledger.TripFieldRoute)),
					huh.NewOption("Driver", string(ledger.TripFieldDriver)),
					huh.NewOption("Front Load", string(ledger.TripFieldFrontLoad)),
					huh.NewOption("Back Load", string(ledger.TripFieldBackLoad)),
				),

			huh.NewInput().
				Key("value").
				Title("New Value").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("value cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = recordsStateTrip

	return m, m.form.Init()
}

func (m RecordsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = recordsStateList
			m.form = nil

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

	if m.state == recordsStateTrip {
		return m, m.tripCmd(ledger.TripField(m.form.GetString("field")), m.form.GetString("value"))
	}

	return m, m.saveCmd(m.form.GetString("description"), m.form.GetString("remarks"), m.form.GetString("reference"))
}

func (m RecordsModel) View() string {
	switch m.state {
	case recordsStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case recordsStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading records...")
		}

		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case recordsStateEditing, recordsStateTrip:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.recordInfoView() + "\n" + m.form.View())
	}

	return ""
}

func (m RecordsModel) recordInfoView() string {
	if m.selected == nil {
		return ""
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(fmt.Sprintf(
			"Date: %s  |  Plate: %s  |  Account: %s %s  |  Total: %s",
			FormatDate(m.selected.Date),
			m.selected.Plate(),
			m.selected.AccountNumber,
			m.selected.AccountType.NameOr(""),
			FormatAmount(m.selected.FinalTotal),
		))
}

func (m *RecordsModel) refreshListItems() {
	items := make([]list.Item, len(m.records))
	for i, r := range m.records {
		items[i] = recordItem{rec: r}
	}

	m.list.SetItems(items)
}

// Messages

type loadRecordsMsg struct {
	records []*ledger.Record
	err     error
}

type recordActionMsg struct {
	status string
	err    error
}

func (m RecordsModel) loadCmd() tea.Cmd {
	filter := ledger.Filter{StartDate: m.rng.Start, EndDate: m.rng.End}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.ledgerService.List(ctx, filter)

		return loadRecordsMsg{records: records, err: err}
	}
}

func (m RecordsModel) saveCmd(desc, remarks, ref string) tea.Cmd {
	rec := *m.selected
	svc := m.ledgerService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rec.Description = desc
		rec.Remarks = remarks
		rec.ReferenceNumber = nil

		if ref = strings.TrimSpace(ref); ref != "" {
			rec.ReferenceNumber = &ref
		}

		if err := svc.Update(ctx, &rec); err != nil {
			return recordActionMsg{err: err}
		}

		return recordActionMsg{status: "Saved."}
	}
}

func (m RecordsModel) tripCmd(field ledger.TripField, value string) tea.Cmd {
	plate, date := m.selected.Plate(), m.selected.Date
	svc := m.ledgerService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := svc.UpdateTripField(ctx, plate, date, field, value)
		if err != nil {
			return recordActionMsg{err: err}
		}

		return recordActionMsg{status: fmt.Sprintf("Updated %s on %d record(s) of %s %s.", field, n, plate, FormatDate(date))}
	}
}

func (m RecordsModel) lockCmd(ids []uuid.UUID) tea.Cmd {
	svc := m.ledgerService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := svc.Lock(ctx, ids)
		if err != nil {
			return recordActionMsg{err: err}
		}

		return recordActionMsg{status: res.Message}
	}
}

// recordItemDelegate renders items in the list.
type recordItemDelegate struct{}

func (d recordItemDelegate) Height() int                             { return 2 }
func (d recordItemDelegate) Spacing() int                            { return 0 }
func (d recordItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d recordItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(recordItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	desc := i.Description()
	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(desc))
}
