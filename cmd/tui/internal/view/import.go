package view

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
)

const (
	previewTimeout = 2 * time.Minute
	pollInterval   = 500 * time.Millisecond
)

type importState int

const (
	importStateFilePick importState = iota
	importStatePreviewing
	importStatePreview
	importStateRunning
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	table      table.Model
	bar        progressbar.Model

	fileName string
	data     []byte
	preview  *importer.PreviewResult
	excluded map[int]bool

	jobID  uuid.UUID
	job    progress.Status
	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".xlsx", ".xlsm", ".xls", ".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	columns := []table.Column{
		{Title: "Row", Width: 5},
		{Title: "Skip", Width: 4},
		{Title: "Account", Width: 10},
		{Title: "Type", Width: 20},
		{Title: "Plate", Width: 10},
		{Title: "Date", Width: 10},
		{Title: "Driver", Width: 18},
		{Title: "Route", Width: 14},
		{Title: "Loads", Width: 18},
		{Title: "Total", Width: 12},
	}

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
		table:         table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(15)),
		bar:           progressbar.New(progressbar.WithDefaultGradient()),
		excluded:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Ledger" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Space: skip row | Enter: import | Esc: cancel"
	case importStateRunning:
		return "Importing..."
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.bar.Width = min(msg.Width-8, 80)
		m.table.SetHeight(max(msg.Height-12, 5))

	case previewResultMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}

		m.fileName = msg.name
		m.data = msg.data
		m.preview = msg.result
		m.excluded = make(map[int]bool)
		m.state = importStatePreview
		m.refreshTable()

		return m, nil

	case submitResultMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}

		m.jobID = msg.id
		m.job = progress.Status{State: progress.StatePending}
		m.state = importStateRunning

		return m, m.pollCmd()

	case pollMsg:
		return m, m.statusCmd()

	case statusMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}

		m.job = msg.status
		if !m.job.State.Done() {
			return m, m.pollCmd()
		}

		m.state = importStateResult
		m.status = m.job.Message

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStatePreviewing
		m.status = fmt.Sprintf("Reading %s...", filepath.Base(path))

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) fail(err error) (tea.Model, tea.Cmd) {
	m.state = importStateResult
	m.err = err
	m.status = fmt.Sprintf("Error: %v", err)

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.preview = nil
		m.data = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateRunning:
		// The job keeps running; only the view stops following it.
		return m, Back
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		cursor := m.table.Cursor()
		if cursor >= 0 && cursor < len(m.preview.Rows) {
			idx := m.preview.Rows[cursor].Index
			m.excluded[idx] = !m.excluded[idx]
			m.refreshTable()
		}

		return m, nil
	case "enter":
		return m, m.submitCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *ImportModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.preview.Rows))
	for _, r := range m.preview.Rows {
		skip := ""
		if m.excluded[r.Index] {
			skip = "x"
		}

		loads := r.FrontLoad
		if r.BackLoad != "" {
			loads += "/" + r.BackLoad
		}

		rows = append(rows, table.Row{
			strconv.Itoa(r.RowNumber),
			skip,
			r.AccountNumber,
			r.AccountType,
			r.PlateNumber,
			r.Date,
			r.Driver,
			r.Route,
			loads,
			FormatAmount(r.FinalTotal),
		})
	}

	m.table.SetRows(rows)
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select ledger export to import:\n\n" + m.filePicker.View(),
		)
	case importStatePreviewing:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return m.viewPreview()
	case importStateRunning:
		return m.viewRunning()
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	stats := m.preview.ParsingStats
	header := fmt.Sprintf("%s  |  %s  |  drivers %d, routes %d, loads %d  |  skipping %s",
		m.fileName, m.preview.Message,
		stats.DriversExtracted, stats.RoutesExtracted, stats.LoadsExtracted,
		activeStyle(strconv.Itoa(len(m.exclusions()))),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.table.View()),
		),
	)
}

func (m ImportModel) viewRunning() string {
	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s  %s\n\n%s\n\n%d/%d rows  |  created %d  |  duplicates %d  |  errors %d\n%s",
		m.fileName, activeStyle(string(m.job.State)),
		m.bar.ViewAs(float64(m.job.Progress)/100),
		m.job.ProcessedRows, m.job.TotalRows,
		m.job.CreatedCount, m.job.DuplicateCount, m.job.ErrorCount,
		lipgloss.NewStyle().Faint(true).Render(m.job.Message),
	))
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil || m.job.State == progress.StateFailed {
		return style.Render(errorStyle(m.status) + "\n\n(Esc to go back)")
	}

	body := successStyle(m.status)
	if m.job.DuplicateCount > 0 {
		body += fmt.Sprintf("\nSkipped %d duplicate row(s).", m.job.DuplicateCount)
	}

	for _, e := range m.job.Errors {
		body += "\n" + errorStyle(e)
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

func (m ImportModel) exclusions() []int {
	out := make([]int, 0, len(m.excluded))
	for idx, skip := range m.excluded {
		if skip {
			out = append(out, idx)
		}
	}

	slices.Sort(out)

	return out
}

// Messages

type previewResultMsg struct {
	name   string
	data   []byte
	result *importer.PreviewResult
	err    error
}

type submitResultMsg struct {
	id  uuid.UUID
	err error
}

type pollMsg struct{}

type statusMsg struct {
	status progress.Status
	err    error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return previewResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()

		name := filepath.Base(path)

		res, err := m.importService.Preview(ctx, name, bytes.NewReader(data), importer.Options{})
		if err != nil {
			return previewResultMsg{err: err}
		}

		return previewResultMsg{name: name, data: data, result: res}
	}
}

func (m ImportModel) submitCmd() tea.Cmd {
	name, data := m.fileName, m.data
	opts := importer.Options{ExcludeIndices: m.exclusions()}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		id, err := m.importService.Submit(ctx, name, data, opts)

		return submitResultMsg{id: id, err: err}
	}
}

func (m ImportModel) pollCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m ImportModel) statusCmd() tea.Cmd {
	id := m.jobID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		st, err := m.importService.Status(ctx, id)

		return statusMsg{status: st, err: err}
	}
}
