package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/haulage/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/haulage/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/haulage/internal/catalog/store"
	"github.com/MrJamesThe3rd/haulage/internal/config"
	"github.com/MrJamesThe3rd/haulage/internal/database"
	"github.com/MrJamesThe3rd/haulage/internal/dispatch"
	"github.com/MrJamesThe3rd/haulage/internal/importer"
	"github.com/MrJamesThe3rd/haulage/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/haulage/internal/ledger/store"
	"github.com/MrJamesThe3rd/haulage/internal/progress"
	"github.com/MrJamesThe3rd/haulage/internal/report"
)

type model struct {
	ledgerService *ledger.Service
	importService *importer.Service
	reportService *report.Service

	currentView View

	importView  view.ImportModel
	recordsView view.RecordsModel
	reportsView view.ReportsModel
}

type View int

const (
	ViewMenu    View = 0
	ViewImport  View = 1
	ViewRecords View = 2
	ViewReports View = 3
)

func initialModel(ctx context.Context) (model, func()) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	gdb, err := database.NewGorm(db)
	if err != nil {
		slog.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}

	records := ledgerStore.New(db)
	catalogSvc := catalog.NewService(catalogStore.New(gdb))
	ledgerSvc := ledger.NewService(records, catalogSvc)
	reportSvc := report.NewService(ledgerSvc)
	impSvc := importer.NewService(catalogSvc, records, progress.NewMemory(), importer.DefaultSettings())

	local := dispatch.NewLocal(ctx, impSvc, 1)
	impSvc.SetDispatcher(local)

	cleanup := func() {
		local.Wait()
		db.Close()
	}

	return model{
		ledgerService: ledgerSvc,
		importService: impSvc,
		reportService: reportSvc,
		currentView:   ViewMenu,
		importView:    view.NewImportModel(impSvc),
		recordsView:   view.NewRecordsModel(ledgerSvc),
		reportsView:   view.NewReportsModel(reportSvc),
	}, cleanup
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewRecords
				m.recordsView = view.NewRecordsModel(m.ledgerService)

				return m, m.recordsView.Init()
			case "3":
				m.currentView = ViewReports
				m.reportsView = view.NewReportsModel(m.reportService)

				return m, m.reportsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewRecords:
		var newModel tea.Model
		newModel, cmd = m.recordsView.Update(msg)
		m.recordsView = newModel.(view.RecordsModel)
	case ViewReports:
		var newModel tea.Model
		newModel, cmd = m.reportsView.Update(msg)
		m.reportsView = newModel.(view.ReportsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Haulage TUI\n\n" +
				"1. Import Ledger\n" +
				"2. Ledger Records\n" +
				"3. Reports\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewRecords:
		return m.recordsView.View()
	case ViewReports:
		return m.reportsView.View()
	}

	return "Unknown View"
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	m, cleanup := initialModel(ctx)

	p := tea.NewProgram(m)
	_, err := p.Run()

	cancel()
	cleanup()

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
