package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/jpcarvalho/divvy/cmd/tui/internal/view"
	"github.com/jpcarvalho/divvy/internal/blob"
	"github.com/jpcarvalho/divvy/internal/config"
	"github.com/jpcarvalho/divvy/internal/database"
	"github.com/jpcarvalho/divvy/internal/export"
	"github.com/jpcarvalho/divvy/internal/group"
	groupStore "github.com/jpcarvalho/divvy/internal/group/store"
	"github.com/jpcarvalho/divvy/internal/restore"
)

type model struct {
	groupService  *group.Service
	exportService *export.Service
	engine        *restore.Engine

	currentView View

	groupsView view.GroupsModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewGroups View = 1
	ViewImport View = 2
	ViewExport View = 3
)

func initialModel() model {
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

	repo := groupStore.New(db)
	groupSvc := group.NewService(repo)
	blobs := blob.NewHTTPStore(cfg.Documents.ProbeTimeout)
	engine := restore.NewEngine(repo, blobs, cfg.Import.TxTimeout)
	exportSvc := export.NewService(groupSvc)

	return model{
		groupService:  groupSvc,
		exportService: exportSvc,
		engine:        engine,
		currentView:   ViewMenu,
		groupsView:    view.NewGroupsModel(groupSvc, engine),
		importView:    view.NewImportModel(groupSvc, engine),
		exportView:    view.NewExportModel(groupSvc, exportSvc),
	}
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
				m.currentView = ViewGroups
				m.groupsView = view.NewGroupsModel(m.groupService, m.engine)

				return m, m.groupsView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.groupService, m.engine)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.groupService, m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewGroups:
		var newModel tea.Model
		newModel, cmd = m.groupsView.Update(msg)
		m.groupsView = newModel.(view.GroupsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Divvy TUI\n\n" +
				"1. Browse Groups\n" +
				"2. Import Snapshot\n" +
				"3. Export Backup\n\n" +
				"q. Quit",
		)
	case ViewGroups:
		return m.groupsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
