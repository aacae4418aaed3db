package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jpcarvalho/divvy/internal/export"
	"github.com/jpcarvalho/divvy/internal/group"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateLoading exportState = iota
	exportStateGroupPick
	exportStatePath
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	groupService  *group.Service
	exportService *export.Service

	state  exportState
	err    error
	groups []*group.Group

	form    *huh.Form
	groupID string
	path    string
	spinner spinner.Model
	summary string
}

func NewExportModel(groupSvc *group.Service, exportSvc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		groupService:  groupSvc,
		exportService: exportSvc,
		state:         exportStateLoading,
		path:          "./exports",
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export Backup" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.loadGroupsCmd()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportGroupsMsg:
		if msg.err != nil {
			m.state = exportStateResult
			m.err = msg.err
			return m, nil
		}

		m.groups = msg.groups
		m.form = m.buildGroupForm()
		m.state = exportStateGroupPick
		return m, m.form.Init()

	case exportResultMsg:
		m.state = exportStateResult
		m.err = msg.err
		m.summary = msg.body
		return m, nil
	}

	switch m.state {
	case exportStateGroupPick:
		return m.updateGroupPick(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateGroupPick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = m.buildPathForm()
	m.state = exportStatePath
	return m, m.form.Init()
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.form = m.buildGroupForm()
			m.state = exportStateGroupPick
			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.groupID, m.path))
}

func (m ExportModel) buildGroupForm() *huh.Form {
	options := make([]huh.Option[string], 0, len(m.groups))
	for _, g := range m.groups {
		options = append(options, huh.NewOption(g.Name, g.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("group").
				Title("Group").
				Options(options...).
				Value(&m.groupID),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading groups...")

	case exportStateGroupPick, exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Writing backup archive...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.summary,
		),
	)
}

// Messages

type exportGroupsMsg struct {
	groups []*group.Group
	err    error
}

func (m ExportModel) loadGroupsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		groups, err := m.groupService.List(ctx)
		return exportGroupsMsg{groups: groups, err: err}
	}
}

type exportResultMsg struct {
	body string
	err  error
}

func (m ExportModel) runExportCmd(groupID, path string) tea.Cmd {
	groupName := groupID
	for _, g := range m.groups {
		if g.ID == groupID {
			groupName = g.Name
		}
	}

	return func() tea.Msg {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return exportResultMsg{err: err}
		}

		target := filepath.Join(path, export.Filename(groupName, time.Now()))

		f, err := os.Create(target)
		if err != nil {
			return exportResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		snap, err := m.exportService.Export(ctx, groupID, f)
		if err != nil {
			return exportResultMsg{err: err}
		}

		body := fmt.Sprintf("%d participants and %d expenses written to\n%s",
			len(snap.Participants), len(snap.Expenses), target)

		return exportResultMsg{body: body}
	}
}
