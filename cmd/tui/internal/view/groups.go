package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/restore"
)

type groupsState int

const (
	groupsStateBrowse groupsState = iota
	groupsStateDetail
	groupsStateConfirmUndo
)

type GroupsModel struct {
	CommonModel
	groupService *group.Service
	engine       *restore.Engine

	state  groupsState
	table  table.Model
	groups []*group.Group
	// markers mirrors groups by index: true when the group's log carries an
	// import marker, so the last import can still be undone.
	markers []bool

	detail *group.Summary

	loading bool
	err     error
	status  string
}

func NewGroupsModel(groupSvc *group.Service, engine *restore.Engine) GroupsModel {
	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "Currency", Width: 10},
		{Title: "Created", Width: 12},
		{Title: "Import", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return GroupsModel{
		groupService: groupSvc,
		engine:       engine,
		table:        t,
	}
}

func (m GroupsModel) Title() string { return "Groups" }

func (m GroupsModel) ShortHelp() string {
	switch m.state {
	case groupsStateDetail:
		return "Esc: back to list"
	case groupsStateConfirmUndo:
		return "y: undo last import | n/Esc: cancel"
	}

	return "Esc: back | Enter: details | u: undo last import | r: refresh"
}

func (m GroupsModel) Init() tea.Cmd {
	return m.loadGroupsCmd()
}

func (m GroupsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadGroupsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.groups = msg.groups
		m.markers = msg.markers
		m.refreshTable()
		return m, nil

	case loadDetailMsg:
		if msg.err != nil {
			m.state = groupsStateBrowse
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.detail = msg.summary
		m.state = groupsStateDetail
		return m, nil

	case undoDoneMsg:
		m.state = groupsStateBrowse
		m.table.Focus()
		if msg.err != nil {
			m.status = fmt.Sprintf("Undo failed: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Removed %d expenses and %d activity entries.", msg.result.Expenses, msg.result.Activities)
		return m, m.loadGroupsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case groupsStateBrowse:
		return m.updateBrowse(msg)
	case groupsStateDetail:
		return m.updateDetail(msg)
	case groupsStateConfirmUndo:
		return m.updateConfirmUndo(msg)
	}

	return m, nil
}

func (m GroupsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""
			return m, m.loadGroupsCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.groups) {
				return m, nil
			}
			return m, m.loadDetailCmd(m.groups[idx].ID)
		case "u":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.groups) {
				return m, nil
			}
			if !m.markers[idx] {
				m.status = "No import to undo for this group."
				return m, nil
			}
			m.state = groupsStateConfirmUndo
			m.table.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m GroupsModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = groupsStateBrowse
			m.detail = nil
			return m, nil
		}
	}

	return m, nil
}

func (m GroupsModel) updateConfirmUndo(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y":
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.groups) {
			m.state = groupsStateBrowse
			m.table.Focus()
			return m, nil
		}
		m.status = "Undoing last import..."
		return m, m.undoCmd(m.groups[idx].ID)
	case "n", "esc":
		m.state = groupsStateBrowse
		m.table.Focus()
		return m, nil
	}

	return m, nil
}

func (m GroupsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading groups...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == groupsStateDetail && m.detail != nil {
		return m.viewDetail()
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == groupsStateConfirmUndo {
		idx := m.table.Cursor()
		name := ""
		if idx >= 0 && idx < len(m.groups) {
			name = m.groups[idx].Name
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Render(fmt.Sprintf("Undo the last import of %q?\n\nAll expenses and log entries added by it\nwill be deleted. [y/n]", name))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m GroupsModel) viewDetail() string {
	d := m.detail

	var total int64
	for _, e := range d.Expenses {
		if !e.IsReimbursement {
			total += e.Amount
		}
	}

	body := fmt.Sprintf(
		"%s\n\nID:            %s\nCurrency:      %s\nParticipants:  %d\nExpenses:      %d\nTotal spent:   %s\nLast modified: %s",
		lipgloss.NewStyle().Bold(true).Render(d.Group.Name),
		d.Group.ID,
		d.Group.Currency,
		len(d.Participants),
		len(d.Expenses),
		FormatAmount(total, d.Group.Currency),
		FormatDate(d.LastModified()),
	)

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(body)
}

func (m *GroupsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.groups))
	for i, g := range m.groups {
		marker := ""
		if m.markers[i] {
			marker = "undoable"
		}
		rows = append(rows, table.Row{
			g.Name,
			g.Currency,
			FormatDate(g.CreatedAt),
			marker,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadGroupsMsg struct {
	groups  []*group.Group
	markers []bool
	err     error
}

func (m GroupsModel) loadGroupsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		groups, err := m.groupService.List(ctx)
		if err != nil {
			return loadGroupsMsg{err: err}
		}

		markers := make([]bool, len(groups))
		for i, g := range groups {
			has, err := m.groupService.HasImportMarker(ctx, g.ID)
			if err != nil {
				return loadGroupsMsg{err: err}
			}
			markers[i] = has
		}

		return loadGroupsMsg{groups: groups, markers: markers}
	}
}

type loadDetailMsg struct {
	summary *group.Summary
	err     error
}

func (m GroupsModel) loadDetailCmd(groupID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.groupService.Summary(ctx, groupID)
		return loadDetailMsg{summary: summary, err: err}
	}
}

type undoDoneMsg struct {
	result *restore.UndoResult
	err    error
}

func (m GroupsModel) undoCmd(groupID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.engine.UndoLastImport(ctx, groupID)
		return undoDoneMsg{result: result, err: err}
	}
}
