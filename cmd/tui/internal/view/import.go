package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jpcarvalho/divvy/internal/group"
	"github.com/jpcarvalho/divvy/internal/reconcile"
	"github.com/jpcarvalho/divvy/internal/restore"
	"github.com/jpcarvalho/divvy/internal/snapshot"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateAnalyzing
	importStatePreview
	importStateRestoring
	importStateResult
)

type ImportModel struct {
	CommonModel
	groupService *group.Service
	engine       *restore.Engine

	state         importState
	filePicker    filepicker.Model
	formatOptions []snapshot.Format
	formatCursor  int

	snap       *snapshot.Snapshot
	live       *group.Summary
	comparison reconcile.Comparison
	difference reconcile.Difference
	warnings   []string

	status string
	err    error
}

func NewImportModel(groupSvc *group.Service, engine *restore.Engine) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		groupService:  groupSvc,
		engine:        engine,
		filePicker:    fp,
		formatOptions: []snapshot.Format{snapshot.FormatLightweight, snapshot.FormatBackup},
	}
}

func (m ImportModel) Title() string { return "Import Snapshot" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: import | o: overwrite live data | Esc: cancel"
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

		if m.state == importStateFormatSelect {
			return m.updateFormatSelect(msg)
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case analyzeResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.snap = msg.snap
		m.live = msg.live
		m.comparison = msg.comparison
		m.difference = msg.difference
		m.warnings = msg.warnings
		m.state = importStatePreview

		return m, nil

	case restoreDoneMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.warnings = append(m.warnings, msg.result.Warnings...)
		m.status = fmt.Sprintf("Imported %d expenses into %q (%s).",
			msg.result.Expenses, msg.result.GroupName, msg.result.Mode)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateAnalyzing
		m.status = fmt.Sprintf("Analyzing %s...", path)

		return m, m.analyzeCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStatePreview, importStateResult:
		m.state = importStateFormatSelect
		m.snap = nil
		m.live = nil
		m.warnings = nil
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formatOptions)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var rollback bool

	switch msg.String() {
	case "enter":
		rollback = false
	case "o":
		rollback = true
	default:
		return m, nil
	}

	mode, err := restore.ModeFor(rollback, m.comparison)
	if err != nil {
		m.status = "Live data is as recent or newer. Press o to overwrite it."
		return m, nil
	}

	m.state = importStateRestoring
	m.status = fmt.Sprintf("Importing (%s)...", mode)

	return m, m.restoreCmd(mode)
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateAnalyzing, importStateRestoring:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return m.viewPreview()
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func formatLabel(f snapshot.Format) string {
	if f == snapshot.FormatBackup {
		return "Full backup archive (.zip)"
	}

	return "Lightweight snapshot (.json)"
}

func (m ImportModel) viewFormatSelect() string {
	s := "Select snapshot format:\n\n"

	for i, f := range m.formatOptions {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, formatLabel(f))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s",
			formatLabel(m.formatOptions[m.formatCursor]), m.filePicker.View()),
	)
}

func (m ImportModel) viewPreview() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", lipgloss.NewStyle().Bold(true).Render(m.snap.Group.Name))
	fmt.Fprintf(&b, "Snapshot:  %d participants, %d expenses\n", len(m.snap.Participants), len(m.snap.Expenses))
	fmt.Fprintf(&b, "Snapshot time: %s\n", FormatDate(m.comparison.SnapshotTime))

	if m.live == nil {
		b.WriteString("\nThe group does not exist yet; importing creates it.\n")
	} else {
		fmt.Fprintf(&b, "Live time:     %s\n\n", FormatDate(*m.comparison.LiveTime))
		fmt.Fprintf(&b, "Snapshot is %s than live data.\n\n", m.comparison.Result)
		fmt.Fprintf(&b, "Would add %d and remove %d expenses", m.difference.AddedExpenses, m.difference.RemovedExpenses)
		if m.difference.ModifiedExpenses > 0 {
			fmt.Fprintf(&b, " (%d modified)", m.difference.ModifiedExpenses)
		}
		fmt.Fprintf(&b, ",\nadd %d and remove %d participants.\n", m.difference.AddedParticipants, m.difference.RemovedParticipants)
	}

	for _, w := range m.warnings {
		fmt.Fprintf(&b, "\nWarning: %s", w)
	}

	if m.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(m.status))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(b.String())
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	body := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status)
	for _, w := range m.warnings {
		body += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("Warning: "+w)
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

// Messages

type analyzeResultMsg struct {
	snap       *snapshot.Snapshot
	live       *group.Summary
	comparison reconcile.Comparison
	difference reconcile.Difference
	warnings   []string
	err        error
}

func (m ImportModel) analyzeCmd(path string) tea.Cmd {
	format := m.formatOptions[m.formatCursor]

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return analyzeResultMsg{err: err}
		}
		defer f.Close()

		var (
			snap     *snapshot.Snapshot
			warnings []string
		)

		if format == snapshot.FormatBackup {
			info, err := f.Stat()
			if err != nil {
				return analyzeResultMsg{err: err}
			}

			snap, warnings, err = snapshot.ParseBackup(f, info.Size())
			if err != nil {
				return analyzeResultMsg{err: err}
			}
		} else {
			snap, err = snapshot.ParseLightweight(f)
			if err != nil {
				return analyzeResultMsg{err: err}
			}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		live, err := m.groupService.Summary(ctx, snap.Group.ID)
		if err != nil && !errors.Is(err, group.ErrNotFound) {
			return analyzeResultMsg{err: err}
		}

		result := analyzeResultMsg{
			snap:       snap,
			live:       live,
			comparison: reconcile.Compare(snap, live),
			warnings:   warnings,
		}
		if live != nil {
			result.difference = reconcile.Diff(snap, live)
		}

		return result
	}
}

type restoreDoneMsg struct {
	result *restore.Result
	err    error
}

func (m ImportModel) restoreCmd(mode restore.Mode) tea.Cmd {
	snap := m.snap

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.engine.Restore(ctx, snap, mode)
		return restoreDoneMsg{result: result, err: err}
	}
}
