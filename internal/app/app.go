package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-manager/internal/autosave"
	"github.com/nhle/todo-manager/internal/session"
	"github.com/nhle/todo-manager/internal/theme"
	"github.com/nhle/todo-manager/internal/ui"
	"github.com/nhle/todo-manager/internal/ui/addbar"
	"github.com/nhle/todo-manager/internal/ui/command"
	"github.com/nhle/todo-manager/internal/ui/detail"
	helpview "github.com/nhle/todo-manager/internal/ui/help"
	"github.com/nhle/todo-manager/internal/ui/taskform"
	"github.com/nhle/todo-manager/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewEdit
	ViewConfirm
	ViewDetail
)

// Confirmation actions routed through the confirm form.
const (
	actionDelete     = "delete"
	actionBulkDelete = "bulk-delete"
)

// Deps are the collaborators the root model drives.
type Deps struct {
	Session *session.Session

	// Drafts debounces saving the add-bar text; required.
	Drafts *autosave.Debouncer

	Theme theme.Mode

	// ExportDir is where export and default import files live.
	ExportDir string

	// Draft is the restored add-bar text.
	Draft string

	// Status is shown once at startup, e.g. a snapshot load problem.
	Status string

	Logger *log.Logger
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the session.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	session      *session.Session
	drafts       *autosave.Debouncer
	keys         *KeyMap
	taskList     tasklist.Model
	addBar       addbar.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     taskform.Model
	detailView   detail.Model
	themeMode    theme.Mode
	exportDir    string
	log          *log.Logger

	// confirmID is the task a pending single delete applies to.
	confirmID string

	status statusLine
	ready  bool
}

// New creates a new root application model.
func New(d Deps) Model {
	keys := DefaultKeyMap()
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	exportDir := d.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := Model{
		currentView: ViewList,
		layout:      ui.NewLayout(80, 24),
		session:     d.Session,
		drafts:      d.Drafts,
		keys:        keys,
		taskList:    tasklist.New(80, 20),
		addBar:      addbar.New(80),
		helpView:    helpview.New(keys, 80, 20),
		commandView: command.New(80, 20),
		formView:    taskform.New(80, 20),
		detailView:  detail.New(keys, 80, 20),
		themeMode:   d.Theme,
		exportDir:   exportDir,
		log:         logger,
	}
	m.addBar.SetValue(d.Draft)
	if d.Status != "" {
		m.status = statusLine{text: d.Status, isErr: true}
	}
	m.refresh()
	return m
}

// Init starts listening for deferred draft saves.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.drafts.WaitForResult()}
	if m.status.text != "" {
		cmds = append(cmds, m.status.expireCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.addBar.SetWidth(contentWidth)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case autosave.SavedMsg:
		if msg.Err != nil {
			m.log.Printf("app: saving %s: %v", msg.Label, msg.Err)
		}
		return m, m.drafts.WaitForResult()

	case statusExpiredMsg:
		if msg.seq == m.status.seq {
			m.status = statusLine{seq: m.status.seq}
		}
		return m, nil

	case addbar.SubmitMsg:
		cmd := m.addTask(msg.Text, msg.Priority)
		return m, cmd

	case addbar.CloseMsg:
		m.addBar.Blur()
		return m, nil

	case taskform.TaskEditedMsg:
		m.currentView = ViewList
		cmd := m.editTask(msg.ID, msg.Text, msg.Priority)
		return m, cmd

	case taskform.ConfirmedMsg:
		m.currentView = ViewList
		cmd := m.runConfirmed(msg.Action)
		return m, cmd

	case taskform.CancelMsg:
		m.currentView = ViewList
		m.confirmID = ""
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		m.detailView.Clear()
		return m, nil

	case detail.ActionMsg:
		cmd := m.runDetailAction(msg.Action, msg.TaskID)
		return m, cmd

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case exportedMsg:
		if msg.err != nil {
			cmd := m.setError(msg.err)
			return m, cmd
		}
		cmd := m.setStatus(fmt.Sprintf("Exported %d tasks to %s", msg.count, msg.path))
		return m, cmd

	case importLoadedMsg:
		if msg.err != nil {
			cmd := m.setError(msg.err)
			return m, cmd
		}
		cmd := m.importTasks(msg.path, msg.data)
		return m, cmd

	case themeSavedMsg:
		if msg.err != nil {
			m.log.Printf("app: %v", msg.err)
			cmd := m.setError(msg.err)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		cmd, handled := m.handleGlobalKeys(msg)
		if handled {
			return m, cmd
		}
		if m.currentView == ViewList {
			return m.handleListKeys(msg)
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work outside text inputs.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m.quit(), true
	}
	if msg.String() == "esc" {
		switch m.currentView {
		case ViewCommand:
			m.currentView = m.previousView
			return nil, true
		case ViewEdit, ViewConfirm:
			m.currentView = ViewList
			m.confirmID = ""
			return nil, true
		}
	}
	if m.typing() {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return nil, true
		}
		m.helpView.SetStats(m.session.Stats())
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil, true

	case key.Matches(msg, m.keys.Command):
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp || m.currentView == ViewCommand {
			m.currentView = m.previousView
			return nil, true
		}
	}
	return nil, false
}

// typing reports whether a text input currently owns the keyboard.
func (m Model) typing() bool {
	switch m.currentView {
	case ViewEdit, ViewConfirm:
		return true
	case ViewCommand:
		return true
	case ViewList:
		return m.addBar.Focused()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		if m.addBar.Focused() {
			return m.updateAddBar(msg)
		}
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewEdit, ViewConfirm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	}

	return m, cmd
}

// updateAddBar forwards to the add bar and schedules a draft save when
// the text changed.
func (m Model) updateAddBar(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.addBar.Value()
	var cmd tea.Cmd
	m.addBar, cmd = m.addBar.Update(msg)
	if after := m.addBar.Value(); after != before {
		m.scheduleDraft(after)
	}
	return m, cmd
}

// scheduleDraft replaces any pending draft save with text.
func (m Model) scheduleDraft(text string) {
	s := m.session
	m.drafts.Schedule("draft", func(ctx context.Context) error {
		return s.SaveDraft(ctx, text)
	})
}

// quit flushes the pending draft save and exits.
func (m Model) quit() tea.Cmd {
	if err := m.drafts.Stop(context.Background()); err != nil {
		m.log.Printf("app: flushing draft: %v", err)
	}
	return tea.Quit
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	stats := m.session.Stats()
	summary := fmt.Sprintf("%d tasks · %d done · %d%%", stats.Total, stats.Completed, stats.ProductivityPercent)
	header := m.layout.RenderHeader("Todo", summary)
	tabs := m.layout.RenderTabs(m.session.Filter(), m.session.Counts(), m.session.Sort(), m.session.SelectionLen())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusText())

	return m.layout.RenderWithFrame(header, tabs, m.addBar.View(), content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewEdit, ViewConfirm:
		return m.formView.View()
	case ViewDetail:
		return m.detailView.View()
	default:
		return ""
	}
}

// statusText returns the transient status message or the key hints.
func (m Model) statusText() string {
	if m.status.text != "" {
		return m.status.render()
	}
	return m.keyHints()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewEdit:
		return "enter submit | esc cancel"
	case ViewConfirm:
		return "←/→ choose | enter confirm | esc cancel"
	case ViewDetail:
		return "enter toggle | e edit | esc back"
	}

	switch {
	case m.addBar.Focused():
		return "enter add | tab priority | esc close"
	case m.taskList.MovingID() != "":
		return "j/k choose target | enter drop | esc cancel"
	case m.session.SelectionLen() > 0:
		return "space select | X complete selected | D delete selected | C clear | ? help"
	default:
		return "q quit | ? help | a add | enter toggle | e edit | d delete | v details | m move | f filter | s sort | u undo"
	}
}
