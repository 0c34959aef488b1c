package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/session"
	"github.com/nhle/todo-manager/internal/tasks"
	"github.com/nhle/todo-manager/internal/theme"
	"github.com/nhle/todo-manager/internal/ui/command"
	"github.com/nhle/todo-manager/internal/ui/detail"
)

// exportedMsg is sent after an export file was written.
type exportedMsg struct {
	path  string
	count int
	err   error
}

// importLoadedMsg carries the contents of an import file.
type importLoadedMsg struct {
	path string
	data []byte
	err  error
}

// themeSavedMsg is sent after the theme preference was stored.
type themeSavedMsg struct{ err error }

// handleListKeys processes key input in the task list.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.addBar.Focused() {
		return m.updateAddBar(msg)
	}
	if m.taskList.MovingID() != "" {
		return m.handleMoveKeys(msg)
	}

	current, hasCurrent := m.taskList.Current()
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		cmd = m.quit()

	case key.Matches(msg, m.keys.Add):
		cmd = m.addBar.Focus()

	case key.Matches(msg, m.keys.Toggle):
		if hasCurrent {
			cmd = m.toggleTask(current.ID)
		}

	case key.Matches(msg, m.keys.Edit):
		if hasCurrent {
			m.currentView = ViewEdit
			cmd = m.formView.StartEdit(current)
		}

	case key.Matches(msg, m.keys.Delete):
		if hasCurrent {
			m.confirmID = current.ID
			m.currentView = ViewConfirm
			cmd = m.formView.StartConfirm(actionDelete,
				fmt.Sprintf("Delete %q?", current.Text), "You can undo this with u.")
		}

	case key.Matches(msg, m.keys.Move):
		m.taskList.StartMove()

	case key.Matches(msg, m.keys.Detail):
		if hasCurrent {
			m.detailView.SetTask(current)
			m.currentView = ViewDetail
		}

	case key.Matches(msg, m.keys.Select):
		if hasCurrent {
			if _, err := m.session.ToggleSelected(current.ID); err != nil {
				cmd = m.reportError(err)
			}
			m.refresh()
		}

	case key.Matches(msg, m.keys.SelectAll):
		m.session.SelectAllVisible()
		m.refresh()

	case key.Matches(msg, m.keys.ClearSelect):
		m.session.ClearSelection()
		m.refresh()

	case key.Matches(msg, m.keys.BulkComplete):
		cmd = m.completeSelected()

	case key.Matches(msg, m.keys.BulkDelete):
		cmd = m.confirmBulkDelete()

	case key.Matches(msg, m.keys.CycleFilter):
		f := m.session.CycleFilter()
		m.refresh()
		cmd = m.setStatus("Filter: " + string(f))

	case key.Matches(msg, m.keys.CycleSort):
		s := m.session.CycleSort()
		m.refresh()
		cmd = m.setStatus("Sort: " + string(s))

	case key.Matches(msg, m.keys.Undo):
		cmd = m.undo()

	case key.Matches(msg, m.keys.Redo):
		cmd = m.redo()

	case key.Matches(msg, m.keys.Export):
		cmd = m.exportTasks("")

	case key.Matches(msg, m.keys.Import):
		cmd = m.loadImport("")

	case key.Matches(msg, m.keys.Theme):
		cmd = m.toggleTheme()

	default:
		m.taskList, cmd = m.taskList.Update(msg)
	}

	return m, cmd
}

// handleMoveKeys navigates to a drop target; enter drops, esc cancels.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.taskList.CancelMove()
		return m, nil

	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Move):
		source := m.taskList.MovingID()
		m.taskList.CancelMove()
		target, ok := m.taskList.Current()
		if !ok || target.ID == source {
			return m, nil
		}
		err := m.session.Reorder(context.Background(), source, target.ID)
		m.refresh()
		m.taskList.SelectID(source)
		var cmd tea.Cmd
		switch {
		case err != nil:
			cmd = m.reportError(err)
		case m.session.Sort() != model.SortManual:
			cmd = m.setStatus("Moved. Switch sort to manual to see the new order.")
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// refresh pushes the current projection into the list view.
func (m *Model) refresh() {
	m.taskList.SetTasks(m.session.Visible(), m.session.IsSelected, m.session.Filter(), m.session.Len())
}

// reportError surfaces err in the status bar. Stale ids are only logged.
func (m *Model) reportError(err error) tea.Cmd {
	if errors.Is(err, tasks.ErrNotFound) {
		m.log.Printf("app: %v", err)
		return nil
	}
	m.log.Printf("app: %v", err)
	return m.setError(err)
}

func (m *Model) addTask(text string, priority model.Priority) tea.Cmd {
	t, err := m.session.Add(context.Background(), text, priority)
	if errors.Is(err, tasks.ErrValidation) {
		return m.reportError(err)
	}

	m.addBar.Reset()
	m.scheduleDraft("")

	m.refresh()
	m.taskList.SelectID(t.ID)
	if err != nil {
		return m.reportError(err)
	}
	return m.setStatus(fmt.Sprintf("Added %q", t.Text))
}

func (m *Model) toggleTask(id string) tea.Cmd {
	t, err := m.session.ToggleComplete(context.Background(), id)
	m.refresh()
	if err != nil {
		return m.reportError(err)
	}
	if t.Completed {
		return m.setStatus(fmt.Sprintf("Completed %q", t.Text))
	}
	return m.setStatus(fmt.Sprintf("Reopened %q", t.Text))
}

// runDetailAction handles an action requested from the detail view.
func (m *Model) runDetailAction(action, id string) tea.Cmd {
	switch action {
	case detail.ActionToggle:
		cmd := m.toggleTask(id)
		if t, err := m.session.Get(id); err == nil {
			m.detailView.SetTask(t)
		}
		return cmd
	case detail.ActionEdit:
		t, err := m.session.Get(id)
		if err != nil {
			return m.reportError(err)
		}
		m.currentView = ViewEdit
		return m.formView.StartEdit(t)
	}
	return nil
}

func (m *Model) editTask(id, text string, priority model.Priority) tea.Cmd {
	_, err := m.session.Edit(context.Background(), id, text, priority)
	m.refresh()
	if err != nil {
		return m.reportError(err)
	}
	return m.setStatus("Task updated")
}

func (m *Model) confirmBulkDelete() tea.Cmd {
	n := m.session.SelectionLen()
	if n == 0 {
		return m.setError(&tasks.ValidationError{Reason: "no tasks selected"})
	}
	m.currentView = ViewConfirm
	return m.formView.StartConfirm(actionBulkDelete,
		fmt.Sprintf("Delete %d selected tasks?", n), "You can undo each deletion with u.")
}

// runConfirmed performs the action a confirmation was asked for.
func (m *Model) runConfirmed(action string) tea.Cmd {
	ctx := context.Background()
	switch action {
	case actionDelete:
		id := m.confirmID
		m.confirmID = ""
		t, err := m.session.Remove(ctx, id)
		m.refresh()
		if err != nil {
			return m.reportError(err)
		}
		return m.setStatus(fmt.Sprintf("Deleted %q", t.Text))

	case actionBulkDelete:
		removed, err := m.session.RemoveSelected(ctx)
		m.refresh()
		if err != nil {
			return m.reportError(err)
		}
		return m.setStatus(fmt.Sprintf("Deleted %d tasks", len(removed)))
	}
	return nil
}

func (m *Model) completeSelected() tea.Cmd {
	n, err := m.session.CompleteSelected(context.Background())
	m.refresh()
	if err != nil {
		return m.reportError(err)
	}
	return m.setStatus(fmt.Sprintf("Completed %d tasks", n))
}

func (m *Model) undo() tea.Cmd {
	e, ok, err := m.session.Undo(context.Background())
	m.refresh()
	switch {
	case err != nil:
		return m.reportError(err)
	case !ok:
		return m.setStatus("Nothing to undo")
	}
	return m.setStatus("Undid " + e.Describe())
}

func (m *Model) redo() tea.Cmd {
	e, ok, err := m.session.Redo(context.Background())
	m.refresh()
	switch {
	case err != nil:
		return m.reportError(err)
	case !ok:
		return m.setStatus("Nothing to redo")
	}
	return m.setStatus("Redid " + e.Describe())
}

// exportTasks encodes the collection now and writes it off the update loop.
func (m *Model) exportTasks(path string) tea.Cmd {
	data, err := m.session.Export()
	if err != nil {
		return m.setError(err)
	}
	if path == "" {
		path = session.ExportFileName(m.exportDir, time.Now())
	}
	count := m.session.Len()
	return func() tea.Msg {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return exportedMsg{path: path, err: fmt.Errorf("writing export %s: %w", path, err)}
		}
		return exportedMsg{path: path, count: count}
	}
}

// loadImport reads the import file off the update loop; the import
// itself is applied when importLoadedMsg arrives.
func (m *Model) loadImport(path string) tea.Cmd {
	if path == "" {
		path = filepath.Join(m.exportDir, session.DefaultExportFile)
	}
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return importLoadedMsg{path: path, err: fmt.Errorf("reading import %s: %w", path, err)}
		}
		return importLoadedMsg{path: path, data: data}
	}
}

func (m *Model) importTasks(path string, data []byte) tea.Cmd {
	n, err := m.session.Import(context.Background(), data)
	m.refresh()
	if err != nil {
		return m.reportError(err)
	}
	return m.setStatus(fmt.Sprintf("Imported %d tasks from %s", n, path))
}

// toggleTheme flips light/dark and stores the preference.
func (m *Model) toggleTheme() tea.Cmd {
	return m.setTheme(m.themeMode.Toggled())
}

func (m *Model) setTheme(mode theme.Mode) tea.Cmd {
	m.themeMode = mode
	theme.Apply(mode)
	gw := m.session.Gateway()
	return tea.Batch(
		m.setStatus("Theme: "+string(mode)),
		func() tea.Msg {
			return themeSavedMsg{err: theme.Save(context.Background(), gw, mode)}
		},
	)
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(line string) tea.Cmd {
	verb, arg := command.Parse(line)
	switch verb {
	case "add":
		return m.addTask(arg, m.addBar.Priority())
	case "export":
		return m.exportTasks(arg)
	case "import":
		return m.loadImport(arg)
	case "filter":
		f, err := model.ParseFilterMode(arg)
		if err != nil {
			return m.setError(err)
		}
		m.session.SetFilter(f)
		m.refresh()
		return nil
	case "sort":
		s, err := model.ParseSortMode(arg)
		if err != nil {
			return m.setError(err)
		}
		m.session.SetSort(s)
		m.refresh()
		return nil
	case "select":
		switch arg {
		case "all":
			m.session.SelectAllVisible()
		case "none", "clear":
			m.session.ClearSelection()
		default:
			return m.setError(fmt.Errorf("unknown selection %q (want all or none)", arg))
		}
		m.refresh()
		return nil
	case "complete":
		return m.completeSelected()
	case "delete":
		return m.confirmBulkDelete()
	case "undo":
		return m.undo()
	case "redo":
		return m.redo()
	case "theme":
		if arg == "" {
			return m.toggleTheme()
		}
		mode, err := theme.ParseMode(arg)
		if err != nil {
			return m.setError(err)
		}
		return m.setTheme(mode)
	case "help":
		m.helpView.SetStats(m.session.Stats())
		m.previousView = ViewList
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return m.quit()
	default:
		return m.setError(fmt.Errorf("unknown command %q", line))
	}
}
