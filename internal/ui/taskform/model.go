package taskform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/theme"
)

// TaskEditedMsg is dispatched when the edit form is submitted.
type TaskEditedMsg struct {
	ID       string
	Text     string
	Priority model.Priority
}

// ConfirmedMsg is dispatched when a confirmation is answered yes.
// Action echoes the value passed to StartConfirm.
type ConfirmedMsg struct {
	Action string
}

// CancelMsg is dispatched when the form is aborted or a confirmation
// is answered no.
type CancelMsg struct{}

type mode int

const (
	modeEdit mode = iota
	modeConfirm
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text     string
	priority model.Priority
	confirm  bool
}

// Model hosts either the task edit form or a yes/no confirmation.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   mode
	editID string
	action string
	title  string
	width  int
	height int
}

// New creates a new form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	m.mode = modeEdit
	m.editID = t.ID
	m.title = "Edit Task"
	m.fb.text = t.Text
	m.fb.priority = t.Priority
	m.form = m.buildEditForm()
	return m.form.Init()
}

// StartConfirm asks a yes/no question; a yes emits ConfirmedMsg{action}.
func (m *Model) StartConfirm(action, question, detail string) tea.Cmd {
	m.mode = modeConfirm
	m.action = action
	m.title = "Confirm"
	m.fb.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Description(detail).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.title) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildEditForm() *huh.Form {
	title := cases.Title(language.English)
	opts := make([]huh.Option[model.Priority], len(model.Priorities))
	for i, p := range model.Priorities {
		opts[i] = huh.NewOption(title.String(p.String()), p)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("What needs to be done?").
				Value(&m.fb.text).
				Validate(validateRequired("Task")),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(opts...).
				Value(&m.fb.priority),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.mode == modeConfirm {
		if !m.fb.confirm {
			return func() tea.Msg { return CancelMsg{} }
		}
		action := m.action
		return func() tea.Msg { return ConfirmedMsg{Action: action} }
	}

	edited := TaskEditedMsg{
		ID:       m.editID,
		Text:     strings.TrimSpace(m.fb.text),
		Priority: m.fb.priority,
	}
	return func() tea.Msg { return edited }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 8 {
		h = 8
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
