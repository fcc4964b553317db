// Package ui is the terminal front end: a form for new tasks above the
// current list, driven by Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

// Tasks is the part of the task service the UI drives.
type Tasks interface {
	List(ctx context.Context) ([]model.Task, error)
	Add(ctx context.Context, description, dueTime, dueDate string) (model.Task, error)
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const DefaultDueTime = "08:00"

const (
	fieldDescription = iota
	fieldDueTime
	fieldDueDate
	focusList
	focusCount
)

var fieldLabels = [focusList]string{"Task", "Due time", "Due date"}

type Notice struct {
	Text    string
	IsError bool
}

// Model holds the whole screen. Store calls run synchronously inside
// Update; every successful mutation is followed by a full reload.
type Model struct {
	ctx    context.Context
	tasks  Tasks
	logger *zap.Logger
	now    func() time.Time

	inputs [focusList]textinput.Model
	focus  int

	items  []model.Task
	cursor int

	Notice   Notice
	Quitting bool

	keys     keyMap
	help     help.Model
	showHelp bool
}

type Option func(*Model)

func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithClock sets the clock used for the default due date.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New builds the model and loads the current list.
func New(tasks Tasks, opts ...Option) Model {
	m := Model{
		ctx:    context.Background(),
		tasks:  tasks,
		logger: zap.NewNop(),
		now:    time.Now,
		items:  []model.Task{},
		keys:   defaultKeys(),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.inputs[fieldDescription] = newInput("What needs doing?", 256)
	m.inputs[fieldDueTime] = newInput("HH:MM", 32)
	m.inputs[fieldDueTime].SetValue(DefaultDueTime)
	m.inputs[fieldDueDate] = newInput("YYYY-MM-DD", 32)
	m.inputs[fieldDueDate].SetValue(m.now().Format("2006-01-02"))
	m.setFocus(fieldDescription)

	m.reload()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	return in
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, tasks Tasks, opts ...Option) error {
	opts = append([]Option{WithContext(ctx)}, opts...)
	program := tea.NewProgram(New(tasks, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Tasks() []model.Task {
	return m.items
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return m.updateInput(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.ForceQuit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Next):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(keyMsg, m.keys.Prev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	}

	if m.focus == focusList {
		return m.updateList(keyMsg)
	}
	if key.Matches(keyMsg, m.keys.Submit) {
		m.submit()
		return m, nil
	}
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == focusList {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Complete):
		if t, ok := m.selected(); ok {
			m.complete(t)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.delete(t)
		}
	case key.Matches(msg, m.keys.Reload):
		m.Notice = Notice{}
		m.reload()
	}
	return m, nil
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.Task{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) submit() {
	t, err := m.tasks.Add(m.ctx,
		m.inputs[fieldDescription].Value(),
		m.inputs[fieldDueTime].Value(),
		m.inputs[fieldDueDate].Value(),
	)
	if err != nil {
		if model.KindOf(err) == model.KindValidation {
			m.Notice = Notice{Text: "Please enter a task description.", IsError: true}
			return
		}
		m.fail("Could not add task", err)
		return
	}

	m.inputs[fieldDescription].Reset()
	m.Notice = Notice{Text: "Added: " + t.Label()}
	m.reload()
	if i := model.IndexOf(m.items, t.ID); i >= 0 {
		m.cursor = i
	}
}

func (m *Model) complete(t model.Task) {
	if err := m.tasks.Complete(m.ctx, t.ID); err != nil {
		m.fail("Could not complete task", err)
		return
	}
	m.Notice = Notice{Text: "Completed: " + t.Label()}
	m.reload()
}

func (m *Model) delete(t model.Task) {
	if err := m.tasks.Delete(m.ctx, t.ID); err != nil {
		m.fail("Could not delete task", err)
		return
	}
	m.Notice = Notice{Text: "Deleted: " + t.Label()}
	m.reload()
}

// reload replaces the list with the store's view. A partially decoded
// listing still replaces it; any other failure leaves the list as it was.
func (m *Model) reload() {
	tasks, err := m.tasks.List(m.ctx)
	if err != nil && model.KindOf(err) != model.KindDecode {
		m.fail("Could not load tasks", err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	m.items = tasks
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if err != nil {
		m.logger.Warn("listing partially decoded", zap.Int("tasks", len(tasks)), zap.Error(err))
		m.Notice = Notice{Text: "Some tasks could not be read: " + err.Error(), IsError: true}
	}
}

func (m *Model) fail(prefix string, err error) {
	m.logger.Warn(prefix, zap.Stringer("kind", model.KindOf(err)), zap.Error(err))
	m.Notice = Notice{Text: prefix + ": " + err.Error(), IsError: true}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("To-Do List"))
	b.WriteString("\n\n")
	b.WriteString(m.panel(m.focus != focusList).Render(m.formView()))
	b.WriteString("\n")
	b.WriteString(m.panel(m.focus == focusList).Render(m.listView()))
	b.WriteString("\n")

	if m.Notice.Text != "" {
		style := noticeStyle
		if m.Notice.IsError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.Notice.Text))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderMarkdown(helpMarkdown))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) panel(focused bool) lipgloss.Style {
	if focused {
		return focusedPanel
	}
	return panelStyle
}

func (m Model) formView() string {
	lines := make([]string, 0, len(m.inputs))
	for i := range m.inputs {
		lines = append(lines, labelStyle.Render(fieldLabels[i])+m.inputs[i].View())
	}
	return strings.Join(lines, "\n")
}

func (m Model) listView() string {
	if len(m.items) == 0 {
		return emptyStyle.Render("No tasks yet. Add your first task above!")
	}

	lines := make([]string, 0, len(m.items)*2)
	for i, t := range m.items {
		prefix := "  "
		if m.focus == focusList && i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		lines = append(lines, prefix+TaskLine(i+1, t))

		status := pendingStyle.Render(t.Status())
		if t.Completed {
			status = doneStyle.Render(t.Status())
		}
		lines = append(lines, "  Status: "+status)
	}
	return strings.Join(lines, "\n")
}

// TaskLine renders "Task N: description (Due: date time)"; the due part is
// left out when the record carries neither field.
func TaskLine(n int, t model.Task) string {
	line := fmt.Sprintf("Task %d: %s", n, t.Label())
	if due := t.Due(); due != "" {
		line += " (Due: " + due + ")"
	}
	return line
}
