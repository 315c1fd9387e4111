package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todotui/internal/config"
	"todotui/internal/storage"
	"todotui/internal/todo"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// Archiver receives every task line removed from a list.
type Archiver interface {
	Archive(list, line string) (storage.Removed, error)
}

// Options carries the collaborators of a Model.
type Options struct {
	Store  *todo.Store
	Config config.Config
	Trash  Archiver
	// Save persists the store; it runs on the save key and before quitting.
	Save func(*todo.Store) error
	// Copy writes to the system clipboard. Defaults to clipboard.WriteAll.
	Copy func(string) error
}

type Model struct {
	store   *todo.Store
	keys    Keymap
	trash   Archiver
	save    func(*todo.Store) error
	copy    func(string) error
	widgets []widget
	active  int
	mode    mode
	edit    *editTarget
	input   textinput.Model
	help    help.Model
	styles  styles
	status  string
	width   int
	height  int
}

// Widget order: pending, done, then one category pane per dimension.
const (
	widgetPending = iota
	widgetDone
)

func New(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "(A) task +project @context #hashtag due:YYYY-MM-DD"
	ti.CharLimit = 512
	ti.Width = 60

	shift := opts.Config.ListShift
	widgets := []widget{
		newTaskList(todo.Pending, shift),
		newTaskList(todo.Done, shift),
	}
	for _, d := range todo.Dimensions() {
		widgets = append(widgets, newCategoryList(d, shift))
	}

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := Model{
		store:   opts.Store,
		keys:    NewKeymap(opts.Config.Keys),
		trash:   opts.Trash,
		save:    opts.Save,
		copy:    copyFn,
		widgets: widgets,
		input:   ti,
		help:    help.New(),
		styles:  newStyles(opts.Config.ActiveColor),
		status:  fmt.Sprintf("Press '%s' to add, '%s' to finish, '%s' to switch pane.", opts.Config.Keys.Add, opts.Config.Keys.Finish, opts.Config.Keys.NextWidget),
	}
	m.resize(80, 24)
	return m
}

// Run starts the program loop on the alternate screen.
func Run(opts Options) error {
	program := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeList {
			return m.updateInputMode(msg)
		}
		return m.updateListMode(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}
	return m, nil
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.mode = modeList
		m.edit = nil
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.confirm):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Task cannot be empty"
			return m, nil
		}
		var err error
		if m.mode == modeEdit && m.edit != nil {
			err = m.store.Replace(m.edit.list, m.edit.index, text)
		} else {
			err = m.store.NewTask(text)
		}
		if err != nil {
			m.status = err.Error()
			log.Warn("task input rejected", "mode", m.mode, "err", err)
			return m, nil
		}
		if m.mode == modeEdit {
			m.status = "Task updated"
		} else {
			m.status = "Added task"
		}
		m.mode = modeList
		m.edit = nil
		m.input.SetValue("")
		m.input.Blur()
		m.syncAll()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Lookup(msg)
	log.Debug("key", "key", msg.String(), "action", action, "widget", m.widgets[m.active].Title())

	switch action {
	case ActionQuit:
		if err := m.persist(); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		return m, tea.Quit
	case ActionSave:
		if err := m.persist(); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
		} else {
			m.status = "Saved"
		}
		return m, nil
	case ActionAdd:
		m.mode = modeAdd
		m.input.SetValue("")
		m.status = "Add mode: type a todo.txt line and press Enter"
		cmd := m.input.Focus()
		return m, cmd
	case ActionNextWidget:
		m.active = (m.active + 1) % len(m.widgets)
		return m, nil
	case ActionPrevWidget:
		m.active = (m.active - 1 + len(m.widgets)) % len(m.widgets)
		return m, nil
	case ActionClearFilters:
		m.store.ClearFilters()
		m.resetTaskLists()
		m.status = "Filters cleared"
		return m, nil
	case ActionNone:
		return m, nil
	}

	out := m.widgets[m.active].Handle(action, m.store)
	if !out.handled {
		return m, nil
	}
	return m.apply(out)
}

func (m Model) apply(out outcome) (tea.Model, tea.Cmd) {
	if out.status != "" {
		m.status = out.status
	}
	if out.err != nil {
		m.status = out.err.Error()
		log.Error("action failed", "err", out.err)
	}
	if out.filterChanged {
		m.resetTaskLists()
	}
	if out.removed != nil {
		m.syncAll()
		if m.trash != nil {
			if _, err := m.trash.Archive(out.removed.list.String(), out.removed.line); err != nil {
				m.status = fmt.Sprintf("trash failed: %v", err)
				log.Error("archive removed task", "err", err)
			}
		}
	}
	if out.yank != "" {
		if err := m.copy(out.yank); err != nil {
			m.status = fmt.Sprintf("copy failed: %v", err)
		} else {
			m.status = "Copied task"
		}
	}
	if out.edit != nil {
		m.mode = modeEdit
		m.edit = out.edit
		m.input.SetValue(out.edit.line)
		m.input.CursorEnd()
		m.status = "Edit mode: change the line and press Enter"
		cmd := m.input.Focus()
		return m, cmd
	}
	if !out.filterChanged && out.removed == nil {
		m.syncAll()
	}
	return m, nil
}

func (m *Model) persist() error {
	if m.save == nil {
		return nil
	}
	if err := m.save(m.store); err != nil {
		log.Error("save failed", "err", err)
		return err
	}
	log.Info("lists saved", "pending", m.store.Len(todo.Pending), "done", m.store.Len(todo.Done))
	return nil
}

// resetTaskLists moves every task list back to its first row after the
// filtered view changed underneath it.
func (m *Model) resetTaskLists() {
	for _, w := range m.widgets {
		if _, ok := w.(*taskList); ok {
			w.Nav().First()
		}
		w.Sync(m.store)
	}
}

func (m *Model) syncAll() {
	for _, w := range m.widgets {
		w.Sync(m.store)
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.input.Width = max(10, width-10)
	m.help.Width = width
	for i, w := range m.widgets {
		_, h := m.paneSize(i)
		w.Nav().SetSize(max(1, h-3))
		w.Sync(m.store)
	}
}

// Active returns the index of the focused pane.
func (m Model) Active() int {
	return m.active
}

// Status returns the current status line text.
func (m Model) Status() string {
	return m.status
}
