package ui

import (
	"fmt"

	"todotui/internal/nav"
	"todotui/internal/todo"
	"todotui/internal/todotxt"
)

// outcome is what a widget reports back to the model after an action.
type outcome struct {
	handled       bool
	filterChanged bool
	status        string
	err           error
	removed       *removedTask
	yank          string
	edit          *editTarget
}

type removedTask struct {
	list todo.List
	line string
}

type editTarget struct {
	list  todo.List
	index int
	line  string
}

// widget is one focusable pane. The store is handed in on every call; no
// widget keeps a reference to it.
type widget interface {
	Title() string
	Nav() *nav.Navigator
	Sync(s *todo.Store)
	Handle(a Action, s *todo.Store) outcome
	Rows(s *todo.Store) []string
}

func handleMove(n *nav.Navigator, a Action) bool {
	switch a {
	case ActionListDown:
		n.Down()
	case ActionListUp:
		n.Up()
	case ActionListFirst:
		n.First()
	case ActionListLast:
		n.Last()
	default:
		return false
	}
	return true
}

// taskList shows the filtered pending or done list.
type taskList struct {
	kind todo.List
	nav  *nav.Navigator
}

func newTaskList(kind todo.List, shift int) *taskList {
	return &taskList{kind: kind, nav: nav.New(shift)}
}

func (w *taskList) Title() string {
	if w.kind == todo.Done {
		return "Done"
	}
	return "List"
}

func (w *taskList) Nav() *nav.Navigator { return w.nav }

func (w *taskList) Sync(s *todo.Store) {
	w.nav.SetLen(s.Filtered(w.kind).Len())
	w.nav.Fit()
}

// selected returns the entry under the cursor of the current view.
func (w *taskList) selected(view todo.TaskList) (todo.Entry, bool) {
	i := w.nav.Index()
	if i < 0 || i >= len(view) {
		return todo.Entry{}, false
	}
	return view[i], true
}

func (w *taskList) Handle(a Action, s *todo.Store) outcome {
	view := s.Filtered(w.kind)
	w.nav.SetLen(len(view))
	if handleMove(w.nav, a) {
		return outcome{handled: true}
	}

	switch a {
	case ActionSwapUp, ActionSwapDown:
		var old, cur int
		var ok bool
		if a == ActionSwapUp {
			old, cur, ok = w.nav.Prev()
		} else {
			old, cur, ok = w.nav.Next()
		}
		if !ok {
			return outcome{handled: true}
		}
		if err := s.Swap(w.kind, view[old].Index, view[cur].Index); err != nil {
			return outcome{handled: true, err: err}
		}
		return outcome{handled: true}
	case ActionRemove:
		entry, ok := w.selected(view)
		if !ok {
			return outcome{handled: true, status: "Nothing to remove"}
		}
		t, err := s.Remove(w.kind, entry.Index)
		if err != nil {
			return outcome{handled: true, err: err}
		}
		w.Sync(s)
		return outcome{
			handled: true,
			status:  fmt.Sprintf("Removed %q", t.Subject),
			removed: &removedTask{list: w.kind, line: t.String()},
		}
	case ActionFinish:
		entry, ok := w.selected(view)
		if !ok {
			return outcome{handled: true}
		}
		var err error
		status := "Finished task"
		if w.kind == todo.Pending {
			err = s.Finish(entry.Index)
		} else {
			err = s.Reopen(entry.Index)
			status = "Reopened task"
		}
		if err != nil {
			return outcome{handled: true, err: err}
		}
		w.Sync(s)
		return outcome{handled: true, status: status}
	case ActionYank:
		entry, ok := w.selected(view)
		if !ok {
			return outcome{handled: true}
		}
		return outcome{handled: true, yank: entry.Task.String()}
	case ActionEdit:
		entry, ok := w.selected(view)
		if !ok {
			return outcome{handled: true, status: "Nothing to edit"}
		}
		return outcome{handled: true, edit: &editTarget{list: w.kind, index: entry.Index, line: entry.Task.String()}}
	}
	return outcome{}
}

func (w *taskList) Rows(s *todo.Store) []string {
	view := s.Filtered(w.kind)
	start, end := w.nav.Range()
	end = min(end, len(view))
	rows := make([]string, 0, max(0, end-start))
	for i := start; i < end; i++ {
		rows = append(rows, view[i].Task.String())
	}
	return rows
}

// categoryList shows the distinct tags of one dimension; toggling a row
// flips it as a filter.
type categoryList struct {
	dim todo.Dimension
	nav *nav.Navigator
}

func newCategoryList(dim todo.Dimension, shift int) *categoryList {
	return &categoryList{dim: dim, nav: nav.New(shift)}
}

func (w *categoryList) Title() string {
	switch w.dim {
	case todo.Project:
		return "Projects"
	case todo.Context:
		return "Contexts"
	case todo.Hashtag:
		return "Hashtags"
	}
	return w.dim.String()
}

func (w *categoryList) Nav() *nav.Navigator { return w.nav }

func (w *categoryList) Sync(s *todo.Store) {
	w.nav.SetLen(s.Categories(w.dim).Len())
	w.nav.Fit()
}

// current returns the category name under the cursor.
func (w *categoryList) current(s *todo.Store) (string, bool) {
	return s.Categories(w.dim).Name(w.nav.Index())
}

func (w *categoryList) Handle(a Action, s *todo.Store) outcome {
	cats := s.Categories(w.dim)
	w.nav.SetLen(cats.Len())
	if handleMove(w.nav, a) {
		return outcome{handled: true}
	}
	if a != ActionToggleFilter {
		return outcome{}
	}
	name, ok := cats.Name(w.nav.Index())
	if !ok {
		return outcome{handled: true}
	}
	s.ToggleFilter(w.dim, name)
	return outcome{handled: true, filterChanged: true, status: fmt.Sprintf("Filter %s %s", w.dim, name)}
}

func (w *categoryList) Rows(s *todo.Store) []string {
	cats := s.Categories(w.dim)
	start, end := w.nav.Range()
	end = min(end, len(cats))
	rows := make([]string, 0, max(0, end-start))
	for i := start; i < end; i++ {
		mark := "  "
		if cats[i].Selected {
			mark = "● "
		}
		rows = append(rows, mark+cats[i].Name)
	}
	return rows
}

// preview lists every task carrying the category under the cursor.
func (w *categoryList) preview(s *todo.Store) (string, []*todotxt.Task) {
	name, ok := w.current(s)
	if !ok {
		return "", nil
	}
	return name, s.TasksWithTag(w.dim, name)
}
