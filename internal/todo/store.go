// Package todo keeps the pending and done task lists in memory together with
// the per-dimension filters applied to them.
//
// A Store is not safe for concurrent use. One owner (the UI model or a CLI
// command) holds it and performs any query-then-mutate sequence without
// handing control elsewhere in between, because indices returned by a query
// are invalidated by the next mutation.
package todo

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"todotui/internal/todotxt"
)

type Store struct {
	pending     []todotxt.Task
	done        []todotxt.Task
	includeDone bool
	filters     map[Dimension]FilterSet
	now         func() time.Time
}

// Entry is a task seen through a view together with its index in the
// underlying list. Task points into the store and is valid until the next
// mutation.
type Entry struct {
	Index int
	Task  *todotxt.Task
}

type TaskList []Entry

func (l TaskList) Len() int {
	return len(l)
}

// New creates an empty store. includeDone makes categories and tag lookups
// scan the done list as well.
func New(includeDone bool) *Store {
	s := &Store{
		includeDone: includeDone,
		filters:     map[Dimension]FilterSet{},
		now:         time.Now,
	}
	for _, d := range Dimensions() {
		s.filters[d] = FilterSet{}
	}
	return s
}

// Load parses every non-blank line into a new store. Lines that fail to parse
// are returned as errors alongside the store built from the rest.
func Load(lines []string, includeDone bool) (*Store, []error) {
	s := New(includeDone)
	var errs []error
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		if err := s.NewTask(line); err != nil {
			errs = append(errs, err)
		}
	}
	return s, errs
}

func (s *Store) IncludeDone() bool {
	return s.includeDone
}

func (s *Store) SetIncludeDone(v bool) {
	s.includeDone = v
}

// Add appends the task to done when finished, to pending otherwise.
func (s *Store) Add(t todotxt.Task) {
	if t.Finished {
		s.done = append(s.done, t)
		return
	}
	s.pending = append(s.pending, t)
}

// NewTask parses text and adds the resulting task. The store is unchanged
// when parsing fails.
func (s *Store) NewTask(text string) error {
	t, err := todotxt.Parse(text)
	if err != nil {
		return err
	}
	s.Add(t)
	log.Debug("task added", "finished", t.Finished, "subject", t.Subject)
	return nil
}

func (s *Store) Len(l List) int {
	return len(*s.list(l))
}

// Get returns a pointer to the task at index.
func (s *Store) Get(l List, index int) (*todotxt.Task, error) {
	list := s.list(l)
	if err := checkIndex("get", l, index, len(*list)); err != nil {
		return nil, err
	}
	return &(*list)[index], nil
}

// Remove deletes the task at index and returns it.
func (s *Store) Remove(l List, index int) (todotxt.Task, error) {
	list := s.list(l)
	if err := checkIndex("remove", l, index, len(*list)); err != nil {
		return todotxt.Task{}, err
	}
	t := (*list)[index]
	*list = append((*list)[:index], (*list)[index+1:]...)
	log.Debug("task removed", "list", l, "index", index)
	return t, nil
}

// MoveTask relocates the task at index to the end of the other list,
// keeping the order of the remaining tasks.
func (s *Store) MoveTask(from, to List, index int) error {
	src := s.list(from)
	if err := checkIndex("move", from, index, len(*src)); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	t := (*src)[index]
	*src = append((*src)[:index], (*src)[index+1:]...)
	dst := s.list(to)
	*dst = append(*dst, t)
	log.Debug("task moved", "from", from, "to", to, "index", index)
	return nil
}

// Finish completes the pending task at index and moves it to done.
func (s *Store) Finish(index int) error {
	if err := checkIndex("finish", Pending, index, len(s.pending)); err != nil {
		return err
	}
	s.pending[index].Complete(s.now())
	return s.MoveTask(Pending, Done, index)
}

// Reopen clears the completion of the done task at index and moves it back
// to pending.
func (s *Store) Reopen(index int) error {
	if err := checkIndex("reopen", Done, index, len(s.done)); err != nil {
		return err
	}
	s.done[index].Reopen()
	return s.MoveTask(Done, Pending, index)
}

// Swap exchanges two tasks of the same list.
func (s *Store) Swap(l List, i, j int) error {
	list := s.list(l)
	if err := checkIndex("swap", l, i, len(*list)); err != nil {
		return err
	}
	if err := checkIndex("swap", l, j, len(*list)); err != nil {
		return err
	}
	(*list)[i], (*list)[j] = (*list)[j], (*list)[i]
	return nil
}

// Replace parses text and stores it in place of the task at index. A task
// whose finished state changed is moved to the end of the other list.
func (s *Store) Replace(l List, index int, text string) error {
	list := s.list(l)
	if err := checkIndex("replace", l, index, len(*list)); err != nil {
		return err
	}
	t, err := todotxt.Parse(text)
	if err != nil {
		return err
	}
	(*list)[index] = t
	if t.Finished != (l == Done) {
		return s.MoveTask(l, l.Other(), index)
	}
	return nil
}

// ToggleFilter flips membership of name in the dimension's filter set.
func (s *Store) ToggleFilter(d Dimension, name string) {
	active := s.filters[d].Toggle(name)
	log.Debug("filter toggled", "dimension", d, "name", name, "active", active)
}

// Filters returns the active filter names of a dimension.
func (s *Store) Filters(d Dimension) []string {
	return s.filters[d].Values()
}

// Filtering reports whether any filter is active.
func (s *Store) Filtering() bool {
	for _, f := range s.filters {
		if len(f) > 0 {
			return true
		}
	}
	return false
}

func (s *Store) ClearFilters() {
	for _, d := range Dimensions() {
		s.filters[d] = FilterSet{}
	}
}

// Categories collects the distinct tag values of a dimension, sorted, each
// marked when it is an active filter.
func (s *Store) Categories(d Dimension) CategoryList {
	seen := map[string]struct{}{}
	for _, list := range s.scanned() {
		for i := range list {
			for _, name := range d.Tags(&list[i]) {
				seen[name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	filter := s.filters[d]
	out := make(CategoryList, len(names))
	for i, name := range names {
		out[i] = Category{Name: name, Selected: filter.Contains(name)}
	}
	return out
}

// Filtered returns the tasks of l that carry every active filter value of
// every dimension. Order and original indices are preserved.
func (s *Store) Filtered(l List) TaskList {
	list := *s.list(l)
	out := make(TaskList, 0, len(list))
	for i := range list {
		if s.matches(&list[i]) {
			out = append(out, Entry{Index: i, Task: &list[i]})
		}
	}
	return out
}

// All returns every task of l in order.
func (s *Store) All(l List) TaskList {
	list := *s.list(l)
	out := make(TaskList, len(list))
	for i := range list {
		out[i] = Entry{Index: i, Task: &list[i]}
	}
	return out
}

// TasksWithTag returns the tasks whose dimension tags contain name.
func (s *Store) TasksWithTag(d Dimension, name string) []*todotxt.Task {
	var out []*todotxt.Task
	for _, list := range s.scanned() {
		for i := range list {
			for _, tag := range d.Tags(&list[i]) {
				if tag == name {
					out = append(out, &list[i])
					break
				}
			}
		}
	}
	return out
}

// Lines serializes a list back to todo.txt lines.
func (s *Store) Lines(l List) []string {
	list := *s.list(l)
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.String()
	}
	return out
}

func (s *Store) matches(t *todotxt.Task) bool {
	for _, d := range Dimensions() {
		if !s.filters[d].matches(d.Tags(t)) {
			return false
		}
	}
	return true
}

func (s *Store) scanned() [][]todotxt.Task {
	if s.includeDone {
		return [][]todotxt.Task{s.pending, s.done}
	}
	return [][]todotxt.Task{s.pending}
}

func (s *Store) list(l List) *[]todotxt.Task {
	switch l {
	case Pending:
		return &s.pending
	case Done:
		return &s.done
	}
	panic(fmt.Sprintf("todo: unknown list %d", int(l)))
}

func checkIndex(op string, l List, index, n int) error {
	if index < 0 || index >= n {
		return &RangeError{Op: op, List: l, Index: index, Len: n}
	}
	return nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' && r != '\n' {
			return false
		}
	}
	return true
}
