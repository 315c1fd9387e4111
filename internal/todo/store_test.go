package todo

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"todotui/internal/todotxt"
)

const sampleTasks = `
x (A) 2023-05-21 2023-04-30 measure space for 1 +project1 @context1 #hashtag1 due:2023-06-30
2023-04-30 measure space for 2 +project2 @context2 due:2023-06-30
(C) 2023-04-30 measure space for 3 +project3 @context3 due:2023-06-30
measure space for 4 +project2 @context3 #hashtag1 due:2023-06-30
x measure space for 5 +project3 @context3 #hashtag2 due:2023-06-30
measure space for 6 +project3 @context2 #hashtag2 due:2023-06-30
`

const filterTasks = `
task 1
task 2 +project1
task 3 +project1 +project2
task 4 +project1 +project3
task 5 +project1 +project2 +project3
task 6 +project3 @context2 #hashtag2 #hashtag1
task 7 +project2 @context1 #hashtag1 #hashtag2
task 8 +project2 @context2
task 9 +project3 @context3
task 10 +project2 @context3 #hashtag1 #hashtag2
task 11 +project3 @context3 #hashtag2 #hashtag3
task 12 +project3 @context2 #hashtag2 #hashtag2
`

func newTestStore(t *testing.T, text string, includeDone bool) *Store {
	t.Helper()
	s, errs := Load(strings.Split(text, "\n"), includeDone)
	if len(errs) > 0 {
		t.Fatalf("Load() errors = %v", errs)
	}
	return s
}

func categoryNames(list CategoryList) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}

func subjects(list TaskList) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Task.Subject
	}
	return out
}

func TestLoadSplitsPendingAndDone(t *testing.T) {
	s := newTestStore(t, sampleTasks, true)
	if got := s.Len(Done); got != 2 {
		t.Fatalf("done len = %d, want 2", got)
	}
	if got := s.Len(Pending); got != 4 {
		t.Fatalf("pending len = %d, want 4", got)
	}
	first, err := s.Get(Pending, 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first.Finished || first.CreationDate.IsZero() || len(first.Hashtags) != 0 {
		t.Fatalf("unexpected first pending task %+v", first)
	}
}

func TestLoadReportsBadLines(t *testing.T) {
	s, errs := Load([]string{"ok task", "bad due:soon", "", "another"}, false)
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want 1", errs)
	}
	if !errors.Is(errs[0], todotxt.ErrInvalidDate) {
		t.Fatalf("error = %v", errs[0])
	}
	if s.Len(Pending) != 2 {
		t.Fatalf("pending len = %d, want 2", s.Len(Pending))
	}
}

func TestCategories(t *testing.T) {
	s := newTestStore(t, sampleTasks, false)
	cases := []struct {
		dim  Dimension
		want []string
	}{
		{Project, []string{"project2", "project3"}},
		{Context, []string{"context2", "context3"}},
		{Hashtag, []string{"hashtag1", "hashtag2"}},
	}
	for _, tc := range cases {
		if got := categoryNames(s.Categories(tc.dim)); !slices.Equal(got, tc.want) {
			t.Fatalf("%s categories = %v, want %v", tc.dim, got, tc.want)
		}
	}

	s.SetIncludeDone(true)
	if got := categoryNames(s.Categories(Project)); !slices.Equal(got, []string{"project1", "project2", "project3"}) {
		t.Fatalf("projects with done = %v", got)
	}
	if got := categoryNames(s.Categories(Context)); !slices.Equal(got, []string{"context1", "context2", "context3"}) {
		t.Fatalf("contexts with done = %v", got)
	}
}

func TestCategoriesSortedAndDeduplicated(t *testing.T) {
	s := New(false)
	for _, line := range []string{"one +b", "two +a", "three +b", "four +c"} {
		if err := s.NewTask(line); err != nil {
			t.Fatalf("NewTask() error = %v", err)
		}
	}
	s.ToggleFilter(Project, "b")
	want := CategoryList{{Name: "a"}, {Name: "b", Selected: true}, {Name: "c"}}
	if got := s.Categories(Project); !slices.Equal(got, want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	if name, ok := want.Name(1); !ok || name != "b" {
		t.Fatalf("Name(1) = %q, %v", name, ok)
	}
	if _, ok := want.Name(3); ok {
		t.Fatal("Name(3) should be out of range")
	}
}

func TestTasksWithTag(t *testing.T) {
	s := newTestStore(t, sampleTasks, false)
	cases := []struct {
		dim                Dimension
		name               string
		pending, withDone int
	}{
		{Project, "project1", 0, 1},
		{Project, "project2", 2, 2},
		{Project, "project3", 2, 3},
		{Context, "context1", 0, 1},
		{Context, "context2", 2, 2},
		{Context, "context3", 2, 3},
		{Hashtag, "hashtag1", 1, 2},
		{Hashtag, "hashtag2", 1, 2},
	}
	for _, tc := range cases {
		s.SetIncludeDone(false)
		if got := len(s.TasksWithTag(tc.dim, tc.name)); got != tc.pending {
			t.Fatalf("%s %s = %d, want %d", tc.dim, tc.name, got, tc.pending)
		}
		s.SetIncludeDone(true)
		if got := len(s.TasksWithTag(tc.dim, tc.name)); got != tc.withDone {
			t.Fatalf("%s %s with done = %d, want %d", tc.dim, tc.name, got, tc.withDone)
		}
	}
}

func TestFiltered(t *testing.T) {
	s := newTestStore(t, filterTasks, false)
	if got := s.Filtered(Pending).Len(); got != 12 {
		t.Fatalf("unfiltered len = %d, want 12", got)
	}

	s.ToggleFilter(Project, "project9999")
	if got := s.Filtered(Pending).Len(); got != 0 {
		t.Fatalf("unknown project len = %d, want 0", got)
	}
	s.ToggleFilter(Project, "project9999")

	s.ToggleFilter(Project, "project1")
	want := []string{
		"task 2 +project1",
		"task 3 +project1 +project2",
		"task 4 +project1 +project3",
		"task 5 +project1 +project2 +project3",
	}
	if got := subjects(s.Filtered(Pending)); !slices.Equal(got, want) {
		t.Fatalf("project1 = %v", got)
	}

	s.ToggleFilter(Project, "project2")
	want = []string{"task 3 +project1 +project2", "task 5 +project1 +project2 +project3"}
	if got := subjects(s.Filtered(Pending)); !slices.Equal(got, want) {
		t.Fatalf("project1+project2 = %v", got)
	}

	s.ToggleFilter(Project, "project3")
	filtered := s.Filtered(Pending)
	if got := subjects(filtered); !slices.Equal(got, []string{"task 5 +project1 +project2 +project3"}) {
		t.Fatalf("all projects = %v", got)
	}
	if filtered[0].Index != 4 {
		t.Fatalf("original index = %d, want 4", filtered[0].Index)
	}

	s.ClearFilters()
	s.ToggleFilter(Context, "context1")
	if got := subjects(s.Filtered(Pending)); !slices.Equal(got, []string{"task 7 +project2 @context1 #hashtag1 #hashtag2"}) {
		t.Fatalf("context1 = %v", got)
	}

	s.ClearFilters()
	s.ToggleFilter(Context, "context3")
	s.ToggleFilter(Hashtag, "hashtag2")
	got := s.Filtered(Pending)
	indices := make([]int, len(got))
	for i, e := range got {
		indices[i] = e.Index
	}
	if !slices.Equal(indices, []int{9, 10}) {
		t.Fatalf("context3+hashtag2 indices = %v, want [9 10]", indices)
	}
}

func TestFilteredMatchesSubsetRule(t *testing.T) {
	s := newTestStore(t, filterTasks, false)
	s.ToggleFilter(Project, "project2")
	s.ToggleFilter(Hashtag, "hashtag1")

	filtered := map[int]bool{}
	for _, e := range s.Filtered(Pending) {
		filtered[e.Index] = true
	}
	for _, e := range s.All(Pending) {
		want := true
		for _, d := range Dimensions() {
			for _, name := range s.Filters(d) {
				if !slices.Contains(d.Tags(e.Task), name) {
					want = false
				}
			}
		}
		if filtered[e.Index] != want {
			t.Fatalf("task %d (%s): filtered=%v, want %v", e.Index, e.Task.Subject, filtered[e.Index], want)
		}
	}
}

func TestToggleFilterTwiceRestores(t *testing.T) {
	s := newTestStore(t, filterTasks, false)
	s.ToggleFilter(Project, "project1")
	if !s.Filtering() {
		t.Fatal("expected an active filter")
	}
	s.ToggleFilter(Project, "project1")
	if s.Filtering() {
		t.Fatalf("filters = %v, want none", s.Filters(Project))
	}
	if got, want := subjects(s.Filtered(Pending)), subjects(s.All(Pending)); !slices.Equal(got, want) {
		t.Fatalf("Filtered() = %v, want %v", got, want)
	}
}

func TestNewTaskAtomic(t *testing.T) {
	s := New(false)
	err := s.NewTask("   ")
	if !errors.Is(err, todotxt.ErrEmptyTask) {
		t.Fatalf("NewTask() error = %v", err)
	}
	if s.Len(Pending) != 0 || s.Len(Done) != 0 {
		t.Fatal("store changed after parse error")
	}
	if err := s.NewTask("x finished already"); err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if s.Len(Done) != 1 {
		t.Fatalf("done len = %d, want 1", s.Len(Done))
	}
}

func TestMoveAndRemoveOutOfRange(t *testing.T) {
	s := New(false)
	for _, line := range []string{"a", "b", "c"} {
		if err := s.NewTask(line); err != nil {
			t.Fatalf("NewTask() error = %v", err)
		}
	}

	// move leaves both lists untouched
	err := s.MoveTask(Pending, Done, 5)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("MoveTask() error = %v, want ErrOutOfRange", err)
	}
	if s.Len(Pending) != 3 || s.Len(Done) != 0 {
		t.Fatalf("lengths = %d/%d, want 3/0", s.Len(Pending), s.Len(Done))
	}

	// remove fails loudly instead of doing nothing
	_, err = s.Remove(Pending, 5)
	var rerr *RangeError
	if !errors.As(err, &rerr) {
		t.Fatalf("Remove() error = %v, want *RangeError", err)
	}
	if rerr.Op != "remove" || rerr.Index != 5 || rerr.Len != 3 {
		t.Fatalf("RangeError = %+v", rerr)
	}

	if err := s.Swap(Pending, 0, 3); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Swap() error = %v", err)
	}
	if err := s.Finish(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Finish() error = %v", err)
	}
}

func TestMoveTaskPreservesOrder(t *testing.T) {
	s := New(false)
	for _, line := range []string{"a", "b", "c", "x d"} {
		if err := s.NewTask(line); err != nil {
			t.Fatalf("NewTask() error = %v", err)
		}
	}
	if err := s.MoveTask(Pending, Done, 1); err != nil {
		t.Fatalf("MoveTask() error = %v", err)
	}
	if got := s.Lines(Pending); !slices.Equal(got, []string{"a", "c"}) {
		t.Fatalf("pending = %v", got)
	}
	if got := s.Lines(Done); !slices.Equal(got, []string{"x d", "b"}) {
		t.Fatalf("done = %v", got)
	}
}

func TestRemoveAndSwap(t *testing.T) {
	s := New(false)
	for _, line := range []string{"a", "b", "c"} {
		if err := s.NewTask(line); err != nil {
			t.Fatalf("NewTask() error = %v", err)
		}
	}
	if err := s.Swap(Pending, 0, 2); err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if got := s.Lines(Pending); !slices.Equal(got, []string{"c", "b", "a"}) {
		t.Fatalf("after swap = %v", got)
	}
	removed, err := s.Remove(Pending, 1)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed.Subject != "b" {
		t.Fatalf("removed = %q", removed.Subject)
	}
	if got := s.Lines(Pending); !slices.Equal(got, []string{"c", "a"}) {
		t.Fatalf("after remove = %v", got)
	}
}

func TestFinishAndReopen(t *testing.T) {
	s := New(false)
	s.now = func() time.Time { return time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC) }
	if err := s.NewTask("2024-01-01 write report +work"); err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if err := s.Finish(0); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if got := s.Lines(Done); !slices.Equal(got, []string{"x 2024-02-03 2024-01-01 write report +work"}) {
		t.Fatalf("done = %v", got)
	}
	if err := s.Reopen(0); err != nil {
		t.Fatalf("Reopen() error = %v", err)
	}
	if got := s.Lines(Pending); !slices.Equal(got, []string{"2024-01-01 write report +work"}) {
		t.Fatalf("pending = %v", got)
	}
}

func TestReplace(t *testing.T) {
	s := New(false)
	for _, line := range []string{"a", "b"} {
		if err := s.NewTask(line); err != nil {
			t.Fatalf("NewTask() error = %v", err)
		}
	}
	if err := s.Replace(Pending, 0, "a +edited"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := s.Replace(Pending, 1, ""); !errors.Is(err, todotxt.ErrEmptyTask) {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := s.Replace(Pending, 1, "x b"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got := s.Lines(Pending); !slices.Equal(got, []string{"a +edited"}) {
		t.Fatalf("pending = %v", got)
	}
	if got := s.Lines(Done); !slices.Equal(got, []string{"x b"}) {
		t.Fatalf("done = %v", got)
	}
}

func TestParseDimension(t *testing.T) {
	for _, d := range Dimensions() {
		got, err := ParseDimension(d.String())
		if err != nil || got != d {
			t.Fatalf("ParseDimension(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDimension("color"); err == nil {
		t.Fatal("expected error for unknown dimension")
	}
}
