package todo

import (
	"fmt"
	"strings"

	"todotui/internal/todotxt"
)

// Dimension names one tag category a task can be filtered by.
type Dimension int

const (
	Project Dimension = iota
	Context
	Hashtag
)

// Dimensions lists every dimension in display order.
func Dimensions() []Dimension {
	return []Dimension{Project, Context, Hashtag}
}

func (d Dimension) String() string {
	switch d {
	case Project:
		return "project"
	case Context:
		return "context"
	case Hashtag:
		return "hashtag"
	}
	panic(fmt.Sprintf("todo: unknown dimension %d", int(d)))
}

// Tags returns the task's tag values for the dimension.
func (d Dimension) Tags(t *todotxt.Task) []string {
	switch d {
	case Project:
		return t.Projects
	case Context:
		return t.Contexts
	case Hashtag:
		return t.Hashtags
	}
	panic(fmt.Sprintf("todo: unknown dimension %d", int(d)))
}

// ParseDimension accepts the names printed by String.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "project", "projects":
		return Project, nil
	case "context", "contexts":
		return Context, nil
	case "hashtag", "hashtags":
		return Hashtag, nil
	}
	return 0, fmt.Errorf("unknown dimension %q", s)
}

// List selects one of the two task sequences of a Store.
type List int

const (
	Pending List = iota
	Done
)

func (l List) String() string {
	switch l {
	case Pending:
		return "pending"
	case Done:
		return "done"
	}
	panic(fmt.Sprintf("todo: unknown list %d", int(l)))
}

// Other returns the opposite list.
func (l List) Other() List {
	if l == Pending {
		return Done
	}
	return Pending
}
