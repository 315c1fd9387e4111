package todotxt

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the todo.txt date format.
const DateLayout = "2006-01-02"

var (
	ErrEmptyTask   = errors.New("empty task")
	ErrInvalidDate = errors.New("invalid date")
)

// ParseError reports a line that could not be read as a task.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse task %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Task is a single todo.txt line split into its parts. Subject keeps the
// free text including the +project, @context, #hashtag and key:value tokens;
// the slices below are projections of it.
type Task struct {
	Subject        string
	Priority       byte
	Finished       bool
	CompletionDate time.Time
	CreationDate   time.Time
	Projects       []string
	Contexts       []string
	Hashtags       []string
	Tags           map[string]string
}

// Parse reads one todo.txt line.
func Parse(line string) (Task, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Task{}, &ParseError{Line: line, Err: ErrEmptyTask}
	}

	var t Task
	i := 0
	if fields[i] == "x" {
		t.Finished = true
		i++
	}
	if i < len(fields) {
		if p, ok := priorityToken(fields[i]); ok {
			t.Priority = p
			i++
		}
	}

	var dates []time.Time
	for i < len(fields) && len(dates) < 2 && looksLikeDate(fields[i]) {
		d, err := time.Parse(DateLayout, fields[i])
		if err != nil {
			return Task{}, &ParseError{Line: line, Err: fmt.Errorf("%w: %s", ErrInvalidDate, fields[i])}
		}
		dates = append(dates, d)
		i++
		if !t.Finished {
			break
		}
	}
	switch {
	case t.Finished && len(dates) == 2:
		t.CompletionDate, t.CreationDate = dates[0], dates[1]
	case t.Finished && len(dates) == 1:
		t.CompletionDate = dates[0]
	case len(dates) == 1:
		t.CreationDate = dates[0]
	}

	rest := fields[i:]
	if len(rest) == 0 {
		return Task{}, &ParseError{Line: line, Err: ErrEmptyTask}
	}
	t.Subject = strings.Join(rest, " ")

	for _, word := range rest {
		switch {
		case len(word) > 1 && word[0] == '+':
			t.Projects = appendUnique(t.Projects, word[1:])
		case len(word) > 1 && word[0] == '@':
			t.Contexts = appendUnique(t.Contexts, word[1:])
		case len(word) > 1 && word[0] == '#':
			t.Hashtags = appendUnique(t.Hashtags, word[1:])
		default:
			key, value, ok := keyValue(word)
			if !ok {
				continue
			}
			if key == "due" || key == "t" {
				if _, err := time.Parse(DateLayout, value); err != nil {
					return Task{}, &ParseError{Line: line, Err: fmt.Errorf("%w: %s:%s", ErrInvalidDate, key, value)}
				}
			}
			if t.Tags == nil {
				t.Tags = map[string]string{}
			}
			t.Tags[key] = value
		}
	}
	return t, nil
}

// String serializes the task back into one todo.txt line.
func (t Task) String() string {
	parts := make([]string, 0, 5)
	if t.Finished {
		parts = append(parts, "x")
	}
	if t.Priority != 0 {
		parts = append(parts, "("+string(t.Priority)+")")
	}
	if t.Finished && !t.CompletionDate.IsZero() {
		parts = append(parts, t.CompletionDate.Format(DateLayout))
	}
	if !t.CreationDate.IsZero() {
		parts = append(parts, t.CreationDate.Format(DateLayout))
	}
	parts = append(parts, t.Subject)
	return strings.Join(parts, " ")
}

// Complete marks the task finished on the given day.
func (t *Task) Complete(now time.Time) {
	t.Finished = true
	y, m, d := now.Date()
	t.CompletionDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Reopen clears the completion marker.
func (t *Task) Reopen() {
	t.Finished = false
	t.CompletionDate = time.Time{}
}

// Due returns the due:YYYY-MM-DD tag when present.
func (t Task) Due() (time.Time, bool) {
	return t.dateTag("due")
}

// Threshold returns the t:YYYY-MM-DD tag when present.
func (t Task) Threshold() (time.Time, bool) {
	return t.dateTag("t")
}

func (t Task) dateTag(key string) (time.Time, bool) {
	v, ok := t.Tags[key]
	if !ok {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func priorityToken(s string) (byte, bool) {
	if len(s) == 3 && s[0] == '(' && s[2] == ')' && s[1] >= 'A' && s[1] <= 'Z' {
		return s[1], true
	}
	return 0, false
}

func looksLikeDate(s string) bool {
	if len(s) != len(DateLayout) || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// keyValue splits key:value tokens, skipping URLs such as https://...
func keyValue(word string) (string, string, bool) {
	key, value, ok := strings.Cut(word, ":")
	if !ok || key == "" || value == "" || strings.HasPrefix(value, "//") || strings.Contains(value, ":") {
		return "", "", false
	}
	return key, value, true
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
