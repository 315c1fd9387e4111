package todo

import (
	"slices"
	"sort"
)

// FilterSet holds the active filter names of one dimension.
type FilterSet map[string]struct{}

// Toggle adds name when absent and removes it when present. It reports
// whether name is active afterwards.
func (f FilterSet) Toggle(name string) bool {
	if _, ok := f[name]; ok {
		delete(f, name)
		return false
	}
	f[name] = struct{}{}
	return true
}

func (f FilterSet) Contains(name string) bool {
	_, ok := f[name]
	return ok
}

// Values returns the active names sorted.
func (f FilterSet) Values() []string {
	out := make([]string, 0, len(f))
	for name := range f {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// matches reports whether tags holds every value of the set.
func (f FilterSet) matches(tags []string) bool {
	for name := range f {
		if !slices.Contains(tags, name) {
			return false
		}
	}
	return true
}

// Category is one distinct tag value and whether it is an active filter.
type Category struct {
	Name     string
	Selected bool
}

// CategoryList is sorted by name with no duplicates.
type CategoryList []Category

func (c CategoryList) Len() int {
	return len(c)
}

// Name returns the category name at i.
func (c CategoryList) Name(i int) (string, bool) {
	if i < 0 || i >= len(c) {
		return "", false
	}
	return c[i].Name, true
}
