package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"todotui/internal/config"
)

// Action is an abstract input event produced from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionSave
	ActionAdd
	ActionEdit
	ActionListUp
	ActionListDown
	ActionListFirst
	ActionListLast
	ActionSwapUp
	ActionSwapDown
	ActionRemove
	ActionFinish
	ActionToggleFilter
	ActionClearFilters
	ActionNextWidget
	ActionPrevWidget
	ActionYank
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionQuit:
		return "quit"
	case ActionSave:
		return "save"
	case ActionAdd:
		return "add"
	case ActionEdit:
		return "edit"
	case ActionListUp:
		return "list_up"
	case ActionListDown:
		return "list_down"
	case ActionListFirst:
		return "list_first"
	case ActionListLast:
		return "list_last"
	case ActionSwapUp:
		return "swap_up"
	case ActionSwapDown:
		return "swap_down"
	case ActionRemove:
		return "remove"
	case ActionFinish:
		return "finish"
	case ActionToggleFilter:
		return "toggle_filter"
	case ActionClearFilters:
		return "clear_filters"
	case ActionNextWidget:
		return "next_widget"
	case ActionPrevWidget:
		return "prev_widget"
	case ActionYank:
		return "yank"
	}
	return "unknown"
}

type binding struct {
	key    key.Binding
	action Action
}

// Keymap maps key presses to actions. The first matching binding wins.
type Keymap struct {
	bindings []binding
	confirm  key.Binding
	cancel   key.Binding
}

// NewKeymap builds the list-mode bindings from configured keys. Arrow keys,
// home/end and ctrl+c always work in addition.
func NewKeymap(k config.Keymap) Keymap {
	b := func(a Action, help string, keys ...string) binding {
		return binding{
			key:    key.NewBinding(key.WithKeys(nonEmpty(keys)...), key.WithHelp(helpKey(keys), help)),
			action: a,
		}
	}
	return Keymap{
		bindings: []binding{
			b(ActionQuit, "quit", k.Quit, "ctrl+c"),
			b(ActionSave, "save", k.Save),
			b(ActionAdd, "add", k.Add),
			b(ActionEdit, "edit", k.Edit),
			b(ActionListDown, "down", k.Down, "down"),
			b(ActionListUp, "up", k.Up, "up"),
			b(ActionListFirst, "first", k.First, "home"),
			b(ActionListLast, "last", k.Last, "end"),
			b(ActionSwapUp, "move up", k.SwapUp),
			b(ActionSwapDown, "move down", k.SwapDown),
			b(ActionRemove, "remove", k.Remove),
			b(ActionFinish, "finish/reopen", k.Finish),
			b(ActionToggleFilter, "toggle filter", k.ToggleFilter),
			b(ActionClearFilters, "clear filters", k.ClearFilters),
			b(ActionNextWidget, "next pane", k.NextWidget),
			b(ActionPrevWidget, "prev pane", k.PrevWidget),
			b(ActionYank, "yank", k.Yank),
		},
		confirm: key.NewBinding(key.WithKeys(nonEmpty([]string{k.Confirm, "enter"})...), key.WithHelp(k.Confirm, "confirm")),
		cancel:  key.NewBinding(key.WithKeys(nonEmpty([]string{k.Cancel, "esc"})...), key.WithHelp(k.Cancel, "cancel")),
	}
}

// Lookup returns the action bound to msg.
func (k Keymap) Lookup(msg tea.KeyMsg) Action {
	for _, b := range k.bindings {
		if key.Matches(msg, b.key) {
			return b.action
		}
	}
	return ActionNone
}

func (k Keymap) binding(a Action) key.Binding {
	for _, b := range k.bindings {
		if b.action == a {
			return b.key
		}
	}
	return key.Binding{}
}

// ShortHelp implements help.KeyMap.
func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.binding(ActionListDown),
		k.binding(ActionListUp),
		k.binding(ActionAdd),
		k.binding(ActionFinish),
		k.binding(ActionRemove),
		k.binding(ActionToggleFilter),
		k.binding(ActionNextWidget),
		k.binding(ActionSave),
		k.binding(ActionQuit),
	}
}

// FullHelp implements help.KeyMap.
func (k Keymap) FullHelp() [][]key.Binding {
	var all []key.Binding
	for _, b := range k.bindings {
		all = append(all, b.key)
	}
	return [][]key.Binding{all}
}

func nonEmpty(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

func helpKey(keys []string) string {
	for _, k := range keys {
		if k != "" {
			return k
		}
	}
	return ""
}
