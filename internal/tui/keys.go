package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level key bindings. List movement lives in
// components.ListKeyMap.
type KeyMap struct {
	// Focus
	NextPane key.Binding
	Enter    key.Binding
	Back     key.Binding

	// Filters
	Search       key.Binding
	Branch       key.Binding
	Year         key.Binding
	Liver        key.Binding
	Group        key.Binding
	Status       key.Binding
	ClearFilters key.Binding

	// Actions
	TogglePurchased key.Binding
	EditTags        key.Binding
	EditLink        key.Binding
	Play            key.Binding
	ToggleInspector key.Binding
	Reload          key.Binding
	Help            key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "products"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "h", "left"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Branch: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "branch"),
		),
		Year: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "year"),
		),
		Liver: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "liver"),
		),
		Group: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "group"),
		),
		Status: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "owned"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		TogglePurchased: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "toggle purchased"),
		),
		EditTags: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit tags"),
		),
		EditLink: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "link file"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle details"),
		),
		Play: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "play linked file"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload catalog"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HelpBindings returns the bindings listed on the help screen, in order
func (k KeyMap) HelpBindings() []key.Binding {
	return []key.Binding{
		k.Search, k.Branch, k.Year, k.Liver, k.Group, k.Status, k.ClearFilters,
		k.NextPane, k.Enter, k.Back,
		k.TogglePurchased, k.EditTags, k.EditLink, k.Play, k.ToggleInspector, k.Reload, k.Help, k.Quit,
	}
}
