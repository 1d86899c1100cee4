package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	Cursor      lipgloss.Color
}

// palette is the per-mode input a Theme is derived from
type palette struct {
	primary, secondary, background, foreground, dim, border, selection string
}

func (p palette) theme(name string) Theme {
	return Theme{
		Name: name,

		Background:    lipgloss.Color(p.background),
		Foreground:    lipgloss.Color(p.foreground),
		ForegroundDim: lipgloss.Color(p.dim),

		Primary:   lipgloss.Color(p.primary),
		Secondary: lipgloss.Color(p.secondary),
		Accent:    lipgloss.Color(p.secondary),

		Success: lipgloss.Color("#43a047"),
		Warning: lipgloss.Color("#fb8c00"),
		Error:   lipgloss.Color("#e53935"),
		Info:    lipgloss.Color(p.primary),

		Border:      lipgloss.Color(p.border),
		BorderFocus: lipgloss.Color(p.primary),
		Selection:   lipgloss.Color(p.selection),
		Cursor:      lipgloss.Color(p.foreground),
	}
}

// palettes maps variant then mode to colors
var palettes = map[string]map[string]palette{
	"ocean": {
		"light": {"#0288d1", "#26c6da", "#e3f2fd", "#0d2b45", "#5c7c99", "#90caf9", "#bbdefb"},
		"dark":  {"#29b6f6", "#4dd0e1", "#0d47a1", "#e3f2fd", "#90a4ae", "#1565c0", "#1976d2"},
	},
	"forest": {
		"light": {"#2e7d32", "#8bc34a", "#f1f8e9", "#1b3a1d", "#6b8e6b", "#a5d6a7", "#c8e6c9"},
		"dark":  {"#66bb6a", "#aed581", "#1b5e20", "#f1f8e9", "#a5b8a5", "#2e7d32", "#388e3c"},
	},
	"sunset": {
		"light": {"#f57c00", "#ff7043", "#fff3e0", "#4e2600", "#a1887f", "#ffcc80", "#ffe0b2"},
		"dark":  {"#ffb74d", "#ff8a65", "#e65100", "#fff3e0", "#ffccbc", "#ef6c00", "#f57c00"},
	},
	"lavender": {
		"light": {"#7b1fa2", "#ec407a", "#f3e5f5", "#38006b", "#9575cd", "#ce93d8", "#e1bee7"},
		"dark":  {"#ba68c8", "#f48fb1", "#4a148c", "#f3e5f5", "#b39ddb", "#6a1b9a", "#7b1fa2"},
	},
	"blackwhite": {
		"light": {"#000000", "#424242", "#ffffff", "#000000", "#757575", "#bdbdbd", "#e0e0e0"},
		"dark":  {"#ffffff", "#bdbdbd", "#000000", "#ffffff", "#9e9e9e", "#424242", "#212121"},
	},
}

// Lookup returns the theme for a variant and mode
func Lookup(variant, mode string) (Theme, bool) {
	modes, ok := palettes[variant]
	if !ok {
		return Theme{}, false
	}
	p, ok := modes[mode]
	if !ok {
		return Theme{}, false
	}
	return p.theme(variant + " " + mode), true
}

// Apply makes the given variant and mode current. Unknown names leave the
// current theme in place.
func Apply(variant, mode string) bool {
	t, ok := Lookup(variant, mode)
	if ok {
		Current = t
	}
	return ok
}

// Current holds the active theme
var Current, _ = Lookup("ocean", "dark")

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 120

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// App container
	App lipgloss.Style

	// Title bar
	TitleBar   lipgloss.Style
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	List         lipgloss.Style
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Filter bar
	FilterBar    lipgloss.Style
	FilterInput  lipgloss.Style
	FilterButton lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Note list markers
	Tag    lipgloss.Style
	Pinned lipgloss.Style
	Locked lipgloss.Style
	Marked lipgloss.Style

	// Task item
	TaskItem     lipgloss.Style
	TaskTitle    lipgloss.Style
	TaskPriority lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		App: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		TitleBar: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Background).
			Padding(0, 1).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		List: lipgloss.NewStyle().
			Padding(1, 2),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		FilterBar: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		FilterInput: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		FilterButton: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Tag: lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(1),

		Pinned: lipgloss.NewStyle().
			Foreground(t.Accent),

		Locked: lipgloss.NewStyle().
			Foreground(t.Warning),

		Marked: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		TaskItem: lipgloss.NewStyle().
			Padding(0, 1),

		TaskTitle: lipgloss.NewStyle().
			Foreground(t.Foreground),

		TaskPriority: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		StatusError: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),
	}
}
