package styles

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Nord color palette
const (
	Background  = "#2e3440"
	CurrentLine = "#3b4252"
	Foreground  = "#eceff4"
	Comment     = "#616e88"
	Cyan        = "#88c0d0"
	Green       = "#a3be8c"
	Orange      = "#d08770"
	Pink        = "#b48ead"
	Blue        = "#81a1c1"
	Red         = "#bf616a"
	Yellow      = "#ebcb8b"
)

var (
	// App-level styles
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Background(lipgloss.Color(Background)).
			Foreground(lipgloss.Color(Foreground))

	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Blue)).
			Background(lipgloss.Color(Background)).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan)).
			Background(lipgloss.Color(Background))

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 1)

	StatusBarActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Green)).
				Background(lipgloss.Color(CurrentLine)).
				Bold(true).
				Padding(0, 1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 1)

	InputFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Background(lipgloss.Color(CurrentLine)).
				Bold(true).
				Padding(0, 1)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Blue)).
				Bold(true)

	// List styles
	ListItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			PaddingLeft(2)

	ListItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Pink)).
				Background(lipgloss.Color(CurrentLine)).
				Bold(true).
				PaddingLeft(1).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color(Blue))

	ListItemTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Cyan)).
				Bold(true)

	ListItemDescStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Comment))

	// Button styles
	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground)).
			Background(lipgloss.Color(CurrentLine)).
			Padding(0, 2).
			MarginRight(2)

	ButtonActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Blue)).
				Bold(true).
				Padding(0, 2).
				MarginRight(2)

	// Card/Box styles
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Blue)).
			Padding(1, 2).
			MarginBottom(1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Pink)).
			Bold(true)

	CardContentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Foreground))

	// Info/Alert styles
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan)).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Green)).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Yellow)).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Red)).
			Bold(true)

	// Help/Hints styles
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			Italic(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Blue)).
			Bold(true)

	// Badge styles
	BadgePrimaryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Blue)).
				Bold(true).
				Padding(0, 1)

	BadgeSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Green)).
				Bold(true).
				Padding(0, 1)

	BadgeDangerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Red)).
				Bold(true).
				Padding(0, 1)

	BadgeWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Background)).
				Background(lipgloss.Color(Yellow)).
				Bold(true).
				Padding(0, 1)

	// Highlight styles
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Yellow)).
			Bold(true)

	// Divider/Border styles
	DividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(CurrentLine))

	// Spinner styles
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Blue))

	// Metadata styles
	MetaKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Blue)).
			Bold(true)

	MetaValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Cyan))

	// Tab styles
	TabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Comment)).
			Padding(0, 2)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Pink)).
			Background(lipgloss.Color(CurrentLine)).
			Bold(true).
			Padding(0, 2)
)

// Helper functions for common operations

// Truncate truncates text to maxLen and adds "..." if needed
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

// RenderDivider renders a horizontal divider
func RenderDivider(width int) string {
	divider := ""
	for i := 0; i < width; i++ {
		divider += "─"
	}
	return DividerStyle.Render(divider)
}

// RenderKeyValue renders a key-value pair with styling
func RenderKeyValue(key, value string) string {
	return MetaKeyStyle.Render(key+":") + " " + MetaValueStyle.Render(value)
}

// RelativeTime renders a feed-friendly age like "3m" or "2d"
func RelativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// ReactionIcon maps a reaction kind name to its glyph
func ReactionIcon(kind string) string {
	switch kind {
	case "like":
		return "👍"
	case "love":
		return "❤"
	case "laugh":
		return "😂"
	case "wow":
		return "😮"
	case "sad":
		return "😢"
	case "angry":
		return "😠"
	default:
		return "·"
	}
}
