package styles

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "●"
	SymbolDirty   = "●"
	SymbolArrow   = "→"
)

var forceNoColor bool

// SetNoColor disables colors regardless of the environment (--no-color)
func SetNoColor(v bool) {
	forceNoColor = v
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("IVY_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("IVY_ACCESSIBLE") == "1" || os.Getenv("IVY_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Dim       = lipgloss.NewStyle().Foreground(Muted)
	Underline = lipgloss.NewStyle().Underline(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Sheet listing
	SheetStyle = lipgloss.NewStyle().Foreground(ColorSheet).Bold(true)
	DateStyle  = lipgloss.NewStyle().Foreground(Muted)
	HashStyle  = lipgloss.NewStyle().Foreground(Info)

	// Diff display
	DiffAddLine     = lipgloss.NewStyle().Foreground(ColorDiffAdd)
	DiffRemoveLine  = lipgloss.NewStyle().Foreground(ColorDiffRemove)
	DiffContextLine = lipgloss.NewStyle().Foreground(ColorDiffContext)
	DiffHunkHeader  = lipgloss.NewStyle().Foreground(ColorDiffHunk)
	DiffFileHeader  = lipgloss.NewStyle().Bold(true)

	// Grid editor
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	CellStyle     = lipgloss.NewStyle().Foreground(TextPrimary)
	ActiveRow     = lipgloss.NewStyle().Background(BgHighlight).Foreground(TextPrimary)
	ActiveCell    = lipgloss.NewStyle().Background(ColorActiveCell).Foreground(TextPrimary).Bold(true)
	EditCell      = lipgloss.NewStyle().Background(ColorEditCell).Foreground(TextPrimary)
	ReadOnlyCell  = lipgloss.NewStyle().Foreground(ColorReadOnlyCell)
	ComputedCell  = lipgloss.NewStyle().Foreground(ColorComputedCell)
	DirtyStyle    = lipgloss.NewStyle().Foreground(ColorDirty)
	SavedStyle    = lipgloss.NewStyle().Foreground(ColorSaved)
	StatusBar     = lipgloss.NewStyle().Foreground(TextSecondary)
	SelectedStyle = lipgloss.NewStyle().
			Background(BgHighlight).
			Foreground(TextPrimary)

	// Help bar
	HelpKey   = lipgloss.NewStyle().Foreground(Accent)
	HelpValue = lipgloss.NewStyle().Foreground(Muted)
)

// ApplyTheme replaces the grid cell colors. Empty values keep the current
// color.
func ApplyTheme(active, edit, readOnly string) {
	if active != "" {
		ColorActiveCell = lipgloss.Color(active)
		ActiveCell = ActiveCell.Background(ColorActiveCell)
	}
	if edit != "" {
		ColorEditCell = lipgloss.Color(edit)
		EditCell = EditCell.Background(ColorEditCell)
	}
	if readOnly != "" {
		ColorReadOnlyCell = lipgloss.Color(readOnly)
		ReadOnlyCell = ReadOnlyCell.Foreground(ColorReadOnlyCell)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// render applies a style if colors are enabled
func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// Sheet formats a sheet name
func Sheet(name string) string {
	return render(SheetStyle, name)
}

// Hash formats a content hash (always lowercase, optionally short)
func Hash(hash string, short bool) string {
	hash = strings.ToLower(hash)
	if short && len(hash) > 7 {
		hash = hash[:7]
	}
	return render(HashStyle, hash)
}

// Date formats a date/timestamp
func Date(date string) string {
	return render(DateStyle, date)
}

// Path formats a file path
func Path(path string) string {
	return path // Paths are primary text, no special color
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", render(WarningStyle, symbol), msg)
}

// InfoMsg formats an info message
func InfoMsg(msg string) string {
	return render(InfoStyle, msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return render(MutedStyle, msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Section formatters - consistent output structure
// ═══════════════════════════════════════════════════════════════════════════

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return render(Bold, title)
}

// HelpLine formats a help line (key description)
func HelpLine(key, description string) string {
	return fmt.Sprintf("  %s %s", render(HelpKey, key), render(MutedStyle, description))
}

// Indent returns text indented by n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// ═══════════════════════════════════════════════════════════════════════════
// Color functions - simple string coloring
// ═══════════════════════════════════════════════════════════════════════════

func Green(s string) string       { return render(SuccessStyle, s) }
func Red(s string) string         { return render(ErrorStyle, s) }
func Cyan(s string) string        { return render(InfoStyle, s) }
func Mute(s string) string        { return render(MutedStyle, s) }
func SuccessText(s string) string { return render(SuccessStyle, s) }
func WarningText(s string) string { return render(WarningStyle, s) }
func ErrorText(s string) string   { return render(ErrorStyle, s) }

func Boldf(format string, a ...any) string  { return render(Bold, fmt.Sprintf(format, a...)) }
func Errorf(format string, a ...any) string { return ErrorText(fmt.Sprintf(format, a...)) }
