package styles

import "github.com/charmbracelet/lipgloss"

// Color palette. Dark mode optimized, semantic colors.
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, active cell
	Success = lipgloss.Color("#10B981") // emerald-500 - success, additions, editing
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings, unsaved
	Error   = lipgloss.Color("#EF4444") // red-500 - errors, deletions
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info, sheet names
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text, read-only cells

	// Text colors
	TextPrimary   = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextSecondary = lipgloss.Color("#9CA3AF") // gray-400 - descriptions
	TextTertiary  = lipgloss.Color("#6B7280") // gray-500 - timestamps

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - active row
	BgBorder    = lipgloss.Color("#374151") // gray-700 - borders
)

// Semantic color aliases
var (
	// Grid cells; ApplyTheme may replace these
	ColorActiveCell   lipgloss.TerminalColor = Accent
	ColorEditCell     lipgloss.TerminalColor = Success
	ColorReadOnlyCell lipgloss.TerminalColor = Muted
	ColorComputedCell                        = Info

	// Sheet status
	ColorDirty = Warning
	ColorSaved = Success
	ColorSheet = Info

	// Diff colors
	ColorDiffAdd     = Success // Added rows
	ColorDiffRemove  = Error   // Removed rows
	ColorDiffContext = Muted   // Context rows
	ColorDiffHunk    = Accent  // Hunk headers (violet)
)
