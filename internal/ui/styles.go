package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green  — success, low scores
	ColorWarning   = lipgloss.Color("#FFB800") // yellow — warnings, skipped entries
	ColorError     = lipgloss.Color("#FF4444") // red    — fatal errors
	ColorHash      = lipgloss.Color("#00B4D8") // cyan   — hashes, URLs
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold — scores
	ColorMeta      = lipgloss.Color("#555555") // dim gray  — metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue — UI chrome
	ColorModel     = lipgloss.Color("#9B5DE5") // purple    — model names, titles
	ColorHighlight = lipgloss.Color("#F15BB5") // pink      — headers, cursor
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleHash    = lipgloss.NewStyle().Foreground(ColorHash)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleModel   = lipgloss.NewStyle().Foreground(ColorModel).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorModel).
			Bold(true).
			MarginBottom(1)
)

// Banner returns the dappai banner.
func Banner(version string) string {
	art := `
   ┳┓┏┓┏┓┏┓┏┓┳
   ┃┃┣┫┃┃┃┃┣┫┃
   ┻┛┛┗┣┛┣┛┛┗┻`

	tagline := StyleMeta.Render("   AI-powered dApp analyzer  ⚡  v" + version)
	return StyleModel.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Hash formats a transaction hash or URL.
func Hash(h string) string { return StyleHash.Render(h) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ModelName formats a model name.
func ModelName(m string) string { return StyleModel.Render(m) }

// TruncateHash shortens a hash for display: 0x1234…5678.
func TruncateHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:6] + "…" + h[len(h)-4:]
}
