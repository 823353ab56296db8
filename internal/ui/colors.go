package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Color scheme for sysupd
var (
	// Primary actions
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	// Secondary actions
	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	// Status indicators
	CheckMark = color.GreenString("✓")
	CrossMark = color.RedString("✗")
	Arrow     = color.CyanString("→")
	Bullet    = color.HiBlackString("•")
)

// Output is where the Print helpers write; tests redirect it.
var (
	Output    io.Writer = os.Stdout
	ErrOutput io.Writer = os.Stderr
)

// InitColors applies the configured color mode ("auto", "always", "never").
// In auto mode NO_COLOR and TERM=dumb disable colors.
func InitColors(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
		return
	case "never":
		color.NoColor = true
		return
	}

	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	// Respect TERM environment variable
	if os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(Output, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(ErrOutput, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(ErrOutput, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(Output, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(key, value string) {
	Bold.Fprintf(Output, "%s: ", key)
	fmt.Fprintln(Output, value)
}

// PrintKeyValueColor prints a key-value pair with custom color for value
func PrintKeyValueColor(key string, value string, valueColor *color.Color) {
	Bold.Fprintf(Output, "%s: ", key)
	valueColor.Fprintln(Output, value)
}

// PrintHeader prints a section header
func PrintHeader(text string) {
	fmt.Fprintln(Output)
	Bold.Fprintln(Output, text)
	Muted.Fprintln(Output, "────────────────────────────────────────")
}

// PrintSubheader prints a subsection header
func PrintSubheader(text string) {
	fmt.Fprintln(Output)
	Highlight.Fprintln(Output, text)
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Output, "  %s %s\n", Bullet, item)
	}
}

// ColorizeStatus returns a colored check status string
func ColorizeStatus(status string) string {
	switch status {
	case "updates-available":
		return Warning.Sprint(status)
	case "no-updates":
		return Success.Sprint(status)
	case "check-failed":
		return Error.Sprint(status)
	default:
		return status
	}
}

// SprintOK returns the check or cross mark for ok
func SprintOK(ok bool) string {
	if ok {
		return CheckMark
	}
	return CrossMark
}
