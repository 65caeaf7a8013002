package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Styling helpers, following the teacher's two parallel conventions for
// terminal output: github.com/fatih/color's SprintFunc closures for short
// inline coloring (cmd/bd/create.go, label.go, pin.go: green/yellow/cyan
// one-word highlights), and lipgloss for the heavier banner-style
// styling (cmd/bd-examples/main.go's passStyle/warnStyle/failStyle
// palette). Both libraries detect non-terminal stdout/stderr (a pipe, as
// in this module's own CLI tests) and fall back to plain text on their
// own, so printResult's byte-exact human-mode output is never at risk.
var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "203"}).Bold(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "22", Dark: "84"}).Bold(true)
	warnColor   = color.New(color.FgYellow).SprintFunc()
)

// fatal writes a one-line error to stderr. The exit code comes from
// exitCode(err) in errors.go; this function only handles presentation,
// mirroring the separation cmd/bd/errors.go draws between "format the
// message" and "decide the exit code".
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Error:"), err)
}

// warnf prints a one-line advisory to stderr, used for non-fatal
// conditions a command wants the operator to notice (a mention/block
// language mismatch, a dry-run notice) without interrupting the
// command's own structured or human-mode result on stdout.
func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", warnColor("warning:"), fmt.Sprintf(format, args...))
}
