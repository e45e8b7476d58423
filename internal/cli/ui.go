package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
)

// Terminal palette (ANSI 256).
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorPink  = lipgloss.Color("211")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)

	styleMale   = lipgloss.NewStyle().Foreground(colorBlue)
	styleFemale = lipgloss.NewStyle().Foreground(colorPink)
)

// marker is the colored symbol leading a status line.
type marker struct {
	symbol string
	style  lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorAmber)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (m marker) line(msg string) string { return m.style.Render(m.symbol) + " " + msg }

func printSuccess(format string, args ...any) {
	fmt.Println(markSuccess.line(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Println(markError.line(fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Println(markWarning.line(markWarning.style.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	fmt.Println(markInfo.line(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Println("  " + styleDim.Render("→") + " " + styleValue.Render(path))
}

// statsLine summarizes a layout as "N people · N generations · cached".
// Crossings and diagnostics are listed only when present.
func statsLine(res *layout.Result, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d people", len(res.People())),
		fmt.Sprintf("%d generations", res.Layers),
	}
	if res.Crossings > 0 {
		parts = append(parts, fmt.Sprintf("%d crossings", res.Crossings))
	}
	if n := len(res.Diagnostics); n > 0 {
		parts = append(parts, fmt.Sprintf("%d diagnostics", n))
	}
	for i, p := range parts {
		parts[i] = styleDim.Render(p)
	}

	origin := styleDim.Render("fresh")
	if cached {
		origin = markSuccess.style.Render("cached")
	}
	return "  " + strings.Join(append(parts, origin), styleDim.Render(" · "))
}

func printStats(res *layout.Result, cached bool) {
	fmt.Println(statsLine(res, cached))
}

// printDiagnostics warns about each relationship problem found in the input.
func printDiagnostics(diags []family.Diagnostic) {
	for _, d := range diags {
		printWarning("%s: %s", d.Code, d.Message)
	}
}

func sexStyle(s family.Sex) lipgloss.Style {
	switch {
	case s.IsMale():
		return styleMale
	case s.IsFemale():
		return styleFemale
	}
	return styleValue
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(styleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }
