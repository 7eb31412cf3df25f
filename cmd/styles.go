package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/conneroisu/zgl/internal/errors"
)

// styles holds the console styles of one output stream.
type styles struct {
	header  lipgloss.Style
	success lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	hint    lipgloss.Style
}

// newStyles returns colored styles when w is a terminal and NO_COLOR is
// unset, plain ones otherwise.
func newStyles(w io.Writer) styles {
	if !colorEnabled(w) {
		plain := lipgloss.NewStyle()
		return styles{header: plain, success: plain, label: plain, value: plain, hint: plain}
	}

	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true),
	}
}

func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderError writes err the way the CLI reports failures. Engine
// diagnostics are printed verbatim below the header.
func renderError(w io.Writer, err error) {
	s := newStyles(w)

	var ze *errors.ZglError
	if !errors.As(err, &ze) {
		fmt.Fprintf(w, "%s %s\n", s.header.Render("Error:"), err)
		return
	}

	fmt.Fprintf(w, "%s %s\n", s.header.Render("Error:"), ze.Message)
	if ze.Code != "" {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render("code:"), s.value.Render(ze.Code))
	}
	if ze.FilePath != "" {
		fmt.Fprintf(w, "  %s %s\n", s.label.Render("file:"), s.value.Render(ze.FilePath))
	}

	switch {
	case ze.Context["report"] != nil:
		fmt.Fprintf(w, "\n%s\n", ze.Context["report"])
	case ze.Cause != nil:
		fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(ze.Cause.Error()))
	}

	if ze.Type == errors.ErrorTypeConfig && ze.FilePath != "" {
		fmt.Fprintf(w, "\n%s\n", s.hint.Render("Fix the file above and run the command again."))
	}
}
