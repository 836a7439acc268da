package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/scaffold"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// configureOutput turns pterm styling off for pipes and colour off when
// NO_COLOR is set or the terminal has no colour support.
func configureOutput(out io.Writer) {
	if !isTerminal(out) {
		pterm.DisableStyling()
		return
	}
	if termenv.EnvNoColor() || termenv.NewOutput(out).ColorProfile() == termenv.Ascii {
		pterm.DisableColor()
	}
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}

// printError writes err, whose text carries its code, e.g. "[REPOSITORY_DIRTY] ...".
func printError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	if path, ok := errors.GetErrorDetails(err)["path"].(string); ok && !strings.Contains(err.Error(), path) {
		fmt.Fprintf(w, "  path: %s\n", path)
	}
}

// printReport summarizes a finished run.
func printReport(w io.Writer, report *scaffold.Report) error {
	t := report.Template
	pterm.Info.WithWriter(w).Printfln(MsgTemplateFormat, t.Name, t.Version, report.SettingsPath)

	if report.SettingsCommit {
		pterm.Success.WithWriter(w).Printfln(MsgSettingsCommitted, report.ProjectSettings)
	}

	result := report.Rendered
	pterm.Success.WithWriter(w).Printfln(MsgGeneratedFormat, len(result.Files), len(result.Directories), report.RepositoryBefore.Path)

	items := make([]pterm.BulletListItem, 0, len(result.Files))
	for _, f := range result.Files {
		items = append(items, pterm.BulletListItem{Level: 0, Text: f})
	}
	if len(items) > 0 {
		if err := pterm.DefaultBulletList.WithItems(items).WithWriter(w).Render(); err != nil {
			return err
		}
	}

	if report.RenderedCommit {
		pterm.Success.WithWriter(w).Println(MsgRenderedCommitted)
	} else {
		pterm.Warning.WithWriter(w).Println(MsgRenderedUncommitted)
	}
	return nil
}
