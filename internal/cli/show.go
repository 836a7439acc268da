package cli

import (
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/settings"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show [directory]",
		Short:   MsgShowShort,
		Example: MsgShowExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path := filepath.Join(dir, settings.ProjectSettingsFileName)
			ps, err := settings.LoadProjectSettings(filesystem.NewOS(), path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatBold(fmt.Sprintf(MsgProjectFormat, ps.Name, ps.Version, ps.TemplateFileName)))

			data := pterm.TableData{{"SECTION", "PARAMETER", "VALUE"}}
			for _, s := range ps.Sections {
				for _, p := range s.Parameters {
					data = append(data, []string{s.Name, p.Name, p.Value.String()})
				}
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(out).Render()
		},
	}
}
