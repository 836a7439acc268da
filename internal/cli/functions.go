package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infraguys/genesis-templates/pkg/functions"
)

func newFunctionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: MsgFunctionsShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range functions.NewRegistry(nil).Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s.%s()\n", functions.SectionName, name)
			}
		},
	}
}
