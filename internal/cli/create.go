package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/infraguys/genesis-templates/pkg/exec"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/scaffold"
	"github.com/infraguys/genesis-templates/pkg/settings"
)

// createFlags maps create's flags to config keys.
var createFlags = map[string]string{
	"settings":        "template_settings",
	"target":          "target_directory",
	"commit-rendered": "render.commit_rendered",
	"git-binary":      "git.binary",
}

func newCreateCmd(root *rootOptions) *cobra.Command {
	var (
		presets []string
		yes     bool
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   MsgCreateShort,
		Long:    MsgCreateLong,
		Example: MsgCreateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := flagOverrides(cmd, createFlags)
			if err != nil {
				return err
			}
			cfg, err := root.loadConfig(overrides)
			if err != nil {
				return err
			}

			answers, err := parsePresets(presets)
			if err != nil {
				return err
			}
			prompt := &settings.ScriptedPrompt{Answers: answers}
			if !yes {
				prompt.Fallback = settings.NewConsolePrompt(cmd.InOrStdin(), promptWriter(cmd))
			}

			s := scaffold.New(cfg, scaffold.Options{
				FS:     filesystem.NewOS(),
				Runner: exec.NewRealRunner(),
				Prompt: prompt,
			})
			report, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringP("settings", "s", "", MsgFlagSettings)
	cmd.Flags().StringP("target", "t", "", MsgFlagTarget)
	cmd.Flags().Bool("commit-rendered", false, MsgFlagCommitRendered)
	cmd.Flags().String("git-binary", "", MsgFlagGitBinary)
	cmd.Flags().StringArrayVar(&presets, "set", nil, MsgFlagSet)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, MsgFlagYes)

	return cmd
}

// flagOverrides returns config overrides for the flags set on the command line.
func flagOverrides(cmd *cobra.Command, keys map[string]string) (map[string]interface{}, error) {
	overrides := make(map[string]interface{})
	for name, key := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		switch flag.Value.Type() {
		case "bool":
			v, err := cmd.Flags().GetBool(name)
			if err != nil {
				return nil, err
			}
			overrides[key] = v
		default:
			overrides[key] = flag.Value.String()
		}
	}
	return overrides, nil
}

// parsePresets turns section.parameter=value pairs into prompt answers.
func parsePresets(presets []string) (map[string]string, error) {
	answers := make(map[string]string, len(presets))
	for _, p := range presets {
		key, value, ok := strings.Cut(p, "=")
		section, param, dotted := strings.Cut(key, ".")
		if !ok || !dotted || section == "" || param == "" {
			return nil, fmt.Errorf(MsgErrInvalidSet, p)
		}
		answers[key] = value
	}
	return answers, nil
}

// promptWriter sends prompts to stderr when stdout is redirected so the
// questions stay visible.
func promptWriter(cmd *cobra.Command) io.Writer {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return cmd.ErrOrStderr()
	}
	return out
}
