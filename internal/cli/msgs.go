package cli

// Command descriptions
const (
	MsgRootShort = "Scaffold git projects from parameterized templates"
	MsgRootLong  = `gst-templates renders a template directory into a new git repository.

It reads a settings document describing the template and its parameters,
asks for each parameter value, commits the resolved settings as
project_settings.json and renders every path and file of the template with
those values.`

	MsgCreateShort   = "Generate a project from a template"
	MsgCreateLong    = "Resolve the template settings, commit them to the target repository and render the template tree into it.\n\nThe target must be clean: a repository with uncommitted changes is refused before anything is written."
	MsgCreateExample = `  gst-templates create -t ./billing
  gst-templates create -s templates/service.settings.json -t ./billing --set project.name=billing
  gst-templates create -t ./billing --yes --commit-rendered`

	MsgShowShort       = "Show the project settings committed to a repository"
	MsgShowExample     = `  gst-templates show ./billing`
	MsgGenConfigShort  = "Print the default configuration file"
	MsgGenConfigLong   = "Print the default configuration with every value commented out, or write it to the user config file with --write."
	MsgFunctionsShort  = "List the helper functions available to template tokens"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgCompletionShort = "Generate shell completion script"
)

// Flag descriptions
const (
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig         = "Config file (default is $XDG_CONFIG_HOME/gst-templates/config.toml)"
	MsgFlagSettings       = "Template settings document (JSON or YAML)"
	MsgFlagTarget         = "Target directory; created and initialized as a git repository if needed"
	MsgFlagSet            = "Preset a parameter answer as section.parameter=value (repeatable)"
	MsgFlagYes            = "Do not prompt; keep defaults for parameters without --set"
	MsgFlagCommitRendered = "Commit the rendered tree after rendering"
	MsgFlagGitBinary      = "git executable to use"
	MsgFlagWrite          = "Write the config to the user config file instead of stdout"
)

// Output messages
const (
	MsgTemplateFormat      = "Template %s %s (%s)"
	MsgGeneratedFormat     = "Generated %d files and %d directories in %s"
	MsgSettingsCommitted   = "Committed %s"
	MsgRenderedCommitted   = "Committed the rendered tree"
	MsgRenderedUncommitted = "The rendered tree is not committed; review it and commit when ready"
	MsgConfigWritten       = "Wrote %s"
	MsgConfigExists        = "%s already exists; remove it first"
	MsgProjectFormat       = "%s %s (from %s)"
	MsgErrInvalidSet       = "invalid --set %q: expected section.parameter=value"
	MsgErrNoCommand        = "no command specified"
)
