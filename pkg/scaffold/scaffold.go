// Package scaffold runs one project generation: settings resolution, the
// repository gate, settings persistence and the tree render.
package scaffold

import (
	"context"

	"github.com/infraguys/genesis-templates/pkg/config"
	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/exec"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/functions"
	"github.com/infraguys/genesis-templates/pkg/logging"
	"github.com/infraguys/genesis-templates/pkg/render"
	"github.com/infraguys/genesis-templates/pkg/repository"
	"github.com/infraguys/genesis-templates/pkg/settings"
	"github.com/infraguys/genesis-templates/pkg/tree"
)

// Options holds the collaborators of a Scaffolder. FS, Runner and Prompt
// are required; the rest default to the production implementations.
type Options struct {
	FS       filesystem.FS
	Runner   exec.CommandRunner
	Prompt   settings.PromptPort
	Registry *functions.Registry
	Renderer render.Renderer
}

// Report describes a finished run.
type Report struct {
	Template         settings.TemplateDescriptor
	SettingsPath     string
	ProjectSettings  string
	SettingsCommit   bool
	Rendered         *tree.Result
	RenderedCommit   bool
	RepositoryBefore repository.RepositoryState
}

// Scaffolder generates one project per Run.
type Scaffolder struct {
	cfg      config.Config
	fs       filesystem.FS
	gateway  *repository.Gateway
	resolver *settings.Resolver
	tree     *tree.Renderer
}

// New creates a Scaffolder for cfg.
func New(cfg *config.Config, opts Options) *Scaffolder {
	if opts.Registry == nil {
		opts.Registry = functions.NewRegistry(nil)
	}
	if opts.Renderer == nil {
		opts.Renderer = render.NewTokenRenderer()
	}

	return &Scaffolder{
		cfg: *cfg,
		fs:  opts.FS,
		gateway: repository.New(cfg.TargetDirectory, opts.FS, opts.Runner, repository.Options{
			Binary:      cfg.Git.Binary,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
		}),
		resolver: settings.NewResolver(opts.FS, opts.Registry, opts.Prompt),
		tree:     tree.New(opts.FS, opts.Renderer),
	}
}

// Run executes the pipeline. Settings problems are reported before the
// target is touched, and a dirty target aborts before anything is rendered.
// Rendering is not rolled back on failure.
func (s *Scaffolder) Run(ctx context.Context) (*Report, error) {
	logger := logging.GetLogger("scaffold")
	done := logging.LogOperationStart(logger, "scaffold")
	defer done()

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.resolver.Load(s.cfg.TemplateSettings)
	if err != nil {
		return nil, err
	}
	if err := s.checkTemplateRoot(doc.Descriptor.SourcePath); err != nil {
		return nil, err
	}

	report := &Report{
		Template:        doc.Descriptor,
		SettingsPath:    doc.Path,
		ProjectSettings: s.cfg.ProjectSettingsPath(),
	}

	if err := s.gateway.Initialize(ctx); err != nil {
		return nil, err
	}
	state, err := s.gateway.State(ctx)
	if err != nil {
		return nil, err
	}
	report.RepositoryBefore = state
	if state.Dirty {
		return nil, errors.Newf(errors.ErrRepositoryDirty,
			"%s has uncommitted changes; commit or stash them first", state.Path).
			WithDetail("path", state.Path)
	}

	bindings, err := s.resolver.Initialize(doc)
	if err != nil {
		return nil, err
	}

	if err := s.resolver.Persist(doc, report.ProjectSettings); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, report.ProjectSettings, s.cfg.Git.SettingsCommitMessage); err != nil {
		return report, err
	}
	report.SettingsCommit = true

	result, err := s.tree.Render(doc.Descriptor.SourcePath, s.gateway.Path(), bindings)
	report.Rendered = result
	if err != nil {
		return report, err
	}

	if s.cfg.Render.CommitRendered {
		if err := s.commit(ctx, s.gateway.Path(), s.cfg.Render.CommitMessage); err != nil {
			return report, err
		}
		report.RenderedCommit = true
	}

	logger.Info().
		Str("template", doc.Descriptor.Name).
		Str("version", doc.Descriptor.Version).
		Str("target", s.gateway.Path()).
		Int("files", len(result.Files)).
		Msg("Project generated")
	return report, nil
}

// commit stages path and commits it. An unchanged path fails with
// NOTHING_TO_COMMIT like any other repository error.
func (s *Scaffolder) commit(ctx context.Context, path, message string) error {
	if err := s.gateway.Stage(ctx, path); err != nil {
		return err
	}
	return s.gateway.Commit(ctx, message)
}

func (s *Scaffolder) checkTemplateRoot(path string) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSettingsMalformed, "template root %s cannot be read", path).
			WithDetail("path", path)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrSettingsMalformed, "template root %s is not a directory", path).
			WithDetail("path", path)
	}
	return nil
}
