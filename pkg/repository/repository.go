// Package repository wraps a target directory as a git repository.
//
// All git access goes through exec.CommandRunner so tests can stub it.
// The gateway assumes it is the only writer of the repository for the
// duration of a run; it takes no locks.
package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/exec"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/logging"
)

// DefaultCommitMessage is used when Commit is given an empty message.
const DefaultCommitMessage = "Automated commit"

const metadataDir = ".git"

// Options configures the git invocations.
type Options struct {
	// Binary is the git executable. Empty means "git".
	Binary string
	// AuthorName and AuthorEmail override the git identity when set.
	AuthorName  string
	AuthorEmail string
}

// RepositoryState is a point-in-time view of the target repository.
type RepositoryState struct {
	Path        string
	Initialized bool
	Dirty       bool
}

// Gateway performs repository operations on a single path.
type Gateway struct {
	path   string
	fs     filesystem.FS
	runner exec.CommandRunner
	opts   Options
}

// New creates a Gateway for path.
func New(path string, fsys filesystem.FS, runner exec.CommandRunner, opts Options) *Gateway {
	if opts.Binary == "" {
		opts.Binary = "git"
	}
	return &Gateway{
		path:   filepath.Clean(path),
		fs:     fsys,
		runner: runner,
		opts:   opts,
	}
}

// Path returns the repository root.
func (g *Gateway) Path() string {
	return g.path
}

// EnsureDirectory creates the repository root if it does not exist.
func (g *Gateway) EnsureDirectory() error {
	info, err := g.fs.Stat(g.path)
	switch {
	case err == nil && !info.IsDir():
		return errors.Newf(errors.ErrNotADirectory, "%s exists and is not a directory", g.path).
			WithDetail("path", g.path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return errors.Wrapf(err, errors.ErrRepository, "cannot inspect %s", g.path)
	}

	if err := g.fs.MkdirAll(g.path, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrRepository, "cannot create %s", g.path)
	}
	logger := logging.GetLogger("repository")
	logger.Debug().Str("path", g.path).Msg("Created target directory")
	return nil
}

// IsInitialized reports whether the path carries git metadata.
func (g *Gateway) IsInitialized() bool {
	_, err := g.fs.Stat(filepath.Join(g.path, metadataDir))
	return err == nil
}

// Initialize ensures the directory exists and runs git init unless the
// repository is already initialized. Calling it again is a no-op.
func (g *Gateway) Initialize(ctx context.Context) error {
	logger := logging.GetLogger("repository")

	if err := g.EnsureDirectory(); err != nil {
		return err
	}
	if g.IsInitialized() {
		logger.Debug().Str("path", g.path).Msg("Repository already initialized")
		return nil
	}

	if _, err := g.git(ctx, "init"); err != nil {
		return err
	}
	logger.Info().Str("path", g.path).Msg("Initialized repository")
	return nil
}

// HasUncommittedChanges reports modified, staged or untracked entries.
func (g *Gateway) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := g.git(ctx, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// State returns the current repository state.
func (g *Gateway) State(ctx context.Context) (RepositoryState, error) {
	state := RepositoryState{Path: g.path, Initialized: g.IsInitialized()}
	if !state.Initialized {
		return state, nil
	}
	dirty, err := g.HasUncommittedChanges(ctx)
	if err != nil {
		return state, err
	}
	state.Dirty = dirty
	return state, nil
}

// Stage adds a single path to the index.
func (g *Gateway) Stage(ctx context.Context, path string) error {
	_, err := g.git(ctx, "add", "--", path)
	return err
}

// Commit records the staged changes. It fails with NOTHING_TO_COMMIT when
// the index matches HEAD.
func (g *Gateway) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		message = DefaultCommitMessage
	}

	res, err := g.run(ctx, "diff", "--cached", "--quiet")
	if err != nil {
		return err
	}
	switch res.ExitCode {
	case 0:
		return errors.Newf(errors.ErrNothingToCommit, "nothing staged to commit in %s", g.path).
			WithDetail("path", g.path)
	case 1:
	default:
		return g.commandError(res, "diff", "--cached", "--quiet")
	}

	if _, err := g.git(ctx, "commit", "--quiet", "-m", message); err != nil {
		return err
	}
	logger := logging.GetLogger("repository")
	logger.Info().
		Str("path", g.path).
		Str("message", message).
		Msg("Committed")
	return nil
}

// git runs a git subcommand and fails on a non-zero exit.
func (g *Gateway) git(ctx context.Context, args ...string) (string, error) {
	res, err := g.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", g.commandError(res, args...)
	}
	return res.Stdout, nil
}

func (g *Gateway) run(ctx context.Context, args ...string) (exec.CmdResult, error) {
	logging.LogCommand(logging.GetLogger("repository"), g.opts.Binary, args)

	res, err := g.runner.Run(ctx, g.opts.Binary, args, exec.RunOpts{Dir: g.path, Env: g.env()})
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrRepository, "cannot run %s %s", g.opts.Binary, strings.Join(args, " ")).
			WithDetail("path", g.path)
	}
	return res, nil
}

func (g *Gateway) commandError(res exec.CmdResult, args ...string) error {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	return errors.Newf(errors.ErrRepository, "%s %s failed in %s: %s",
		g.opts.Binary, strings.Join(args, " "), g.path, msg).
		WithDetail("path", g.path).
		WithDetail("exit_code", res.ExitCode)
}

func (g *Gateway) env() map[string]string {
	env := map[string]string{}
	if g.opts.AuthorName != "" {
		env["GIT_AUTHOR_NAME"] = g.opts.AuthorName
		env["GIT_COMMITTER_NAME"] = g.opts.AuthorName
	}
	if g.opts.AuthorEmail != "" {
		env["GIT_AUTHOR_EMAIL"] = g.opts.AuthorEmail
		env["GIT_COMMITTER_EMAIL"] = g.opts.AuthorEmail
	}
	return env
}
