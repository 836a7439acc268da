// Package tree materializes a template directory into a repository.
//
// Rendering runs in two phases. Plan walks the template root, renders every
// relative path and validates the destinations; nothing is written until the
// whole plan is valid. Apply then creates directories and writes files in
// plan order, which is walk order, so a directory always exists before any
// file below it is written. Apply is not transactional: when a file fails,
// files already written stay on disk.
package tree

import (
	"io/fs"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/logging"
	"github.com/infraguys/genesis-templates/pkg/render"
	"github.com/infraguys/genesis-templates/pkg/settings"
)

// skipDirs are never copied out of a template root.
var skipDirs = map[string]bool{".git": true}

// Entry is one template path and where it renders to.
type Entry struct {
	Source      string
	Destination string
	Dir         bool
	Mode        fs.FileMode
}

// Plan is the validated list of entries for one render.
type Plan struct {
	TemplateRoot   string
	RepositoryRoot string
	Entries        []Entry
}

// Result lists what Apply produced, in the order it was produced.
type Result struct {
	Directories []string
	Files       []string
}

// Renderer renders template trees with a token engine.
type Renderer struct {
	fs     filesystem.FS
	engine render.Renderer
}

// New creates a Renderer.
func New(fsys filesystem.FS, engine render.Renderer) *Renderer {
	return &Renderer{fs: fsys, engine: engine}
}

// Render plans and applies templateRoot into repoRoot with one bindings
// snapshot.
func (r *Renderer) Render(templateRoot, repoRoot string, b settings.Bindings) (*Result, error) {
	plan, err := r.Plan(templateRoot, repoRoot, b)
	if err != nil {
		return nil, err
	}
	return r.Apply(plan, b)
}

// Plan enumerates templateRoot and renders each path relative to it.
// It fails before anything is written when two sources render to the same
// destination or a destination leaves repoRoot.
func (r *Renderer) Plan(templateRoot, repoRoot string, b settings.Bindings) (*Plan, error) {
	logger := logging.GetLogger("tree.plan")
	templateRoot = filepath.Clean(templateRoot)
	repoRoot = filepath.Clean(repoRoot)

	info, err := r.fs.Stat(templateRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRenderRead, "cannot read template root %s", templateRoot).
			WithDetail("path", templateRoot)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrRenderRead, "template root %s is not a directory", templateRoot).
			WithDetail("path", templateRoot)
	}

	plan := &Plan{TemplateRoot: templateRoot, RepositoryRoot: repoRoot}
	sources := make(map[string]string)

	err = r.fs.Walk(templateRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrRenderRead, "cannot read %s", path).
				WithDetail("path", path)
		}
		if path == templateRoot {
			return nil
		}
		if info.IsDir() && skipDirs[info.Name()] {
			return filepath.SkipDir
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			logger.Warn().Str("path", path).Msg("Skipping non-regular template entry")
			return nil
		}

		dest, err := r.destination(templateRoot, repoRoot, path, b)
		if err != nil {
			return err
		}
		if prev, ok := sources[dest]; ok {
			return errors.Newf(errors.ErrRenderPathCollision,
				"%s and %s both render to %s", prev, path, dest).
				WithDetail("path", path).
				WithDetail("other", prev).
				WithDetail("destination", dest)
		}
		sources[dest] = path

		plan.Entries = append(plan.Entries, Entry{
			Source:      path,
			Destination: dest,
			Dir:         info.IsDir(),
			Mode:        info.Mode().Perm(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("template", templateRoot).
		Str("target", repoRoot).
		Int("entries", len(plan.Entries)).
		Msg("Render plan built")
	return plan, nil
}

func (r *Renderer) destination(templateRoot, repoRoot, path string, b settings.Bindings) (string, error) {
	rel, err := filepath.Rel(templateRoot, path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "%s is outside %s", path, templateRoot)
	}

	rendered, err := r.engine.Render(path, rel, b)
	if err != nil {
		return "", err
	}

	rendered = filepath.Clean(rendered)
	escape := func(reason string) error {
		return errors.Newf(errors.ErrRenderPathEscape, "%s renders to %q: %s", path, rendered, reason).
			WithDetail("path", path).
			WithDetail("rendered", rendered)
	}
	switch {
	case rendered == "." || rendered == "":
		return "", escape("empty destination")
	case filepath.IsAbs(rendered):
		return "", escape("absolute destination")
	case rendered == ".." || strings.HasPrefix(rendered, ".."+string(filepath.Separator)):
		return "", escape("destination outside the repository")
	}
	if first := strings.SplitN(rendered, string(filepath.Separator), 2)[0]; skipDirs[first] {
		return "", escape("destination inside repository metadata")
	}

	return filepath.Join(repoRoot, rendered), nil
}

// Apply materializes plan. Directories are created idempotently; files are
// rendered and overwrite whatever is at the destination. Content that is not
// valid UTF-8 is copied byte for byte.
func (r *Renderer) Apply(plan *Plan, b settings.Bindings) (*Result, error) {
	logger := logging.GetLogger("tree.apply")
	done := logging.LogOperationStart(logger, "render tree")
	defer done()

	result := &Result{}
	for _, e := range plan.Entries {
		if e.Dir {
			if err := r.fs.MkdirAll(e.Destination, dirMode(e.Mode)); err != nil {
				return result, errors.Wrapf(err, errors.ErrRenderDirCreate,
					"cannot create %s for %s", e.Destination, e.Source).
					WithDetail("path", e.Source).
					WithDetail("destination", e.Destination)
			}
			result.Directories = append(result.Directories, e.Destination)
			continue
		}

		if err := r.applyFile(e, b); err != nil {
			return result, err
		}
		result.Files = append(result.Files, e.Destination)
		logger.Debug().
			Str("source", e.Source).
			Str("destination", e.Destination).
			Msg("Rendered file")
	}

	logger.Info().
		Int("directories", len(result.Directories)).
		Int("files", len(result.Files)).
		Str("target", plan.RepositoryRoot).
		Msg("Template rendered")
	return result, nil
}

func (r *Renderer) applyFile(e Entry, b settings.Bindings) error {
	data, err := r.fs.ReadFile(e.Source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRenderRead, "cannot read template file %s", e.Source).
			WithDetail("path", e.Source)
	}

	out := data
	if utf8.Valid(data) {
		text, err := r.engine.Render(e.Source, string(data), b)
		if err != nil {
			return err
		}
		out = []byte(text)
	}

	mode := fileMode(e.Mode)
	if err := r.fs.WriteFile(e.Destination, out, mode); err != nil {
		return errors.Wrapf(err, errors.ErrRenderWrite, "cannot write %s rendered from %s", e.Destination, e.Source).
			WithDetail("path", e.Source).
			WithDetail("destination", e.Destination)
	}
	// WriteFile keeps the mode of an existing file.
	if err := r.fs.Chmod(e.Destination, mode); err != nil {
		return errors.Wrapf(err, errors.ErrRenderWrite, "cannot set mode of %s", e.Destination).
			WithDetail("path", e.Source).
			WithDetail("destination", e.Destination)
	}
	return nil
}

func dirMode(m fs.FileMode) fs.FileMode {
	if m == 0 {
		return 0755
	}
	return m | 0700
}

func fileMode(m fs.FileMode) fs.FileMode {
	if m == 0 {
		return 0644
	}
	return m | 0600
}
