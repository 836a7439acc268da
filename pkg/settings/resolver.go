package settings

import (
	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/functions"
	"github.com/infraguys/genesis-templates/pkg/logging"
)

// Resolver turns a settings document into bindings with the operator's
// answers applied.
type Resolver struct {
	fs       filesystem.FS
	registry *functions.Registry
	prompt   PromptPort
}

// NewResolver creates a Resolver.
func NewResolver(fsys filesystem.FS, registry *functions.Registry, prompt PromptPort) *Resolver {
	return &Resolver{fs: fsys, registry: registry, prompt: prompt}
}

// Load reads the settings document at path and checks any preset answers
// the prompt carries against it.
func (r *Resolver) Load(path string) (*Document, error) {
	doc, err := Load(r.fs, path)
	if err != nil {
		return nil, err
	}
	if v, ok := r.prompt.(PresetValidator); ok {
		if err := v.ValidatePresets(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Initialize asks for every parameter of every user section, in section
// order then parameter order, and stores the answers in doc. It blocks on
// each question; there is no timeout.
func (r *Resolver) Initialize(doc *Document) (Bindings, error) {
	logger := logging.GetLogger("settings.resolver")
	announcer, _ := r.prompt.(SectionAnnouncer)

	for si := range doc.Sections {
		section := &doc.Sections[si]
		if announcer != nil {
			if err := announcer.BeginSection(section.Name); err != nil {
				return Bindings{}, errors.Wrapf(err, errors.ErrPrompt, "cannot announce section %s", section.Name)
			}
		}

		for pi := range section.Parameters {
			param := &section.Parameters[pi]
			answer, err := r.prompt.Ask(section.Name, param.Name, param.Value)
			if err != nil {
				return Bindings{}, errors.Wrapf(err, errors.ErrPrompt,
					"no answer for %s.%s", section.Name, param.Name).
					WithDetail("section", section.Name).
					WithDetail("parameter", param.Name)
			}
			param.Value = param.Value.Replace(answer)

			logger.Debug().
				Str("section", section.Name).
				Str("parameter", param.Name).
				Bool("overridden", answer != "").
				Msg("Parameter resolved")
		}
	}

	return r.Bindings(doc), nil
}

// Bindings snapshots doc's sections and injects a fresh helper snapshot.
func (r *Resolver) Bindings(doc *Document) Bindings {
	return Bindings{
		Sections:  doc.cloneSections(),
		Functions: r.registry.Snapshot(),
	}
}

// Persist writes the project settings artifact for doc to targetPath.
func (r *Resolver) Persist(doc *Document, targetPath string) error {
	return Persist(r.fs, doc, targetPath)
}
