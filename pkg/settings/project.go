package settings

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/logging"
)

// ProjectSettingsFileName is the artifact committed to the target repository.
const ProjectSettingsFileName = "project_settings.json"

// ProjectSettings is the persisted artifact read back from a target repository.
type ProjectSettings struct {
	Name             string
	Version          string
	TemplateFileName string
	Sections         []Section
}

// Persist writes the resolved user sections and the committed shape of the
// template descriptor to targetPath. Sections keep document order and are
// followed by template_info. The functions section is never written.
func Persist(fsys filesystem.FS, doc *Document, targetPath string) error {
	logger := logging.GetLogger("settings.persist")

	data, err := encodeProjectSettings(doc)
	if err != nil {
		return errors.Wrapf(err, errors.ErrSettingsWrite, "cannot encode project settings for %s", targetPath)
	}

	if err := filesystem.WriteFileAtomic(fsys, targetPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSettingsWrite, "cannot write project settings %s", targetPath).
			WithDetail("path", targetPath)
	}

	logger.Info().
		Str("path", targetPath).
		Int("sections", len(doc.Sections)).
		Msg("Project settings written")
	return nil
}

func encodeProjectSettings(doc *Document) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for _, s := range doc.Sections {
		if err := writeSection(&compact, s); err != nil {
			return nil, err
		}
		compact.WriteByte(',')
	}
	info := Section{
		Name: TemplateInfoSection,
		Parameters: []Parameter{
			{Name: InfoName, Value: doc.infoValue(InfoName, doc.Descriptor.Name)},
			{Name: InfoVersion, Value: doc.infoValue(InfoVersion, doc.Descriptor.Version)},
			{Name: InfoTemplateFileName, Value: StringValue(filepath.Base(doc.Path))},
		},
	}
	if err := writeSection(&compact, info); err != nil {
		return nil, err
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, s Section) error {
	if err := writeJSON(buf, s.Name); err != nil {
		return err
	}
	buf.WriteString(":{")
	for i, p := range s.Parameters {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, p.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSON(buf, p.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeJSON(buf *bytes.Buffer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// LoadProjectSettings reads a persisted project settings artifact.
func LoadProjectSettings(fsys filesystem.FS, path string) (*ProjectSettings, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSettingsRead, "cannot read project settings %s", path).
			WithDetail("path", path)
	}

	raw, err := decodeJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSettingsMalformed, "cannot parse project settings %s", path).
			WithDetail("path", path)
	}

	ps := &ProjectSettings{}
	found := false
	for _, r := range raw {
		s := Section{Name: r.Name, Parameters: r.Parameters}
		if r.Name != TemplateInfoSection {
			ps.Sections = append(ps.Sections, s)
			continue
		}
		found = true
		for _, key := range []string{InfoName, InfoVersion, InfoTemplateFileName} {
			v, ok := s.Lookup(key)
			if !ok {
				return nil, errors.Newf(errors.ErrSettingsMissingMetadata,
					"project settings %s: %s.%s is missing", path, TemplateInfoSection, key).
					WithDetail("path", path)
			}
			switch key {
			case InfoName:
				ps.Name = v.String()
			case InfoVersion:
				ps.Version = v.String()
			case InfoTemplateFileName:
				ps.TemplateFileName = v.String()
			}
		}
	}
	if !found {
		return nil, errors.Newf(errors.ErrSettingsMissingMetadata,
			"project settings %s has no %s section", path, TemplateInfoSection).
			WithDetail("path", path)
	}
	return ps, nil
}
