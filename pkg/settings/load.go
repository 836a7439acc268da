package settings

import (
	"path/filepath"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/filesystem"
	"github.com/infraguys/genesis-templates/pkg/logging"
)

// Load reads and validates a settings document.
//
// Errors:
//   - SETTINGS_READ: the file cannot be read
//   - SETTINGS_MALFORMED: the file cannot be parsed or holds unsupported values
//   - SETTINGS_MISSING_METADATA: template_info or one of name, version, path is absent
func Load(fsys filesystem.FS, path string) (*Document, error) {
	logger := logging.GetLogger("settings.load")

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSettingsRead, "cannot resolve settings path %s", path)
	}

	data, err := fsys.ReadFile(absPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSettingsRead, "cannot read settings document %s", absPath).
			WithDetail("path", absPath)
	}

	raw, err := decodeDocument(absPath, data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSettingsMalformed, "cannot parse settings document %s", absPath).
			WithDetail("path", absPath)
	}

	doc := &Document{Path: absPath}
	var info *rawSection
	for i := range raw {
		switch raw[i].Name {
		case TemplateInfoSection:
			info = &raw[i]
		case FunctionsSection:
			logger.Warn().
				Str("path", absPath).
				Msg("Ignoring the reserved functions section of the settings document")
		default:
			doc.Sections = append(doc.Sections, Section{
				Name:       raw[i].Name,
				Parameters: raw[i].Parameters,
			})
		}
	}

	if info == nil {
		return nil, errors.Newf(errors.ErrSettingsMissingMetadata,
			"settings document %s has no %s section", absPath, TemplateInfoSection).
			WithDetail("path", absPath)
	}

	infoSection := Section{Name: info.Name, Parameters: info.Parameters}
	doc.info = infoSection
	fields := make(map[string]Value, 3)
	for _, key := range []string{InfoName, InfoVersion, InfoPath} {
		v, ok := infoSection.Lookup(key)
		if !ok {
			return nil, errors.Newf(errors.ErrSettingsMissingMetadata,
				"settings document %s: %s.%s is missing", absPath, TemplateInfoSection, key).
				WithDetail("path", absPath).
				WithDetail("key", key)
		}
		fields[key] = v
	}
	if fields[InfoPath].Kind() != KindString {
		return nil, errors.Newf(errors.ErrSettingsMalformed,
			"settings document %s: %s.%s must be a string", absPath, TemplateInfoSection, InfoPath).
			WithDetail("path", absPath)
	}

	sourcePath, err := ResolvePath(fields[InfoPath].String(), absPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSettingsMalformed, "cannot resolve template path of %s", absPath)
	}

	doc.Descriptor = TemplateDescriptor{
		Name:       fields[InfoName].String(),
		Version:    fields[InfoVersion].String(),
		SourcePath: sourcePath,
	}

	logger.Debug().
		Str("path", absPath).
		Str("template", doc.Descriptor.Name).
		Str("version", doc.Descriptor.Version).
		Str("source", sourcePath).
		Int("sections", len(doc.Sections)).
		Msg("Settings document loaded")

	return doc, nil
}

// ResolvePath resolves the template root against the directory holding the
// settings document. It only joins paths; the process working directory is
// consulted solely when settingsPath itself is relative.
func ResolvePath(rawPath, settingsPath string) (string, error) {
	if filepath.IsAbs(rawPath) {
		return filepath.Clean(rawPath), nil
	}
	absSettings, err := filepath.Abs(settingsPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(absSettings), rawPath), nil
}
