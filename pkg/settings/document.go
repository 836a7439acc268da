package settings

import (
	"github.com/zclconf/go-cty/cty/function"
)

// Reserved section and key names.
const (
	TemplateInfoSection = "template_info"
	FunctionsSection    = "functions"

	InfoName             = "name"
	InfoVersion          = "version"
	InfoPath             = "path"
	InfoTemplateFileName = "template_file_name"
)

// TemplateDescriptor identifies the template a settings document belongs to.
type TemplateDescriptor struct {
	Name    string
	Version string
	// SourcePath is the absolute template root, resolved against the
	// directory of the settings document.
	SourcePath string
}

// Parameter is one named value within a section.
type Parameter struct {
	Name  string
	Value Value
}

// Section is an ordered group of parameters.
type Section struct {
	Name       string
	Parameters []Parameter
}

// Lookup returns the parameter value with the given name.
func (s Section) Lookup(name string) (Value, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

func (s Section) clone() Section {
	params := make([]Parameter, len(s.Parameters))
	copy(params, s.Parameters)
	return Section{Name: s.Name, Parameters: params}
}

// Document is a loaded settings document. Sections holds only the
// user-editable groups, in document order.
type Document struct {
	Descriptor TemplateDescriptor
	// Path is the absolute path of the settings document.
	Path     string
	Sections []Section

	// info is template_info as written, so the artifact keeps its value types.
	info Section
}

// Section returns the user section with the given name.
func (d *Document) Section(name string) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// Set replaces the value of an existing parameter.
func (d *Document) Set(section, parameter string, v Value) bool {
	s, ok := d.Section(section)
	if !ok {
		return false
	}
	for i := range s.Parameters {
		if s.Parameters[i].Name == parameter {
			s.Parameters[i].Value = v
			return true
		}
	}
	return false
}

// infoValue returns template_info.key as loaded, or fallback when the
// document was not loaded from a file.
func (d *Document) infoValue(key, fallback string) Value {
	if v, ok := d.info.Lookup(key); ok {
		return v
	}
	return StringValue(fallback)
}

func (d *Document) cloneSections() []Section {
	sections := make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		sections[i] = s.clone()
	}
	return sections
}

// Bindings is the substitution context for one render: a snapshot of the
// user sections plus the helper functions injected as the functions section.
type Bindings struct {
	Sections  []Section
	Functions map[string]function.Function
}

// Lookup returns section.parameter from the snapshot.
func (b Bindings) Lookup(section, parameter string) (Value, bool) {
	for _, s := range b.Sections {
		if s.Name == section {
			return s.Lookup(parameter)
		}
	}
	return Value{}, false
}
