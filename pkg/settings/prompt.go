package settings

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/infraguys/genesis-templates/pkg/errors"
)

// PromptPort asks the operator for a parameter value. An empty answer
// keeps current; anything else replaces it.
type PromptPort interface {
	Ask(section, parameter string, current Value) (string, error)
}

// SectionAnnouncer is implemented by prompts that introduce each section
// before its parameters are asked.
type SectionAnnouncer interface {
	BeginSection(section string) error
}

// PresetValidator is implemented by prompts that hold answers decided before
// the document was read. The Resolver checks them right after loading.
type PresetValidator interface {
	ValidatePresets(doc *Document) error
}

// ConsolePrompt reads answers line by line. It blocks until a line arrives.
type ConsolePrompt struct {
	in  *bufio.Reader
	out io.Writer

	sectionStyle lipgloss.Style
	paramStyle   lipgloss.Style
	defaultStyle lipgloss.Style
}

// NewConsolePrompt creates a prompt reading from in and writing to out.
// Styling is dropped automatically when out is not a colour terminal.
func NewConsolePrompt(in io.Reader, out io.Writer) *ConsolePrompt {
	r := lipgloss.NewRenderer(out)
	return &ConsolePrompt{
		in:           bufio.NewReader(in),
		out:          out,
		sectionStyle: r.NewStyle().Bold(true),
		paramStyle:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FAFFF"}),
		defaultStyle: r.NewStyle().Faint(true),
	}
}

// BeginSection prints the section header.
func (p *ConsolePrompt) BeginSection(section string) error {
	_, err := fmt.Fprintln(p.out, p.sectionStyle.Render(fmt.Sprintf("Initializing %s settings...", section)))
	return err
}

// Ask prints the parameter with its current value and reads one line.
// Surrounding whitespace is trimmed, so a blank line keeps the default.
func (p *ConsolePrompt) Ask(section, parameter string, current Value) (string, error) {
	if _, err := fmt.Fprintf(p.out, "Initializing parameter '%s' %s: ",
		p.paramStyle.Render(parameter),
		p.defaultStyle.Render("["+current.String()+"]")); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("reading %s.%s: %w", section, parameter, err)
	}
	return strings.TrimSpace(line), nil
}

// ScriptedPrompt answers from a fixed list keyed by "section.parameter".
// Keys without an answer go to Fallback, or answer blank when there is none.
type ScriptedPrompt struct {
	Answers  map[string]string
	Fallback PromptPort
	// Asked records "section.parameter" in the order questions arrived.
	Asked []string
}

// BeginSection forwards to the fallback when it announces sections.
func (p *ScriptedPrompt) BeginSection(section string) error {
	if a, ok := p.Fallback.(SectionAnnouncer); ok {
		return a.BeginSection(section)
	}
	return nil
}

// Ask returns the scripted answer for section.parameter.
func (p *ScriptedPrompt) Ask(section, parameter string, current Value) (string, error) {
	key := section + "." + parameter
	p.Asked = append(p.Asked, key)
	if answer, ok := p.Answers[key]; ok {
		return answer, nil
	}
	if p.Fallback != nil {
		return p.Fallback.Ask(section, parameter, current)
	}
	return "", nil
}

// ValidatePresets fails with UNKNOWN_PARAMETER when an answer names a
// section.parameter that doc does not define.
func (p *ScriptedPrompt) ValidatePresets(doc *Document) error {
	known := make(map[string]bool)
	for _, s := range doc.Sections {
		for _, param := range s.Parameters {
			known[s.Name+"."+param.Name] = true
		}
	}

	var unknown []string
	for key := range p.Answers {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Newf(errors.ErrUnknownParameter,
		"%s defines no parameter %s", doc.Path, strings.Join(unknown, ", ")).
		WithDetail("path", doc.Path).
		WithDetail("parameters", unknown)
}
