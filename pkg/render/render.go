// Package render substitutes {{ ... }} tokens in text.
//
// A token holds an expression over the bindings: a dotted reference such
// as {{ author.name }} or a helper call such as {{ functions.year() }}.
// Helpers may also be called without the functions prefix. Expressions are
// evaluated with the HCL expression language, so anything HCL accepts
// (string literals, function arguments, conditionals) works inside a token.
// A reference that does not resolve is an error; it never renders as an
// empty string.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/infraguys/genesis-templates/pkg/errors"
	"github.com/infraguys/genesis-templates/pkg/functions"
	"github.com/infraguys/genesis-templates/pkg/settings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Renderer renders text against a bindings snapshot. name identifies the
// text in errors, usually the template source path.
type Renderer interface {
	Render(name, text string, b settings.Bindings) (string, error)
}

// TokenRenderer is the HCL-backed Renderer.
type TokenRenderer struct{}

// NewTokenRenderer creates a TokenRenderer.
func NewTokenRenderer() *TokenRenderer {
	return &TokenRenderer{}
}

var helperCall = regexp.MustCompile(`\b` + functions.SectionName + `\s*\.\s*([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

// Render replaces every token in text with its evaluated string form.
func (r *TokenRenderer) Render(name, text string, b settings.Bindings) (string, error) {
	if !strings.Contains(text, openDelim) {
		return text, nil
	}

	ctx, err := EvalContext(b)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRenderSubstitution, "cannot build bindings for %s", name).
			WithDetail("path", name)
	}

	var out strings.Builder
	out.Grow(len(text))

	pos := hcl.Pos{Line: 1, Column: 1, Byte: 0}
	rest := text
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:start])
		pos = advance(pos, rest[:start+len(openDelim)])

		end := strings.Index(rest[start+len(openDelim):], closeDelim)
		if end < 0 {
			return "", errors.Newf(errors.ErrRenderSubstitution,
				"%s:%d:%d: unterminated token", name, pos.Line, pos.Column-len(openDelim)).
				WithDetail("path", name).
				WithDetail("line", pos.Line)
		}
		source := rest[start+len(openDelim) : start+len(openDelim)+end]

		value, err := evalToken(name, source, pos, ctx, b)
		if err != nil {
			return "", err
		}
		out.WriteString(value)

		pos = advance(pos, source+closeDelim)
		rest = rest[start+len(openDelim)+end+len(closeDelim):]
	}
}

// EvalContext exposes each section as an object variable and the helper
// functions by name.
func EvalContext(b settings.Bindings) (*hcl.EvalContext, error) {
	vars := make(map[string]cty.Value, len(b.Sections))
	for _, s := range b.Sections {
		if len(s.Parameters) == 0 {
			vars[s.Name] = cty.EmptyObjectVal
			continue
		}
		attrs := make(map[string]cty.Value, len(s.Parameters))
		for _, p := range s.Parameters {
			v, err := p.Value.CtyValue()
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", s.Name, p.Name, err)
			}
			attrs[p.Name] = v
		}
		vars[s.Name] = cty.ObjectVal(attrs)
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: b.Functions,
	}, nil
}

func evalToken(name, source string, pos hcl.Pos, ctx *hcl.EvalContext, b settings.Bindings) (string, error) {
	token := strings.TrimSpace(source)
	if token == "" {
		return "", substitutionError(name, source, pos, "empty token")
	}

	expr, diags := hclsyntax.ParseExpression([]byte(helperCall.ReplaceAllString(source, "$1(")), name, pos)
	if diags.HasErrors() {
		return "", substitutionError(name, token, pos, diags.Error())
	}

	if literal, ok := referencedLiteral(expr, b); ok {
		return literal, nil
	}

	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return "", substitutionError(name, token, pos, diags.Error())
	}
	if v.IsNull() {
		return "", substitutionError(name, token, pos, "token evaluated to null")
	}
	if !v.IsWhollyKnown() {
		return "", substitutionError(name, token, pos, "token value is not known")
	}

	str, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", substitutionError(name, token, pos, fmt.Sprintf("cannot render %s as text", v.Type().FriendlyName()))
	}
	return str.AsString(), nil
}

// referencedLiteral returns the bound value's own text when expr is a plain
// section.parameter reference, so number literals such as 1.0 stay as written.
func referencedLiteral(expr hcl.Expression, b settings.Bindings) (string, bool) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() || len(traversal) != 2 {
		return "", false
	}
	attr, ok := traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", false
	}
	v, ok := b.Lookup(traversal.RootName(), attr.Name)
	if !ok {
		return "", false
	}
	return v.String(), true
}

func substitutionError(name, token string, pos hcl.Pos, reason string) error {
	return errors.Newf(errors.ErrRenderSubstitution,
		"%s:%d: cannot substitute {{ %s }}: %s", name, pos.Line, token, reason).
		WithDetail("path", name).
		WithDetail("token", token).
		WithDetail("line", pos.Line)
}

// advance moves pos past text.
func advance(pos hcl.Pos, text string) hcl.Pos {
	for _, r := range text {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	pos.Byte += len(text)
	return pos
}
