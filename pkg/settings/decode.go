package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawSection is a section as it appears in the file, reserved ones included.
type rawSection struct {
	Name       string
	Parameters []Parameter
}

func decodeDocument(path string, data []byte) ([]rawSection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

// decodeJSON walks the token stream so section and parameter order survive.
func decodeJSON(data []byte) ([]rawSection, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{', "document"); err != nil {
		return nil, err
	}

	var sections []rawSection
	seen := make(map[string]bool)
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate section %q", name)
		}
		seen[name] = true

		if err := expectDelim(dec, '{', fmt.Sprintf("section %q", name)); err != nil {
			return nil, err
		}
		section := rawSection{Name: name}
		params := make(map[string]bool)
		for dec.More() {
			key, err := readKey(dec)
			if err != nil {
				return nil, err
			}
			if params[key] {
				return nil, fmt.Errorf("duplicate parameter %s.%s", name, key)
			}
			params[key] = true

			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			v, err := jsonScalar(tok)
			if err != nil {
				return nil, fmt.Errorf("parameter %s.%s: %w", name, key, err)
			}
			section.Parameters = append(section.Parameters, Parameter{Name: key, Value: v})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the top-level object")
	}
	return sections, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%s must be an object", what)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected an object key, got %v", tok)
	}
	return key, nil
}

func jsonScalar(tok json.Token) (Value, error) {
	switch v := tok.(type) {
	case string:
		return StringValue(v), nil
	case json.Number:
		return NumberValue(v.String())
	case bool:
		return BoolValue(v), nil
	case nil:
		return Value{}, fmt.Errorf("null is not a supported value")
	default:
		return Value{}, fmt.Errorf("only strings, numbers and bools are supported")
	}
}

// decodeYAML reads the node tree, which keeps mapping order.
func decodeYAML(data []byte) ([]rawSection, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document must be a mapping")
	}

	var sections []rawSection
	seen := make(map[string]bool)
	for i := 0; i+1 < len(top.Content); i += 2 {
		name := top.Content[i].Value
		body := top.Content[i+1]
		if seen[name] {
			return nil, fmt.Errorf("duplicate section %q", name)
		}
		seen[name] = true
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("section %q must be a mapping", name)
		}

		section := rawSection{Name: name}
		params := make(map[string]bool)
		for j := 0; j+1 < len(body.Content); j += 2 {
			key := body.Content[j].Value
			if params[key] {
				return nil, fmt.Errorf("duplicate parameter %s.%s", name, key)
			}
			params[key] = true
			v, err := yamlScalar(body.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("parameter %s.%s: %w", name, key, err)
			}
			section.Parameters = append(section.Parameters, Parameter{Name: key, Value: v})
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func yamlScalar(n *yaml.Node) (Value, error) {
	if n.Kind != yaml.ScalarNode {
		return Value{}, fmt.Errorf("only strings, numbers and bools are supported")
	}
	switch n.ShortTag() {
	case "!!str":
		return StringValue(n.Value), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case "!!int":
		var i big.Int
		if _, ok := i.SetString(strings.ReplaceAll(n.Value, "_", ""), 0); !ok {
			return Value{}, fmt.Errorf("invalid integer %q", n.Value)
		}
		return NumberValue(i.String())
	case "!!float":
		if v, err := NumberValue(n.Value); err == nil {
			return v, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return NumberValue(strconv.FormatFloat(f, 'g', -1, 64))
	case "!!null":
		return Value{}, fmt.Errorf("null is not a supported value")
	default:
		return Value{}, fmt.Errorf("unsupported value tag %s", n.ShortTag())
	}
}
