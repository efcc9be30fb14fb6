package environment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the representation written by Encode.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatShell Format = "shell"
)

// Encode writes the resolved values to w in declared order.
//
//   - FormatYAML writes a YAML mapping.
//   - FormatJSON writes an indented JSON object. NaN and infinite numbers
//     are written as null.
//   - FormatShell writes one NAME=value line per variable. Strings and lists
//     are single-quoted, lists joined with ",". Numbers and booleans are bare.
func (e *Environment) Encode(w io.Writer, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatYAML:
		data, err = e.encodeYAML()
	case FormatJSON:
		data, err = e.encodeJSON()
	case FormatShell:
		data = e.encodeShell()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encode as %s: %w", f, err)
	}
	_, err = w.Write(data)
	return err
}

func (e *Environment) encodeYAML() (data []byte, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("yaml: %v", r)
		}
	}()

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range e.names {
		var val yaml.Node
		if err := val.Encode(e.values[name].native()); err != nil {
			return nil, err
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&val,
		)
	}
	return yaml.Marshal(doc)
}

func (e *Environment) encodeJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range e.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonValue(e.values[name]))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func jsonValue(v Value) any {
	if n, ok := v.Num(); ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
		return nil
	}
	return v.native()
}

func (e *Environment) encodeShell() []byte {
	var b strings.Builder
	for _, name := range e.names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(shellWord(e.values[name]))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func shellWord(v Value) string {
	switch v.Kind() {
	case KindString, KindList:
		return "'" + strings.ReplaceAll(v.String(), "'", `'\''`) + "'"
	default:
		return v.String()
	}
}
