package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Service struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ServiceMap is an insertion-ordered name -> description map. It encodes as a
// JSON/YAML object whose key order matches the presentation order.
type ServiceMap []Service

func NewServiceMap(entries ...Service) ServiceMap {
	m := make(ServiceMap, 0, len(entries))
	for _, e := range entries {
		m.Add(e.Name, e.Description)
	}
	return m
}

// Add appends name unless it is already present; it reports whether the
// entry was added.
func (m *ServiceMap) Add(name, description string) bool {
	if m.Has(name) {
		return false
	}
	*m = append(*m, Service{Name: name, Description: description})
	return true
}

func (m ServiceMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

func (m ServiceMap) Get(name string) (string, bool) {
	for _, s := range m {
		if s.Name == name {
			return s.Description, true
		}
	}
	return "", false
}

func (m ServiceMap) Names() []string {
	out := make([]string, 0, len(m))
	for _, s := range m {
		out = append(out, s.Name)
	}
	return out
}

func (m ServiceMap) Len() int { return len(m) }

func (m ServiceMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.Description)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *ServiceMap) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("services: expected object, got %v", tok)
	}
	out := ServiceMap{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := kt.(string)
		if !ok {
			return fmt.Errorf("services: expected string key, got %v", kt)
		}
		var desc string
		if err := dec.Decode(&desc); err != nil {
			return fmt.Errorf("services: %q: %w", name, err)
		}
		out.Add(name, desc)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

func (m ServiceMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, s := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Description},
		)
	}
	return node, nil
}

func (m *ServiceMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("services: expected mapping at line %d", node.Line)
	}
	out := ServiceMap{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		out.Add(node.Content[i].Value, node.Content[i+1].Value)
	}
	*m = out
	return nil
}

// NameList is a list of service names. It decodes from a list of strings or
// a list of objects carrying a "name" field.
type NameList []string

func (l *NameList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(NameList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("services: unsupported entry %s", string(item))
		}
		out = append(out, obj.Name)
	}
	*l = out
	return nil
}

func (l *NameList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("services: expected sequence at line %d", node.Line)
	}
	out := make(NameList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, item.Value)
		case yaml.MappingNode:
			var obj struct {
				Name string `yaml:"name"`
			}
			if err := item.Decode(&obj); err != nil {
				return err
			}
			out = append(out, obj.Name)
		default:
			return fmt.Errorf("services: unsupported entry at line %d", item.Line)
		}
	}
	*l = out
	return nil
}

// TextBlock is free text that may be written either as one string or as a
// list of lines.
type TextBlock string

func (t *TextBlock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = TextBlock(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*t = TextBlock(strings.Join(lines, "\n"))
	return nil
}

func (t *TextBlock) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = TextBlock(node.Value)
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := node.Decode(&lines); err != nil {
			return err
		}
		*t = TextBlock(strings.Join(lines, "\n"))
		return nil
	default:
		return fmt.Errorf("expected string or list of strings at line %d", node.Line)
	}
}
