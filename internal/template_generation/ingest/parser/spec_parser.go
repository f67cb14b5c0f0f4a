package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/tables"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

func ParseJSON(b []byte) (*domain.RawSpec, error) {
	var s domain.RawSpec
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func ParseYAML(b []byte) (*domain.RawSpec, error) {
	var s domain.RawSpec
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		return FormatMarkdown, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedSpec, path)
	}
}

// Sniff guesses the format of inline content.
func Sniff(b []byte) Format {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	if bytes.HasPrefix(trimmed, []byte("---")) || bytes.Contains(trimmed, []byte("business_info:")) {
		return FormatYAML
	}
	return FormatMarkdown
}

func ParseBytes(b []byte, f Format, t *tables.Tables) (*domain.RawSpec, error) {
	switch f {
	case FormatMarkdown:
		return ParseMarkdown(b, t), nil
	case FormatJSON:
		return ParseJSON(b)
	case FormatYAML:
		return ParseYAML(b)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSpec, f)
	}
}

func ParseFile(path string, t *tables.Tables) (*domain.RawSpec, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(b, f, t)
}
