package domain

import "strings"

type ColorRole string

const (
	ColorPrimary    ColorRole = "primary"
	ColorSecondary  ColorRole = "secondary"
	ColorAccent     ColorRole = "accent"
	ColorBackground ColorRole = "background"
	ColorText       ColorRole = "text"
)

// ColorRoles lists the roles in their canonical order.
var ColorRoles = []ColorRole{ColorPrimary, ColorSecondary, ColorAccent, ColorBackground, ColorText}

func ParseColorRole(s string) (ColorRole, bool) {
	r := ColorRole(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ColorRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

type ColorMap struct {
	Primary    string `json:"primary" yaml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary"`
	Accent     string `json:"accent" yaml:"accent"`
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text" yaml:"text"`
}

func (c ColorMap) Get(role ColorRole) string {
	switch role {
	case ColorPrimary:
		return c.Primary
	case ColorSecondary:
		return c.Secondary
	case ColorAccent:
		return c.Accent
	case ColorBackground:
		return c.Background
	case ColorText:
		return c.Text
	default:
		return ""
	}
}

func (c *ColorMap) Set(role ColorRole, hex string) {
	switch role {
	case ColorPrimary:
		c.Primary = hex
	case ColorSecondary:
		c.Secondary = hex
	case ColorAccent:
		c.Accent = hex
	case ColorBackground:
		c.Background = hex
	case ColorText:
		c.Text = hex
	}
}

// FillMissing copies every role that is still empty in c from other.
func (c *ColorMap) FillMissing(other ColorMap) {
	for _, role := range ColorRoles {
		if c.Get(role) == "" {
			c.Set(role, other.Get(role))
		}
	}
}

func (c ColorMap) Missing() []ColorRole {
	var out []ColorRole
	for _, role := range ColorRoles {
		if c.Get(role) == "" {
			out = append(out, role)
		}
	}
	return out
}

func (c ColorMap) Complete() bool { return len(c.Missing()) == 0 }

// NormalizeHex accepts "#rgb" or "#rrggbb" (the leading '#' is optional, any
// case) and returns the lowercase "#rrggbb" form.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 3 && len(s) != 6 {
		return "", false
	}
	for _, ch := range s {
		if !isHexDigit(ch) {
			return "", false
		}
	}
	s = strings.ToLower(s)
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return "#" + s, true
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
