package variation

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

type Harmony string

const (
	Complementary Harmony = "complementary"
	Triadic       Harmony = "triadic"
	Analogous     Harmony = "analogous"
	Monochromatic Harmony = "monochromatic"
)

func (h Harmony) valid() bool {
	switch h {
	case Complementary, Triadic, Analogous, Monochromatic:
		return true
	}
	return false
}

// Palette extends the five page roles with the neutrals and status colors
// a design variation carries.
type Palette struct {
	Primary      string `json:"primary"`
	Secondary    string `json:"secondary"`
	Accent       string `json:"accent"`
	NeutralLight string `json:"neutral_light"`
	NeutralDark  string `json:"neutral_dark"`
	Success      string `json:"success"`
	Warning      string `json:"warning"`
	Error        string `json:"error"`
}

// shift is a hue rotation in degrees with saturation and value factors.
type shift struct {
	hue, sat, val float64
}

var harmonyShifts = map[Harmony][2]shift{
	Complementary: {{180, 0.8, 0.9}, {54, 0.6, 1.1}},
	Triadic:       {{120, 0.8, 0.9}, {240, 0.7, 0.95}},
	Analogous:     {{30, 0.9, 0.95}, {-30, 0.7, 1.05}},
	Monochromatic: {{0, 0.6, 0.8}, {0, 0.4, 1.2}},
}

// Harmonize derives secondary and accent from base by rotating its hue
// according to h. All outputs are lowercase #rrggbb.
func Harmonize(base string, h Harmony) (Palette, error) {
	hex, ok := domain.NormalizeHex(base)
	if !ok {
		return Palette{}, fmt.Errorf("variation: invalid base color %q", base)
	}
	shifts, ok := harmonyShifts[h]
	if !ok {
		return Palette{}, fmt.Errorf("variation: unknown harmony %q", h)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Palette{}, fmt.Errorf("variation: parse %q: %w", hex, err)
	}
	hue, sat, val := c.Hsv()

	return Palette{
		Primary:      hex,
		Secondary:    rotate(hue, sat, val, shifts[0]),
		Accent:       rotate(hue, sat, val, shifts[1]),
		NeutralLight: "#f8fafc",
		NeutralDark:  "#1e293b",
		Success:      "#10b981",
		Warning:      "#f59e0b",
		Error:        "#ef4444",
	}, nil
}

func rotate(hue, sat, val float64, s shift) string {
	h := math.Mod(hue+s.hue+360, 360)
	return colorful.Hsv(h, clamp01(sat*s.sat), clamp01(val*s.val)).Clamped().Hex()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// HueFamily names the broad hue range of a color: "blue", "purple", "red"
// or "other".
func HueFamily(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "other"
	}
	h, s, _ := c.Hsv()
	switch {
	case s < 0.1:
		return "other"
	case h >= 180 && h <= 252:
		return "blue"
	case h > 252 && h <= 324:
		return "purple"
	case h <= 36 || h > 324:
		return "red"
	}
	return "other"
}
