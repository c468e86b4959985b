package mosaic

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/mosaic-mcp/internal/imaging"
)

// ColorKey is the canonical lookup identity of a color: six lowercase hex
// digits, red then green then blue.
type ColorKey string

// ToKey encodes c as a ColorKey. Every channel becomes two zero-padded
// lowercase hex digits, so ToKey(RGBColor{15, 0, 255}) == "0f00ff".
func ToKey(c RGBColor) ColorKey {
	return ColorKey(fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B))
}

// ParseKey validates s as a ColorKey. Uppercase digits and a leading '#' are
// rejected; keys are canonical.
func ParseKey(s string) (ColorKey, error) {
	if len(s) != 6 {
		return "", fmt.Errorf("invalid color key %q: want 6 hex digits", s)
	}
	for _, ch := range s {
		if !(ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f') {
			return "", fmt.Errorf("invalid color key %q: %q is not a lowercase hex digit", s, ch)
		}
	}
	return ColorKey(s), nil
}

// RGB decodes the key back into its color.
func (k ColorKey) RGB() (RGBColor, error) {
	if _, err := ParseKey(string(k)); err != nil {
		return RGBColor{}, err
	}
	c, err := colorful.Hex("#" + string(k))
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid color key %q: %w", string(k), err)
	}
	return imaging.RGBFromFloat(c), nil
}

func (k ColorKey) String() string {
	return string(k)
}

// HSL decodes the key into HSL space.
func (k ColorKey) HSL() (imaging.HSLColor, error) {
	c, err := k.RGB()
	if err != nil {
		return imaging.HSLColor{}, err
	}
	return c.HSL(), nil
}
