package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style holds presentation overrides as CSS-like declarations. In YAML it can be
// written either as a raw string ("padding: 4px; opacity: .2") or as a mapping.
type Style map[string]string

// ParseStyle splits a raw declaration string into a Style. Empty and malformed
// declarations (no colon) are dropped.
func ParseStyle(raw string) Style {
	s := Style{}
	for _, decl := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = normalizeKey(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		s[k] = v
	}
	return s
}

func normalizeKey(k string) string {
	k = strings.TrimSpace(k)
	// fontScale -> font-scale
	var b strings.Builder
	for i, r := range k {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UnmarshalYAML accepts a scalar declaration string or a key/value mapping.
func (s *Style) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = ParseStyle(value.Value)
		return nil
	case yaml.MappingNode:
		out := Style{}
		for i := 0; i+1 < len(value.Content); i += 2 {
			k, v := value.Content[i], value.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("style %q: expected a scalar value (line %d)", k.Value, v.Line)
			}
			out[normalizeKey(k.Value)] = strings.TrimSpace(v.Value)
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("style: expected string or mapping (line %d)", value.Line)
	}
}

// Merge returns a new Style with other's declarations laid over s.
func (s Style) Merge(other Style) Style {
	out := make(Style, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// String renders the declarations in key order, the inverse of ParseStyle.
func (s Style) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s; ", k, s[k])
	}
	return strings.TrimSpace(b.String())
}

// Presentation is the resolved, typed form of the recognized style keys.
type Presentation struct {
	Padding    int         // px around the overlay contents
	Opacity    float64     // background swatch opacity
	Background color.Color // swatch color; nil means the foreground color
	FontScale  int         // integer upscale of the 7x13 face
}

// DefaultPresentation is 1rem of padding and a swatch at
// 10% of the foreground color.
func DefaultPresentation() Presentation {
	return Presentation{Padding: 16, Opacity: 0.1, FontScale: 1}
}

// Resolve parses the recognized keys over the defaults. Unknown keys are
// returned so callers can log them.
func (s Style) Resolve() (Presentation, []string, error) {
	p := DefaultPresentation()
	var unknown []string
	for k, v := range s {
		switch k {
		case "padding":
			n, err := parsePixels(v)
			if err != nil || n < 0 {
				return p, nil, fmt.Errorf("style padding %q: must be a non-negative pixel count", v)
			}
			p.Padding = n
		case "opacity":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f < 0 || f > 1 {
				return p, nil, fmt.Errorf("style opacity %q: must be within [0,1]", v)
			}
			p.Opacity = f
		case "background":
			c, err := ParseColor(v)
			if err != nil {
				return p, nil, fmt.Errorf("style background: %w", err)
			}
			p.Background = c
		case "font-scale":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return p, nil, fmt.Errorf("style font-scale %q: must be a positive integer", v)
			}
			p.FontScale = n
		default:
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return p, unknown, nil
}

func parsePixels(v string) (int, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
