package group

import (
	"fmt"
	"strconv"
	"time"

	"github.com/funvibe/strtmpl/internal/interp"
	"gopkg.in/yaml.v3"
)

// RendererConfig describes a group's attribute-renderer registrations
// declaratively, the way a host ships group metadata alongside compiled
// templates without recompiling Go code for every new date/number format.
type RendererConfig struct {
	Locale string `yaml:"locale"`
	// DateLayouts maps a format-string name (the FORMAT option's value)
	// to a Go time.Layout, applied when rendering an "object" value that
	// is backed by a time.Time.
	DateLayouts map[string]string `yaml:"dateLayouts"`
	// NumberFormats maps a format-string name to a printf-style verb
	// applied to int/float values.
	NumberFormats map[string]string `yaml:"numberFormats"`
}

// LoadRendererConfig parses YAML group metadata.
func LoadRendererConfig(data []byte) (*RendererConfig, error) {
	var cfg RendererConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("group: parsing renderer config: %w", err)
	}
	if cfg.DateLayouts == nil {
		cfg.DateLayouts = map[string]string{}
	}
	if cfg.NumberFormats == nil {
		cfg.NumberFormats = map[string]string{}
	}
	return &cfg, nil
}

// Apply registers renderers on g for "int", "float" and "object" (time.Time)
// built from cfg's layout/format tables. When the requested format name is
// unknown, numbers fall back to their natural string form and time.Time
// values to RFC 3339; "object" values that are not a time.Time render as
// their Inspect text.
func (cfg *RendererConfig) Apply(g *Group) {
	g.SetLocale(cfg.Locale)
	g.RegisterRenderer("int", interp.AttributeRendererFunc(func(v interp.Value, format, locale string) string {
		if verb, ok := cfg.NumberFormats[format]; ok {
			return fmt.Sprintf(verb, v.AsInt())
		}
		return strconv.FormatInt(v.AsInt(), 10)
	}))
	g.RegisterRenderer("float", interp.AttributeRendererFunc(func(v interp.Value, format, locale string) string {
		if verb, ok := cfg.NumberFormats[format]; ok {
			return fmt.Sprintf(verb, v.AsFloat())
		}
		return strconv.FormatFloat(v.AsFloat(), 'g', -1, 64)
	}))
	g.RegisterRenderer("object", interp.AttributeRendererFunc(func(v interp.Value, format, locale string) string {
		if op, ok := valueOpaque(v); ok {
			if t, ok := op.(time.Time); ok {
				layout := time.RFC3339
				if l, ok := cfg.DateLayouts[format]; ok {
					layout = l
				}
				return t.Format(layout)
			}
		}
		return v.Inspect()
	}))
}

func valueOpaque(v interp.Value) (any, bool) {
	kind, ok := v.ObjectKind()
	if !ok || kind != interp.KindOpaque {
		return nil, false
	}
	o, ok := v.Obj.(*interp.Opaque)
	if !ok {
		return nil, false
	}
	return o.Val, true
}
