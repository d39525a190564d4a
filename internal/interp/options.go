package interp

import "github.com/funvibe/strtmpl/internal/config"

// OptionsArray is the fixed-length, positionally-indexed array pushed by
// OPTIONS and populated by STORE_OPTION. Slots default to null (unset).
type OptionsArray struct {
	Vals [config.NumOptions]Value
}

func NewOptionsArray() *OptionsArray {
	return &OptionsArray{}
}

func (o *OptionsArray) Kind() ObjectKind { return KindOpaque }
func (o *OptionsArray) Inspect() string  { return "<options>" }
func (o *OptionsArray) Hash() uint32     { return 0 }

func (o *OptionsArray) Set(slot int, v Value) {
	if slot >= 0 && slot < len(o.Vals) {
		o.Vals[slot] = v
	}
}

func (o *OptionsArray) IsSet(slot int) bool {
	return slot >= 0 && slot < len(o.Vals) && !o.Vals[slot].IsNull()
}

// RenderedOptions holds each option slot pre-rendered to a string,
// alongside which slots were actually set.
type RenderedOptions struct {
	Strs [config.NumOptions]string
	set  [config.NumOptions]bool
}

func (r *RenderedOptions) IsSet(slot int) bool { return r.set[slot] }
func (r *RenderedOptions) Get(slot int) string { return r.Strs[slot] }
