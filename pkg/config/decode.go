// Package config realizes the configuration-object boundary consumed by the
// directive engine: a decoder for raw attribute values and a quote- and
// brace-aware scanner for the `{...}` attribute object syntax. Values use
// YAML scalar syntax, so `width: 120`, `alt: "a b"` and `tags: [a, b]` all
// decode naturally.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Decoder decodes a raw attribute source string into a Go value. Attribute
// validators use it for all non-string types.
type Decoder interface {
	Decode(raw string, out any) error
}

// YAMLDecoder decodes attribute values as YAML scalars and flow
// collections.
type YAMLDecoder struct{}

// Decode implements Decoder.
func (YAMLDecoder) Decode(raw string, out any) error {
	if err := yaml.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode attribute value %q: %w", raw, err)
	}
	return nil
}
