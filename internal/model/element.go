package model

import (
	"fmt"
	"strings"
)

// Element is an elemental affinity of an attack or an entity.
// ElementNone never takes part in counter lookups.
type Element int8

const (
	ElementNone Element = iota
	ElementWind
	ElementFire
	ElementWood
	ElementVoid
	ElementLightning
	ElementIce
	ElementSound
	ElementBlood
	ElementPhysical
)

var elementNames = [...]string{
	ElementNone:      "none",
	ElementWind:      "wind",
	ElementFire:      "fire",
	ElementWood:      "wood",
	ElementVoid:      "void",
	ElementLightning: "lightning",
	ElementIce:       "ice",
	ElementSound:     "sound",
	ElementBlood:     "blood",
	ElementPhysical:  "physical",
}

// String returns lower-case element name.
func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "unknown"
	}
	return elementNames[e]
}

// ParseElement converts a name to Element. Empty string is ElementNone.
func ParseElement(s string) (Element, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ElementNone, nil
	}
	for i, name := range elementNames {
		if name == s {
			return Element(i), nil
		}
	}
	return ElementNone, fmt.Errorf("unknown element %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler for scalar element names.
func (e *Element) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseElement(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// MarshalText encodes element as its name (JSON snapshots).
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes element name.
func (e *Element) UnmarshalText(b []byte) error {
	parsed, err := ParseElement(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
