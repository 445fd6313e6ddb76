package model

import (
	"fmt"
	"strings"
)

// Sect is the faction a cultivator belongs to.
// Plain attacks are scaled by sect advantage.
type Sect int8

const (
	SectNone Sect = iota
	SectQingyun
	SectDanding
	SectWanhua
	SectXiaoyao
	SectShushan
)

var sectNames = [...]string{
	SectNone:    "none",
	SectQingyun: "qingyun",
	SectDanding: "danding",
	SectWanhua:  "wanhua",
	SectXiaoyao: "xiaoyao",
	SectShushan: "shushan",
}

// String returns lower-case sect name.
func (s Sect) String() string {
	if s < 0 || int(s) >= len(sectNames) {
		return "unknown"
	}
	return sectNames[s]
}

// ParseSect converts a name to Sect. Empty string is SectNone.
func ParseSect(s string) (Sect, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SectNone, nil
	}
	for i, name := range sectNames {
		if name == s {
			return Sect(i), nil
		}
	}
	return SectNone, fmt.Errorf("unknown sect %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler for scalar sect names.
func (s *Sect) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseSect(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText encodes sect as its name.
func (s Sect) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes sect name.
func (s *Sect) UnmarshalText(b []byte) error {
	parsed, err := ParseSect(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
