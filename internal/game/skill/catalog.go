package skill

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Dre1stein/xiuxian-mud/internal/model"
)

// Catalog is a read-only id → template map built once at startup.
// Every accessor hands out copies; the stored templates are never shared.
type Catalog struct {
	templates map[string]Template
	ids       []string
}

// NewCatalog builds a catalog. Duplicate or empty ids are an error.
func NewCatalog(templates ...Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("skill without id (name %q)", t.Name)
		}
		if _, dup := c.templates[t.ID]; dup {
			return nil, fmt.Errorf("duplicate skill id %q", t.ID)
		}
		c.templates[t.ID] = t.clone()
		c.ids = append(c.ids, t.ID)
	}
	slices.Sort(c.ids)
	return c, nil
}

type templateSpec struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	Type          string        `yaml:"type"`
	Target        string        `yaml:"target"`
	MPCost        int           `yaml:"mp_cost"`
	HPCost        int           `yaml:"hp_cost"`
	Cooldown      int           `yaml:"cooldown"`
	RequiredLevel int           `yaml:"required_level"`
	RequiredSect  model.Sect    `yaml:"required_sect"`
	Element       model.Element `yaml:"element"`
	Effects       []effectSpec  `yaml:"effects"`
}

type catalogFile struct {
	Skills []templateSpec `yaml:"skills"`
}

// ParseCatalog decodes a yaml skill list into a Catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing skill catalog: %w", err)
	}

	templates := make([]Template, 0, len(file.Skills))
	for _, spec := range file.Skills {
		t, err := spec.toTemplate()
		if err != nil {
			return nil, fmt.Errorf("skill %q: %w", spec.ID, err)
		}
		templates = append(templates, t)
	}
	return NewCatalog(templates...)
}

func (s templateSpec) toTemplate() (Template, error) {
	typ, err := parseType(s.Type)
	if err != nil {
		return Template{}, err
	}
	target, err := parseTargetRule(s.Target)
	if err != nil {
		return Template{}, err
	}
	effects := make([]Effect, 0, len(s.Effects))
	for i, es := range s.Effects {
		eff, err := es.toEffect()
		if err != nil {
			return Template{}, fmt.Errorf("effect %d: %w", i, err)
		}
		effects = append(effects, eff)
	}
	return Template{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Type:        typ,
		Target:      target,
		Cost:        Cost{MP: s.MPCost, HP: s.HPCost},
		Cooldown:    s.Cooldown,
		Requirements: Requirements{
			Level: s.RequiredLevel,
			Sect:  s.RequiredSect,
		},
		Element: s.Element,
		Effects: effects,
	}, nil
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// IDs returns all skill ids in sorted order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.ids)
}

// Has reports whether id is defined.
func (c *Catalog) Has(id string) bool {
	_, ok := c.templates[id]
	return ok
}

// Template returns a copy of the template for inspection.
func (c *Catalog) Template(id string) (Template, bool) {
	t, ok := c.templates[id]
	if !ok {
		return Template{}, false
	}
	return t.clone(), true
}

// Get returns a fresh instance of the skill, never the stored template.
func (c *Catalog) Get(id string) (*Instance, bool) {
	t, ok := c.templates[id]
	if !ok {
		return nil, false
	}
	return NewInstance(t), true
}

// Instantiate returns a fresh instance, or a single-enemy physical strike
// named after id when the catalog has no such skill.
func (c *Catalog) Instantiate(id string) *Instance {
	if inst, ok := c.Get(id); ok {
		return inst
	}
	return NewInstance(Template{
		ID:      id,
		Name:    id,
		Type:    TypeActive,
		Target:  TargetSingleEnemy,
		Element: model.ElementPhysical,
		Effects: []Effect{FallbackStrike},
	})
}

// BySect returns fresh instances of every skill bound to sect, in id order.
func (c *Catalog) BySect(sect model.Sect) []*Instance {
	var out []*Instance
	for _, id := range c.ids {
		t := c.templates[id]
		if t.Requirements.Sect == sect {
			out = append(out, NewInstance(t))
		}
	}
	return out
}
