// Package catalog exposes the static option sets the wizard accepts for
// choice-valued fields.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	dErrors "village/pkg/domain-errors"
)

// Groups known to the catalog.
const (
	GroupCareNeeds         = "care_needs"
	GroupRoles             = "roles"
	GroupYearsExperience   = "years_experience"
	GroupAgeGroups         = "age_groups"
	GroupCertifications    = "certifications"
	GroupLogistics         = "logistics"
	GroupAvailabilityTypes = "availability_types"
	GroupScheduleDays      = "schedule_days"
	GroupScheduleBlocks    = "schedule_blocks"
)

//go:embed options.yaml
var defaultOptions []byte

// Option is one selectable value.
type Option struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Catalog indexes option ids per group.
type Catalog struct {
	groups map[string][]Option
	index  map[string]map[string]struct{}
}

// Default parses the embedded option file. It panics on a malformed file since
// the file ships with the binary.
func Default() *Catalog {
	c, err := Parse(defaultOptions)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded options: %v", err))
	}
	return c
}

// Parse builds a catalog from YAML of the form `group: [{id, label}, ...]`.
func Parse(data []byte) (*Catalog, error) {
	groups := map[string][]Option{}
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}
	index := make(map[string]map[string]struct{}, len(groups))
	for group, opts := range groups {
		ids := make(map[string]struct{}, len(opts))
		for _, o := range opts {
			if o.ID == "" {
				return nil, fmt.Errorf("group %s: option with empty id", group)
			}
			if _, dup := ids[o.ID]; dup {
				return nil, fmt.Errorf("group %s: duplicate option %q", group, o.ID)
			}
			ids[o.ID] = struct{}{}
		}
		index[group] = ids
	}
	return &Catalog{groups: groups, index: index}, nil
}

// Allowed returns a validation error naming the first value not in group.
func (c *Catalog) Allowed(group string, values ...string) error {
	ids, ok := c.index[group]
	if !ok {
		return dErrors.New(dErrors.CodeInternal, "unknown option group "+group)
	}
	for _, v := range values {
		if _, ok := ids[v]; !ok {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%q is not a valid %s option", v, group))
		}
	}
	return nil
}

// Options returns the options of group in file order.
func (c *Catalog) Options(group string) []Option {
	return append([]Option(nil), c.groups[group]...)
}

// Label returns the display label of an option, or the id itself when the
// option is unknown.
func (c *Catalog) Label(group, id string) string {
	for _, o := range c.groups[group] {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

// All returns every group, for clients rendering the steps.
func (c *Catalog) All() map[string][]Option {
	out := make(map[string][]Option, len(c.groups))
	for g, opts := range c.groups {
		out[g] = append([]Option(nil), opts...)
	}
	return out
}

// Groups lists group names in sorted order.
func (c *Catalog) Groups() []string {
	names := make([]string, 0, len(c.groups))
	for g := range c.groups {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}
