package model

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigDef is an ordered mapping of properties attached to a pipe or a process step.
// Setting an existing key replaces its value and keeps its position.
type ConfigDef struct {
	keys   []string
	values map[string]any
}

func NewConfigDef() *ConfigDef {
	return &ConfigDef{values: make(map[string]any)}
}

// Set stores value under key and returns the receiver to allow chaining.
func (c *ConfigDef) Set(key string, value any) *ConfigDef {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value

	return c
}

func (c *ConfigDef) Get(key string) (any, bool) {
	v, ok := c.values[key]

	return v, ok
}

// Keys returns a copy of the keys in insertion order.
func (c *ConfigDef) Keys() []string {
	res := make([]string, len(c.keys))
	copy(res, c.keys)

	return res
}

func (c *ConfigDef) Len() int {
	return len(c.keys)
}

func (c *ConfigDef) IsEmpty() bool {
	return len(c.keys) == 0
}

// Each calls fn for every property in insertion order.
func (c *ConfigDef) Each(fn func(key string, value any)) {
	for _, k := range c.keys {
		fn(k, c.values[k])
	}
}

func (c *ConfigDef) Clone() *ConfigDef {
	res := NewConfigDef()
	c.Each(func(k string, v any) {
		res.Set(k, v)
	})

	return res
}

// ToMap returns the properties as a plain map.
func (c *ConfigDef) ToMap() map[string]any {
	res := make(map[string]any, len(c.keys))
	c.Each(func(k string, v any) {
		res[k] = v
	})

	return res
}

// Overlay merges defs from lowest to highest precedence: a later def wins on a key
// collision, keys keep the position of their first appearance. Nil defs are skipped.
func Overlay(defs ...*ConfigDef) *ConfigDef {
	res := NewConfigDef()
	for _, def := range defs {
		if def == nil {
			continue
		}
		def.Each(func(k string, v any) {
			res.Set(k, v)
		})
	}

	return res
}

// UnmarshalYAML decodes a yaml mapping keeping the document order of its keys.
func (c *ConfigDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Wrapf(ErrConfigDefYAML, "line %d", node.Line)
	}
	if c.values == nil {
		c.values = make(map[string]any)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		err := node.Content[i].Decode(&key)
		if err != nil {
			return errors.Wrapf(err, "unable to decode key at line %d", node.Content[i].Line)
		}
		var value any
		err = node.Content[i+1].Decode(&value)
		if err != nil {
			return errors.Wrapf(err, "unable to decode value of %q", key)
		}
		c.Set(key, value)
	}

	return nil
}
