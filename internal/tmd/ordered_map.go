package tmd

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// orderedMap is a string→string mapping that preserves insertion order, for
// FrontMatter.Extra (spec.md §3: "optional ordered mapping"). gopkg.in/yaml.v3
// has no built-in ordered map, so marshaling/unmarshaling goes through
// yaml.Node mapping pairs directly.
type orderedMap struct {
	keys   []string
	values map[string]string
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: make(map[string]string)}
}

func (m *orderedMap) set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMap) get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *orderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Each calls fn for every entry in insertion order.
func (m *orderedMap) Each(fn func(key, value string)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

func (m orderedMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.values[k]}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func (m *orderedMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("extra: expected a mapping, got %v", node.Kind)
	}
	m.values = make(map[string]string)
	m.keys = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		var k, v string
		if err := node.Content[i].Decode(&k); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		m.set(k, v)
	}
	return nil
}
