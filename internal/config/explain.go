package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and the file
// that set it. Paths index into mappings by key and into lists by position:
//
//	main_ratio
//	api.listen
//	keys.Mod4-Return.action
//	rules.0.class
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	for p := path; p != ""; p = parentPath(p) {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	node := rootNode(&doc)
	walked := ""
	for _, part := range strings.Split(path, ".") {
		next, err := childNode(node, part)
		if err != nil {
			if walked == "" {
				return nil, fmt.Errorf("unknown path %q", path)
			}
			return nil, fmt.Errorf("unknown path %q under %q", part, walked)
		}
		node = next
		if walked != "" {
			walked += "."
		}
		walked += part
	}

	var out any
	if err := node.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	return out, nil
}

func childNode(node *yaml.Node, key string) (*yaml.Node, error) {
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				return node.Content[i+1], nil
			}
		}
	case yaml.SequenceNode:
		i, err := strconv.Atoi(key)
		if err == nil && i >= 0 && i < len(node.Content) {
			return node.Content[i], nil
		}
	}
	return nil, fmt.Errorf("not found")
}
