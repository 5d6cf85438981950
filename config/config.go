// Package config provides read-only lookup sources for the resolver's
// config-file precedence level. Every source flattens to dotted string keys
// ("repo.create.visibility") and is returned as a clasp.LookupFunc, so the
// engine itself never touches the filesystem.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/go-clasp/clasp"
)

// Map wraps an in-memory tree of values. Nested maps flatten to dotted keys;
// lists join with commas so delimiter-aware arguments can split them back.
func Map(values map[string]any) clasp.LookupFunc {
	flat := make(map[string]string)
	flatten("", values, flat)
	return func(key string) (string, bool) {
		v, ok := flat[key]
		return v, ok
	}
}

// Env exposes prefixed environment variables as a config source: with prefix
// "TOOL", the key "repo.create.visibility" reads TOOL_REPO_CREATE_VISIBILITY.
// Dashes in keys map to underscores. Empty values count as unset.
func Env(prefix string) clasp.LookupFunc {
	return func(key string) (string, bool) {
		name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
		if prefix != "" {
			name = strings.ToUpper(prefix) + "_" + name
		}
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}
}

// ParseTOML builds a source from TOML bytes.
func ParseTOML(data []byte) (clasp.LookupFunc, error) {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("config: parse toml: %w", err)
	}
	return Map(tree), nil
}

// ParseYAML builds a source from YAML bytes.
func ParseYAML(data []byte) (clasp.LookupFunc, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	return Map(tree), nil
}

// Load reads a config file, dispatching on extension: .toml, .yaml or .yml.
func Load(path string) (clasp.LookupFunc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("config: unsupported format %q", filepath.Ext(path))
	}
}

// Layered combines sources with earlier ones taking precedence. A typical
// stack is Layered(Env("TOOL"), fileSource) for env-over-file config.
func Layered(sources ...clasp.LookupFunc) clasp.LookupFunc {
	return func(key string) (string, bool) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			if v, ok := src(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// flatten converts nested maps to dotted keys, e.g. {"a":{"b":1}} => {"a.b":"1"}.
// YAML decodes nested maps as map[string]any under yaml.v3, TOML likewise,
// so one walk covers both.
func flatten(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(key, sub, dst)
			continue
		}
		dst[key] = stringify(v)
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}
