// Package texts holds the Uzbek message catalog shown to customers and staff.
package texts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed uz.yaml
var embedded []byte

// Catalog resolves message strings using dot-separated keys.
type Catalog struct {
	entries map[string]string
}

// Load parses the embedded message catalog.
func Load() (*Catalog, error) {
	return parse(embedded, "embedded uz.yaml")
}

// LoadFile parses a message catalog from path, overriding the embedded one.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texts: read file %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, source string) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("texts: parse %s: %w", source, err)
	}

	entries := make(map[string]string)
	flatten("", raw, entries)
	if len(entries) == 0 {
		return nil, fmt.Errorf("texts: %s contains no messages", source)
	}

	return &Catalog{entries: entries}, nil
}

// T returns the message for key, or the key itself when missing.
func (c *Catalog) T(key string) string {
	if c == nil || c.entries == nil {
		return key
	}
	if value, ok := c.entries[key]; ok {
		return value
	}
	return key
}

// F formats the message for key with fmt.Sprintf semantics.
func (c *Catalog) F(key string, args ...any) string {
	return fmt.Sprintf(c.T(key), args...)
}

// Len reports the number of loaded messages.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func flatten(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, nested := range v {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			full := key
			if prefix != "" {
				full = prefix + "." + key
			}
			flatten(full, nested, out)
		}
	case string:
		if prefix != "" {
			out[prefix] = v
		}
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(v)
		}
	}
}
