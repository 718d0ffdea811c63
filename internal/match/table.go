package match

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"beanthere/internal/domain/models"
)

//go:embed config/cafes.yaml
var configFiles embed.FS

// Entry is the metadata known for one cafe chain or roaster
type Entry struct {
	Key     string        `yaml:"key" json:"key"`
	Vibes   []string      `yaml:"vibes" json:"vibes"`
	Flavors []string      `yaml:"flavors" json:"flavors"`
	Milk    []string      `yaml:"milk" json:"milk"`
	Budget  models.Budget `yaml:"budget" json:"budget"`
}

// Table is an ordered list of entries. Order is significant: Lookup returns
// the first entry whose key is contained in the name.
type Table struct {
	Entries []Entry `yaml:"cafes"`
}

// LoadTable parses a table from YAML
func LoadTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cafe table: %w", err)
	}
	for i := range t.Entries {
		t.Entries[i].Key = NormalizeName(t.Entries[i].Key)
		if t.Entries[i].Key == "" {
			return nil, fmt.Errorf("cafe table entry %d has an empty key", i)
		}
	}
	return &t, nil
}

// DefaultTable loads the embedded cafe table
func DefaultTable() (*Table, error) {
	data, err := configFiles.ReadFile("config/cafes.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read cafe table: %w", err)
	}
	return LoadTable(data)
}

// Lookup returns the first entry whose key is a substring of the normalized
// name, or nil.
func (t *Table) Lookup(name string) *Entry {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil
	}
	for i := range t.Entries {
		if strings.Contains(normalized, t.Entries[i].Key) {
			return &t.Entries[i]
		}
	}
	return nil
}
