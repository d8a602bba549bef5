package club

import (
	"fmt"
	"strings"
)

// Club is a static catalog entry describing one monitored football club.
// The keyword list typically carries the full name, common abbreviations,
// nickname and stadium name, all lowercase.
type Club struct {
	Key      string   `yaml:"key"`
	Name     string   `yaml:"name"`
	Emoji    string   `yaml:"emoji"`
	Color    int      `yaml:"color"`
	LogoURL  string   `yaml:"logo_url"`
	Keywords []string `yaml:"keywords"`
}

// Catalog is a read-only set of clubs built once at startup.
type Catalog struct {
	clubs []Club
	byKey map[string]Club
}

func NewCatalog(clubs []Club) (*Catalog, error) {
	byKey := make(map[string]Club, len(clubs))

	for i, c := range clubs {
		if c.Key == "" {
			return nil, fmt.Errorf("club at index %d has empty key", i)
		}
		if _, exists := byKey[c.Key]; exists {
			return nil, fmt.Errorf("duplicate club key: %s", c.Key)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("club '%s' has empty name", c.Key)
		}

		normalized := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("club '%s' has an empty keyword", c.Key)
			}
			normalized = append(normalized, kw)
		}
		clubs[i].Keywords = normalized

		byKey[c.Key] = clubs[i]
	}

	return &Catalog{clubs: clubs, byKey: byKey}, nil
}

func (c *Catalog) Get(key string) (Club, bool) {
	club, ok := c.byKey[key]
	return club, ok
}

func (c *Catalog) All() []Club {
	clubsCopy := make([]Club, len(c.clubs))
	copy(clubsCopy, c.clubs)
	return clubsCopy
}

func (c *Catalog) Len() int {
	return len(c.clubs)
}
