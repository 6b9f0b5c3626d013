// Package skills provides the static skill catalog and deterministic skill extraction.
package skills

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var catalogData []byte

// Category is a named group of skills in catalog order.
type Category struct {
	Name   string   `toml:"name" json:"name"`
	Skills []string `toml:"skills" json:"skills"`
}

type contextEntry struct {
	Skill    string   `toml:"skill"`
	Keywords []string `toml:"keywords"`
}

type catalogFile struct {
	Categories []Category     `toml:"category"`
	Context    []contextEntry `toml:"context"`
}

// matcher decides whether a single catalog skill occurs in a text.
type matcher struct {
	skill    string
	category string
	// substring is set for skills whose edges are not word characters (C++, C#, .NET);
	// a regexp word boundary can never anchor on those edges.
	substring string
	pattern   *regexp.Regexp
}

// Catalog is an immutable skill vocabulary. It is safe for concurrent use.
type Catalog struct {
	categories []Category
	matchers   []matcher
	context    map[string][]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog, parsed once per process.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(catalogData)
		if err != nil {
			panic(fmt.Sprintf("failed to load embedded skill catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse builds a catalog from TOML data.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to decode skill catalog: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("skill catalog has no categories")
	}

	c := &Catalog{
		categories: make([]Category, 0, len(file.Categories)),
		context:    make(map[string][]string, len(file.Context)),
	}

	for _, cat := range file.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("skill catalog category without a name")
		}
		skillsCopy := make([]string, 0, len(cat.Skills))
		for _, skill := range cat.Skills {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			m, err := newMatcher(cat.Name, skill)
			if err != nil {
				return nil, err
			}
			c.matchers = append(c.matchers, m)
			skillsCopy = append(skillsCopy, skill)
		}
		c.categories = append(c.categories, Category{Name: cat.Name, Skills: skillsCopy})
	}

	for _, entry := range file.Context {
		key := strings.ToLower(strings.TrimSpace(entry.Skill))
		if key == "" {
			continue
		}
		keywords := make([]string, 0, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		c.context[key] = keywords
	}

	return c, nil
}

func newMatcher(category, skill string) (matcher, error) {
	lower := strings.ToLower(skill)
	if !isWordByte(lower[0]) || !isWordByte(lower[len(lower)-1]) {
		return matcher{skill: skill, category: category, substring: lower}, nil
	}

	// Skill names go through the same normalization as the text so that
	// "Node.js" matches "node js" after '.' has been replaced.
	words := strings.Fields(normalize(lower))
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	re, err := regexp.Compile(`\b` + strings.Join(quoted, `\s+`) + `\b`)
	if err != nil {
		return matcher{}, fmt.Errorf("failed to compile pattern for skill %q: %w", skill, err)
	}
	return matcher{skill: skill, category: category, pattern: re}, nil
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Categories returns a copy of the catalog categories in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Skills: append([]string(nil), cat.Skills...)}
	}
	return out
}

// All returns every skill in the catalog.
func (c *Catalog) All() Set {
	set := make(Set, len(c.matchers))
	for _, m := range c.matchers {
		set.Add(m.skill)
	}
	return set
}

var skillTokenSplit = regexp.MustCompile(`[\s\-/]+`)

// ContextKeywords returns the lowercase keywords that indicate related experience
// for a skill. Skills without a table entry fall back to their own name tokens.
func (c *Catalog) ContextKeywords(skill string) []string {
	lower := strings.ToLower(strings.TrimSpace(skill))
	if keywords, ok := c.context[lower]; ok {
		return append([]string(nil), keywords...)
	}

	var tokens []string
	for _, tok := range skillTokenSplit.Split(lower, -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
