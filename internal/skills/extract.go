package skills

import (
	"strings"
)

// Categorized maps a catalog category to the skills found for it, in catalog order.
type Categorized map[string][]string

var normalizer = strings.NewReplacer("/", " ", ",", " ", ".", " ")

// normalize lowercases text and replaces '/', ',' and '.' with spaces.
func normalize(text string) string {
	return normalizer.Replace(strings.ToLower(text))
}

// Extract finds catalog skills in text. Categories without hits are omitted.
// Empty text yields an empty map.
func (c *Catalog) Extract(text string) Categorized {
	result := make(Categorized)
	if strings.TrimSpace(text) == "" {
		return result
	}

	lower := strings.ToLower(text)
	normalized := normalize(text)

	for _, m := range c.matchers {
		var found bool
		if m.pattern == nil {
			found = strings.Contains(lower, m.substring)
		} else {
			found = m.pattern.MatchString(normalized)
		}
		if found {
			result[m.category] = append(result[m.category], m.skill)
		}
	}

	return result
}

// Extract runs the default catalog against text.
func Extract(text string) Categorized {
	return Default().Extract(text)
}

// Flatten unions all category sets.
func Flatten(categorized Categorized) Set {
	set := make(Set)
	for _, list := range categorized {
		for _, skill := range list {
			set.Add(skill)
		}
	}
	return set
}

// ExtractSet is Flatten(Extract(text)) against the default catalog.
func ExtractSet(text string) Set {
	return Flatten(Extract(text))
}
