package refdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Catalog holds the valid city-name→code map and the ordered travel-purpose
// list. It is loaded once at startup and read-only afterwards; validation of
// user input depends on it being complete, so loading failures are fatal to
// the caller.
type Catalog struct {
	cities    map[string]string
	cityNames []string // insertion order, for suggestions and prompt injection
	purposes  []string
}

// Load reads both reference tables. City rows are "name,code"; the purpose
// file has one purpose per line (a single-column CSV).
func Load(cityTablePath, purposeTablePath string) (*Catalog, error) {
	cat := &Catalog{cities: make(map[string]string)}

	cityRows, err := readTable(cityTablePath)
	if err != nil {
		return nil, fmt.Errorf("city table %s: %w", cityTablePath, err)
	}
	for i, row := range cityRows {
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
			return nil, fmt.Errorf("city table %s: malformed row %d", cityTablePath, i+1)
		}
		name := strings.TrimSpace(row[0])
		if _, dup := cat.cities[name]; !dup {
			cat.cityNames = append(cat.cityNames, name)
		}
		cat.cities[name] = strings.TrimSpace(row[1])
	}
	if len(cat.cities) == 0 {
		return nil, fmt.Errorf("city table %s: no entries", cityTablePath)
	}

	purposeRows, err := readTable(purposeTablePath)
	if err != nil {
		return nil, fmt.Errorf("purpose table %s: %w", purposeTablePath, err)
	}
	for i, row := range purposeRows {
		if len(row) < 1 || strings.TrimSpace(row[0]) == "" {
			return nil, fmt.Errorf("purpose table %s: malformed row %d", purposeTablePath, i+1)
		}
		cat.purposes = append(cat.purposes, strings.TrimSpace(row[0]))
	}
	if len(cat.purposes) == 0 {
		return nil, fmt.Errorf("purpose table %s: no entries", purposeTablePath)
	}

	return cat, nil
}

func readTable(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// CityCode resolves a city name to its wire code.
func (c *Catalog) CityCode(name string) (string, bool) {
	code, ok := c.cities[name]
	return code, ok
}

// ValidPurpose reports whether p is a known travel purpose.
func (c *Catalog) ValidPurpose(p string) bool {
	for _, known := range c.purposes {
		if known == p {
			return true
		}
	}
	return false
}

// SuggestCities returns up to n valid city names closest to the given input,
// preferring names sharing a prefix or substring with it.
func (c *Catalog) SuggestCities(input string, n int) []string {
	return suggest(c.cityNames, input, n)
}

// SuggestPurposes returns up to n valid purposes closest to the given input.
func (c *Catalog) SuggestPurposes(input string, n int) []string {
	return suggest(c.purposes, input, n)
}

// CityPairs renders the "name → code" lines injected into the oracle prompt.
func (c *Catalog) CityPairs() string {
	var b strings.Builder
	for _, name := range c.cityNames {
		b.WriteString(name)
		b.WriteString(" → ")
		b.WriteString(c.cities[name])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// PurposeList renders the comma-joined purpose list for prompt injection.
func (c *Catalog) PurposeList() string {
	return strings.Join(c.purposes, ", ")
}

func suggest(candidates []string, input string, n int) []string {
	if n <= 0 {
		return nil
	}
	lower := strings.ToLower(strings.TrimSpace(input))

	type scored struct {
		name  string
		score int
		order int
	}
	ranked := make([]scored, 0, len(candidates))
	for i, cand := range candidates {
		cl := strings.ToLower(cand)
		score := 0
		switch {
		case lower != "" && strings.HasPrefix(cl, lower):
			score = 2
		case lower != "" && strings.Contains(cl, lower):
			score = 1
		}
		ranked = append(ranked, scored{name: cand, score: score, order: i})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, r.name)
	}
	return out
}
