// Package breakpoints loads breakpoint tables from TOML files so tier bounds
// can change without touching the merge logic.
//
// File format:
//
//	[[pm25]]
//	upper = 12.0
//	category = "Good"
//	description = "Air quality is satisfactory. Minimal health risk."
//
//	[[pm25]]            # last tier omits upper and is open-ended
//	category = "Hazardous"
//	description = "..."
//
//	[[pm10]]
//	upper = 54.0
//	category = "Good"
//
// A pollutant section that is absent keeps the built-in table.
package breakpoints

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/air-quality-risk/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

type fileSpec struct {
	PM25 []tierSpec `toml:"pm25"`
	PM10 []tierSpec `toml:"pm10"`
}

type tierSpec struct {
	Upper       *float64 `toml:"upper,omitempty"`
	Category    string   `toml:"category"`
	Description string   `toml:"description,omitempty"`
}

// Load reads and validates a breakpoint file. An empty path returns the
// built-in tables.
func Load(path string) (domain.Classifier, error) {
	if path == "" {
		return domain.DefaultClassifier(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Classifier{}, fmt.Errorf("read breakpoints file: %w", err)
	}
	c, err := Parse(content)
	if err != nil {
		return domain.Classifier{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes TOML breakpoint tables. Unknown keys are rejected.
func Parse(content []byte) (domain.Classifier, error) {
	var doc fileSpec
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return domain.Classifier{}, fmt.Errorf("failed to parse breakpoints: %w", err)
	}

	c := domain.DefaultClassifier()
	if len(doc.PM25) > 0 {
		table, err := buildTable(domain.PM25, doc.PM25)
		if err != nil {
			return domain.Classifier{}, err
		}
		c.PM25 = table
	}
	if len(doc.PM10) > 0 {
		table, err := buildTable(domain.PM10, doc.PM10)
		if err != nil {
			return domain.Classifier{}, err
		}
		c.PM10 = table
	}

	if err := c.Validate(); err != nil {
		return domain.Classifier{}, err
	}
	return c, nil
}

func buildTable(pollutant domain.Pollutant, tiers []tierSpec) (domain.Table, error) {
	table := domain.Table{Pollutant: pollutant, Tiers: make([]domain.Tier, 0, len(tiers))}
	for i, s := range tiers {
		category, err := domain.ParseCategory(s.Category)
		if err != nil {
			return domain.Table{}, fmt.Errorf("%s tier %d: %w", pollutant, i, err)
		}
		upper := math.Inf(1)
		if s.Upper != nil {
			upper = *s.Upper
		}
		table.Tiers = append(table.Tiers, domain.Tier{
			UpperBound:  upper,
			Category:    category,
			Description: s.Description,
		})
	}
	return table, nil
}

// Encode writes a classifier's tables in the file format Parse reads.
func Encode(c domain.Classifier) ([]byte, error) {
	doc := fileSpec{
		PM25: encodeTable(c.PM25),
		PM10: encodeTable(c.PM10),
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode breakpoints: %w", err)
	}
	return out, nil
}

func encodeTable(t domain.Table) []tierSpec {
	tiers := make([]tierSpec, 0, len(t.Tiers))
	for _, tier := range t.Tiers {
		s := tierSpec{Category: tier.Category.String(), Description: tier.Description}
		if !tier.Open() {
			upper := tier.UpperBound
			s.Upper = &upper
		}
		tiers = append(tiers, s)
	}
	return tiers
}
