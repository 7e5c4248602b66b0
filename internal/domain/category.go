package domain

import (
	"fmt"
	"strings"
)

// Category is an air-quality health-risk level. Declaration order is severity
// rank, so categories compare with the usual integer operators.
type Category int

const (
	Good Category = iota
	Moderate
	UnhealthyForSensitiveGroups
	Unhealthy
	VeryUnhealthy
	Hazardous
)

var categoryLabels = [...]string{
	Good:                        "Good",
	Moderate:                    "Moderate",
	UnhealthyForSensitiveGroups: "Unhealthy for Sensitive Groups",
	Unhealthy:                   "Unhealthy",
	VeryUnhealthy:               "Very Unhealthy",
	Hazardous:                   "Hazardous",
}

// Categories returns every category from least to most severe.
func Categories() []Category {
	return []Category{Good, Moderate, UnhealthyForSensitiveGroups, Unhealthy, VeryUnhealthy, Hazardous}
}

// Valid reports whether c is one of the six defined categories.
func (c Category) Valid() bool {
	return c >= Good && c <= Hazardous
}

// String returns the display label, e.g. "Unhealthy for Sensitive Groups".
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryLabels[c]
}

// Score is the 0–5 risk score for the category: Good is 0, Hazardous is 5.
// It equals the severity rank, which keeps the mapping injective and
// order-preserving.
func (c Category) Score() int {
	return int(c)
}

// Worse returns the more severe of a and b. Ties return a.
func Worse(a, b Category) Category {
	if a >= b {
		return a
	}
	return b
}

// ParseCategory accepts a display label ("Very Unhealthy") or its identifier
// form ("VeryUnhealthy"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	key := normalizeLabel(s)
	for _, c := range Categories() {
		if normalizeLabel(c.String()) == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

// MarshalText encodes the category as its display label.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a label accepted by ParseCategory.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
