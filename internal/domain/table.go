package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTable is returned by Table.Validate for malformed breakpoint tables.
var ErrInvalidTable = errors.New("invalid breakpoint table")

// Pollutant identifies the measured particulate fraction.
type Pollutant string

const (
	PM25 Pollutant = "PM2.5"
	PM10 Pollutant = "PM10"
)

// Tier is one row of a breakpoint table. UpperBound is inclusive; the last
// tier of a table is open and uses +Inf.
type Tier struct {
	UpperBound  float64
	Category    Category
	Description string
}

// Open reports whether the tier has no upper bound.
func (t Tier) Open() bool {
	return math.IsInf(t.UpperBound, 1)
}

type tierJSON struct {
	UpperBound  *float64 `json:"upper_bound"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
}

// MarshalJSON writes an open upper bound as null; JSON has no infinity.
func (t Tier) MarshalJSON() ([]byte, error) {
	out := tierJSON{Category: t.Category, Description: t.Description}
	if !t.Open() {
		bound := t.UpperBound
		out.UpperBound = &bound
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null or missing upper bound as open.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var in tierJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Category = in.Category
	t.Description = in.Description
	t.UpperBound = math.Inf(1)
	if in.UpperBound != nil {
		t.UpperBound = *in.UpperBound
	}
	return nil
}

// Table is an ordered set of tiers for one pollutant.
type Table struct {
	Pollutant Pollutant `json:"pollutant"`
	Tiers     []Tier    `json:"tiers"`
}

// Classify returns the first tier whose inclusive upper bound is not exceeded
// by v. Values that satisfy no bound (NaN included) fall into the last tier.
// An empty table yields the zero Tier.
func (t Table) Classify(v float64) Tier {
	if len(t.Tiers) == 0 {
		return Tier{}
	}
	for _, tier := range t.Tiers {
		if v <= tier.UpperBound {
			return tier
		}
	}
	return t.Tiers[len(t.Tiers)-1]
}

// Validate checks that the table is non-empty, bounds and categories strictly
// increase, and only the final tier is open.
func (t Table) Validate() error {
	if len(t.Tiers) == 0 {
		return fmt.Errorf("%w: %s has no tiers", ErrInvalidTable, t.Pollutant)
	}
	for i, tier := range t.Tiers {
		if !tier.Category.Valid() {
			return fmt.Errorf("%w: %s tier %d has unknown category %d", ErrInvalidTable, t.Pollutant, i, int(tier.Category))
		}
		if math.IsNaN(tier.UpperBound) {
			return fmt.Errorf("%w: %s tier %d bound is NaN", ErrInvalidTable, t.Pollutant, i)
		}
		last := i == len(t.Tiers)-1
		if last != tier.Open() {
			if last {
				return fmt.Errorf("%w: %s final tier must be open", ErrInvalidTable, t.Pollutant)
			}
			return fmt.Errorf("%w: %s tier %d is open but not last", ErrInvalidTable, t.Pollutant, i)
		}
		if i == 0 {
			continue
		}
		prev := t.Tiers[i-1]
		if tier.UpperBound <= prev.UpperBound {
			return fmt.Errorf("%w: %s bound %g does not exceed %g", ErrInvalidTable, t.Pollutant, tier.UpperBound, prev.UpperBound)
		}
		if tier.Category <= prev.Category {
			return fmt.Errorf("%w: %s category %s does not follow %s", ErrInvalidTable, t.Pollutant, tier.Category, prev.Category)
		}
	}
	return nil
}

// PM25Table returns the fixed PM2.5 breakpoints with their descriptions.
func PM25Table() Table {
	return Table{
		Pollutant: PM25,
		Tiers: []Tier{
			{UpperBound: 12, Category: Good, Description: "Air quality is satisfactory. Minimal health risk."},
			{UpperBound: 35.4, Category: Moderate, Description: "Air is acceptable, but sensitive groups may feel mild effects."},
			{UpperBound: 55.4, Category: UnhealthyForSensitiveGroups, Description: "People with asthma, children, and elderly should reduce outdoor activity."},
			{UpperBound: 150.4, Category: Unhealthy, Description: "Everyone may start to feel health effects. Limit outdoor activities."},
			{UpperBound: 250.4, Category: VeryUnhealthy, Description: "Health alert: serious effects for sensitive groups. Stay indoors if possible."},
			{UpperBound: math.Inf(1), Category: Hazardous, Description: "Health warning: emergency conditions. Avoid outdoor exposure."},
		},
	}
}

// PM10Table returns the fixed PM10 breakpoints. PM10 tiers carry no text.
func PM10Table() Table {
	return Table{
		Pollutant: PM10,
		Tiers: []Tier{
			{UpperBound: 54, Category: Good},
			{UpperBound: 154, Category: Moderate},
			{UpperBound: 254, Category: UnhealthyForSensitiveGroups},
			{UpperBound: 354, Category: Unhealthy},
			{UpperBound: 424, Category: VeryUnhealthy},
			{UpperBound: math.Inf(1), Category: Hazardous},
		},
	}
}
