package domain

import "fmt"

// RiskAssessment is the result of one overall classification.
type RiskAssessment struct {
	Category    Category `json:"category"`
	Score       int      `json:"score"`
	Description string   `json:"description"`
}

// Classifier holds the breakpoint tables used for classification. Tables are
// read-only after construction, so a Classifier is safe for concurrent use.
type Classifier struct {
	PM25 Table `json:"pm25"`
	PM10 Table `json:"pm10"`
}

var defaultClassifier = Classifier{PM25: PM25Table(), PM10: PM10Table()}

// DefaultClassifier returns a Classifier with the fixed PM2.5 and PM10 tables.
func DefaultClassifier() Classifier {
	return Classifier{PM25: PM25Table(), PM10: PM10Table()}
}

// Validate checks both tables.
func (c Classifier) Validate() error {
	if err := c.PM25.Validate(); err != nil {
		return err
	}
	if err := c.PM10.Validate(); err != nil {
		return err
	}
	if c.PM25.Pollutant != PM25 || c.PM10.Pollutant != PM10 {
		return fmt.Errorf("%w: tables assigned to wrong pollutants (%s, %s)", ErrInvalidTable, c.PM25.Pollutant, c.PM10.Pollutant)
	}
	return nil
}

// ClassifyPM25 returns the PM2.5 category and its description.
func (c Classifier) ClassifyPM25(v float64) (Category, string) {
	tier := c.PM25.Classify(v)
	return tier.Category, tier.Description
}

// ClassifyPM10 returns the PM10 category.
func (c Classifier) ClassifyPM10(v float64) Category {
	return c.PM10.Classify(v).Category
}

// Assess classifies pm25 and, when pm10 is non-nil, merges in the PM10
// category via Worse. The score comes from the merged category; the
// description is always the PM2.5 tier's.
func (c Classifier) Assess(pm25 float64, pm10 *float64) RiskAssessment {
	category, description := c.ClassifyPM25(pm25)
	if pm10 != nil {
		category = Worse(category, c.ClassifyPM10(*pm10))
	}
	return RiskAssessment{
		Category:    category,
		Score:       category.Score(),
		Description: description,
	}
}

// ClassifyPM25 classifies a PM2.5 reading against the fixed table.
func ClassifyPM25(v float64) (Category, string) {
	return defaultClassifier.ClassifyPM25(v)
}

// ClassifyPM10 classifies a PM10 reading against the fixed table.
func ClassifyPM10(v float64) Category {
	return defaultClassifier.ClassifyPM10(v)
}

// OverallHealthRisk combines a PM2.5 reading and an optional PM10 reading
// (nil when absent) using the fixed tables.
func OverallHealthRisk(pm25 float64, pm10 *float64) RiskAssessment {
	return defaultClassifier.Assess(pm25, pm10)
}
