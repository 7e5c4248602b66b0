// Package domain classifies particulate-matter readings into air-quality
// health-risk categories.
//
// # Readings
//
// Concentrations are micrograms per cubic meter (µg/m³):
//
//	PM2.5: fine particulate matter, diameter ≤ 2.5 µm. Always required.
//	PM10:  coarse particulate matter, diameter ≤ 10 µm. Optional.
//
// Readings are trusted as given. Negative values land in the lowest tier and
// values above the last bound (or NaN) land in Hazardous by the same rule.
//
// # Breakpoint Tables
//
// Each pollutant has its own ordered table of inclusive upper bounds. Tiers are
// tested low to high and the first bound the value does not exceed wins, so a
// reading exactly on a boundary belongs to the lower (safer) tier:
//
//	PM2.5: ≤12 Good | ≤35.4 Moderate | ≤55.4 USG | ≤150.4 Unhealthy | ≤250.4 Very Unhealthy | Hazardous
//	PM10:  ≤54 Good | ≤154 Moderate  | ≤254 USG  | ≤354 Unhealthy   | ≤424 Very Unhealthy   | Hazardous
//
// Only PM2.5 tiers carry a description.
//
// # Merge Rule
//
// When both readings are present the merged category is the more severe of the
// two. On a tie the PM2.5 category is kept. The score (0–5) is derived from the
// merged category alone. The description always narrates the PM2.5 tier, even
// when PM10 determined the category; callers that need to know can compare the
// per-pollutant categories themselves.
//
// # Advice
//
// Recommended actions and alert levels are fixed text keyed off the score in
// four bands: ≤1, 2, 3 and ≥4. See [Actions] and [AlertLevelFor].
package domain
