package domain

// AlertLevel is the banner style a display uses for a score.
type AlertLevel string

const (
	AlertSuccess AlertLevel = "success"
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)

// AlertLevelFor maps a score to its banner level: 0 success, 1 info,
// 2 warning, anything higher error.
func AlertLevelFor(score int) AlertLevel {
	switch {
	case score <= 0:
		return AlertSuccess
	case score == 1:
		return AlertInfo
	case score == 2:
		return AlertWarning
	default:
		return AlertError
	}
}

var (
	lowRiskActions = []string{
		"Outdoor activities are generally safe for most people.",
		"Sensitive groups (asthma, children, elderly) should still stay informed.",
		"Keep monitoring air quality if there are nearby construction or forest fires.",
	}
	sensitiveRiskActions = []string{
		"People with asthma, children and elderly should limit long outdoor activities.",
		"Consider wearing a mask during outdoor exposure.",
		"Keep windows closed during peak pollution hours.",
	}
	unhealthyActions = []string{
		"Everyone should reduce outdoor activities, especially exercise.",
		"High-risk groups should stay indoors where air is cleaner.",
		"Use air purifiers / masks if available and avoid busy roads.",
	}
	severeActions = []string{
		"Avoid going outdoors unless absolutely necessary.",
		"Keep doors and windows closed.",
		"Follow local government alerts and seek medical help if symptoms worsen.",
	}
)

// Actions returns the recommended actions for a score in four bands:
// ≤1, 2, 3 and ≥4. The returned slice is a copy.
func Actions(score int) []string {
	var src []string
	switch {
	case score <= 1:
		src = lowRiskActions
	case score == 2:
		src = sensitiveRiskActions
	case score == 3:
		src = unhealthyActions
	default:
		src = severeActions
	}
	return append([]string(nil), src...)
}
