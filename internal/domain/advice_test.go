package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActions(t *testing.T) {
	tests := []struct {
		score int
		first string
	}{
		{0, "Outdoor activities are generally safe for most people."},
		{1, "Outdoor activities are generally safe for most people."},
		{2, "People with asthma, children and elderly should limit long outdoor activities."},
		{3, "Everyone should reduce outdoor activities, especially exercise."},
		{4, "Avoid going outdoors unless absolutely necessary."},
		{5, "Avoid going outdoors unless absolutely necessary."},
	}

	for _, tt := range tests {
		actions := Actions(tt.score)
		assert.Len(t, actions, 3)
		assert.Equal(t, tt.first, actions[0], "score %d", tt.score)
	}
}

func TestActionsReturnsCopy(t *testing.T) {
	actions := Actions(0)
	actions[0] = "mutated"
	assert.NotEqual(t, "mutated", Actions(0)[0])
}

func TestAlertLevelFor(t *testing.T) {
	assert.Equal(t, AlertSuccess, AlertLevelFor(0))
	assert.Equal(t, AlertInfo, AlertLevelFor(1))
	assert.Equal(t, AlertWarning, AlertLevelFor(2))
	assert.Equal(t, AlertError, AlertLevelFor(3))
	assert.Equal(t, AlertError, AlertLevelFor(5))
}
