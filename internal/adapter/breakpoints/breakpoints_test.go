package breakpoints

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/air-quality-risk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customPM25 = `
[[pm25]]
upper = 15.0
category = "Good"
description = "Clean air."

[[pm25]]
upper = 40.0
category = "Moderate"
description = "Acceptable air."

[[pm25]]
category = "Hazardous"
description = "Stay inside."
`

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClassifier(), c)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breakpoints.toml")
	require.NoError(t, os.WriteFile(path, []byte(customPM25), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	require.Len(t, c.PM25.Tiers, 3)
	assert.Equal(t, 15.0, c.PM25.Tiers[0].UpperBound)
	assert.True(t, c.PM25.Tiers[2].Open())

	// PM10 section absent: built-in table kept.
	assert.Equal(t, domain.PM10Table(), c.PM10)

	category, description := c.ClassifyPM25(15)
	assert.Equal(t, domain.Good, category)
	assert.Equal(t, "Clean air.", description)

	category, _ = c.ClassifyPM25(41)
	assert.Equal(t, domain.Hazardous, category)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read breakpoints file")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "malformed toml",
			content: "[[pm25]\nupper = ",
			wantErr: "failed to parse breakpoints",
		},
		{
			name:    "unknown field",
			content: "[[pm25]]\nupper = 1.0\ncategory = \"Good\"\ncolour = \"green\"\n",
			wantErr: "failed to parse breakpoints",
		},
		{
			name:    "unknown category",
			content: "[[pm10]]\ncategory = \"Toxic\"\n",
			wantErr: "unknown category",
		},
		{
			name:    "final tier bounded",
			content: "[[pm10]]\nupper = 50.0\ncategory = \"Good\"\n",
			wantErr: "final tier must be open",
		},
		{
			name: "categories out of order",
			content: `
[[pm10]]
upper = 50.0
category = "Unhealthy"
[[pm10]]
category = "Moderate"
`,
			wantErr: "does not follow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_InvalidTableWrapsSentinel(t *testing.T) {
	_, err := Parse([]byte("[[pm10]]\nupper = 50.0\ncategory = \"Good\"\n"))
	require.ErrorIs(t, err, domain.ErrInvalidTable)
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Encode(domain.DefaultClassifier())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[pm25]]")
	assert.Contains(t, string(data), "Unhealthy for Sensitive Groups")

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClassifier(), c)

	for _, v := range []float64{0, 12, 35.4, 35.5, 55.4, 150.4, 250.4, 300} {
		pm10 := v * 1.7
		assert.Equal(t, domain.OverallHealthRisk(v, &pm10), c.Assess(v, &pm10))
	}
}
