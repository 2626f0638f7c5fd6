package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

func TestBuildDescription(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
		want string
	}{
		{"unchanged", map[string]string{"Description": "A house."}, "A house."},
		{"normalised", map[string]string{"Description": "  small   house\twith court "}, "Small house with court."},
		{"unicode first letter", map[string]string{"Description": "état de la porte"}, "État de la porte."},
		{
			"gate with fortification history",
			map[string]string{
				"Description":          "Palmyrene gate",
				"Place type":           "city gate",
				"Inception":            "c. 150 BCE",
				"Dissolved/demolished": " 256 CE ",
			},
			"Palmyrene gate." + fortificationHistory,
		},
		{
			"tower outside the fortification period",
			map[string]string{
				"Description":          "Tower.",
				"Place type":           "tower (wall)",
				"Inception":            "c. 100 CE",
				"Dissolved/demolished": "256 CE",
			},
			"Tower.",
		},
		{
			"house matching the dates",
			map[string]string{
				"Description":          "House.",
				"Place type":           "house",
				"Inception":            "c. 150 BCE",
				"Dissolved/demolished": "256 CE",
			},
			"House.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDescription(ydea.NewRow(tt.row))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDescription_Empty(t *testing.T) {
	_, err := buildDescription(ydea.NewRow(map[string]string{"Description": " \t "}))
	assert.True(t, errors.Is(err, ErrEmptyValue))
}

func TestBuildNames(t *testing.T) {
	assert.Empty(t, buildNames(ydea.NewRow(map[string]string{"Alias": " "})))

	names := buildNames(ydea.NewRow(map[string]string{"Alias": " Palmyrene Gate "}))
	require.Len(t, names, 1)
	assert.Equal(t, "en", names[0].NameLanguage)
	assert.Equal(t, "Palmyrene Gate", names[0].NameTransliterated)
	assert.Equal(t, "Palmyrene Gate", names[0].NameAttested)
	assert.Equal(t, "twentieth-ce", names[0].Attestations[0].TimePeriod)
	assert.Equal(t, "twenty-first-ce", names[0].Attestations[1].TimePeriod)
}
