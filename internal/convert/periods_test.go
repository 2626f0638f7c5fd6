package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"c. 150 BCE", -150},
		{"256 CE", 256},
		{"ca. 300-280 BCE", -300},
		{"after c. 100 CE", 100},
		{"165 CE (Roman conquest)", 165},
	}
	for _, tt := range tests {
		got, err := ParseYear(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseYear("Hellenistic")
	assert.True(t, errors.Is(err, ErrYear))
}

func TestCentury(t *testing.T) {
	tests := map[int]int{
		1:    1,
		100:  1,
		101:  2,
		256:  3,
		-1:   -1,
		-100: -1,
		-101: -2,
		-150: -2,
		0:    0,
	}
	for year, want := range tests {
		assert.Equal(t, want, Century(year), "year %d", year)
	}
}

func TestAttestations(t *testing.T) {
	periods := func(start, end string) []string {
		t.Helper()
		atts, err := Attestations(start, end)
		require.NoError(t, err)
		out := []string{}
		for _, a := range atts {
			assert.Equal(t, "confident", a.Confidence)
			out = append(out, a.TimePeriod)
		}
		return out
	}

	assert.Equal(t, []string{}, periods("", ""))
	assert.Equal(t, []string{"second-ce"}, periods("c. 165 CE", ""))
	assert.Equal(t, []string{"third-ce"}, periods("", "256 CE"))
	assert.Equal(t, []string{"third-ce"}, periods("c. 210 CE", "256 CE"))
	assert.Equal(t, []string{"first-bce", "first-ce"}, periods("c. 50 BCE", "c. 50 CE"))
	assert.Equal(t, []string{"third-bce", "second-bce", "first-bce", "first-ce"}, periods("300 BCE", "1 CE"))
}

func TestAttestations_Errors(t *testing.T) {
	_, err := Attestations("Seleucid", "256 CE")
	assert.True(t, errors.Is(err, ErrYear))

	_, err = Attestations("256 CE", "c. 150 BCE")
	assert.True(t, errors.Is(err, ErrPeriod))

	_, err = Attestations("1200 CE", "")
	assert.True(t, errors.Is(err, ErrPeriod))

	_, err = Attestations("0 CE", "")
	assert.True(t, errors.Is(err, ErrPeriod))
}
