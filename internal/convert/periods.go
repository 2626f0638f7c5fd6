package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/vocab"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

const confident = "confident"

var (
	rxBCE = regexp.MustCompile(`(\d+)(-\d+)? BCE`)
	rxCE  = regexp.MustCompile(`(\d+)(-\d+)? CE`)
)

// ParseYear extracts a year from free text such as "c. 150 BCE" or
// "256 CE". BCE years are negative. A range like "150-100 BCE" yields its
// first year.
func ParseYear(raw string) (int, error) {
	sign := -1
	m := rxBCE.FindStringSubmatch(raw)
	if m == nil {
		sign = 1
		m = rxCE.FindStringSubmatch(raw)
	}
	if m == nil {
		return 0, fmt.Errorf("%w from string %q", ErrYear, raw)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w from string %q: %v", ErrYear, raw, err)
	}
	return sign * n, nil
}

// Century returns the century containing year, counting from 1 CE and
// from 1 BCE backwards: years 1..100 are century 1 and -1..-100 are
// century -1. Year 0 has no century and returns 0.
func Century(year int) int {
	switch {
	case year > 0:
		return (year-1)/100 + 1
	case year < 0:
		return -((-year-1)/100 + 1)
	}
	return 0
}

// Attestations dates a feature from its inception and dissolution cells.
// With both bounds every century from start to end is attested; with one
// bound only that century is.
func Attestations(start, end string) ([]pleiades.Attestation, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return []pleiades.Attestation{}, nil
	}

	var from, to int
	switch {
	case start != "" && end != "":
		sy, err := ParseYear(start)
		if err != nil {
			return nil, err
		}
		ey, err := ParseYear(end)
		if err != nil {
			return nil, err
		}
		from, to = Century(sy), Century(ey)
		if from > to {
			return nil, fmt.Errorf("%w: %q ends before %q begins", ErrPeriod, end, start)
		}
	case start != "":
		y, err := ParseYear(start)
		if err != nil {
			return nil, err
		}
		from = Century(y)
		to = from
	default:
		y, err := ParseYear(end)
		if err != nil {
			return nil, err
		}
		from = Century(y)
		to = from
	}

	out := []pleiades.Attestation{}
	for c := from; c <= to; c++ {
		if c == 0 {
			continue
		}
		term, err := vocab.PeriodTerm(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPeriod, err)
		}
		out = append(out, pleiades.Attestation{TimePeriod: term, Confidence: confident})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %q to %q", ErrPeriod, start, end)
	}
	return out, nil
}

func rowAttestations(row ydea.Row) ([]pleiades.Attestation, error) {
	return Attestations(row.Get(ydea.ColInception), row.Get(ydea.ColDissolved))
}
