package vocab

import "fmt"

var centuryTerms = map[int]string{
	-9: "ninth-bce",
	-8: "eighth-bce",
	-7: "seventh-bce",
	-6: "sixth-bce",
	-5: "fifth-bce",
	-4: "fourth-bce",
	-3: "third-bce",
	-2: "second-bce",
	-1: "first-bce",
	1:  "first-ce",
	2:  "second-ce",
	3:  "third-ce",
	4:  "fourth-ce",
	5:  "fifth-ce",
	6:  "sixth-ce",
	7:  "seventh-ce",
	8:  "eighth-ce",
	9:  "ninth-ce",
}

// Modern attestation periods used for names recorded by the survey.
const (
	PeriodTwentiethCE   = "twentieth-ce"
	PeriodTwentyFirstCE = "twenty-first-ce"
)

// PeriodTerm returns the Pleiades time-period slug for a century, where
// negative centuries are BCE and there is no century zero.
func PeriodTerm(century int) (string, error) {
	term, ok := centuryTerms[century]
	if !ok {
		return "", fmt.Errorf("no time period for century %d", century)
	}
	return term, nil
}
