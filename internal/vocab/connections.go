package vocab

import "strings"

// PleiadesPlacesPrefix prefixes every Pleiades place URI.
const PleiadesPlacesPrefix = "https://pleiades.stoa.org/places/"

// connectionTargets maps the labels used in the connection columns to a
// Pleiades URI or to the title of another converted place.
var connectionTargets = map[string]string{
	"Dura-Europos":                          PleiadesPlacesPrefix + "893990",
	"city wall":                             PleiadesPlacesPrefix + "15685985",
	"City Wall of Dura-Europos":             PleiadesPlacesPrefix + "15685985",
	"City walls of Dura-Europos":            PleiadesPlacesPrefix + "15685985",
	"Part of Military camp after c. 100 CE": "Military Base",
	"citadel of Dura-Europos":               "Citadel of Dura-Europos",
	"citadel fortification of Dura-Europos": "Citadel Fortification of Dura-Europos",
	"military campus after c. 100 CE":       "Military Campus",
	"agora":                                 "Agora of Dura-Europos",
	"military camp":                         "Military Base",
}

// ConnectionTarget translates a connection label. The label is tried as
// given and then titleized.
func ConnectionTarget(label string) (string, bool) {
	if t, ok := connectionTargets[label]; ok {
		return t, true
	}
	t, ok := connectionTargets[Titleize(label)]
	return t, ok
}

// IsPleiadesPlace reports whether target is a Pleiades place URI.
func IsPleiadesPlace(target string) bool {
	return strings.HasPrefix(target, PleiadesPlacesPrefix)
}
