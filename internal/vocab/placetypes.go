package vocab

import (
	"fmt"
	"strings"
)

// placeTypes maps lower-cased YDEA labels to Pleiades place-type slugs.
var placeTypes = map[string]string{
	"tower (wall)":                   "tower-wall",
	"city gate":                      "city-gate",
	"city block":                     "city-block",
	"building (house?)":              "building",
	"house":                          "townhouse",
	"synagogue":                      "synagogue",
	"q16748868 city walls":           "city-wall",
	"q79007 street":                  "street",
	"q20034791 defensive tower":      "tower-defensive",
	"q82117 city gate":               "city-gate",
	"q187909 agora":                  "agora",
	"q1468524 city center":           "city-center",
	"q88291 citadel":                 "citadel",
	"q57346 defensive wall":          "defensive-wall",
	"q53060 gate":                    "gateway",
	"q28228887 insula":               "city-block",
	"q1348006 city block":            "city-block",
	"q42948 wall":                    "wall-2",
	"q23418 postern":                 "postern",
	"q12277 arch":                    "arch",
	"military base":                  "military-base",

	"military assembly ground? training ground?": "space-uncovered",
}

// PlaceType maps one YDEA label to its Pleiades slug.
func PlaceType(label string) (string, error) {
	slug, ok := placeTypes[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", fmt.Errorf("unknown place type %q", label)
	}
	return slug, nil
}

// PlaceTypes maps a ';'-separated place-type cell to unique slugs in
// first-seen order.
func PlaceTypes(field string) ([]string, error) {
	out := []string{}
	seen := make(map[string]bool)
	for _, label := range strings.Split(field, ";") {
		if strings.TrimSpace(label) == "" {
			continue
		}
		slug, err := PlaceType(label)
		if err != nil {
			return nil, err
		}
		if !seen[slug] {
			seen[slug] = true
			out = append(out, slug)
		}
	}
	return out, nil
}
