package pleiades

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlace() Place {
	return Place{
		Title:       "Tower 19",
		Description: "A tower of the western wall.",
		PlaceType:   []string{"tower-wall"},
		Names: []Name{{
			NameLanguage:       "en",
			NameTransliterated: "Tower of the Archers",
			NameAttested:       "Tower of the Archers",
			NameType:           "geographic",
			Attestations: []Attestation{
				{TimePeriod: "twentieth-ce", Confidence: "confident"},
				{TimePeriod: "twenty-first-ce", Confidence: "confident"},
			},
		}},
		Locations: []Location{{
			Title:                 "Plan location of Tower 19",
			Geometry:              json.RawMessage(`{"type":"Point","coordinates":[40.72,34.74]}`),
			ArchaeologicalRemains: "substantive",
			Accuracy:              "/features/metadata/dura-europos-walls-and-towers-baird-chen",
			Attestations:          []Attestation{{TimePeriod: "second-bce", Confidence: "confident"}},
			FeatureType:           []string{"tower-wall"},
		}},
		References: []Reference{{
			ShortTitle:        "Baird 2018",
			FormattedCitation: "Baird, Jennifer A. Dura-Europos. London: Bloomsbury, 2018.",
			BibliographicURI:  "https://www.zotero.org/groups/2533/items/QL32DCUE",
			AccessURI:         "http://www.worldcat.org/oclc/1034731631",
			CitationDetail:    "p. 12",
		}},
		Connections: []Connection{{
			Connection:       "https://pleiades.stoa.org/places/15685985",
			RelationshipType: "part_of_physical",
		}},
	}
}

// =============================================================================
// ENCODING
// =============================================================================

func TestWrite_EmptySlicesAndFormatting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Place{{Title: "Gate & Street", Description: "Ruins of a gate at Dura–Europos."}}, DefaultIndent))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "]\n"))
	assert.Contains(t, out, "\n    {\n        \"title\": \"Gate & Street\"")
	assert.Contains(t, out, "Dura–Europos")
	assert.Contains(t, out, `"names": []`)
	assert.Contains(t, out, `"connections": []`)
	assert.NotContains(t, out, "null")
}

func TestWrite_NegativeIndentUsesDefault(t *testing.T) {
	got, err := Marshal([]Place{samplePlace()}, -1)
	require.NoError(t, err)
	want, err := Marshal([]Place{samplePlace()}, DefaultIndent)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))
}

func TestWriteFile_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "places.json")
	in := []Place{samplePlace(), {Title: "Block L7", Description: "A city block."}}
	require.NoError(t, WriteFile(path, in, 2))

	got, err := ReadFile(path)
	require.NoError(t, err)
	want := []Place{samplePlace(), {Title: "Block L7", Description: "A city block."}}
	want[1].normalize()
	if diff := cmp.Diff(want, got, cmp.Comparer(sameJSON)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// sameJSON compares raw geometries ignoring the indentation Write adds.
func sameJSON(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader(`[{"title": 1}]`))
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// =============================================================================
// STRUCT VALIDATION
// =============================================================================

func TestValidatePlace(t *testing.T) {
	require.NoError(t, ValidatePlace(samplePlace()))

	p := samplePlace()
	p.Description = ""
	p.Locations[0].ArchaeologicalRemains = "rubble"
	p.Locations[0].Attestations[0].Confidence = "sure"
	p.Connections[0].RelationshipType = ""

	err := ValidatePlace(p)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `invalid place "Tower 19"`)
	assert.Contains(t, msg, "Description is required")
	assert.Contains(t, msg, "Locations[0].ArchaeologicalRemains must be one of")
	assert.Contains(t, msg, "Locations[0].Attestations[0].Confidence")
	assert.Contains(t, msg, "Connections[0].RelationshipType is required")
}

func TestValidatePlace_AccuracyPath(t *testing.T) {
	p := samplePlace()
	p.Locations[0].Accuracy = "dura-europos-james-chen"
	err := ValidatePlace(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Locations[0].Accuracy failed startswith=/features/metadata/")
}

// =============================================================================
// SCHEMA VALIDATION
// =============================================================================

func TestValidateDocument_Valid(t *testing.T) {
	data, err := Marshal([]Place{samplePlace(), {Title: "Agora of Dura-Europos", Description: "The agora."}}, DefaultIndent)
	require.NoError(t, err)
	assert.NoError(t, ValidateDocument(data))
}

func TestValidateDocument_Violations(t *testing.T) {
	doc := `[
		{
			"title": "Tower 19",
			"description": "",
			"placeType": [],
			"names": [],
			"locations": [{
				"title": "Plan location of Tower 19",
				"geometry": {"type": "MultiPoint", "coordinates": [[1, 2]]},
				"archaeologicalRemains": "rubble",
				"accuracy": "/features/metadata/dura-europos-james-chen",
				"attestations": [],
				"featureType": []
			}],
			"references": [],
			"connections": [],
			"extra": true
		}
	]`
	err := ValidateDocument([]byte(doc))
	require.Error(t, err)

	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	paths := make([]string, 0, len(serr.Violations))
	for _, v := range serr.Violations {
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, "/0/description")
	assert.Contains(t, paths, "/0/locations/0/geometry/type")
	assert.Contains(t, paths, "/0/locations/0/archaeologicalRemains")
	assert.Contains(t, err.Error(), "schema violation(s)")
}

func TestValidateDocument_NotJSON(t *testing.T) {
	err := ValidateDocument([]byte(`[{`))
	require.Error(t, err)
	var serr *SchemaError
	assert.False(t, errors.As(err, &serr))
}

func TestValidateDocument_NotAnArray(t *testing.T) {
	err := ValidateDocument([]byte(`{"title": "x"}`))
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	require.Len(t, serr.Violations, 1)
	assert.Equal(t, "", serr.Violations[0].Path)
}
