package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/isawnyu/pleiades-dura-converter/internal/geometry"
	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

var fullHeader = []string{
	"Title", "Description", "Place type", "Source", "accuracy_document", "Alias",
	"Inception", "Dissolved/demolished", "Coordinate location GEOJSON",
	"Location", colPartOf, "Structure replaces", "Other connections",
}

const (
	jamesStatement = "plan used= James 2019 Plate XXII, georectified plan in QGIS, checked against satellite imagery"
	cwSquare       = `{"type":"Polygon","coordinates":[[[0,0],[0,1],[1,1],[1,0],[0,0]]]}`
	bowTie         = `{"type":"Polygon","coordinates":[[[0,0],[2,2],[2,0],[0,2],[0,0]]]}`
)

const colPartOf = "Part of (larger organizational unit at D-E)"

// buildTable encodes rows as CSV under header and reads them back.
func buildTable(t *testing.T, header []string, rows ...map[string]string) *ydea.Table {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(header))
	for _, row := range rows {
		rec := make([]string, len(header))
		for i, h := range header {
			rec[i] = row[h]
		}
		require.NoError(t, w.Write(rec))
	}
	w.Flush()
	require.NoError(t, w.Error())

	table, err := ydea.Read(&buf, ydea.Options{})
	require.NoError(t, err)
	return table
}

func towerRow() map[string]string {
	row := map[string]string{
		"Title":                       "tower 14",
		"Description":                 "a tower  of the wall",
		"Place type":                  "tower (wall)",
		"Source":                      "Baird 2018, p. 12; James 2019",
		"accuracy_document":           "dura-europos-walls-and-towers-baird-chen",
		"Alias":                       "Tower of the Archers",
		"Inception":                   "c. 150 BCE",
		"Dissolved/demolished":        "256 CE",
		"Coordinate location GEOJSON": cwSquare,
		"Location":                    "Dura-Europos",
	}
	row[colPartOf] = "city wall"
	return row
}

func agoraRow() map[string]string {
	return map[string]string{
		"Title":                       "agora of dura-europos",
		"Description":                 "the agora; traces of shops",
		"Place type":                  "q187909 agora",
		"Source":                      "Baird 2012, Fig. 1.3; Baird 2012, Fig. 1.4; Smith 2001 fig. 2",
		"accuracy_document":           jamesStatement,
		"Coordinate location GEOJSON": `{"type":"Point","coordinates":[40.7285,34.7475]}`,
		"Other connections":           "near Tower 14",
	}
}

// observeLogs routes every category logger to an in-memory core.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(nil) })
	return logs
}

func convertRows(t *testing.T, opts Options, rows ...map[string]string) ([]pleiades.Place, error) {
	t.Helper()
	return New(opts).Convert(context.Background(), buildTable(t, fullHeader, rows...))
}

// =============================================================================
// FULL CONVERSION
// =============================================================================

func TestConvert_Tower(t *testing.T) {
	places, err := convertRows(t, Options{Workers: 2, Validate: true}, towerRow(), agoraRow())
	require.NoError(t, err)
	require.Len(t, places, 2)

	tower := places[0]
	assert.Equal(t, "Tower 14", tower.Title)
	assert.Equal(t, "A tower of the wall."+fortificationHistory, tower.Description)
	assert.Equal(t, []string{"tower-wall"}, tower.PlaceType)

	require.Len(t, tower.Names, 1)
	assert.Equal(t, "Tower of the Archers", tower.Names[0].NameAttested)
	assert.Equal(t, "geographic", tower.Names[0].NameType)
	assert.Len(t, tower.Names[0].Attestations, 2)

	require.Len(t, tower.Locations, 1)
	loc := tower.Locations[0]
	assert.Equal(t, "Plan location of tower 14", loc.Title)
	assert.Equal(t, "substantive", loc.ArchaeologicalRemains)
	assert.Equal(t, "/features/metadata/dura-europos-walls-and-towers-baird-chen", loc.Accuracy)
	assert.Equal(t, []string{"tower-wall"}, loc.FeatureType)
	assert.JSONEq(t, `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`, string(loc.Geometry))

	wantPeriods := []pleiades.Attestation{
		{TimePeriod: "second-bce", Confidence: "confident"},
		{TimePeriod: "first-bce", Confidence: "confident"},
		{TimePeriod: "first-ce", Confidence: "confident"},
		{TimePeriod: "second-ce", Confidence: "confident"},
		{TimePeriod: "third-ce", Confidence: "confident"},
	}
	if diff := cmp.Diff(wantPeriods, loc.Attestations); diff != "" {
		t.Errorf("attestations mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, tower.References, 2)
	assert.Equal(t, "Baird 2018", tower.References[0].ShortTitle)
	assert.Equal(t, "p. 12", tower.References[0].CitationDetail)
	assert.Equal(t, "James 2019", tower.References[1].ShortTitle)
	assert.Empty(t, tower.References[1].CitationDetail)

	wantConns := []pleiades.Connection{
		{Connection: "https://pleiades.stoa.org/places/893990", RelationshipType: "at"},
		{Connection: "https://pleiades.stoa.org/places/15685985", RelationshipType: "part_of_physical"},
	}
	if diff := cmp.Diff(wantConns, tower.Connections); diff != "" {
		t.Errorf("connections mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_Agora(t *testing.T) {
	places, err := convertRows(t, Options{Workers: 1}, towerRow(), agoraRow())
	require.NoError(t, err)

	agora := places[1]
	assert.Equal(t, "Agora of Dura-Europos", agora.Title)
	assert.Equal(t, "The agora; traces of shops.", agora.Description)
	assert.Equal(t, []string{"agora"}, agora.PlaceType)
	assert.Empty(t, agora.Names)
	assert.NotNil(t, agora.Names)

	require.Len(t, agora.Locations, 1)
	loc := agora.Locations[0]
	assert.Equal(t, "Plan location of agora of dura-europos", loc.Title)
	assert.Equal(t, "traces", loc.ArchaeologicalRemains)
	assert.Equal(t, "/features/metadata/dura-europos-james-chen", loc.Accuracy)
	assert.Empty(t, loc.Attestations)

	// Only the known, mined citation survives, once.
	require.Len(t, agora.References, 1)
	assert.Equal(t, "Baird 2012", agora.References[0].ShortTitle)

	assert.Equal(t, []pleiades.Connection{{Connection: "Tower 14", RelationshipType: "near"}}, agora.Connections)
}

func TestConvert_OrderIndependentOfWorkers(t *testing.T) {
	var rows []map[string]string
	for _, title := range []string{"block a1", "block a2", "block a3", "block a4", "block a5", "block a6"} {
		rows = append(rows, map[string]string{
			"Title":                       title,
			"Description":                 "City block.",
			"Place type":                  "city block",
			"accuracy_document":           "dura-europos-block-l7-chen",
			"Coordinate location GEOJSON": `{"type":"Point","coordinates":[1,2]}`,
		})
	}
	serial, err := convertRows(t, Options{Workers: 1}, rows...)
	require.NoError(t, err)
	parallel, err := convertRows(t, Options{Workers: 4}, rows...)
	require.NoError(t, err)

	if diff := cmp.Diff(serial, parallel); diff != "" {
		t.Errorf("worker count changed output (-serial +parallel):\n%s", diff)
	}
	assert.Equal(t, "Block A6", parallel[5].Title)
	assert.Equal(t, "Total station location of block a6", parallel[5].Locations[0].Title)
}

// =============================================================================
// GEOMETRY HANDLING
// =============================================================================

func TestConvert_SkipsUnusableGeometry(t *testing.T) {
	for name, geo := range map[string]string{
		"empty":       "",
		"malformed":   `{"type": "Point", "coordinates": [1, 2]`,
		"unsupported": `{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`,
	} {
		t.Run(name, func(t *testing.T) {
			row := towerRow()
			row["Coordinate location GEOJSON"] = geo
			row["accuracy_document"] = "no such document"
			places, err := convertRows(t, Options{}, row)
			require.NoError(t, err)
			assert.Empty(t, places[0].Locations)
			assert.NotNil(t, places[0].Locations)
		})
	}
}

func TestConvert_LogsKeptGeometryCount(t *testing.T) {
	logs := observeLogs(t)
	row := towerRow()
	row["Coordinate location GEOJSON"] = "[" + cwSquare + `,{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}]`

	places, err := convertRows(t, Options{}, row)
	require.NoError(t, err)
	assert.Len(t, places[0].Locations, 1)

	kept := logs.FilterLoggerName("geometry").FilterMessage(`Kept 1 of 2 geometries for "Tower 14"`)
	assert.Equal(t, 1, kept.Len())
	assert.Equal(t, zapcore.InfoLevel, kept.All()[0].Level)
}

func TestConvert_InvalidGeometry(t *testing.T) {
	row := towerRow()
	row["Coordinate location GEOJSON"] = bowTie
	_, err := convertRows(t, Options{}, row)
	require.Error(t, err)
	assert.True(t, errors.Is(err, geometry.ErrInvalid))
	assert.Contains(t, err.Error(), "Ring Self-intersection[1 1]")
	assert.Contains(t, err.Error(), `"Tower 14"`)
}

func TestConvert_UnknownAccuracy(t *testing.T) {
	row := towerRow()
	row["accuracy_document"] = "surveyed by eye"
	_, err := convertRows(t, Options{}, row)
	assert.True(t, errors.Is(err, ErrUnknownAccuracy))
}

// =============================================================================
// TITLES AND CONNECTIONS
// =============================================================================

func TestConvert_TitleCollision(t *testing.T) {
	dup := towerRow()
	dup["Title"] = "Tower  14"
	_, err := convertRows(t, Options{}, towerRow(), dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTitleCollision))
	assert.Contains(t, err.Error(), `"Tower 14"`)
}

func TestConvert_EmptyTitle(t *testing.T) {
	row := towerRow()
	row["Title"] = "  "
	_, err := convertRows(t, Options{}, row)
	assert.True(t, errors.Is(err, ErrEmptyValue))
}

func TestConvert_UnresolvedConnection(t *testing.T) {
	row := towerRow()
	row["Structure replaces"] = "tower 13"
	_, err := convertRows(t, Options{}, row, agoraRow())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedConnection))
	assert.Contains(t, err.Error(), `Tower 14: "Tower 13"`)
	assert.Contains(t, err.Error(), "\tAgora of Dura-Europos\n\tTower 14\n")
}

func TestConvert_ConnectionAliasToPlaceTitle(t *testing.T) {
	row := towerRow()
	row[colPartOf] = "agora"
	places, err := convertRows(t, Options{}, row, agoraRow())
	require.NoError(t, err)
	assert.Contains(t, places[0].Connections,
		pleiades.Connection{Connection: "Agora of Dura-Europos", RelationshipType: "part_of_physical"})
}

func TestConvert_MissingConnectionColumns(t *testing.T) {
	header := []string{"Title", "Description", "Place type", "Source", "accuracy_document"}
	c := New(Options{})
	table := buildTable(t, header, map[string]string{
		"Title":       "house c3",
		"Description": "A house.",
		"Place type":  "house",
	})
	places, err := c.Convert(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Empty(t, places[0].Connections)
	assert.Len(t, c.warnedMissing, len(connectionColumns))
}

func TestConvert_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Options{}).Convert(ctx, buildTable(t, fullHeader, towerRow()))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCount(t *testing.T) {
	places, err := convertRows(t, Options{}, towerRow(), agoraRow())
	require.NoError(t, err)
	assert.Equal(t, Counts{Places: 2, Names: 1, Locations: 2, References: 3, Connections: 3}, Count(places))
}
