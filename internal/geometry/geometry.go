// Package geometry parses the GeoJSON held in the export's coordinate column,
// checks it against the simple-feature validity rules, and orients polygons
// the way Pleiades stores them.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
)

var (
	// ErrMalformed is returned when the coordinate column is not JSON.
	ErrMalformed = errors.New("malformed geometry JSON")
	// ErrUnsupported is returned for geometry types other than Point,
	// LineString and Polygon, and for JSON values that are not geometries.
	ErrUnsupported = errors.New("unsupported geometry")
)

// ParseField splits a coordinate cell into raw GeoJSON geometries. The cell
// may hold a single geometry, an array of geometries, a Feature or a
// FeatureCollection. An empty cell yields no geometries.
func ParseField(text string) ([]json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("%w: %.60q", ErrMalformed, text)
	}

	res := gjson.Parse(text)
	var out []json.RawMessage
	switch {
	case res.IsArray():
		for _, item := range res.Array() {
			if !item.IsObject() {
				return nil, fmt.Errorf("%w: expected object in array, got %s", ErrUnsupported, item.Type)
			}
			out = append(out, unwrap(item)...)
		}
	case res.IsObject():
		out = unwrap(res)
	default:
		return nil, fmt.Errorf("%w: expected object or array, got %s", ErrUnsupported, res.Type)
	}
	return out, nil
}

func unwrap(obj gjson.Result) []json.RawMessage {
	switch obj.Get("type").String() {
	case "Feature":
		g := obj.Get("geometry")
		if !g.IsObject() {
			return nil
		}
		return []json.RawMessage{json.RawMessage(g.Raw)}
	case "FeatureCollection":
		var out []json.RawMessage
		for _, f := range obj.Get("features").Array() {
			out = append(out, unwrap(f)...)
		}
		return out
	}
	return []json.RawMessage{json.RawMessage(obj.Raw)}
}

// TypeOf returns the GeoJSON type member of a raw geometry.
func TypeOf(raw json.RawMessage) string {
	return gjson.GetBytes(raw, "type").String()
}

// Decode decodes one raw geometry. Only Point, LineString and Polygon are
// accepted.
func Decode(raw json.RawMessage) (geom.T, error) {
	switch t := TypeOf(raw); t {
	case "Point", "LineString", "Polygon":
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnsupported, t)
	}
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return g, nil
}

// Marshal encodes g as a GeoJSON geometry object.
func Marshal(g geom.T) (json.RawMessage, error) {
	data, err := geojson.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return json.RawMessage(data), nil
}

// Orient returns polygons with a counter-clockwise shell and clockwise holes.
// Other geometries are returned unchanged.
func Orient(g geom.T) (geom.T, error) {
	p, ok := g.(*geom.Polygon)
	if !ok {
		return g, nil
	}
	rings := p.Coords()
	for i, ring := range rings {
		if len(ring) < 4 {
			continue
		}
		flat := p.LinearRing(i).FlatCoords()
		wantCCW := i == 0
		if xy.IsRingCounterClockwise(p.Layout(), flat) != wantCCW {
			reverse(ring)
		}
	}
	oriented, err := geom.NewPolygon(p.Layout()).SetCoords(rings)
	if err != nil {
		return nil, fmt.Errorf("failed to orient polygon: %w", err)
	}
	oriented.SetSRID(p.SRID())
	return oriented, nil
}

func reverse(ring []geom.Coord) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}
