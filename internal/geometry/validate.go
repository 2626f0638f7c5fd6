package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
	"github.com/twpayne/go-geom/xy/orientation"
)

// ErrInvalid is wrapped by every ValidityError.
var ErrInvalid = errors.New("invalid geometry")

// ValidityError explains why a geometry is invalid, in GEOS wording.
type ValidityError struct {
	Reason string
	At     geom.Coord // location of the problem, if known
}

func (e *ValidityError) Error() string {
	if len(e.At) < 2 {
		return e.Reason
	}
	return fmt.Sprintf("%s[%s %s]", e.Reason, fmtOrd(e.At[0]), fmtOrd(e.At[1]))
}

func (e *ValidityError) Unwrap() error { return ErrInvalid }

func fmtOrd(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func invalid(reason string, at geom.Coord) error {
	return &ValidityError{Reason: reason, At: at}
}

// Validate returns nil when g is a valid simple feature, or a
// *ValidityError describing the first problem found.
func Validate(g geom.T) error {
	switch g := g.(type) {
	case *geom.Point:
		return checkFinite([]geom.Coord{g.Coords()})
	case *geom.LineString:
		coords := g.Coords()
		if err := checkFinite(coords); err != nil {
			return err
		}
		if len(coords) < 2 {
			return invalid("Too few points in geometry component", first(coords))
		}
		return nil
	case *geom.Polygon:
		return validatePolygon(g)
	}
	return fmt.Errorf("%w: %T", ErrUnsupported, g)
}

func validatePolygon(p *geom.Polygon) error {
	rings := p.Coords()
	if len(rings) == 0 {
		return invalid("Empty polygon", nil)
	}
	for i, ring := range rings {
		if err := checkFinite(ring); err != nil {
			return err
		}
		if len(ring) < 4 {
			return invalid("Too few points in geometry component", first(ring))
		}
		if !sameXY(ring[0], ring[len(ring)-1]) {
			return invalid("Ring not closed", ring[0])
		}
		simple := dedupe(ring)
		if len(simple) < 4 {
			return invalid("Too few points in geometry component", ring[0])
		}
		if at, ok := selfIntersection(simple); ok {
			return invalid("Ring Self-intersection", at)
		}
		if xy.SignedArea(p.Layout(), p.LinearRing(i).FlatCoords()) == 0 {
			return invalid("Too few points in geometry component", ring[0])
		}
	}

	layout := p.Layout()
	shell := p.LinearRing(0).FlatCoords()
	for i, hole := range rings[1:] {
		if at, ok := ringsCross(hole, rings[0]); ok {
			return invalid("Self-intersection", at)
		}
		for _, c := range hole {
			if xy.LocatePointInRing(layout, c, shell) == location.Exterior {
				return invalid("Hole lies outside shell", c)
			}
		}
		for j := i + 1; j < len(rings)-1; j++ {
			other := rings[j+1]
			if at, ok := ringsCross(hole, other); ok {
				return invalid("Self-intersection", at)
			}
			if at, ok := insideRing(layout, other, p.LinearRing(i+1).FlatCoords()); ok {
				return invalid("Holes are nested", at)
			}
			if at, ok := insideRing(layout, hole, p.LinearRing(j+1).FlatCoords()); ok {
				return invalid("Holes are nested", at)
			}
		}
	}
	return nil
}

// ringsCross returns the first point where an edge of a properly crosses an
// edge of b, or where the two rings share a stretch of boundary. Rings may
// touch at single points.
func ringsCross(a, b []geom.Coord) (geom.Coord, bool) {
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if at, ok := crossOrOverlap(a[i], a[i+1], b[j], b[j+1]); ok {
				return at, true
			}
		}
	}
	return nil, false
}

// insideRing returns the first point of coords strictly inside ring.
func insideRing(layout geom.Layout, coords []geom.Coord, ring []float64) (geom.Coord, bool) {
	for _, c := range coords {
		if xy.LocatePointInRing(layout, c, ring) == location.Interior {
			return c, true
		}
	}
	return nil, false
}

func checkFinite(coords []geom.Coord) error {
	for _, c := range coords {
		for _, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid("Invalid Coordinate", c)
			}
		}
	}
	return nil
}

func first(coords []geom.Coord) geom.Coord {
	if len(coords) == 0 {
		return nil
	}
	return coords[0]
}

func sameXY(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// dedupe drops consecutive repeated points, which are valid but would read
// as zero-length segments touching their neighbours.
func dedupe(ring []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, 0, len(ring))
	for _, c := range ring {
		if len(out) > 0 && sameXY(out[len(out)-1], c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// selfIntersection tests every pair of ring segments. Adjacent segments
// intersect only when the ring doubles back on itself.
func selfIntersection(ring []geom.Coord) (geom.Coord, bool) {
	n := len(ring) - 1 // segments; ring is closed
	for i := 0; i < n; i++ {
		if at, ok := backtrack(ring[i], ring[i+1], ring[(i+2)%n]); ok {
			return at, true
		}
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // first and last segments share the closing point
			}
			if at, ok := segmentsIntersect(ring[i], ring[i+1], ring[j], ring[j+1]); ok {
				return at, true
			}
		}
	}
	return nil, false
}

// backtrack reports whether the path p-s-q folds back over itself at s.
func backtrack(p, s, q geom.Coord) (geom.Coord, bool) {
	if xy.OrientationIndex(p, s, q) != orientation.Collinear {
		return nil, false
	}
	switch {
	case within(p, s, q):
		return q, true
	case within(s, q, p):
		return p, true
	}
	return nil, false
}

// crossOrOverlap is segmentsIntersect without the single-point touches.
func crossOrOverlap(a, b, c, d geom.Coord) (geom.Coord, bool) {
	o1 := xy.OrientationIndex(a, b, c)
	o2 := xy.OrientationIndex(a, b, d)
	o3 := xy.OrientationIndex(c, d, a)
	o4 := xy.OrientationIndex(c, d, b)

	if o1 != o2 && o3 != o4 && o1 != orientation.Collinear && o2 != orientation.Collinear &&
		o3 != orientation.Collinear && o4 != orientation.Collinear {
		return crossing(a, b, c, d), true
	}
	if o1 != orientation.Collinear || o2 != orientation.Collinear {
		return nil, false
	}
	// Collinear: shared boundary when the overlap is longer than a point.
	for _, r := range []geom.Coord{a, b, c, d} {
		if strictlyWithin(a, b, r) || strictlyWithin(c, d, r) {
			return r, true
		}
	}
	if (sameXY(a, c) && sameXY(b, d)) || (sameXY(a, d) && sameXY(b, c)) {
		return a, true
	}
	return nil, false
}

func strictlyWithin(p, q, r geom.Coord) bool {
	return within(p, q, r) && !sameXY(r, p) && !sameXY(r, q)
}

func segmentsIntersect(a, b, c, d geom.Coord) (geom.Coord, bool) {
	o1 := xy.OrientationIndex(a, b, c)
	o2 := xy.OrientationIndex(a, b, d)
	o3 := xy.OrientationIndex(c, d, a)
	o4 := xy.OrientationIndex(c, d, b)

	if o1 != o2 && o3 != o4 && o1 != orientation.Collinear && o2 != orientation.Collinear &&
		o3 != orientation.Collinear && o4 != orientation.Collinear {
		return crossing(a, b, c, d), true
	}
	switch {
	case o1 == orientation.Collinear && within(a, b, c):
		return c, true
	case o2 == orientation.Collinear && within(a, b, d):
		return d, true
	case o3 == orientation.Collinear && within(c, d, a):
		return a, true
	case o4 == orientation.Collinear && within(c, d, b):
		return b, true
	}
	return nil, false
}

// within reports whether r, known to be collinear with p-q, lies on p-q.
func within(p, q, r geom.Coord) bool {
	return r[0] >= math.Min(p[0], q[0]) && r[0] <= math.Max(p[0], q[0]) &&
		r[1] >= math.Min(p[1], q[1]) && r[1] <= math.Max(p[1], q[1])
}

func crossing(a, b, c, d geom.Coord) geom.Coord {
	den := (a[0]-b[0])*(c[1]-d[1]) - (a[1]-b[1])*(c[0]-d[0])
	t := ((a[0]-c[0])*(c[1]-d[1]) - (a[1]-c[1])*(c[0]-d[0])) / den
	return geom.Coord{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
}
