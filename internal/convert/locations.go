package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/isawnyu/pleiades-dura-converter/internal/geometry"
	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/vocab"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

// buildLocations creates one location per usable geometry in the
// coordinate column. Geometries that cannot be read are logged and
// skipped; a readable but invalid geometry fails the row.
func buildLocations(title string, row ydea.Row, featureType []string) ([]pleiades.Location, error) {
	log := logging.Get(logging.CategoryGeometry)

	raws, err := geometry.ParseField(row.Get(ydea.ColGeometry))
	switch {
	case err != nil:
		log.Errorf("Skipping malformed geometry for %q: %v", title, err)
		return []pleiades.Location{}, nil
	case len(raws) == 0:
		log.Warnf("Skipping empty geometry for %q.", title)
		return []pleiades.Location{}, nil
	}

	var (
		accuracyID, prefix string
		attestations       []pleiades.Attestation
		resolved           bool
	)
	locations := []pleiades.Location{}
	for _, raw := range raws {
		g, err := geometry.Decode(raw)
		if err != nil {
			if errors.Is(err, geometry.ErrUnsupported) {
				log.Errorf("Unsupported geometry type %q for %q. Skipping ...", geometry.TypeOf(raw), title)
			} else {
				log.Errorf("Skipping malformed geometry for %q: %v", title, err)
			}
			continue
		}
		if g, err = geometry.Orient(g); err != nil {
			return nil, err
		}
		if err := geometry.Validate(g); err != nil {
			return nil, fmt.Errorf("%w (title: %q)", err, title)
		}

		if !resolved {
			var ok bool
			accuracyID, prefix, ok = vocab.AccuracyDocument(row.Accuracy())
			if !ok {
				return nil, fmt.Errorf("%w (%q) for feature with title=%q", ErrUnknownAccuracy, row.Accuracy(), title)
			}
			if attestations, err = rowAttestations(row); err != nil {
				return nil, err
			}
			resolved = true
		}

		encoded, err := geometry.Marshal(g)
		if err != nil {
			return nil, err
		}
		locations = append(locations, pleiades.Location{
			Title:                 prefix + " " + strings.TrimSpace(row.Get(ydea.ColTitle)),
			Geometry:              encoded,
			ArchaeologicalRemains: remains(row),
			Accuracy:              vocab.AccuracyMetadataPath + accuracyID,
			Attestations:          append([]pleiades.Attestation{}, attestations...),
			FeatureType:           append([]string{}, featureType...),
		})
		logging.ConvertDebug("location %d of %q: %s", len(locations), title, geometry.TypeOf(encoded))
	}
	if len(locations) < len(raws) {
		logging.Geometry("Kept %d of %d geometries for %q", len(locations), len(raws), title)
	}
	return locations, nil
}

func remains(row ydea.Row) string {
	if strings.Contains(row.Get(ydea.ColDescription), "traces") {
		return "traces"
	}
	return "substantive"
}
