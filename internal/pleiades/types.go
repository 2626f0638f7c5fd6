// Package pleiades holds the Pleiades place document model: the JSON shape
// written by the converter and read back by the loader, plus struct and
// schema validation of those documents.
package pleiades

import "encoding/json"

// Place is one gazetteer entry.
type Place struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description" validate:"required"`
	PlaceType   []string     `json:"placeType" validate:"dive,required"`
	Names       []Name       `json:"names" validate:"dive"`
	Locations   []Location   `json:"locations" validate:"dive"`
	References  []Reference  `json:"references" validate:"dive"`
	Connections []Connection `json:"connections" validate:"dive"`
}

// Name is a toponym attached to a place.
type Name struct {
	NameLanguage       string        `json:"nameLanguage" validate:"required"`
	NameTransliterated string        `json:"nameTransliterated" validate:"required"`
	NameAttested       string        `json:"nameAttested"`
	NameType           string        `json:"nameType" validate:"required,oneof=geographic ethnic"`
	Attestations       []Attestation `json:"attestations" validate:"dive"`
}

// Location is a positioned feature of a place. Geometry is a raw GeoJSON
// geometry object.
type Location struct {
	Title                 string          `json:"title" validate:"required"`
	Geometry              json.RawMessage `json:"geometry" validate:"required"`
	ArchaeologicalRemains string          `json:"archaeologicalRemains" validate:"oneof=traces substantive"`
	Accuracy              string          `json:"accuracy" validate:"required,startswith=/features/metadata/"`
	Attestations          []Attestation   `json:"attestations" validate:"dive"`
	FeatureType           []string        `json:"featureType" validate:"dive,required"`
}

// Attestation dates a name or location to a time period.
type Attestation struct {
	TimePeriod string `json:"timePeriod" validate:"required"`
	Confidence string `json:"confidence" validate:"oneof=confident less-certain uncertain certain"`
}

// Connection links a place to another place, by Pleiades URI or by title.
type Connection struct {
	Connection       string `json:"connection" validate:"required"`
	RelationshipType string `json:"relationshipType" validate:"required"`
}

// Reference is a bibliographic citation.
type Reference struct {
	ShortTitle        string `json:"short_title" validate:"required"`
	FormattedCitation string `json:"formatted_citation"`
	BibliographicURI  string `json:"bibliographic_uri" validate:"omitempty,url"`
	AccessURI         string `json:"access_uri" validate:"omitempty,url"`
	Identifier        string `json:"identifier,omitempty"`
	CitationDetail    string `json:"citation_detail,omitempty"`
}

// normalize replaces nil slices with empty ones so they encode as [].
func (p *Place) normalize() {
	if p.PlaceType == nil {
		p.PlaceType = []string{}
	}
	if p.Names == nil {
		p.Names = []Name{}
	}
	if p.Locations == nil {
		p.Locations = []Location{}
	}
	if p.References == nil {
		p.References = []Reference{}
	}
	if p.Connections == nil {
		p.Connections = []Connection{}
	}
	for i := range p.Names {
		if p.Names[i].Attestations == nil {
			p.Names[i].Attestations = []Attestation{}
		}
	}
	for i := range p.Locations {
		l := &p.Locations[i]
		if l.Attestations == nil {
			l.Attestations = []Attestation{}
		}
		if l.FeatureType == nil {
			l.FeatureType = []string{}
		}
	}
}
