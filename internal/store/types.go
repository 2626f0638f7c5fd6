package store

import (
	"encoding/json"
	"time"
)

// ContentType names a kind of content object.
type ContentType string

const (
	TypePlace    ContentType = "Place"
	TypeName     ContentType = "Name"
	TypeLocation ContentType = "Location"
)

// Field names shared by every content type.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
)

// FieldConnections holds a place's links to other places.
const FieldConnections = "connections"

var typeFields = map[ContentType][]string{
	TypePlace: {
		FieldTitle, FieldDescription, "placeType", FieldConnections, "referenceCitations",
	},
	TypeName: {
		FieldTitle, FieldDescription, "nameLanguage", "nameTransliterated", "nameAttested",
		"nameType", "attestations",
	},
	TypeLocation: {
		FieldTitle, FieldDescription, "geometry", "archaeologicalRemains", "accuracy",
		"attestations", "featureType",
	},
}

// HasField reports whether objects of type t have field.
func HasField(t ContentType, field string) bool {
	for _, f := range typeFields[t] {
		if f == field {
			return true
		}
	}
	return false
}

// Known reports whether t is a content type the store can create.
func Known(t ContentType) bool {
	_, ok := typeFields[t]
	return ok
}

// Workflow states.
const (
	StatePrivate   = "private"
	StatePending   = "pending"
	StatePublished = "published"
)

// Object is a content object.
type Object struct {
	Path         string
	Parent       string
	ID           string
	UID          string
	Type         ContentType
	Title        string
	Description  string
	Fields       map[string]json.RawMessage
	ReviewState  string
	Owner        string
	Creators     []string
	Contributors []string
	Created      time.Time
	Modified     time.Time
}

// Field returns the stored JSON value of field, or nil when unset.
func (o *Object) Field(field string) json.RawMessage {
	return o.Fields[field]
}
