// Package loader creates content objects in the store from a Pleiades
// places document: one Place per entry, with its names and locations as
// child objects, all in a single transaction.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gosimple/slug"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/store"
)

// Workflow choices and the review states they map to.
var workflowStates = map[string]string{
	"draft":   store.StatePrivate,
	"review":  store.StatePending,
	"publish": store.StatePublished,
}

// DefaultOwner owns created content when no owner is given.
const DefaultOwner = "admin"

// Options configures a load.
type Options struct {
	PlacesPath    string // folder receiving new places
	Workflow      string // draft, review or publish
	Owner         string
	Creators      []string
	Contributors  []string
	Message       string // commit message
	DryRun        bool
	ProgressEvery int       // write a progress dot every N places; 0 disables
	Progress      io.Writer // receives progress dots; nil disables
}

// Loader loads places into a content store.
type Loader struct {
	Store   *store.Store
	Options Options
}

// New returns a Loader after checking opts.
func New(st *store.Store, opts Options) (*Loader, error) {
	if opts.Workflow == "" {
		opts.Workflow = "draft"
	}
	if _, ok := workflowStates[opts.Workflow]; !ok {
		return nil, fmt.Errorf("invalid workflow %q (want publish, review or draft)", opts.Workflow)
	}
	if opts.Owner == "" {
		opts.Owner = DefaultOwner
	}
	if opts.PlacesPath == "" {
		opts.PlacesPath = "places"
	}
	return &Loader{Store: st, Options: opts}, nil
}

// Result reports the places a load created, or would have created.
type Result struct {
	IDs    []string
	Titles []string
	DryRun bool
}

// field is one key/value pair to set on an object.
type field struct {
	key   string
	value interface{}
}

// Load creates every place in one transaction. A dry run rolls the
// transaction back; otherwise every created object is reindexed and the
// transaction committed with the configured message.
func (l *Loader) Load(ctx context.Context, places []pleiades.Place) (*Result, error) {
	opts := l.Options
	log := logging.Get(logging.CategoryLoad)
	logging.Load("Loading %d new places into %s", len(places), opts.PlacesPath)

	tx, err := l.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res := &Result{DryRun: opts.DryRun}
	var created []string
	objs := make([]*store.Object, len(places))
	for i, place := range places {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		obj, paths, err := l.loadPlace(tx, place)
		if err != nil {
			return nil, fmt.Errorf("place %d (%q): %w", i+1, place.Title, err)
		}
		objs[i] = obj
		res.IDs = append(res.IDs, obj.ID)
		res.Titles = append(res.Titles, place.Title)
		created = append(created, paths...)

		if opts.Progress != nil && opts.ProgressEvery > 0 && (i+1)%opts.ProgressEvery == 0 {
			fmt.Fprint(opts.Progress, ".")
		}
	}

	// Connections resolve against place titles, so they are set once every
	// place in the batch exists.
	for i, place := range places {
		if err := l.setConnections(tx, objs[i], place.Connections); err != nil {
			return nil, fmt.Errorf("place %d (%q): %w", i+1, place.Title, err)
		}
	}

	if opts.DryRun {
		if err := tx.Rollback(); err != nil {
			return nil, err
		}
		log.Infof("Dry run: rolled back %d places", len(res.IDs))
		return res, nil
	}

	for _, path := range created {
		if err := tx.Reindex(path); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(opts.Message, opts.Owner); err != nil {
		return nil, err
	}
	log.Infof("Created and reindexed %d places (%d objects)", len(res.IDs), len(created))
	return res, nil
}

// loadPlace creates one place and its children, returning the place and
// every created path. Connections are left for setConnections.
func (l *Loader) loadPlace(tx *store.Tx, place pleiades.Place) (*store.Object, []string, error) {
	id, err := tx.GenerateID(l.Options.PlacesPath)
	if err != nil {
		return nil, nil, err
	}
	obj, err := tx.Create(l.Options.PlacesPath, store.TypePlace, id)
	if err != nil {
		return nil, nil, err
	}
	err = l.setFields(tx, obj, []field{
		{"title", place.Title},
		{"description", place.Description},
		{"placeType", place.PlaceType},
		{"references", place.References},
	})
	if err != nil {
		return nil, nil, err
	}
	paths := []string{obj.Path}

	ids := idSet{}
	for _, name := range place.Names {
		child, err := l.createChild(tx, obj.Path, store.TypeName, ids.claim(nameID(name)), []field{
			{"title", name.NameTransliterated},
			{"nameLanguage", name.NameLanguage},
			{"nameTransliterated", name.NameTransliterated},
			{"nameAttested", name.NameAttested},
			{"nameType", name.NameType},
			{"attestations", name.Attestations},
		})
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, child)
	}
	for _, loc := range place.Locations {
		child, err := l.createChild(tx, obj.Path, store.TypeLocation, ids.claim(locationID(loc)), []field{
			{"title", loc.Title},
			{"geometry", loc.Geometry},
			{"archaeologicalRemains", loc.ArchaeologicalRemains},
			{"accuracy", loc.Accuracy},
			{"attestations", loc.Attestations},
			{"featureType", loc.FeatureType},
		})
		if err != nil {
			return nil, nil, err
		}
		paths = append(paths, child)
	}
	return obj, paths, nil
}

// setConnections stores a place's connections. A target that matches no
// place in the store is logged and the field left unset.
func (l *Loader) setConnections(tx *store.Tx, obj *store.Object, conns []pleiades.Connection) error {
	if len(conns) == 0 {
		return nil
	}
	err := tx.SetField(obj, store.FieldConnections, conns)
	if errors.Is(err, store.ErrInvalidReference) {
		logging.Get(logging.CategoryLoad).Warnf("Invalid reference on field %q of %s: %v. Skipping.", store.FieldConnections, obj.Path, err)
		return nil
	}
	return err
}

func nameID(n pleiades.Name) string {
	if id := MakeNameID(n.NameTransliterated); id != "" {
		return id
	}
	return "name"
}

func locationID(loc pleiades.Location) string {
	if id := slug.Make(loc.Title); id != "" {
		return id
	}
	return "location"
}

func (l *Loader) createChild(tx *store.Tx, parent string, typ store.ContentType, id string, fields []field) (string, error) {
	obj, err := tx.Create(parent, typ, id)
	if err != nil {
		return "", err
	}
	if err := l.setFields(tx, obj, fields); err != nil {
		return "", err
	}
	return obj.Path, nil
}

// setFields sets each field on obj, then applies workflow and ownership.
// The document key "references" is stored as referenceCitations.
func (l *Loader) setFields(tx *store.Tx, obj *store.Object, fields []field) error {
	opts := l.Options
	for _, f := range fields {
		key := f.key
		if key == "references" {
			key = "referenceCitations"
		}
		if !store.HasField(obj.Type, key) {
			return fmt.Errorf("%w: %s has no field %q", store.ErrNoField, obj.Type, f.key)
		}

		var err error
		switch key {
		case store.FieldTitle:
			err = tx.SetTitle(obj, fmt.Sprint(f.value))
		case store.FieldDescription:
			err = tx.SetDescription(obj, fmt.Sprint(f.value))
		case "referenceCitations":
			refs, _ := f.value.([]pleiades.Reference)
			if err = tx.ResizeField(obj, key, len(refs)); err == nil {
				err = tx.SetField(obj, key, f.value)
			}
		default:
			err = tx.SetField(obj, key, f.value)
		}
		if errors.Is(err, store.ErrInvalidReference) {
			logging.Get(logging.CategoryLoad).Warnf("Invalid reference on field %q. Skipping.", f.key)
			continue
		}
		if err != nil {
			return err
		}
	}

	if err := tx.SetWorkflowState(obj, workflowStates[opts.Workflow]); err != nil {
		return err
	}
	return tx.SetOwnership(obj, opts.Owner, opts.Creators, opts.Contributors)
}
