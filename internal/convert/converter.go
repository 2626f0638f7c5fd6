// Package convert turns rows of the YDEA export into Pleiades places.
//
// Conversion runs in three passes. Titles are normalised first so that
// collisions are caught before any work is done. Each row is then built
// into a place independently, in parallel. Connections are resolved last,
// because their targets are the titles of other places in the same run.
package convert

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/vocab"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

var (
	ErrTitleCollision       = errors.New("title collision")
	ErrEmptyValue           = errors.New("empty value")
	ErrUnknownAccuracy      = errors.New("unexpected accuracy value")
	ErrUnresolvedConnection = errors.New("failed connection title match")
	ErrUnknownReference     = errors.New("unknown reference")
	ErrYear                 = errors.New("could not parse year")
	ErrPeriod               = errors.New("no time period")
)

// Options configures a Converter.
type Options struct {
	Workers  int  // parallel row builders; <= 0 means GOMAXPROCS
	Validate bool // run struct validation on every converted place
}

// Converter converts export tables. A Converter may be reused; warnings
// about missing connection columns are issued once per Converter.
type Converter struct {
	opts Options

	mu            sync.Mutex
	warnedMissing map[string]bool
}

// New creates a Converter.
func New(opts Options) *Converter {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Converter{
		opts:          opts,
		warnedMissing: make(map[string]bool),
	}
}

// Convert converts every row of table. Places are returned in row order.
func (c *Converter) Convert(ctx context.Context, table *ydea.Table) ([]pleiades.Place, error) {
	rows := table.Rows

	titles := make([]string, len(rows))
	byTitle := make(map[string]int, len(rows))
	for i, row := range rows {
		raw := strings.TrimSpace(row.Get(ydea.ColTitle))
		if raw == "" {
			return nil, fmt.Errorf("line %d: title: %w", row.Line, ErrEmptyValue)
		}
		title := vocab.Titleize(raw)
		if prev, dup := byTitle[title]; dup {
			return nil, fmt.Errorf("%w with %q (lines %d and %d)", ErrTitleCollision, title, rows[prev].Line, row.Line)
		}
		byTitle[title] = i
		titles[i] = title
	}

	places := make([]pleiades.Place, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i := range rows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := buildPlace(titles[i], rows[i])
			if err != nil {
				return fmt.Errorf("line %d (%q): %w", rows[i].Line, titles[i], err)
			}
			places[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.warnMissingColumns(table)
	for i, row := range rows {
		conns, err := resolveConnections(row, titles[i], byTitle)
		if err != nil {
			return nil, err
		}
		places[i].Connections = conns
	}

	if c.opts.Validate {
		for _, p := range places {
			if err := pleiades.ValidatePlace(p); err != nil {
				return nil, err
			}
		}
	}

	counts := Count(places)
	logging.Convert("converted %d places: %d names, %d locations, %d references, %d connections",
		counts.Places, counts.Names, counts.Locations, counts.References, counts.Connections)
	return places, nil
}

func buildPlace(title string, row ydea.Row) (pleiades.Place, error) {
	desc, err := buildDescription(row)
	if err != nil {
		return pleiades.Place{}, err
	}
	placeTypes, err := vocab.PlaceTypes(row.PlaceType())
	if err != nil {
		return pleiades.Place{}, err
	}
	locations, err := buildLocations(title, row, placeTypes)
	if err != nil {
		return pleiades.Place{}, err
	}
	refs, err := buildReferences(row.Source())
	if err != nil {
		return pleiades.Place{}, err
	}
	return pleiades.Place{
		Title:       title,
		Description: desc,
		PlaceType:   placeTypes,
		Names:       buildNames(row),
		Locations:   locations,
		References:  refs,
		Connections: []pleiades.Connection{},
	}, nil
}

func (c *Converter) warnMissingColumns(table *ydea.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, col := range connectionColumns {
		if table.HasField(col.name) || c.warnedMissing[col.name] {
			continue
		}
		c.warnedMissing[col.name] = true
		logging.Get(logging.CategoryConnections).Warnf(
			"Expected connection fieldname %q is missing from input data.", col.name)
	}
}

// Counts summarises a conversion.
type Counts struct {
	Places      int
	Names       int
	Locations   int
	References  int
	Connections int
}

// Count tallies the objects held by places.
func Count(places []pleiades.Place) Counts {
	c := Counts{Places: len(places)}
	for _, p := range places {
		c.Names += len(p.Names)
		c.Locations += len(p.Locations)
		c.References += len(p.References)
		c.Connections += len(p.Connections)
	}
	return c
}
