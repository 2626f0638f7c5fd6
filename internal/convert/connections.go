package convert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/vocab"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

// connectionColumns lists the columns holding connections. An empty
// relationship means the first word of each entry names it.
var connectionColumns = []struct {
	name         string
	relationship string
}{
	{"Location", "at"},
	{"Part of (larger organizational unit at D-E)", "part_of_physical"},
	{"Structure replaces", "succeeds"},
	{"Other connections", ""},
}

// parseConnections splits a connection cell on ';' and translates each
// target label.
func parseConnections(cell, relationship string) []pleiades.Connection {
	out := []pleiades.Connection{}
	for _, part := range strings.Split(cell, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rel, target := relationship, part
		if rel == "" {
			words := strings.Fields(part)
			rel, target = words[0], strings.Join(words[1:], " ")
		}
		if mapped, ok := vocab.ConnectionTarget(target); ok {
			target = mapped
		}
		out = append(out, pleiades.Connection{Connection: target, RelationshipType: rel})
	}
	return out
}

// resolveConnections reads every connection column of row and checks that
// each target is a Pleiades URI or the title of a converted place.
func resolveConnections(row ydea.Row, title string, byTitle map[string]int) ([]pleiades.Connection, error) {
	conns := []pleiades.Connection{}
	for _, col := range connectionColumns {
		if !row.Has(col.name) {
			continue
		}
		conns = append(conns, parseConnections(row.Get(col.name), col.relationship)...)
	}
	if len(conns) > 0 {
		logging.ConnectionsDebug("%q: %v", title, conns)
	}

	for i := range conns {
		target := strings.TrimSpace(conns[i].Connection)
		if vocab.IsPleiadesPlace(target) {
			continue
		}
		if _, ok := byTitle[target]; ok {
			conns[i].Connection = target
			continue
		}
		titled := vocab.Titleize(target)
		if _, ok := byTitle[titled]; ok {
			conns[i].Connection = titled
			continue
		}
		return nil, fmt.Errorf("%w for %s: %q.\nAvailable keys:\n%s",
			ErrUnresolvedConnection, title, titled, availableTitles(byTitle))
	}
	return conns, nil
}

func availableTitles(byTitle map[string]int) string {
	keys := make([]string, 0, len(byTitle))
	for k := range byTitle {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString("\t" + k + "\n")
	}
	return b.String()
}
