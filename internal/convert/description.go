package convert

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

const fortificationHistory = "  Built ca. 150 BCE, the city's fortifications were breached " +
	"in 256 CE and went out of use thereafter."

// buildDescription normalises the description cell: whitespace collapsed,
// first letter capitalised, terminal full stop. Wall towers and gates
// dated to the fortification period get the fortification history.
func buildDescription(row ydea.Row) (string, error) {
	orig := strings.TrimSpace(row.Get(ydea.ColDescription))
	if orig == "" {
		return "", fmt.Errorf("description: %w", ErrEmptyValue)
	}

	desc := capitalize(strings.Join(strings.Fields(orig), " "))
	if !strings.HasSuffix(desc, ".") {
		desc += "."
	}
	if desc != orig {
		logging.Get(logging.CategoryConvert).Warnf("Description changed: %q from %q", desc, orig)
	}

	start := strings.TrimSpace(row.Get(ydea.ColInception))
	end := strings.TrimSpace(row.Get(ydea.ColDissolved))
	if start == "c. 150 BCE" && end == "256 CE" {
		switch row.PlaceType() {
		case "tower (wall)", "city gate":
			desc += fortificationHistory
		}
	}
	return desc, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
