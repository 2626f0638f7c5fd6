package loader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

var (
	rxNonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	rxSpace   = regexp.MustCompile(`\s+`)
)

// MakeNameID derives a content id from a name: the text before the first
// comma, stripped of punctuation, lower-cased, hyphen-joined and
// transliterated to ASCII.
func MakeNameID(name string) string {
	id := strings.TrimSpace(strings.SplitN(name, ",", 2)[0])
	id = rxNonWord.ReplaceAllString(id, "")
	id = strings.ToLower(strings.ReplaceAll(id, "_", "-"))
	id = rxSpace.ReplaceAllString(strings.TrimSpace(id), "-")
	for strings.Contains(id, "--") {
		id = strings.ReplaceAll(id, "--", "-")
	}
	return slug.Make(strings.Trim(id, "-"))
}

// idSet hands out ids unique within one folder.
type idSet map[string]bool

// claim returns base, or base-2, base-3 ... if base is taken.
func (s idSet) claim(base string) string {
	id := base
	for n := 2; s[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	s[id] = true
	return id
}
