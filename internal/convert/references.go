package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/isawnyu/pleiades-dura-converter/internal/logging"
	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/vocab"
)

// citationPatterns recognise the citation styles used in the source column.
// Group 1 is the author-year short title; group 2, when present, is the
// page or section cited.
var citationPatterns = []string{
	`([A-Za-z ]+ \d{4})`,
	`([A-Za-z ]+ \d{4}),? (p\. \d+)`,
	`([A-Za-z ]+ \d{4}),? (pp?\. \d+-\d+)`,
	`([A-Za-z ]+ \d{4}),? (p\. [xiv]+)`,
	`([A-Za-z ]+ \d{4}),? (pp?\. \d+\-\d+, \d+)`,
	`([A-Za-z ]+ \d{4}),? (Appendix)\.?`,
	`J\. A\. (Baird\. 2018)\. Dura-Europos\. (pp?\. ([\d\-]+|\d+, \d+)) \(.+\)`,
	`^(Gelin et al\. \(1997\))`,
	`(James, Simon\. 2019)\. The Roman Military Base at Dura-Europos, ` +
		`Syria: An Archaeological Visualisation. New York, NY: Oxford ` +
		`University Press. (P.66, 230-232)`,
}

type citationRule struct {
	full   *regexp.Regexp // anchored at both ends
	search *regexp.Regexp
}

var citationRules = func() []citationRule {
	rules := make([]citationRule, len(citationPatterns))
	for i, p := range citationPatterns {
		rules[i] = citationRule{
			full:   regexp.MustCompile(`^(?:` + p + `)$`),
			search: regexp.MustCompile(p),
		}
	}
	return rules
}()

var shortTitleRemovals = []string{"et al.", ".", "(", ")", ", Simon"}

// cleanShortTitle reduces a matched citation to its bibliography key,
// e.g. "James, Simon. 2019" to "James 2019".
func cleanShortTitle(s string) string {
	for _, r := range shortTitleRemovals {
		s = strings.ReplaceAll(s, r, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

// reference builds the citation for a pattern match.
func reference(m []string) (pleiades.Reference, bool) {
	short := cleanShortTitle(m[1])
	work, ok := vocab.LookupReference(short)
	if !ok {
		return pleiades.Reference{ShortTitle: short}, false
	}
	ref := pleiades.Reference{
		ShortTitle:        short,
		FormattedCitation: work.FormattedCitation,
		BibliographicURI:  work.BibliographicURI,
		AccessURI:         work.AccessURI,
		Identifier:        work.Identifier,
	}
	if len(m) > 2 {
		ref.CitationDetail = m[2]
	}
	return ref, true
}

// buildReferences parses the ';'-separated source cell. Entries that are a
// citation in one of the known styles must cite a known work. Other
// entries are searched for embedded citations, and those that cite
// unknown works are skipped.
func buildReferences(cell string) ([]pleiades.Reference, error) {
	refs := []pleiades.Reference{}
	var unmatched []string
	for _, source := range strings.Split(cell, ";") {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}
		matched := false
		for _, rule := range citationRules {
			m := rule.full.FindStringSubmatch(source)
			if m == nil {
				continue
			}
			ref, ok := reference(m)
			if !ok {
				return nil, fmt.Errorf("%w %q in source %q", ErrUnknownReference, ref.ShortTitle, source)
			}
			refs = append(refs, ref)
			matched = true
			break
		}
		if !matched {
			unmatched = append(unmatched, source)
		}
	}
	return append(refs, mineReferences(unmatched, refs)...), nil
}

// mineReferences finds citations buried in longer discursive text. A work
// already cited with the same detail is not repeated.
func mineReferences(sources []string, have []pleiades.Reference) []pleiades.Reference {
	log := logging.Get(logging.CategoryReferences)
	seen := make(map[[2]string]bool, len(have))
	for _, r := range have {
		seen[[2]string{r.ShortTitle, r.CitationDetail}] = true
	}

	mined := []pleiades.Reference{}
	for _, source := range sources {
		for _, rule := range citationRules {
			for _, m := range rule.search.FindAllStringSubmatch(source, -1) {
				ref, ok := reference(m)
				if !ok {
					log.Warnf("Skipping mined reference with unknown short title %q in %q", ref.ShortTitle, source)
					continue
				}
				key := [2]string{ref.ShortTitle, ref.CitationDetail}
				if seen[key] {
					continue
				}
				seen[key] = true
				logging.ReferencesDebug("mined %q from %q", ref.ShortTitle, source)
				mined = append(mined, ref)
			}
		}
	}
	if len(sources) > 0 {
		logging.References("Mined %d reference(s) from %d unmatched citation(s)", len(mined), len(sources))
	}
	return mined
}
