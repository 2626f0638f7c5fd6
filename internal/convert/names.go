package convert

import (
	"strings"

	"github.com/isawnyu/pleiades-dura-converter/internal/pleiades"
	"github.com/isawnyu/pleiades-dura-converter/internal/vocab"
	"github.com/isawnyu/pleiades-dura-converter/internal/ydea"
)

// buildNames returns the modern English name recorded in the Alias column,
// if any.
func buildNames(row ydea.Row) []pleiades.Name {
	alias := strings.TrimSpace(row.Get(ydea.ColAlias))
	if alias == "" {
		return []pleiades.Name{}
	}
	return []pleiades.Name{{
		NameLanguage:       "en",
		NameTransliterated: alias,
		NameAttested:       alias,
		NameType:           "geographic",
		Attestations: []pleiades.Attestation{
			{TimePeriod: vocab.PeriodTwentiethCE, Confidence: confident},
			{TimePeriod: vocab.PeriodTwentyFirstCE, Confidence: confident},
		},
	}}
}
