package vocab

import "strings"

// Location title prefixes by how the position was captured.
const (
	prefixTotalStation = "Total station location of"
	prefixPlan         = "Plan location of"
)

// AccuracyMetadataPath is the Pleiades folder holding accuracy documents.
const AccuracyMetadataPath = "/features/metadata/"

type accuracyDoc struct {
	id     string
	prefix string
}

var accuracyByID = map[string]accuracyDoc{
	"dura-europos-block-l7-chen":               {"dura-europos-block-l7-chen", prefixTotalStation},
	"dura-europos-walls-and-towers-baird-chen": {"dura-europos-walls-and-towers-baird-chen", prefixPlan},
	"dura-europos-james-chen":                  {"dura-europos-james-chen", prefixPlan},
}

// Free-text accuracy statements from older exports, matched by prefix.
var accuracyByStatement = []struct {
	statement string
	doc       accuracyDoc
}{
	{
		"Features related to the streets and blocks of Dura-Europos were prepared by Anne Chen in 2021 on the basis of Baird 2012 Fig. 1.3.",
		accuracyDoc{"dura-europos-walls-and-towers-baird-chen", prefixPlan},
	},
	{
		"plan used= James 2019 Plate XXII, georectified plan in QGIS",
		accuracyDoc{"dura-europos-james-chen", prefixPlan},
	},
	{
		"Features related to the walls and towers of Dura-Europos were prepared by Anne Chen in 2020 on the basis of Baird 2012 Fig. 1.3",
		accuracyDoc{"dura-europos-walls-and-towers-baird-chen", prefixPlan},
	},
}

// AccuracyDocument resolves an accuracy cell to the Pleiades accuracy
// document id and the title prefix for locations captured that way.
func AccuracyDocument(value string) (id, titlePrefix string, ok bool) {
	if d, found := accuracyByID[value]; found {
		return d.id, d.prefix, true
	}
	for _, s := range accuracyByStatement {
		if strings.HasPrefix(value, s.statement) {
			return s.doc.id, s.doc.prefix, true
		}
	}
	return "", "", false
}
