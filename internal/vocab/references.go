package vocab

// Work is a bibliography entry cited by the survey.
type Work struct {
	FormattedCitation string
	BibliographicURI  string
	AccessURI         string
	Identifier        string
}

var bibliography = map[string]Work{
	"Baird 2012": {
		FormattedCitation: "Baird, J. A. “The Inner Lives of Ancient Houses: An Archaeology " +
			"of Dura-Europos.” In Everyday Life in Roman Dura-Europos: " +
			"Household Activities. Oxford University Press, 2012.",
		BibliographicURI: "https://www.zotero.org/groups/2533/items/JT7TZ582",
		AccessURI:        "https://doi.org/10.1093/acprof:osobl/9780199687657.003.0004",
		Identifier:       "978-0-19-180482-3",
	},
	"Baird 2018": {
		FormattedCitation: "Baird, Jennifer A. Dura-Europos. London: Bloomsbury, 2018.",
		BibliographicURI:  "https://www.zotero.org/groups/2533/items/QL32DCUE",
		AccessURI:         "http://www.worldcat.org/oclc/1034731631",
		Identifier:        "978-1-4725-2365-5; 978-1-4725-2673-1",
	},
	"James 2019": {
		FormattedCitation: "James, Simon. The Roman Military Base at Dura-Europos, Syria: " +
			"An Archaeological Visualization. Oxford, New York: Oxford " +
			"University Press, 2019.",
		BibliographicURI: "https://www.zotero.org/groups/2533/items/UM57GCTF",
		AccessURI:        "http://www.worldcat.org/oclc/1084757192",
		Identifier:       "978-0-19-874356-9",
	},
	"Rostovtzeff 1936": {
		FormattedCitation: "Rostovtzeff, M.I., Bellinger, L., Hopkins, C., and Welles, " +
			"C.B., eds. The Excavations at Dura-Europos,Conducted by " +
			"Yale University and the French Academy of Inscriptions " +
			"and Letters; Preliminary Report of Sixth Season of Work, " +
			"October 1932 – March 1933. New Haven: Yale University Press, " +
			"1936.",
		BibliographicURI: "https://www.zotero.org/groups/2533/items/UC843X84",
		AccessURI:        "http://hdl.handle.net/2027/mdp.39015016894068",
	},
	"Kraeling 1956": {
		FormattedCitation: "Kraeling, Carl Hermann. The Synagogue. The Excavations at " +
			"Dura-Europos Final Report, 8 part 1. New Haven: Yale " +
			"University Press, 1956.",
		BibliographicURI: "https://www.zotero.org/groups/2533/items/RW89HS3Z",
		AccessURI:        "http://www.worldcat.org/oclc/491461650",
	},
	// No formatted citation is recorded for Gelin 1997.
	"Gelin 1997": {
		BibliographicURI: "https://www.zotero.org/groups/2533/items/67S99C6X",
		AccessURI:        "http://www.worldcat.org/oclc/630177122",
	},
	"von Gerkan 1936": {
		FormattedCitation: "von Gerkan, Armin. “The Fortifications.” In The Excavations at " +
			"Dura-Europos, Preliminary Report on the Seventh and Eighth " +
			"Seasons, 1933-1934 and 1934-1935, edited by Michael I. " +
			"Rostovtzeff, Frank E. Brown, and C. Welles, 4-61. New Haven: " +
			"Yale University Press, 1936.",
		BibliographicURI: "https://www.zotero.org/groups/2533/items/L4MBW9Y5",
		AccessURI:        "http://www.worldcat.org/oclc/896191961",
	},
	"Leriche 1986": {
		FormattedCitation: "Leriche, Pierre. Doura-Europos. Études. Vol. 1. Publication " +
			"hors-série / Institut français d’archéologie du Proche-Orient 16. " +
			"Paris: P. Geuthner, 1986.",
		BibliographicURI: "https://www.zotero.org/groups/2533/items/5TB75YJB",
		AccessURI:        "http://www.worldcat.org/oclc/466092686",
		Identifier:       "978-2-7053-0356-3",
	},
}

// LookupReference returns the bibliography entry for a short title such as
// "Baird 2012".
func LookupReference(shortTitle string) (Work, bool) {
	w, ok := bibliography[shortTitle]
	return w, ok
}
