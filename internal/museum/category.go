package museum

import "relic-search/internal/domain/entity"

// TimePeriod is a named preset year range offered by the search UI.
type TimePeriod struct {
	Label     string `json:"label"`
	StartYear int    `json:"startYear"`
	EndYear   int    `json:"endYear"`
}

// TimePeriods lists the preset search periods.
var TimePeriods = []TimePeriod{
	{Label: "Ancient (before 500 CE)", StartYear: -3000, EndYear: 500},
	{Label: "Medieval (500-1400)", StartYear: 500, EndYear: 1400},
	{Label: "Renaissance (1400-1600)", StartYear: 1400, EndYear: 1600},
	{Label: "Early Modern (1600-1800)", StartYear: 1600, EndYear: 1800},
	{Label: "19th Century (1800-1900)", StartYear: 1800, EndYear: 1900},
	{Label: "Modern (1900-present)", StartYear: 1900, EndYear: 2100},
}

// Category is one generic search category.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Categories lists the generic categories exposed to clients.
var Categories = []Category{
	{Value: "arms-armor", Label: "Arms & Armor"},
	{Value: "textiles", Label: "Textiles & Costume"},
	{Value: "ceramics", Label: "Ceramics"},
	{Value: "metalwork", Label: "Metalwork"},
	{Value: "furniture", Label: "Furniture"},
	{Value: "paintings", Label: "Paintings"},
	{Value: "sculpture", Label: "Sculpture"},
	{Value: "prints", Label: "Prints & Drawings"},
}

// categoryMap translates a generic category value into each source's native
// category vocabulary. A missing entry means the source has no usable
// equivalent and the category filter is dropped for that source.
var categoryMap = map[string]map[entity.Source]string{
	"arms-armor": {
		entity.SourceMet:       "Arms and Armor",
		entity.SourceVA:        "Metalwork",
		entity.SourceCleveland: "Arms and Armor",
	},
	"textiles": {
		entity.SourceMet:       "Textiles",
		entity.SourceVA:        "Textiles and Fashion",
		entity.SourceCleveland: "Textiles",
	},
	"ceramics": {
		entity.SourceMet:       "Ceramics",
		entity.SourceVA:        "Ceramics",
		entity.SourceCleveland: "Ceramics",
	},
	"metalwork": {
		entity.SourceMet:       "Metalwork",
		entity.SourceVA:        "Metalwork",
		entity.SourceCleveland: "Metalwork",
	},
	"furniture": {
		entity.SourceMet:       "Furniture",
		entity.SourceVA:        "Furniture",
		entity.SourceCleveland: "Furniture",
	},
	"paintings": {
		entity.SourceMet:       "Paintings",
		entity.SourceVA:        "Paintings",
		entity.SourceCleveland: "Paintings",
	},
	"sculpture": {
		entity.SourceMet:       "Sculpture",
		entity.SourceVA:        "Sculpture",
		entity.SourceCleveland: "Sculpture",
	},
	"prints": {
		entity.SourceMet:       "Prints",
		entity.SourceVA:        "Prints & Drawings",
		entity.SourceCleveland: "Prints",
	},
}

// metDepartments maps Met department names to their numeric department ids.
var metDepartments = map[string]int{
	"American Decorative Arts":                  1,
	"Ancient Near Eastern Art":                  3,
	"Arms and Armor":                            4,
	"Arts of Africa, Oceania, and the Americas": 5,
	"Asian Art":                                 6,
	"The Cloisters":                             7,
	"Costume Institute":                         8,
	"Drawings and Prints":                       9,
	"Egyptian Art":                              10,
	"European Paintings":                        11,
	"European Sculpture and Decorative Arts":    12,
	"Greek and Roman Art":                       13,
	"Islamic Art":                               14,
	"The Robert Lehman Collection":              15,
	"The Libraries":                             16,
	"Medieval Art":                              17,
	"Musical Instruments":                       18,
	"Photographs":                               19,
	"Modern Art":                                21,
}

// nativeCategory resolves a generic category value for one source.
func nativeCategory(category string, source entity.Source) (string, bool) {
	perSource, ok := categoryMap[category]
	if !ok {
		return "", false
	}
	native, ok := perSource[source]
	return native, ok
}

// filterByTime keeps artifacts whose date range overlaps the requested
// period, for sources whose API cannot filter on dates server-side.
func filterByTime(artifacts []entity.Artifact, filters *entity.SearchFilters) []entity.Artifact {
	if !filters.HasTimeBounds() {
		return artifacts
	}
	out := artifacts[:0]
	for i := range artifacts {
		if filters.MatchesTimePeriod(&artifacts[i]) {
			out = append(out, artifacts[i])
		}
	}
	return out
}
