// Package synonym expands search queries with related domain vocabulary.
//
// Museum collection APIs index curator-written text, so a query for "sword"
// misses objects cataloged as "broadsword" and a query for "armor" misses
// British-spelled "armour". A fixed table of reenactment and museum terms
// maps each word or phrase to its group, and ExpandQuery appends a bounded
// number of related terms so upstream searches cast a slightly wider net
// without degenerating into a bag of unrelated words.
package synonym

import "strings"

// synonymGroups holds sets of related terms. Membership is symmetric: every
// word in a group is a synonym of every other word in the same group.
var synonymGroups = [][]string{
	// Armor and protection
	{"armor", "armour", "plate armor", "plate armour"},
	{"helmet", "helm", "sallet", "bascinet", "morion", "burgonet"},
	{"shield", "buckler", "targe", "pavise"},
	{"chainmail", "chain mail", "maille", "mail"},
	{"gauntlet", "gauntlets", "glove"},
	{"breastplate", "cuirass"},

	// Swords and blades
	{"sword", "blade", "broadsword"},
	{"dagger", "dirk", "stiletto", "knife"},
	{"rapier", "epee", "foil", "smallsword"},
	{"saber", "sabre", "cutlass", "scimitar"},
	{"axe", "ax", "hatchet", "battleaxe", "battle axe"},
	{"spear", "lance", "pike", "halberd", "polearm", "pole arm"},
	{"mace", "flail", "war hammer", "warhammer"},

	// Ranged weapons
	{"bow", "longbow", "crossbow"},
	{"gun", "firearm", "musket", "rifle", "pistol", "flintlock"},
	{"cannon", "artillery"},

	// Clothing and textiles
	{"tunic", "jerkin", "doublet", "surcoat", "tabard"},
	{"dress", "gown", "robe"},
	{"cloak", "mantle", "cape"},
	{"textile", "fabric", "cloth", "weaving"},
	{"embroidery", "needlework", "tapestry"},
	{"costume", "clothing", "garment", "attire"},
	{"hat", "cap", "bonnet", "headdress"},
	{"boot", "boots", "shoe", "shoes", "footwear"},

	// Materials
	{"pottery", "ceramics", "ceramic", "earthenware", "stoneware", "porcelain"},
	{"jewelry", "jewellery", "jewel", "gem"},
	{"gold", "gilded", "gilt"},
	{"silver", "sterling"},
	{"bronze", "brass"},
	{"iron", "steel", "wrought iron"},

	// Art forms
	{"painting", "oil painting", "canvas"},
	{"sculpture", "statue", "figurine", "bust"},
	{"print", "engraving", "etching", "woodcut", "lithograph"},
	{"drawing", "sketch"},
	{"photograph", "photo", "daguerreotype"},

	// Furniture and household
	{"furniture", "chair", "table", "chest", "cabinet"},
	{"coin", "coins", "numismatic", "medal", "medallion"},

	// Regional and cultural
	{"medieval", "middle ages"},
	{"renaissance", "early modern"},
	{"viking", "norse", "scandinavian"},
	{"roman", "roman empire"},
	{"greek", "ancient greek", "hellenistic"},
	{"egyptian", "ancient egypt"},
	{"samurai", "japanese warrior"},
	{"celtic", "gaelic"},
}

const (
	// maxPerGroup caps how many synonyms one matched group may contribute.
	maxPerGroup = 2

	// maxAdded caps the total number of terms appended to a query.
	maxAdded = 4
)

// synonymMap is built once at init: lower-cased term -> the other members of
// every group the term belongs to, in table order.
var synonymMap = buildSynonymMap()

func buildSynonymMap() map[string][]string {
	m := make(map[string][]string)
	for _, group := range synonymGroups {
		for _, word := range group {
			key := strings.ToLower(word)
			seen := make(map[string]bool, len(m[key]))
			for _, existing := range m[key] {
				seen[existing] = true
			}
			for _, other := range group {
				lower := strings.ToLower(other)
				if lower == key || seen[lower] {
					continue
				}
				m[key] = append(m[key], lower)
				seen[lower] = true
			}
		}
	}
	return m
}

// lookup returns the synonyms for a term, falling back to simple plural
// stripping ("boots" -> "boot", "dresses" -> "dress") when the exact form is
// not in the table.
func lookup(term string) []string {
	if syns, ok := synonymMap[term]; ok {
		return syns
	}
	if stripped, ok := strings.CutSuffix(term, "es"); ok {
		if syns, ok := synonymMap[stripped]; ok {
			return syns
		}
	}
	if stripped, ok := strings.CutSuffix(term, "s"); ok {
		if syns, ok := synonymMap[stripped]; ok {
			return syns
		}
	}
	return nil
}

// ExpandQuery returns the query plus up to maxAdded related terms. The scan
// is greedy left to right: three-word phrases are tried before two-word
// phrases before single words, so "plate armor stand" consumes "plate armor"
// as one unit. Terms already present in the query are not re-added. A query
// with no table hits comes back unchanged.
func ExpandQuery(query string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(words) == 0 {
		return query
	}

	var expansions []string
	for i := 0; i < len(words); {
		matched := false
		for _, n := range []int{3, 2} {
			if i+n > len(words) {
				continue
			}
			phrase := strings.Join(words[i:i+n], " ")
			if syns, ok := synonymMap[phrase]; ok && len(syns) > 0 {
				expansions = append(expansions, take(syns, maxPerGroup)...)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			if syns := lookup(words[i]); len(syns) > 0 {
				expansions = append(expansions, take(syns, maxPerGroup)...)
			}
			i++
		}
	}
	if len(expansions) == 0 {
		return query
	}

	lowerQuery := strings.ToLower(query)
	seen := make(map[string]bool, len(expansions))
	var unique []string
	for _, e := range expansions {
		if seen[e] || strings.Contains(lowerQuery, e) {
			continue
		}
		seen[e] = true
		unique = append(unique, e)
	}
	if len(unique) == 0 {
		return query
	}
	return query + " " + strings.Join(take(unique, maxAdded), " ")
}

// Synonyms returns the deduplicated synonyms of every single word in the
// query, uncapped. The relevance ranker uses this to credit matches on
// related terms without changing the literal query sent upstream.
func Synonyms(query string) []string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	seen := make(map[string]bool)
	var result []string
	for _, w := range words {
		for _, syn := range lookup(w) {
			if seen[syn] {
				continue
			}
			seen[syn] = true
			result = append(result, syn)
		}
	}
	return result
}

func take(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
