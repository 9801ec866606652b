package memory

import (
	"sort"
	"strings"
)

var titleStopWords = map[string]bool{
	"is": true, "a": true, "the": true, "for": true, "of": true,
	"and": true, "to": true, "in": true, "it": true, "on": true,
	"with": true, "used": true, "both": true, "who": true, "what": true,
	"are": true, "when": true, "was": true,
}

var titlePunctuation = strings.NewReplacer(".", "", ",", "", "!", "", "?", "")

// ExtractTitle derives a short session title from the first query's text:
// strip punctuation, drop stop words, rank remaining words by frequency
// (ties keep first-seen order), take the top limit words and capitalize
// them.
func ExtractTitle(paragraph string, limit int) string {
	words := strings.Fields(titlePunctuation.Replace(paragraph))

	frequency := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string
	for _, word := range words {
		lower := strings.ToLower(word)
		if titleStopWords[lower] {
			continue
		}
		if _, ok := frequency[lower]; !ok {
			firstSeen[lower] = len(order)
			order = append(order, lower)
		}
		frequency[lower]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return frequency[order[i]] > frequency[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}

	titled := make([]string, 0, len(order))
	for _, word := range order {
		runes := []rune(word)
		titled = append(titled, strings.ToUpper(string(runes[0]))+string(runes[1:]))
	}
	return strings.Join(titled, " ")
}
