package inspection

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var englishOrdinals = []string{
	"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth", "tenth",
	"eleventh", "twelfth", "thirteenth", "fourteenth", "fifteenth", "sixteenth", "seventeenth",
	"eighteenth", "nineteenth", "twentieth",
}

var frenchOrdinals = []string{
	"deuxième", "troisième", "quatrième", "cinquième", "sixième", "septième", "huitième",
	"neuvième", "dixième", "onzième", "douzième", "treizième", "quatorzième", "quinzième",
	"seizième", "dix-septième", "dix-huitième", "dix-neuvième", "vingtième",
}

var (
	ordinalValue = map[string]int{}

	englishFloor *regexp.Regexp
	frenchFloor  *regexp.Regexp
)

func init() {
	for i, w := range englishOrdinals {
		ordinalValue[w] = i + 1
	}
	for i, w := range frenchOrdinals {
		ordinalValue[w] = i + 2
	}
	ordinalValue["premier"] = 1
	ordinalValue["première"] = 1
	ordinalValue["seconde"] = 2

	englishFloor = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_-])(` + alternation(englishOrdinals) + `)(\s+)(floor|storey|story|level)\b`)
	french := append([]string{"premier", "première", "second", "seconde"}, frenchOrdinals...)
	frenchFloor = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_-])(` + alternation(french) + `)(\s+)(étages?|niveau|sous-sol)`)
}

func alternation(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for i, w := range sorted {
		sorted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(sorted, "|")
}

// DigitizeFloorOrdinals rewrites spelled-out floor ordinals with digits:
// "third floor" becomes "3rd floor", "deuxième étage" becomes "2ème étage".
func DigitizeFloorOrdinals(text string) string {
	text = englishFloor.ReplaceAllStringFunc(text, func(m string) string {
		sub := englishFloor.FindStringSubmatch(m)
		n := ordinalValue[strings.ToLower(sub[2])]
		return sub[1] + strconv.Itoa(n) + englishSuffix(n) + sub[3] + sub[4]
	})
	text = frenchFloor.ReplaceAllStringFunc(text, func(m string) string {
		sub := frenchFloor.FindStringSubmatch(m)
		word := strings.ToLower(sub[2])
		n, ok := ordinalValue[word]
		if !ok {
			return m
		}
		suffix := "ème"
		switch {
		case word == "premier":
			suffix = "er"
		case word == "première":
			suffix = "ère"
		}
		return sub[1] + strconv.Itoa(n) + suffix + sub[3] + sub[4]
	})
	return text
}

func englishSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
