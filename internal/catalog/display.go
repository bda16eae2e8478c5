package catalog

import (
	"strings"
	"unicode"
)

// displayAbbreviations are tokens rendered fully upper-cased instead of
// capitalized, e.g. "atm withdrawal" -> "ATM Withdrawal".
var displayAbbreviations = map[string]struct{}{
	"atm":   {},
	"tv":    {},
	"pc":    {},
	"dvd":   {},
	"cd":    {},
	"usb":   {},
	"wifi":  {},
	"gps":   {},
	"covid": {},
	"id":    {},
	"usa":   {},
	"uk":    {},
	"eu":    {},
	"hsa":   {},
	"ira":   {},
	"iou":   {},
	"4g":    {},
	"5g":    {},
}

// DisplayName re-cases a normalized stored name for presentation. It is
// pure and never affects stored or compared values. Tokens are
// capitalized, abbreviations upper-cased, and the mc/mac surname
// prefixes get an internal capital ("mcdonald" -> "McDonald"). A
// hyphenated name keeps its hyphens; otherwise tokens rejoin with
// spaces.
func DisplayName(name string) string {
	if name == "" {
		return name
	}

	lowered := strings.ToLower(name)
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})

	cased := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		cased = append(cased, caseToken(tok))
	}

	sep := " "
	if strings.Contains(lowered, "-") {
		sep = "-"
	}
	return strings.Join(cased, sep)
}

func caseToken(tok string) string {
	if _, ok := displayAbbreviations[tok]; ok {
		return strings.ToUpper(tok)
	}
	if strings.HasPrefix(tok, "mc") && len(tok) > 2 {
		return "Mc" + capitalize(tok[2:])
	}
	if strings.HasPrefix(tok, "mac") && len(tok) > 3 {
		return "Mac" + capitalize(tok[3:])
	}
	return capitalize(tok)
}

func capitalize(tok string) string {
	if tok == "" {
		return tok
	}
	r := []rune(tok)
	return string(unicode.ToUpper(r[0])) + string(r[1:])
}
