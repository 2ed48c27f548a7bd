// Package spoken turns library titles into the phonetic keys a voice
// assistant can match against, and back.
package spoken

import (
	"regexp"
	"strings"
)

// Titles the generic rules get wrong: bare years, punctuation-heavy
// numbers, and roman-numeral franchises people never say in full.
var manualMappings = map[string]string{
	"50/50":        "fifty fifty",
	"3:10 to Yuma": "three ten to yuma",
	"1917":         "nineteen seventeen",
	"Star Wars: Episode 1 - The Phantom Menace":     "star wars episode one",
	"Star Wars: Episode II - Attack of the Clones":  "star wars episode two",
	"Star Wars: Episode III - Revenge of the Sith":  "star wars episode three",
	"Star Wars: Episode IV - A New Hope":            "star wars",
	"Star Wars: Episode V - The Empire Strikes Back": "star wars the empire strikes back",
	"Star Wars: Episode VI - Return of the Jedi":     "star wars return of the jedi",
}

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	// Letters and digits in any script; \w would strip accented titles.
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_']+`)
)

// Normalize renders a title the way a person would say it: manual
// overrides first, otherwise parentheticals dropped, numerals spelled
// out and a leading or trailing "the" removed.
func Normalize(title string) string {
	if mapped, ok := manualMappings[title]; ok {
		return mapped
	}
	text := parentheticalRe.ReplaceAllString(title, "")
	text = strings.ReplaceAll(text, "&", "and")

	var tokens []string
	for _, raw := range strings.Split(text, " ") {
		token := strings.TrimSpace(nonWordRe.ReplaceAllString(raw, " "))
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	cleaned := make([]string, 0, len(tokens))
	for _, token := range tokens {
		out := token
		// Lowercase roman numerals common in sequel titles. "iii" is
		// deliberately absent; it never converted historically and
		// slot values depend on the output staying stable.
		switch token {
		case "ii":
			out = "two"
		case "iv":
			out = "four"
		case "vi":
			out = "six"
		}
		if words, ok := numberToWords(token); ok {
			out = strings.ReplaceAll(words, "-", " ")
		}
		cleaned = append(cleaned, out)
	}

	if len(cleaned) > 0 && strings.EqualFold(cleaned[0], "the") {
		cleaned = cleaned[1:]
	}
	if len(cleaned) > 0 && strings.EqualFold(cleaned[len(cleaned)-1], "the") {
		cleaned = cleaned[:len(cleaned)-1]
	}
	return strings.ToLower(strings.Join(cleaned, " "))
}

var onesWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven",
	"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
	"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

var scaleWords = []struct {
	value int
	word  string
}{
	{1_000_000_000, "billion"},
	{1_000_000, "million"},
	{1_000, "thousand"},
}

var irregularOrdinals = map[string]string{
	"one":    "first",
	"two":    "second",
	"three":  "third",
	"five":   "fifth",
	"eight":  "eighth",
	"nine":   "ninth",
	"twelve": "twelfth",
}

// numberToWords converts a purely numeric or ordinal token ("11",
// "13th") to words. Anything else reports false and the token passes
// through unchanged.
func numberToWords(token string) (string, bool) {
	digits := token
	ordinal := false
	if len(token) > 2 {
		suffix := token[len(token)-2:]
		switch suffix {
		case "st", "nd", "rd", "th":
			digits = token[:len(token)-2]
			ordinal = true
		}
	}
	if digits == "" || !allDigits(digits) {
		return "", false
	}
	n := 0
	for _, r := range digits {
		if n > 1_000_000_000 {
			return "", false
		}
		n = n*10 + int(r-'0')
	}
	words := cardinal(n)
	if ordinal {
		words = ordinalize(words)
	}
	return words, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func cardinal(n int) string {
	if n < 20 {
		return onesWords[n]
	}
	if n < 100 {
		if n%10 == 0 {
			return tensWords[n/10]
		}
		return tensWords[n/10] + "-" + onesWords[n%10]
	}
	if n < 1000 {
		out := onesWords[n/100] + " hundred"
		if rem := n % 100; rem != 0 {
			out += " " + cardinal(rem)
		}
		return out
	}
	for _, scale := range scaleWords {
		if n >= scale.value {
			out := cardinal(n/scale.value) + " " + scale.word
			if rem := n % scale.value; rem != 0 {
				out += " " + cardinal(rem)
			}
			return out
		}
	}
	return onesWords[0]
}

func ordinalize(words string) string {
	lastSpace := strings.LastIndexAny(words, " -")
	head, last := "", words
	if lastSpace >= 0 {
		head, last = words[:lastSpace+1], words[lastSpace+1:]
	}
	if irregular, ok := irregularOrdinals[last]; ok {
		return head + irregular
	}
	if strings.HasSuffix(last, "y") {
		return head + last[:len(last)-1] + "ieth"
	}
	return head + last + "th"
}
