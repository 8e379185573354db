// Package titles detects proper-noun phrases (character, place and item names)
// in protected text so that they can be kept out of reach of translators.
package titles

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"bgee-translator/internal/interpolation"
)

// Map stores the detected phrase for each "00-NN" key of a field.
type Map map[string]string

var (
	chunkSplit   = regexp.MustCompile(`[\[\],.\n]`)
	capitalized  = regexp.MustCompile(`^[A-Z][a-z]*'?[a-z]`)
	capitalWords = regexp.MustCompile(`[A-Z][a-z]+`)
)

// Key renders the title key for the n-th distinct phrase of a field.
func Key(n int) string {
	return fmt.Sprintf("00-%02d", n)
}

// Detect returns the title phrases found in text, in detection order and
// possibly repeated.
func Detect(text string) []string {
	var found []string
	for _, chunk := range chunkSplit.Split(text, -1) {
		var title, joiner string
		for _, word := range strings.Split(strings.TrimSpace(chunk), " ") {
			bare := strings.Trim(strings.Trim(word, "'"), `"`)

			if m := capitalized.FindString(bare); m != "" {
				switch {
				case title != "" && joiner != "":
					title = title + " " + joiner + " " + m
				case title != "":
					title = title + " " + m
				default:
					title = m
				}
				joiner = ""
				continue
			}

			if j, ok := shortLower(bare); ok {
				if joiner != "" {
					// Two joiners in a row break the phrase.
					title, joiner = "", ""
				} else {
					joiner = j
				}
				continue
			}

			if title != "" {
				if isValid(chunk, title) {
					found = append(found, title)
				}
				title, joiner = "", ""
			}
		}
		if title != "" && isValid(chunk, title) {
			found = append(found, title)
		}
	}
	return found
}

// Protect replaces each distinct detected phrase of text with a [00-NN]
// token. It runs on text already protected by the interpolation package.
func Protect(text string) (string, Map) {
	var phrases []string
	seen := make(map[string]bool)
	for _, t := range Detect(text) {
		if !seen[t] {
			seen[t] = true
			phrases = append(phrases, t)
		}
	}

	keys := make(Map, len(phrases))
	ordered := make([]string, len(phrases))
	for i, p := range phrases {
		keys[Key(i)] = p
		ordered[i] = Key(i)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(keys[ordered[i]]) > len(keys[ordered[j]])
	})

	for _, key := range ordered {
		text = strings.ReplaceAll(text, keys[key], interpolation.Token(key))
	}
	return text, keys
}

// Restore replaces every [00-NN] token with its phrase. The phrases are the
// current, possibly translated, title values.
func Restore(text string, phrases Map) string {
	for _, key := range interpolation.SortedKeys(phrases) {
		n := key[strings.LastIndex(key, "-")+1:]
		re := regexp.MustCompile(`\[\s*00\s*-\s*` + regexp.QuoteMeta(n) + `\s*\]`)
		text = re.ReplaceAllLiteralString(text, phrases[key])
	}
	return text
}

// shortLower reports whether word starts with one to three lowercase ASCII
// letters that are not followed by another word character.
func shortLower(word string) (string, bool) {
	n := 0
	for n < len(word) && word[n] >= 'a' && word[n] <= 'z' {
		n++
	}
	if n == 0 || n > 3 {
		return "", false
	}
	if n < len(word) {
		r, _ := utf8.DecodeRuneInString(word[n:])
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return "", false
		}
	}
	return word[:n], true
}

// isValid filters out contractions, very short titles and a lone capitalized
// word that merely opens its sentence.
func isValid(chunk, title string) bool {
	if strings.HasPrefix(title, "I'") {
		return false
	}
	l := utf8.RuneCountInString(title)
	if l <= 3 {
		return false
	}
	c := []rune(strings.TrimSpace(strings.Trim(strings.Trim(chunk, "'"), `"`)))
	if len(c) > l && string(c[:l]) == title && len(capitalWords.FindAllString(title, -1)) == 1 {
		return false
	}
	return true
}
