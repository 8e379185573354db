package interpolation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrPlaceholderCollision reports text that already carries a placeholder-shaped
// token, which would make restoration ambiguous.
var ErrPlaceholderCollision = errors.New("placeholder collision")

// Map stores the protected literal for each zero-padded placeholder key.
type Map map[string]string

// Protected is the result of protecting a single text field.
type Protected struct {
	Text         string
	Placeholders Map
}

// patterns detect substrings that must survive translation unchanged.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\[\s*Player\s+Name\s*\]`),         // [Player Name]
	regexp.MustCompile(`\[/*url['\p{L}\p{N}_\s=:]*\]`),   // [url=...], [/url]
	regexp.MustCompile(`\{[0-9]+\}`),                      // {0}, {1}
	regexp.MustCompile(`[\n\r"]+`),                        // line breaks and quotes
}

// tokenPattern matches anything shaped like a placeholder or title key.
var tokenPattern = regexp.MustCompile(`\[\s*[0-9]{4,}\s*\]|\[\s*00\s*-\s*[0-9]{2,}\s*\]`)

// literal is a distinct protected substring and the offset it first occurs at.
type literal struct {
	value string
	first int
}

// Key renders the placeholder key for the n-th protected literal.
func Key(n int) string {
	return fmt.Sprintf("%04d", n)
}

// Token renders the bracketed token that stands in for key.
func Token(key string) string {
	return "[" + key + "]"
}

// Protect replaces every protected substring with a [KKKK] token. Each distinct
// literal receives one key and all of its occurrences are replaced. ok is false
// for empty text, which callers skip entirely.
func Protect(text string) (p Protected, ok bool, err error) {
	if text == "" {
		return Protected{}, false, nil
	}
	if loc := tokenPattern.FindString(text); loc != "" {
		return Protected{}, false, fmt.Errorf("%w: text already contains %q", ErrPlaceholderCollision, loc)
	}

	seen := make(map[string]int)
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			v := text[loc[0]:loc[1]]
			if first, exists := seen[v]; !exists || loc[0] < first {
				seen[v] = loc[0]
			}
		}
	}

	literals := make([]literal, 0, len(seen))
	for v, first := range seen {
		literals = append(literals, literal{value: v, first: first})
	}
	// Keys follow first appearance; longer literals win ties.
	sort.Slice(literals, func(i, j int) bool {
		if literals[i].first != literals[j].first {
			return literals[i].first < literals[j].first
		}
		return len(literals[i].value) > len(literals[j].value)
	})

	keys := make(Map, len(literals))
	byValue := make(map[string]string, len(literals))
	for i, l := range literals {
		key := Key(i)
		keys[key] = l.value
		byValue[l.value] = key
	}

	result := text
	for _, l := range longestFirst(literals) {
		result = strings.ReplaceAll(result, l.value, Token(byValue[l.value]))
	}

	return Protected{Text: result, Placeholders: keys}, true, nil
}

// Restore puts the protected literals back, trims surrounding whitespace and
// drops the space of a leading `" ` sequence. That last rule matches how the
// shipped game text is formatted.
func Restore(translated string, placeholders Map) string {
	result := translated
	for _, key := range SortedKeys(placeholders) {
		re := regexp.MustCompile(`\[\s*` + regexp.QuoteMeta(key) + `\s*\]`)
		result = re.ReplaceAllLiteralString(result, placeholders[key])
	}

	result = strings.TrimSpace(result)
	if strings.HasPrefix(result, `" `) {
		result = `"` + result[2:]
	}
	return result
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// longestFirst orders literals so that a literal containing another is
// replaced before the shorter one can split it.
func longestFirst(literals []literal) []literal {
	out := make([]literal, len(literals))
	copy(out, literals)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].value) > len(out[j].value)
	})
	return out
}
