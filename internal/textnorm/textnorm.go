// Package textnorm turns message text into normalized word tokens for word
// frequency tables.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	digraphFolder = strings.NewReplacer(
		"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
		"Ä", "Ae", "Ö", "Oe", "Ü", "Ue", "ẞ", "SS",
	)
	nonLetterRe    = regexp.MustCompile(`[^a-zA-Z]+`)
	singleLetterRe = regexp.MustCompile(`\b[a-zA-Z]\b`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// Preprocess folds umlauts to digraphs, strips remaining accents, replaces
// everything that is not an ASCII letter with spaces, drops one-letter
// words and collapses whitespace. Applying it twice gives the same result
// as applying it once.
func Preprocess(text string, lower bool) string {
	text = digraphFolder.Replace(text)
	text = stripAccents(text)
	text = nonLetterRe.ReplaceAllString(text, " ")
	text = singleLetterRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if lower {
		text = strings.ToLower(text)
	}
	return text
}

func stripAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Normalizer applies preprocessing, stopword removal and lemmatization for
// one language. It holds no mutable state and may be shared.
type Normalizer struct {
	lang *Language
}

// New returns a Normalizer for lang.
func New(lang *Language) *Normalizer {
	return &Normalizer{lang: lang}
}

// Language returns the language the normalizer was built for.
func (n *Normalizer) Language() *Language {
	return n.lang
}

// Tokens returns the normalized tokens of text.
func (n *Normalizer) Tokens(text string) []string {
	words := strings.Fields(Preprocess(text, true))
	out := words[:0]
	for _, w := range words {
		if n.lang.IsStopword(w) {
			continue
		}
		out = append(out, n.lang.Lemma(w))
	}
	return out
}

// Normalize returns the normalized tokens of text joined by single spaces.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// NormalizeText normalizes text with the named language.
func NormalizeText(text, language string) (string, error) {
	lang, err := Lookup(language)
	if err != nil {
		return "", err
	}
	return New(lang).Normalize(text), nil
}
