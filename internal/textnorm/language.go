package textnorm

import (
	"bufio"
	"fmt"
	"strings"
)

// Lemmatizer maps a lowercase token to its dictionary base form.
type Lemmatizer interface {
	Lemma(token string) string
}

// IdentityLemmatizer returns tokens unchanged.
type IdentityLemmatizer struct{}

func (IdentityLemmatizer) Lemma(token string) string { return token }

// DictionaryLemmatizer looks tokens up in a form -> lemma table. Unknown
// tokens are returned unchanged.
type DictionaryLemmatizer struct {
	lemmas map[string]string
}

// ParseLemmaTable reads tab separated "form<TAB>lemma" lines. Blank lines
// and lines starting with '#' are ignored. Both columns are folded with
// Preprocess so they match normalized tokens.
func ParseLemmaTable(table string) (*DictionaryLemmatizer, error) {
	d := &DictionaryLemmatizer{lemmas: make(map[string]string)}
	sc := bufio.NewScanner(strings.NewReader(table))
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		form, lemma, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("lemma table line %d: missing tab", lineNum)
		}
		d.lemmas[Preprocess(form, true)] = Preprocess(lemma, true)
	}
	return d, sc.Err()
}

func (d *DictionaryLemmatizer) Lemma(token string) string {
	if lemma, ok := d.lemmas[token]; ok {
		return lemma
	}
	return token
}

func (d *DictionaryLemmatizer) Len() int { return len(d.lemmas) }

// Language bundles the stopword list and lemmatizer of one language.
type Language struct {
	Name       string
	stopwords  map[string]struct{}
	lemmatizer Lemmatizer
}

// NewLanguage builds a Language. Stopwords are folded with Preprocess so
// "für" matches the normalized token "fuer". A nil lemmatizer keeps tokens
// as they are.
func NewLanguage(name string, stopwords []string, lemmatizer Lemmatizer) *Language {
	if lemmatizer == nil {
		lemmatizer = IdentityLemmatizer{}
	}
	l := &Language{
		Name:       name,
		stopwords:  make(map[string]struct{}, len(stopwords)),
		lemmatizer: lemmatizer,
	}
	for _, w := range stopwords {
		for _, f := range strings.Fields(Preprocess(w, true)) {
			l.stopwords[f] = struct{}{}
		}
	}
	return l
}

func (l *Language) IsStopword(token string) bool {
	_, ok := l.stopwords[token]
	return ok
}

func (l *Language) Lemma(token string) string {
	return l.lemmatizer.Lemma(token)
}

// Lookup returns a freshly built language by name.
func Lookup(name string) (*Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "german", "de", "deutsch", "":
		return German()
	default:
		return nil, fmt.Errorf("unsupported language %q", name)
	}
}
