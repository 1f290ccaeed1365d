package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		lower bool
		want  string
	}{
		{"umlauts and punctuation", "Schöne Grüße, Jörg! 123 :D", true, "schoene gruesse joerg"},
		{"keeps case", "Straße ÄRGER", false, "Strasse AeRGER"},
		{"accents", "Café résumé", true, "cafe resume"},
		{"single letters", "a b c word x", true, "word"},
		{"emoji only", "😀😀", true, ""},
		{"urls", "https://example.com/a?utm=1", true, "https example com utm"},
		{"whitespace", "  hallo \t\n welt  ", true, "hallo welt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.in, tt.lower))
		})
	}
}

func TestPreprocessIdempotent(t *testing.T) {
	inputs := []string{
		"Schöne Grüße, Jörg! 123 :D",
		"a b c d e",
		"x-y-z über_alles",
		"Ça va? Très bien 👍🏽",
		"",
		"  ",
		"ÄÖÜ ẞ äöü ß",
	}
	for _, in := range inputs {
		for _, lower := range []bool{true, false} {
			once := Preprocess(in, lower)
			assert.Equal(t, once, Preprocess(once, lower), "input %q lower=%v", in, lower)
		}
	}
}

func TestNormalizerGerman(t *testing.T) {
	lang, err := German()
	require.NoError(t, err)
	n := New(lang)

	assert.Equal(t, "gehen morgen kino", n.Normalize("Ich gehe morgen mit dir ins Kino"))
	assert.Equal(t, "essen gut", n.Normalize("Für uns war das Essen sehr gut!"))
	assert.Equal(t, "", n.Normalize("ja ja ja"))
	assert.Equal(t, []string{"hast", "freund", "sehen"}, n.Tokens("Hast du die Freunde gesehen?"))
}

func TestGermanStopwordsAreFolded(t *testing.T) {
	lang, err := German()
	require.NoError(t, err)

	assert.True(t, lang.IsStopword("fuer"))
	assert.True(t, lang.IsStopword("ueber"))
	assert.True(t, lang.IsStopword("dass"))
	assert.True(t, lang.IsStopword("utm"))
	assert.False(t, lang.IsStopword("für"))
	assert.False(t, lang.IsStopword("kino"))
}

func TestNormalizeText(t *testing.T) {
	out, err := NormalizeText("Wir sahen große Häuser", "de")
	require.NoError(t, err)
	assert.Equal(t, "sehen gross haus", out)

	_, err = NormalizeText("hello", "klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "klingon")
}

type upperLemmatizer struct{}

func (upperLemmatizer) Lemma(token string) string { return token + "!" }

func TestCustomLanguage(t *testing.T) {
	lang := NewLanguage("test", []string{"the", "a"}, upperLemmatizer{})
	n := New(lang)

	assert.Equal(t, "cat! sat!", n.Normalize("The cat sat"))
	assert.Equal(t, "test", n.Language().Name)

	plain := New(NewLanguage("plain", nil, nil))
	assert.Equal(t, "the cat", plain.Normalize("The cat"))
}

func TestParseLemmaTable(t *testing.T) {
	d, err := ParseLemmaTable("# comment\n\nging\tgehen\nHäuser\tHaus\n")
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, "gehen", d.Lemma("ging"))
	assert.Equal(t, "haus", d.Lemma("haeuser"))
	assert.Equal(t, "unknown", d.Lemma("unknown"))

	_, err = ParseLemmaTable("ging gehen\n")
	require.Error(t, err)
}

func TestEmbeddedGermanTable(t *testing.T) {
	d, err := ParseLemmaTable(germanLemmaTable)
	require.NoError(t, err)
	assert.Greater(t, d.Len(), 100)
	assert.Equal(t, "schlafen", d.Lemma("schlaeft"))
}

func TestNormalizerGermanPluralsAndPastTense(t *testing.T) {
	lang, err := German()
	require.NoError(t, err)
	n := New(lang)

	assert.Equal(t, "auto buch spielen stadt", n.Normalize("Autos Bücher spielten Städte"))
	assert.Equal(t, "film gut", n.Normalize("Die Filme waren besser"))
	// unknown forms pass through
	assert.Equal(t, "fahrraeder", n.Normalize("Fahrräder"))
}
