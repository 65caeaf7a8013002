package simple

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/types"
)

func label(entityID, baseForm string, aliases ...string) types.EntityLabel {
	return types.EntityLabel{EntityID: entityID, BaseForm: baseForm, Aliases: aliases}
}

func TestSurfaceFormFallsBackToBaseFormWhenNoRuleMatches(t *testing.T) {
	p := New()
	s, err := p.SurfaceForm(context.Background(), docvalue.Nil, label("e1", "Kasia"), types.MentionFeatures{}, "de", nil)
	require.NoError(t, err)
	assert.Equal(t, "Kasia", s.Text)
	assert.NotEmpty(t, s.Warnings, "an unsupported language/case combination should warn rather than silently guess")
}

func TestSurfaceFormAppliesPolishDativeSingularWithVowelStrip(t *testing.T) {
	p := New()
	features := types.MentionFeatures{Case: "dative", Number: "singular"}
	s, err := p.SurfaceForm(context.Background(), docvalue.Nil, label("e1", "Kasia"), features, "pl", nil)
	require.NoError(t, err)
	assert.Equal(t, "Kasiowi", s.Text, "trailing vowel is stripped before the dative -owi suffix")
}

func TestSurfaceFormAppliesEnglishPluralSuffix(t *testing.T) {
	p := New()
	features := types.MentionFeatures{Number: "plural"}
	s, err := p.SurfaceForm(context.Background(), docvalue.Nil, label("e1", "cat"), features, "en", nil)
	require.NoError(t, err)
	assert.Equal(t, "cats", s.Text)
}

func TestSurfaceFormAppliesEnglishPossessiveClitic(t *testing.T) {
	p := New()
	plain, err := p.SurfaceForm(context.Background(), docvalue.Nil, label("e1", "cat"), types.MentionFeatures{Possessive: true}, "en", nil)
	require.NoError(t, err)
	assert.Equal(t, "cat's", plain.Text)

	pluralPossessive, err := p.SurfaceForm(context.Background(), docvalue.Nil, label("e1", "cat"), types.MentionFeatures{Number: "plural", Possessive: true}, "en", nil)
	require.NoError(t, err)
	assert.Equal(t, "cats'", pluralPossessive.Text, "a form already ending in s only gets a bare apostrophe")
}

func TestSurfaceFormPrefersATaggedAliasOverTheSuffixRule(t *testing.T) {
	p := New()
	l := label("e1", "Kasia", "case=dative,number=singular|Kasieńce")
	features := types.MentionFeatures{Case: "dative", Number: "singular"}
	s, err := p.SurfaceForm(context.Background(), docvalue.Nil, l, features, "pl", nil)
	require.NoError(t, err)
	assert.Equal(t, "Kasieńce", s.Text)
}

func TestSurfaceFormOnEmptyBaseFormWarnsInsteadOfReturningAGuess(t *testing.T) {
	p := New()
	s, err := p.SurfaceForm(context.Background(), docvalue.Nil, label("e1", ""), types.MentionFeatures{}, "en", nil)
	require.NoError(t, err)
	assert.Empty(t, s.Text)
	assert.NotEmpty(t, s.Warnings)
}

func TestSurfaceFormCachesByEntityLanguageAndFeatureCombination(t *testing.T) {
	p := New()
	features := types.MentionFeatures{Case: "dative", Number: "singular"}
	l := label("e1", "Kasia")

	first, err := p.SurfaceForm(context.Background(), docvalue.Nil, l, features, "pl", nil)
	require.NoError(t, err)
	assert.Equal(t, "Kasiowi", first.Text)

	// Mutate the label after the first call; a cache hit must still
	// return the first call's result rather than recomputing.
	l.BaseForm = "Ola"
	second, err := p.SurfaceForm(context.Background(), docvalue.Nil, l, features, "pl", nil)
	require.NoError(t, err)
	assert.Equal(t, first.Text, second.Text)

	p.Discard()
	third, err := p.SurfaceForm(context.Background(), docvalue.Nil, l, features, "pl", nil)
	require.NoError(t, err)
	assert.Equal(t, "Olowi", third.Text, "Discard must force recomputation against the now-current label")
}

func TestSupportedLanguagesIsSortedAndNonEmpty(t *testing.T) {
	langs := SupportedLanguages()
	require.NotEmpty(t, langs)
	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1], langs[i], "SupportedLanguages must be sorted")
	}
}
