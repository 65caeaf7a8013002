// Package simple is the deterministic reference implementation of
// internal/linguistics.Provider: label-alias lookup plus a small
// per-language suffix-rule table, with no probabilistic model (spec.md
// §4.7's non-goal). Its cache is explicitly discardable — a cache miss
// just recomputes, it is never the source of truth for a surface form.
package simple

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"github.com/ikari-pl/littera/internal/docvalue"
	"github.com/ikari-pl/littera/internal/linguistics"
	"github.com/ikari-pl/littera/internal/types"
)

// Provider is the label-alias-plus-suffix-rules implementation.
type Provider struct {
	cache sync.Map // featureKey -> linguistics.Surface
}

// New builds a ready-to-use Provider.
func New() *Provider { return &Provider{} }

// featureKey is the cache key: (EntityID, Language, a hash of the
// feature combination actually requested), per spec.md §4.7.
func featureKey(entityID, language string, features types.MentionFeatures) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%t", features.Case, features.Number, features.Role, features.Possessive)
	return fmt.Sprintf("%s:%s:%x", entityID, language, h.Sum64())
}

// SurfaceForm implements linguistics.Provider.
func (p *Provider) SurfaceForm(ctx context.Context, props docvalue.Value, label types.EntityLabel, features types.MentionFeatures, language string, lctx *linguistics.Context) (linguistics.Surface, error) {
	key := featureKey(label.EntityID, language, features)
	if cached, ok := p.cache.Load(key); ok {
		return cached.(linguistics.Surface), nil
	}

	surface := p.resolve(label, features, language)
	p.cache.Store(key, surface)
	return surface, nil
}

// Discard drops every cached surface form, forcing the next call to
// recompute. Safe to call at any time since the cache is never
// authoritative (spec.md §4.7: "safe to discard").
func (p *Provider) Discard() {
	p.cache.Range(func(k, _ any) bool {
		p.cache.Delete(k)
		return true
	})
}

func (p *Provider) resolve(label types.EntityLabel, features types.MentionFeatures, language string) linguistics.Surface {
	if alias, ok := matchAlias(label.Aliases, features); ok {
		return linguistics.Surface{
			Text:        alias,
			Explanation: fmt.Sprintf("matched a tagged alias for case=%q number=%q", features.Case, features.Number),
		}
	}

	base := label.BaseForm
	if base == "" {
		return linguistics.Surface{
			Text:     "",
			Warnings: []string{"label has no base form for language " + language},
		}
	}

	rule, ok := suffixRule(language, features)
	if !ok {
		text := base
		if features.Possessive {
			text = applyPossessive(language, text)
		}
		return linguistics.Surface{
			Text:        text,
			Explanation: "no suffix rule for this language/case/number combination; used the base form",
			Warnings:    []string{fmt.Sprintf("no inflection rule for language=%s case=%q number=%q", language, features.Case, features.Number)},
		}
	}

	text := rule.apply(base)
	if features.Possessive {
		text = applyPossessive(language, text)
	}
	return linguistics.Surface{
		Text:        text,
		Explanation: fmt.Sprintf("applied the %s %s/%s suffix rule to the base form", language, features.Case, features.Number),
	}
}

// aliasTag is the "case=X,number=Y|surface text" convention a Label's
// Aliases may use to pin an exact surface form to a feature combination,
// checked before any suffix rule.
func matchAlias(aliases []string, features types.MentionFeatures) (string, bool) {
	want := map[string]string{}
	if features.Case != "" {
		want["case"] = features.Case
	}
	if features.Number != "" {
		want["number"] = features.Number
	}
	if features.Role != "" {
		want["role"] = features.Role
	}
	if len(want) == 0 {
		return "", false
	}
	for _, alias := range aliases {
		tagPart, text, ok := strings.Cut(alias, "|")
		if !ok {
			continue
		}
		if tagsMatch(tagPart, want) {
			return text, true
		}
	}
	return "", false
}

func tagsMatch(tagPart string, want map[string]string) bool {
	got := map[string]string{}
	for _, pair := range strings.Split(tagPart, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		got[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

// suffixRuleSet is the ordered, documented vocabulary this reference
// implementation understands. Real deployments needing richer coverage
// are expected to implement their own linguistics.Provider rather than
// extend this one into a probabilistic model.
var suffixRuleSet = map[string][]inflectionRule{
	"pl": {
		{caseName: "genitive", number: "singular", suffix: "a", stripVowel: true},
		{caseName: "genitive", number: "plural", suffix: "ów"},
		{caseName: "dative", number: "singular", suffix: "owi", stripVowel: true},
		{caseName: "instrumental", number: "singular", suffix: "em", stripVowel: true},
		{caseName: "locative", number: "singular", suffix: "ie", stripVowel: true},
	},
	"es": {
		{caseName: "", number: "plural", suffix: "s"},
	},
	"en": {
		{caseName: "", number: "plural", suffix: "s"},
	},
}

type inflectionRule struct {
	caseName   string
	number     string
	suffix     string
	stripVowel bool // drop a trailing vowel before appending suffix
}

func (r inflectionRule) apply(base string) string {
	stem := base
	if r.stripVowel && len(stem) > 0 && isVowel(rune(stem[len(stem)-1])) {
		stem = stem[:len(stem)-1]
	}
	return stem + r.suffix
}

// applyPossessive marks text as possessive using the one rule this
// reference implementation knows (English clitic -'s); for other languages
// it returns text unchanged, and no warning is added for the unapplied
// possessive.
func applyPossessive(language, text string) string {
	if language == "en" {
		if strings.HasSuffix(text, "s") {
			return text + "'"
		}
		return text + "'s"
	}
	return text
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	default:
		return false
	}
}

func suffixRule(language string, features types.MentionFeatures) (inflectionRule, bool) {
	rules, ok := suffixRuleSet[language]
	if !ok {
		return inflectionRule{}, false
	}
	for _, r := range rules {
		if (r.caseName == "" || r.caseName == features.Case) && (r.number == "" || r.number == features.Number) {
			return r, true
		}
	}
	return inflectionRule{}, false
}

// SupportedLanguages returns the language tags this Provider has at
// least one suffix rule for, sorted for deterministic output.
func SupportedLanguages() []string {
	out := make([]string, 0, len(suffixRuleSet))
	for lang := range suffixRuleSet {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

var _ linguistics.Provider = (*Provider)(nil)
