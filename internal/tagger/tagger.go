// Package tagger derives labels from free-text descriptions.
//
// Explicit tags are the #words a user typed. Inferred tags are the dictionary
// forms of nouns and the numbers found in the rest of the text.
//
// Nouns are recognised through a word form dictionary. The embedded one
// covers a few hundred everyday nouns; any word it does not list is skipped.
// For full coverage, export a dictionary as word<TAB>lemma<TAB>POS lines
// (for example from OpenCorpora, keeping the first reading of each form and
// mapping its part of speech to NOUN, ADJF, VERB, ADVB or OTHR) and point
// TAGGER_DICTIONARY or -dictionary at the file. It is reloaded on change.
package tagger

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/smartspb/mediabot/internal/domain"
)

// MinWordLength is the shortest word considered for inferred tags, in runes.
const MinWordLength = 3

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// Extractor turns descriptions into tag sets.
type Extractor struct {
	analyzer Analyzer
}

// New returns an Extractor backed by analyzer. A nil analyzer disables inferred tags.
func New(analyzer Analyzer) *Extractor {
	return &Extractor{analyzer: analyzer}
}

// Result holds the two disjoint tag sets, without the '#' prefix, in first-seen order.
type Result struct {
	Explicit []string
	Inferred []string
}

// Extract returns the explicit and inferred tags of text.
func (e *Extractor) Extract(text string) Result {
	// Casers keep state, so each call gets its own.
	text = cases.Lower(language.Russian).String(norm.NFC.String(text))

	var res Result
	explicit := make(map[string]struct{})
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		if _, seen := explicit[m[1]]; seen {
			continue
		}
		explicit[m[1]] = struct{}{}
		res.Explicit = append(res.Explicit, m[1])
	}

	if e.analyzer == nil {
		return res
	}

	inferred := make(map[string]struct{})
	for _, word := range words(text) {
		if utf8.RuneCountInString(word) < MinWordLength {
			continue
		}

		var lemma string
		if isNumber(word) {
			lemma = word
		} else {
			p, ok := e.analyzer.Parse(word)
			if !ok || p.POS != Noun {
				continue
			}
			lemma = p.Lemma
		}

		if _, dup := explicit[lemma]; dup {
			continue
		}
		if _, dup := inferred[lemma]; dup {
			continue
		}
		inferred[lemma] = struct{}{}
		res.Inferred = append(res.Inferred, lemma)
	}

	return res
}

// Refs converts a Result into storable tag references. Explicit tags get their '#' back.
func (r Result) Refs() []domain.TagRef {
	refs := make([]domain.TagRef, 0, len(r.Explicit)+len(r.Inferred))
	for _, t := range r.Explicit {
		refs = append(refs, domain.TagRef{Name: "#" + t, Origin: domain.TagUser})
	}
	for _, t := range r.Inferred {
		refs = append(refs, domain.TagRef{Name: t, Origin: domain.TagInferred})
	}
	return refs
}

// words splits text on every rune that is not a letter, digit, or underscore.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return word != ""
}
