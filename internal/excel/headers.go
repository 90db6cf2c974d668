// Package excel maps spreadsheet headers to import fields and writes styled workbooks.
package excel

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader lower-cases h, strips accents and collapses every run of
// non-alphanumeric characters into one space: "Date d'entrée" → "date d entree".
func NormalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, h)
	if err != nil {
		stripped = h
	}

	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Rule maps a header to Field when Match accepts its normalized form.
type Rule struct {
	Match func(normalized string) bool
	Field string
}

// HeaderRules is evaluated in order; the first matching rule wins.
type HeaderRules []Rule

// Resolve returns the field for a raw header.
func (rs HeaderRules) Resolve(header string) (string, bool) {
	n := NormalizeHeader(header)
	if n == "" {
		return "", false
	}
	for _, r := range rs {
		if r.Match(n) {
			return r.Field, true
		}
	}
	return "", false
}

// Columns maps column indexes to fields. When two columns resolve to the same field,
// the leftmost one is kept.
func (rs HeaderRules) Columns(headerRow []string) map[int]string {
	cols := make(map[int]string)
	seen := make(map[string]bool)
	for i, h := range headerRow {
		field, ok := rs.Resolve(h)
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		cols[i] = field
	}
	return cols
}

// Exact matches any of names after normalization.
func Exact(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[NormalizeHeader(n)] = true
	}
	return func(h string) bool { return set[h] }
}

// HasWord matches headers containing w as a whole word.
func HasWord(w string) func(string) bool {
	w = NormalizeHeader(w)
	return func(h string) bool {
		for _, part := range strings.Fields(h) {
			if part == w {
				return true
			}
		}
		return false
	}
}

// Contains matches headers containing s anywhere.
func Contains(s string) func(string) bool {
	s = NormalizeHeader(s)
	return func(h string) bool { return strings.Contains(h, s) }
}

// Import kinds
const (
	KindSites      = "sites"
	KindParcs      = "parcs"
	KindEngins     = "engins"
	KindSaisiesHRM = "saisies-hrm"
)

var (
	SiteRules = HeaderRules{
		{Match: Exact("nom", "name", "site", "nom du site", "nom site"), Field: "name"},
		{Match: Exact("actif", "active", "etat", "statut"), Field: "active"},
	}

	ParcRules = HeaderRules{
		{Match: Exact("nom", "name", "parc", "nom du parc", "nom parc"), Field: "name"},
		{Match: HasWord("type"), Field: "typeparc"},
	}

	EnginRules = HeaderRules{
		{Match: Exact("nom", "name", "engin", "code", "code engin", "nom engin", "nom de l'engin", "matricule"), Field: "name"},
		{Match: HasWord("parc"), Field: "parc"},
		{Match: HasWord("site"), Field: "site"},
		{Match: Contains("chassis"), Field: "initial_heure_chassis"},
		{Match: Exact("actif", "active", "etat", "statut"), Field: "active"},
	}

	SaisieHRMRules = HeaderRules{
		{Match: Exact("date", "du", "jour", "date saisie"), Field: "du"},
		{Match: HasWord("engin"), Field: "engin"},
		{Match: HasWord("site"), Field: "site"},
		{Match: Exact("hrm", "heures de marche", "heures marche", "h marche"), Field: "hrm"},
	}
)

// RulesFor returns the header rules of an import kind.
func RulesFor(kind string) (HeaderRules, bool) {
	switch kind {
	case KindSites:
		return SiteRules, true
	case KindParcs:
		return ParcRules, true
	case KindEngins:
		return EnginRules, true
	case KindSaisiesHRM:
		return SaisieHRMRules, true
	}
	return nil, false
}
