// Package i18n translates UI labels and filter descriptions.
//
// Lookups are pure functions of (key, language). There is no process-wide
// current language: callers carry the Language of their request or session.
package i18n

import (
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
	"golang.org/x/text/language"
)

// Language is a supported UI language code.
type Language string

const (
	TR Language = "tr"
	EN Language = "en"
	DE Language = "de"
	FR Language = "fr"
	ES Language = "es"
)

// Default is the fallback language for missing translations.
const Default = EN

// Supported lists every language with a full catalog, fallback first.
var Supported = []Language{EN, TR, DE, FR, ES}

var matcher = language.NewMatcher([]language.Tag{
	language.English, language.Turkish, language.German, language.French, language.Spanish,
})

// Parse converts a language code into a supported Language.
// Unknown codes return Default and false.
func Parse(code string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	for _, s := range Supported {
		if s == l {
			return l, true
		}
	}
	return Default, false
}

// Match picks the best supported language for an Accept-Language header
// value (or any comma-separated list of BCP 47 tags).
func Match(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Lookup returns the translation of key in lang, falling back to English
// and then to the key itself.
func Lookup(key string, lang Language) string {
	e, ok := catalog[key]
	if !ok {
		return key
	}
	if s, ok := e[lang]; ok && s != "" {
		return s
	}
	if s, ok := e[Default]; ok && s != "" {
		return s
	}
	return key
}

// Format looks up key and substitutes {name} and {{name}} placeholders
// from args. Unknown placeholders are left as-is.
func Format(key string, lang Language, args map[string]string) string {
	s := Lookup(key, lang)
	if len(args) == 0 {
		return s
	}
	pairs := make([]string, 0, len(args)*4)
	for k, v := range args {
		pairs = append(pairs, "{{"+k+"}}", v, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// SearchTerms returns every translation of key in lowercase, so a search
// box can match a label in any supported language.
func SearchTerms(key string) []string {
	e, ok := catalog[key]
	if !ok {
		return nil
	}
	terms := make([]string, 0, len(e))
	for _, lang := range Supported {
		if s, ok := e[lang]; ok {
			terms = append(terms, strings.ToLower(s))
		}
	}
	return terms
}

// Keys returns every catalog key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DescribeChip renders a filter chip in lang. A date chip without an upper
// bound reads as "now".
func DescribeChip(chip core.FilterChip, lang Language) string {
	args := make(map[string]string, len(chip.Args)+1)
	for k, v := range chip.Args {
		args[k] = v
	}
	if chip.Kind == core.ChipIsBetween && args["to"] == "" {
		args["to"] = Lookup(KeyNow, lang)
	}
	if chip.Kind == core.ChipGlobal {
		return Lookup(KeyFilterAnything, lang) + ": " + args["value"]
	}
	return Format(string(chip.Kind), lang, args)
}

// SelectedRowsLabel renders the "n of m row(s) selected" footer.
func SelectedRowsLabel(summary core.SelectionSummary, lang Language) string {
	return Format(KeySelectedRowsCount, lang, map[string]string{
		"selected": strconv.Itoa(summary.Selected),
		"total":    strconv.Itoa(summary.Visible),
	})
}

// PageLabel renders "Page x of y" for a zero-based page index.
func PageLabel(pageIndex, pageCount int, lang Language) string {
	return Format(KeyPageOf, lang, map[string]string{
		"page":  strconv.Itoa(pageIndex + 1),
		"total": strconv.Itoa(pageCount),
	})
}

// DeleteTarget returns the phrase naming what a delete confirmation removes.
func DeleteTarget(count int, lang Language) string {
	if count == 1 {
		return Lookup(KeySelectedRow, lang)
	}
	return Lookup(KeyAllSelectedRows, lang)
}
