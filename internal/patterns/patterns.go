// Package patterns aggregates recurring themes, tags, words and symbols over a
// user's dream corpus.
package patterns

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/sbilibin2017/dream-vault/internal/models"
)

// Output limits.
const (
	TopThemes        = 10
	TopTags          = 10
	TopWords         = 20
	TopSymbols       = 8
	TopThemesInMonth = 5
	MinWordLength    = 3
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "was": {}, "were": {}, "i": {}, "my": {},
	"me": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {}, "to": {},
	"of": {}, "it": {}, "this": {}, "that": {},
}

// IsStopWord reports whether w is excluded from word frequencies.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Symbol is a taxonomy category matched by keyword substrings.
type Symbol struct {
	Name     string
	Keywords []string
}

var taxonomy = []Symbol{
	{Name: "water", Keywords: []string{"water", "ocean", "sea", "river", "lake", "swim", "rain", "wave", "flood"}},
	{Name: "flying", Keywords: []string{"fly", "flying", "flew", "float", "soar", "wings"}},
	{Name: "falling", Keywords: []string{"fall", "falling", "fell", "drop", "plummet"}},
	{Name: "chase", Keywords: []string{"chase", "chasing", "chased", "running away", "pursu", "escape"}},
	{Name: "death", Keywords: []string{"death", "dead", "die", "dying", "funeral", "killed"}},
	{Name: "teeth", Keywords: []string{"teeth", "tooth", "dentist"}},
	{Name: "animals", Keywords: []string{"animal", "dog", "cat", "snake", "bird", "horse", "spider", "wolf", "bear"}},
	{Name: "house", Keywords: []string{"house", "home", "room", "building", "door"}},
	{Name: "vehicle", Keywords: []string{"car", "bus", "train", "plane", "vehicle", "bike", "driving"}},
	{Name: "people", Keywords: []string{"friend", "family", "mother", "father", "stranger", "people", "person"}},
}

// NameCount is a frequency table entry for themes and tags.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WordCount is a frequency table entry for description words.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SymbolCount is a matched taxonomy category.
type SymbolCount struct {
	Symbol     string  `json:"symbol"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthCount is the number of dreams logged in a YYYY-MM month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ThemeTrend lists the dominant themes of one month.
type ThemeTrend struct {
	Month  string      `json:"month"`
	Themes []NameCount `json:"themes"`
}

// Analysis is the result of Analyze.
type Analysis struct {
	TotalAnalyzed    int           `json:"total_analyzed"`
	RecurringSymbols []SymbolCount `json:"recurring_symbols"`
	RecurringThemes  []NameCount   `json:"recurring_themes"`
	RecurringTags    []NameCount   `json:"recurring_tags"`
	CommonWords      []WordCount   `json:"common_words"`
	ThemeTrends      []ThemeTrend  `json:"theme_trends"`
	MonthlyActivity  []MonthCount  `json:"monthly_activity"`
	LucidPercentage  float64       `json:"lucid_percentage"`
}

// Analyze aggregates the given dreams. It never fails; an empty corpus yields
// empty collections.
func Analyze(dreams []*models.DreamDB) Analysis {
	themes := map[string]int{}
	tags := map[string]int{}
	words := map[string]int{}
	months := map[string]int{}
	monthThemes := map[string]map[string]int{}
	symbols := make([]int, len(taxonomy))
	lucid := 0

	for _, d := range dreams {
		month := monthKey(d.Date)
		months[month]++

		for _, th := range d.Themes {
			themes[th]++
			if monthThemes[month] == nil {
				monthThemes[month] = map[string]int{}
			}
			monthThemes[month][th]++
		}
		for _, tg := range d.Tags {
			tags[tg]++
		}
		for _, w := range Tokenize(d.Description) {
			words[w]++
		}

		text := strings.ToLower(d.Title + " " + d.Description)
		for i, sym := range taxonomy {
			if matches(text, sym.Keywords) {
				symbols[i]++
			}
		}

		if d.IsLucid {
			lucid++
		}
	}

	total := len(dreams)
	a := Analysis{
		TotalAnalyzed:    total,
		RecurringSymbols: topSymbols(symbols, total),
		RecurringThemes:  topNames(themes, TopThemes),
		RecurringTags:    topNames(tags, TopTags),
		CommonWords:      topWords(words, TopWords),
		ThemeTrends:      trends(monthThemes),
		MonthlyActivity:  monthly(months),
	}
	if total > 0 {
		a.LucidPercentage = round1(float64(lucid) / float64(total) * 100)
	}
	return a
}

// Tokenize lower-cases text, splits it on whitespace, strips every rune that is
// not a letter or digit and drops stop-words and short tokens.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, f)
		if len([]rune(w)) < MinWordLength || IsStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TopNames returns the n most frequent entries of counts.
func TopNames(counts map[string]int, n int) []NameCount {
	return topNames(counts, n)
}

func matches(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func monthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

type entry struct {
	key   string
	count int
}

// ranked sorts counts descending; ties by ascending key.
func ranked(counts map[string]int, n int) []entry {
	entries := make([]entry, 0, len(counts))
	for k, v := range counts {
		entries = append(entries, entry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func topNames(counts map[string]int, n int) []NameCount {
	entries := ranked(counts, n)
	out := make([]NameCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, NameCount{Name: e.key, Count: e.count})
	}
	return out
}

func topWords(counts map[string]int, n int) []WordCount {
	entries := ranked(counts, n)
	out := make([]WordCount, 0, len(entries))
	for _, e := range entries {
		out = append(out, WordCount{Word: e.key, Count: e.count})
	}
	return out
}

func topSymbols(counts []int, total int) []SymbolCount {
	out := make([]SymbolCount, 0, len(counts))
	for i, c := range counts {
		if c == 0 {
			continue
		}
		out = append(out, SymbolCount{
			Symbol:     taxonomy[i].Name,
			Count:      c,
			Percentage: round1(float64(c) / float64(total) * 100),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > TopSymbols {
		out = out[:TopSymbols]
	}
	return out
}

func monthly(counts map[string]int) []MonthCount {
	out := make([]MonthCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MonthCount{Month: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func trends(byMonth map[string]map[string]int) []ThemeTrend {
	out := make([]ThemeTrend, 0, len(byMonth))
	for m, counts := range byMonth {
		out = append(out, ThemeTrend{Month: m, Themes: topNames(counts, TopThemesInMonth)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
