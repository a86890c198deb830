// Package achievements evaluates the static achievement catalog against a
// user's journal aggregates. Unlock state is never stored; it is derived on
// every evaluation.
package achievements

import (
	"time"

	"github.com/sbilibin2017/dream-vault/internal/models"
)

// Category groups achievements for display.
const (
	CategoryBasics      = "basics"
	CategoryDreams      = "dreams"
	CategoryStreaks     = "streaks"
	CategoryLucid       = "lucid"
	CategoryInsights    = "insights"
	CategorySocial      = "social"
	CategoryExploration = "exploration"
)

// Aggregates is the bundle of counts the catalog is evaluated against.
type Aggregates struct {
	TotalDreams    int
	LucidDreams    int
	PublicDreams   int
	InsightDreams  int
	DistinctDates  int
	DistinctThemes int
	DistinctTags   int
	CurrentStreak  int
}

// Definition is a single catalog entry.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    string
	Target      int
	value       func(Aggregates) int
}

// Status is the evaluated state of one achievement.
type Status struct {
	Definition
	Unlocked   bool
	UnlockedAt *time.Time
	Progress   int
}

func totalDreams(a Aggregates) int    { return a.TotalDreams }
func lucidDreams(a Aggregates) int    { return a.LucidDreams }
func publicDreams(a Aggregates) int   { return a.PublicDreams }
func insightDreams(a Aggregates) int  { return a.InsightDreams }
func distinctDates(a Aggregates) int  { return a.DistinctDates }
func distinctThemes(a Aggregates) int { return a.DistinctThemes }
func distinctTags(a Aggregates) int   { return a.DistinctTags }
func currentStreak(a Aggregates) int  { return a.CurrentStreak }

var catalog = []Definition{
	{ID: "first_dream", Name: "First Dream", Description: "Record your first dream", Icon: "moon", Category: CategoryBasics, Target: 1, value: totalDreams},
	{ID: "week_warrior", Name: "Week Warrior", Description: "Record dreams for 7 days straight", Icon: "flame", Category: CategoryStreaks, Target: 7, value: currentStreak},
	{ID: "dream_collector", Name: "Dream Collector", Description: "Record 10 dreams", Icon: "albums", Category: CategoryDreams, Target: 10, value: totalDreams},
	{ID: "lucid_explorer", Name: "Lucid Explorer", Description: "Record your first lucid dream", Icon: "eye", Category: CategoryLucid, Target: 1, value: lucidDreams},
	{ID: "storyteller", Name: "Storyteller", Description: "Record 25 dreams", Icon: "book", Category: CategoryDreams, Target: 25, value: totalDreams},
	{ID: "night_owl", Name: "Night Owl", Description: "Record 50 dreams", Icon: "moon-outline", Category: CategoryDreams, Target: 50, value: totalDreams},
	{ID: "dream_master", Name: "Dream Master", Description: "Record 100 dreams", Icon: "trophy", Category: CategoryDreams, Target: 100, value: totalDreams},
	{ID: "lucid_master", Name: "Lucid Master", Description: "Record 10 lucid dreams", Icon: "sparkles", Category: CategoryLucid, Target: 10, value: lucidDreams},
	{ID: "month_dedication", Name: "Monthly Dedication", Description: "Record dreams for 30 days", Icon: "calendar", Category: CategoryStreaks, Target: 30, value: distinctDates},
	{ID: "theme_explorer", Name: "Theme Explorer", Description: "Use 5 different themes", Icon: "color-palette", Category: CategoryExploration, Target: 5, value: distinctThemes},
	{ID: "tag_master", Name: "Tag Master", Description: "Use 10 different tags", Icon: "pricetags", Category: CategoryExploration, Target: 10, value: distinctTags},
	{ID: "insight_seeker", Name: "Insight Seeker", Description: "Generate AI insights for 5 dreams", Icon: "bulb", Category: CategoryInsights, Target: 5, value: insightDreams},
	{ID: "social_dreamer", Name: "Social Dreamer", Description: "Share your first dream publicly", Icon: "share-social", Category: CategorySocial, Target: 1, value: publicDreams},
	{ID: "consistent", Name: "Consistent Dreamer", Description: "14 day streak", Icon: "ribbon", Category: CategoryStreaks, Target: 14, value: currentStreak},
	{ID: "veteran", Name: "Dream Veteran", Description: "Record dreams for 60 days", Icon: "medal", Category: CategoryStreaks, Target: 60, value: distinctDates},
	{ID: "legend", Name: "Dream Legend", Description: "Record 200 dreams", Icon: "star", Category: CategoryDreams, Target: 200, value: totalDreams},
}

// Catalog returns a copy of the achievement definitions in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Evaluate computes unlock status and clamped progress for every catalog entry.
// Unlocked entries report now as their unlock time.
func Evaluate(a Aggregates, now time.Time) []Status {
	out := make([]Status, 0, len(catalog))
	for _, def := range catalog {
		v := def.value(a)
		st := Status{
			Definition: def,
			Unlocked:   v >= def.Target,
			Progress:   min(v, def.Target),
		}
		if st.Unlocked {
			at := now
			st.UnlockedAt = &at
		}
		out = append(out, st)
	}
	return out
}

// CountUnlocked returns the number of unlocked entries.
func CountUnlocked(statuses []Status) int {
	n := 0
	for _, st := range statuses {
		if st.Unlocked {
			n++
		}
	}
	return n
}

// Summarize builds the aggregate bundle from a user's dreams in a single pass.
// currentStreak comes from the streak calculator.
func Summarize(dreams []*models.DreamDB, currentStreak int) Aggregates {
	dates := make(map[string]struct{})
	themes := make(map[string]struct{})
	tags := make(map[string]struct{})

	a := Aggregates{TotalDreams: len(dreams), CurrentStreak: currentStreak}
	for _, d := range dreams {
		if d.IsLucid {
			a.LucidDreams++
		}
		if d.IsPublic {
			a.PublicDreams++
		}
		if d.HasInsight() {
			a.InsightDreams++
		}
		dates[d.Date] = struct{}{}
		for _, th := range d.Themes {
			themes[th] = struct{}{}
		}
		for _, tg := range d.Tags {
			tags[tg] = struct{}{}
		}
	}
	a.DistinctDates = len(dates)
	a.DistinctThemes = len(themes)
	a.DistinctTags = len(tags)
	return a
}
