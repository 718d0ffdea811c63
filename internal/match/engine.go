// Package match scores cafes against a device's onboarding preferences.
//
// Scoring is a static table lookup: each vibe in common is worth 2 points,
// the favorite flavor 1 and the milk type 1. Unknown cafes score 0.
package match

import (
	"slices"
	"sort"

	"beanthere/internal/domain/models"
)

const (
	vibeWeight   = 2
	flavorWeight = 1
	milkWeight   = 1
)

// Engine scores cafes against a Table. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	table *Table
}

// NewEngine creates an engine over table
func NewEngine(table *Table) *Engine {
	return &Engine{table: table}
}

// Score returns the match score for a cafe name and exactly which
// preferences contributed to it.
func (e *Engine) Score(cafeName string, prefs *models.UserPreferences) (int, models.MatchedPreferences) {
	matched := models.MatchedPreferences{
		Vibes:   []string{},
		Flavors: []string{},
		Milk:    []string{},
	}
	if prefs == nil {
		return 0, matched
	}

	entry := e.table.Lookup(cafeName)
	if entry == nil {
		return 0, matched
	}

	score := 0
	for _, v := range prefs.Vibe {
		if slices.Contains(entry.Vibes, v) && !slices.Contains(matched.Vibes, v) {
			matched.Vibes = append(matched.Vibes, v)
			score += vibeWeight
		}
	}

	if prefs.FavoriteFlavor != "" && slices.Contains(entry.Flavors, prefs.FavoriteFlavor) {
		matched.Flavors = append(matched.Flavors, prefs.FavoriteFlavor)
		score += flavorWeight
	}

	milk := prefs.EffectiveMilkType()
	if slices.Contains(entry.Milk, milk) {
		matched.Milk = append(matched.Milk, milk)
		score += milkWeight
	}

	return score, matched
}

// Classify maps a score to the list the cafe belongs in
func Classify(score int) models.MatchClass {
	if score > 0 {
		return models.MatchRecommended
	}
	return models.MatchOther
}

// ScoreCafe annotates a single cafe
func (e *Engine) ScoreCafe(cafe models.Cafe, prefs *models.UserPreferences) models.ScoredCafe {
	score, matched := e.Score(cafe.Name, prefs)
	return models.ScoredCafe{
		Cafe:               cafe,
		MatchScore:         score,
		MatchedPreferences: matched,
		Class:              Classify(score),
	}
}

// Rank scores every cafe and stable-sorts by score, highest first
func (e *Engine) Rank(cafes []models.Cafe, prefs *models.UserPreferences) []models.ScoredCafe {
	scored := make([]models.ScoredCafe, 0, len(cafes))
	for _, c := range cafes {
		scored = append(scored, e.ScoreCafe(c, prefs))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	return scored
}

// Split partitions ranked cafes into recommended and other, keeping order
func Split(scored []models.ScoredCafe) (recommended, other []models.ScoredCafe) {
	recommended = []models.ScoredCafe{}
	other = []models.ScoredCafe{}
	for _, s := range scored {
		if s.Class == models.MatchRecommended {
			recommended = append(recommended, s)
		} else {
			other = append(other, s)
		}
	}
	return recommended, other
}

// BudgetPriceRange maps a budget to the provider price-level bounds
func BudgetPriceRange(budget models.Budget) models.PriceRange {
	switch budget {
	case models.BudgetLow:
		return models.PriceRange{Min: 0, Max: 1}
	case models.BudgetModerate:
		return models.PriceRange{Min: 1, Max: 2}
	case models.BudgetPremium:
		return models.PriceRange{Min: 2, Max: 3}
	default:
		return models.PriceRange{Min: 0, Max: 3}
	}
}
