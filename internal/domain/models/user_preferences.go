package models

// Budget is the price tier picked during onboarding.
type Budget string

const (
	BudgetLow      Budget = "budget"
	BudgetModerate Budget = "moderate"
	BudgetPremium  Budget = "premium"
)

// DefaultMilkType is assumed when the user skipped the milk question.
const DefaultMilkType = "dairy"

// Onboarding option lists. Order matches the onboarding screens.
var (
	CoffeeTypeOptions = []string{"espresso", "cold-brew", "latte", "pour-over", "tea", "cappuccino", "americano", "mocha"}
	VibeOptions       = []string{"study-friendly", "aesthetic", "quick-grab", "quiet", "date-spot", "lively"}
	BudgetOptions     = []Budget{BudgetLow, BudgetModerate, BudgetPremium}
	FlavorOptions     = []string{"chocolatey", "fruity", "nutty", "spicy", "floral"}
	MilkOptions       = []string{"dairy", "oat", "almond", "soy", "none"}
)

// UserPreferences holds a device's onboarding answers. It lives only in the
// device-local store; there is no per-user server copy.
type UserPreferences struct {
	CoffeeTypes    []string `json:"coffeeTypes"`
	Vibe           []string `json:"vibe"`
	Budget         Budget   `json:"budget"`
	FavoriteFlavor string   `json:"favoriteFlavor"`
	MilkType       string   `json:"milkType"`
}

// EffectiveMilkType returns the milk type, defaulting to dairy.
func (p *UserPreferences) EffectiveMilkType() string {
	if p.MilkType == "" {
		return DefaultMilkType
	}
	return p.MilkType
}

// PriceRange is an inclusive provider price-level range (0 = free, 4 = very expensive).
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
