package domain

// Plan is the subscription tier of an account.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// MaxFreeRecipes is how many recipes a free account may keep before the
// premium gate closes.
const MaxFreeRecipes = 5

// FeatureAccess is the derived entitlement view for an account. It is
// recomputed from (plan, recipe count) and never stored.
type FeatureAccess struct {
	IsPremium            bool `json:"is_premium"`
	CanAddRecipe         bool `json:"can_add_recipe"`
	ReachedFreeLimit     bool `json:"reached_free_limit"`
	RemainingFreeRecipes int  `json:"remaining_free_recipes"`
}

// AccessFor computes the feature entitlements for a plan holding
// recipeCount recipes.
func AccessFor(plan Plan, recipeCount int) FeatureAccess {
	isPremium := plan == PlanPremium
	remaining := MaxFreeRecipes - recipeCount
	if remaining < 0 {
		remaining = 0
	}
	canAdd := isPremium || recipeCount < MaxFreeRecipes
	return FeatureAccess{
		IsPremium:            isPremium,
		CanAddRecipe:         canAdd,
		ReachedFreeLimit:     !isPremium && !canAdd,
		RemainingFreeRecipes: remaining,
	}
}
