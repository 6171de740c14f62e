package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

// Flow actions, one per forward callback a screen exposes. Each user
// action maps to exactly one of these.
const (
	actionContinueWelcome = "continue_welcome"
	actionSubmitIdentity  = "submit_identity"
	actionChooseAddRecipe = "choose_add_recipe"
	actionChooseSkip      = "choose_skip"
	actionSelectMethod    = "select_import_method"
	actionContinueImports = "continue_import_sources"
	actionAddRecipeNow    = "add_recipe_now"
	actionGoHome          = "go_home"
	actionRecipeSaved     = "recipe_saved"
)

type advanceRequest struct {
	Action string `json:"action" validate:"required,oneof=continue_welcome submit_identity choose_add_recipe choose_skip select_import_method continue_import_sources add_recipe_now go_home recipe_saved"`
	// Selected carries the identity-survey choices for submit_identity.
	Selected []string `json:"selected,omitempty"`
	// Method carries the picker choice for select_import_method.
	Method string `json:"method,omitempty" validate:"omitempty,oneof=link screenshot manual"`
}

type routeResponse struct {
	Route string `json:"route"`
}
