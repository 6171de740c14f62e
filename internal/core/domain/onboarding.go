package domain

import (
	"errors"
	"time"
)

// OnboardingPath identifies which branch of the first-run flow the user took.
// The empty value means no branch has been chosen yet.
type OnboardingPath string

const (
	PathNone OnboardingPath = ""
	// PathA: the user chose to add a recipe right away.
	PathA OnboardingPath = "a"
	// PathB: the user skipped and is shown the import/preview sequence first.
	PathB OnboardingPath = "b"
)

// Screen identifies a single onboarding screen.
type Screen string

const (
	ScreenWelcome      Screen = "welcome"
	ScreenIdentity     Screen = "identity"
	ScreenSpaceReady   Screen = "space_ready"
	ScreenAddRecipe    Screen = "add_recipe_method"
	ScreenImportInfo   Screen = "import_sources"
	ScreenMagicMoment  Screen = "magic_moment"
	ScreenCreateRecipe Screen = "create_recipe"
)

var ErrStepBlocked = errors.New("transition not allowed from current screen")
var ErrSelectionRequired = errors.New("at least one option must be selected")
var ErrNotHydrated = errors.New("onboarding state not hydrated")

// flowKey addresses one cell of the flow table. Step values are only
// meaningful together with the path: step 3 is a different screen on
// path A than on path B.
type flowKey struct {
	Path OnboardingPath
	Step int
}

// screenTable is the complete onboarding state machine.
//
// Shared prefix (steps 0-2), then:
//
//	Path A: 3 AddRecipe → 4 CreateRecipe → done
//	Path B: 3 ImportSources → 4 MagicMoment → 5 CreateRecipe → done
var screenTable = map[flowKey]Screen{
	{PathNone, 0}: ScreenWelcome,
	{PathNone, 1}: ScreenIdentity,
	{PathNone, 2}: ScreenSpaceReady,

	{PathA, 0}: ScreenWelcome,
	{PathA, 1}: ScreenIdentity,
	{PathA, 2}: ScreenSpaceReady,
	{PathA, 3}: ScreenAddRecipe,
	{PathA, 4}: ScreenCreateRecipe,

	{PathB, 0}: ScreenWelcome,
	{PathB, 1}: ScreenIdentity,
	{PathB, 2}: ScreenSpaceReady,
	{PathB, 3}: ScreenImportInfo,
	{PathB, 4}: ScreenMagicMoment,
	{PathB, 5}: ScreenCreateRecipe,
}

// ResolveScreen maps a (path, step) pair to the screen that should be
// presented. Any pair outside the table falls back to the Welcome screen,
// which makes corrupted or out-of-range persisted state recoverable instead
// of fatal.
func ResolveScreen(path OnboardingPath, step int) Screen {
	if s, ok := screenTable[flowKey{path, step}]; ok {
		return s
	}
	return ScreenWelcome
}

// KnownState reports whether (path, step) is a defined cell of the flow table.
func KnownState(path OnboardingPath, step int) bool {
	_, ok := screenTable[flowKey{path, step}]
	return ok
}

// TotalSteps returns the number of steps shown in the progress indicator.
// Before a path is chosen only the shared prefix is visible.
func TotalSteps(path OnboardingPath) int {
	switch path {
	case PathA:
		return 5
	case PathB:
		return 6
	default:
		return 3
	}
}

// OnboardingState is the persisted, resumable cursor through the first-run
// flow. Every mutation replaces the full record; there is no partial-field
// update on the wire.
type OnboardingState struct {
	Path      OnboardingPath `json:"path"`
	Step      int            `json:"step"`
	Completed bool           `json:"completed"`
	UpdatedAt int64          `json:"updatedAt"` // epoch milliseconds
}

// DefaultOnboardingState returns a fresh cursor positioned at the Welcome
// screen.
func DefaultOnboardingState(now time.Time) OnboardingState {
	return OnboardingState{
		Path:      PathNone,
		Step:      0,
		Completed: false,
		UpdatedAt: now.UnixMilli(),
	}
}

// ShouldResume reports whether the user progressed at least one step down
// some path without finishing.
func (s OnboardingState) ShouldResume() bool {
	return !s.Completed && (s.Step > 0 || s.Path != PathNone)
}

// ImportMethod is one of the ways a recipe can be added during onboarding.
type ImportMethod string

const (
	MethodLink       ImportMethod = "link"
	MethodScreenshot ImportMethod = "screenshot"
	MethodManual     ImportMethod = "manual"
)

// enabledImportMethods lists the methods that currently produce a transition.
// Link and screenshot import are not built yet; selecting them is a no-op.
var enabledImportMethods = map[ImportMethod]bool{
	MethodManual: true,
}

// ImportMethodEnabled reports whether selecting the method advances the flow.
func ImportMethodEnabled(m ImportMethod) bool {
	return enabledImportMethods[m]
}
