package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/simmerkit/recipe-vault/internal/core/domain"
)

// FlowStatus is the controller's view of where the user is in the flow:
// the screen to present, the raw cursor, progress for the step indicator,
// and a redirect target once the flow has completed.
type FlowStatus struct {
	Screen    domain.Screen         `json:"screen"`
	Path      domain.OnboardingPath `json:"path"`
	Step      int                   `json:"step"`
	Completed bool                  `json:"completed"`
	Progress  int                   `json:"progress"`
	Total     int                   `json:"total"`
	// Resume is set when there is unfinished mid-flow progress, so the
	// client can distinguish a fresh start from a pick-up-where-you-left.
	Resume bool `json:"resume,omitempty"`
	// Fallback is set when the cursor was outside the flow table and the
	// Welcome screen was substituted.
	Fallback bool `json:"fallback,omitempty"`
	// Redirect is RouteRegister once the flow has completed, empty
	// otherwise.
	Redirect domain.Route `json:"redirect,omitempty"`
}

// FlowController is the branching onboarding state machine. It keeps a
// local working copy of (path, step) for immediate reads and writes every
// mutation through the Tracker in the same logical step, so the local copy
// is the next-render source of truth and the tracker is the crash-recovery
// source of truth. A failed persist leaves the local copy untouched: the
// user stays on the current screen rather than advancing unsaved.
type FlowController struct {
	tracker *Tracker
	log     zerolog.Logger

	mu        sync.Mutex
	hydrated  bool
	resetOnce bool // one-shot dev reset latch, in-memory only
	path      domain.OnboardingPath
	step      int
	completed bool
}

// NewFlowController creates a controller bound to the given tracker.
func NewFlowController(tracker *Tracker, log zerolog.Logger) *FlowController {
	return &FlowController{tracker: tracker, log: log}
}

// Hydrate loads the tracker (a no-op if already loaded) and copies its
// cursor into local working state. No screen is resolved before Hydrate
// has run.
//
// When resetRequested is set, the persisted state is reset first, at most
// once per controller lifetime, so re-entering with the same flag does not
// repeatedly wipe progress.
func (f *FlowController) Hydrate(ctx context.Context, resetRequested bool) error {
	f.tracker.Load(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if resetRequested && !f.resetOnce {
		f.resetOnce = true
		if err := f.tracker.Reset(ctx); err != nil {
			return err
		}
	}

	st := f.tracker.State()
	f.path = st.Path
	f.step = st.Step
	f.completed = st.Completed
	f.hydrated = true
	return nil
}

// Status returns the current flow status. ErrNotHydrated before Hydrate.
func (f *FlowController) Status() (FlowStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusLocked()
}

func (f *FlowController) statusLocked() (FlowStatus, error) {
	if !f.hydrated {
		return FlowStatus{}, domain.ErrNotHydrated
	}

	fallback := !domain.KnownState(f.path, f.step)
	st := FlowStatus{
		Screen:    domain.ResolveScreen(f.path, f.step),
		Path:      f.path,
		Step:      f.step,
		Completed: f.completed,
		Progress:  f.step + 1,
		Total:     domain.TotalSteps(f.path),
		Resume:    f.tracker.ShouldResume(),
		Fallback:  fallback,
	}
	if fallback {
		st.Progress = 1
		st.Total = domain.TotalSteps(domain.PathNone)
	}
	if f.completed {
		st.Redirect = domain.RouteRegister
	}
	return st, nil
}

// ContinueWelcome advances from the Welcome screen to the identity survey.
func (f *FlowController) ContinueWelcome(ctx context.Context) (FlowStatus, error) {
	return f.advance(ctx, domain.ScreenWelcome, 1)
}

// SubmitIdentity records the survey and advances to the space-ready choice.
// The continue action is blocked while zero options are selected.
func (f *FlowController) SubmitIdentity(ctx context.Context, selected []string) (FlowStatus, error) {
	if len(selected) == 0 {
		return FlowStatus{}, domain.ErrSelectionRequired
	}
	return f.advance(ctx, domain.ScreenIdentity, 2)
}

// ChooseAddRecipe takes the "add a recipe now" branch: path A, step 3.
func (f *FlowController) ChooseAddRecipe(ctx context.Context) (FlowStatus, error) {
	return f.branch(ctx, domain.PathA)
}

// ChooseSkip takes the "skip for now" branch: path B, step 3.
func (f *FlowController) ChooseSkip(ctx context.Context) (FlowStatus, error) {
	return f.branch(ctx, domain.PathB)
}

// SelectImportMethod reacts to a method choice on the add-recipe picker.
// Disabled methods never produce a transition: the call is a deliberate
// no-op that returns the unchanged status.
func (f *FlowController) SelectImportMethod(ctx context.Context, method domain.ImportMethod) (FlowStatus, error) {
	if !domain.ImportMethodEnabled(method) {
		f.log.Debug().Str("method", string(method)).Msg("disabled import method selected, ignoring")
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.statusLocked()
	}
	return f.advance(ctx, domain.ScreenAddRecipe, 4)
}

// ContinueImportSources advances from the import-sources info screen to the
// magic-moment preview.
func (f *FlowController) ContinueImportSources(ctx context.Context) (FlowStatus, error) {
	return f.advance(ctx, domain.ScreenImportInfo, 4)
}

// AddRecipeNow advances from the magic-moment preview to the recipe form.
func (f *FlowController) AddRecipeNow(ctx context.Context) (FlowStatus, error) {
	return f.advance(ctx, domain.ScreenMagicMoment, 5)
}

// GoHome is the path-B shortcut that bails out of the preview straight to
// completion.
func (f *FlowController) GoHome(ctx context.Context) (FlowStatus, error) {
	return f.complete(ctx, domain.ScreenMagicMoment)
}

// RecipeSaved finishes the flow after the first recipe is saved, on either
// path's final form.
func (f *FlowController) RecipeSaved(ctx context.Context) (FlowStatus, error) {
	return f.complete(ctx, domain.ScreenCreateRecipe)
}

// advance moves to nextStep, provided the current screen is the expected
// one. Persists first, then mirrors locally.
func (f *FlowController) advance(ctx context.Context, from domain.Screen, nextStep int) (FlowStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireScreen(from); err != nil {
		return FlowStatus{}, err
	}
	if err := f.tracker.SetStep(ctx, nextStep); err != nil {
		return FlowStatus{}, err
	}
	f.step = nextStep
	return f.statusLocked()
}

// branch records the chosen path and jumps to its step 3. The two writes
// run strictly in sequence: the step write must see the path write's
// effect.
func (f *FlowController) branch(ctx context.Context, path domain.OnboardingPath) (FlowStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireScreen(domain.ScreenSpaceReady); err != nil {
		return FlowStatus{}, err
	}
	if err := f.tracker.SetPath(ctx, path); err != nil {
		return FlowStatus{}, err
	}
	f.path = path
	if err := f.tracker.SetStep(ctx, 3); err != nil {
		return FlowStatus{}, err
	}
	f.step = 3
	return f.statusLocked()
}

// complete marks the flow finished and reports the registration redirect.
// Terminal: the root redirect gate guarantees no route ever leads back in.
func (f *FlowController) complete(ctx context.Context, from domain.Screen) (FlowStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.requireScreen(from); err != nil {
		return FlowStatus{}, err
	}
	if err := f.tracker.MarkCompleted(ctx); err != nil {
		return FlowStatus{}, err
	}
	f.completed = true
	f.log.Info().Str("path", string(f.path)).Msg("onboarding completed")
	return f.statusLocked()
}

func (f *FlowController) requireScreen(want domain.Screen) error {
	if !f.hydrated {
		return domain.ErrNotHydrated
	}
	if domain.ResolveScreen(f.path, f.step) != want {
		return domain.ErrStepBlocked
	}
	return nil
}
