package domain

import "errors"

var ErrNoSession = errors.New("no active session")

// Session represents a logged-in principal. A session exists if and only if
// a successful login or registration happened and was not followed by a
// logout.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Route is the decision produced by the root redirect gate.
type Route string

const (
	// RouteWait: hydration is still in progress, render nothing yet.
	RouteWait       Route = "wait"
	RouteMain       Route = "main"
	RouteLogin      Route = "login"
	RouteOnboarding Route = "onboarding"
	// RouteRegister is where a completed onboarding flow sends the user.
	RouteRegister Route = "register"
)

// DecideRoute is the root redirect gate: a pure function of the four
// hydration/presence flags. Rules are evaluated top to bottom, first match
// wins. The ordering is load-bearing: a logged-out user who finished
// onboarding must land on login, never back in onboarding, so the session
// check runs before the completion check.
func DecideRoute(sessionLoaded, sessionPresent, onboardingLoaded, onboardingCompleted bool) Route {
	if !sessionLoaded || !onboardingLoaded {
		return RouteWait
	}
	if sessionPresent {
		return RouteMain
	}
	if onboardingCompleted {
		return RouteLogin
	}
	return RouteOnboarding
}
