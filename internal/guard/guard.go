// Package guard decides whether a navigation target may render before the
// auth state is known.
package guard

const HomeRoute = "/"

type Decision int

const (
	// Allow renders the target.
	Allow Decision = iota
	// Checking holds rendering until the async auth check resolves.
	Checking
	// RedirectLogin sends the user to login, remembering where they were
	// headed.
	RedirectLogin
	// RedirectOnboarding sends the user to finish onboarding first.
	RedirectOnboarding
)

// AuthState is the guard's view of the auth store.
type AuthState struct {
	Checked             bool
	Authenticated       bool
	OnboardingCompleted bool
}

// Outcome carries the decision plus the location to restore after login.
type Outcome struct {
	Decision Decision
	// ReturnTo is set on RedirectLogin so login can come back here.
	ReturnTo string
}

// Decide gates one navigation. Unknown auth state holds at Checking; an
// unauthenticated user is sent to login with the target preserved; a user
// mid-onboarding is redirected only off the home route, so deliberate
// navigation elsewhere does not loop.
func Decide(state AuthState, target string) Outcome {
	if !state.Checked {
		return Outcome{Decision: Checking}
	}
	if !state.Authenticated {
		return Outcome{Decision: RedirectLogin, ReturnTo: target}
	}
	if !state.OnboardingCompleted && target == HomeRoute {
		return Outcome{Decision: RedirectOnboarding}
	}
	return Outcome{Decision: Allow}
}
