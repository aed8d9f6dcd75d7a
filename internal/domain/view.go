package domain

// View is the top-level screen the client should show. Only the session
// handler derives it, from two signals: does an authenticated session
// exist, and was a profile found for that identity.
type View string

const (
	ViewLanding    View = "landing"
	ViewAuth       View = "auth"
	ViewOnboarding View = "onboarding"
	ViewDashboard  View = "dashboard"
)

// ResolveView derives the screen from the two routing signals. A profile
// fetch failure must be fed in as hasProfile=false: backend trouble routes
// to onboarding, never to a dead end.
func ResolveView(authenticated, hasProfile bool) View {
	switch {
	case !authenticated:
		return ViewLanding
	case !hasProfile:
		return ViewOnboarding
	default:
		return ViewDashboard
	}
}

// StartView is the destination of the landing page's "start" action, which
// differs from ResolveView only in that an unauthenticated player is sent
// to the auth screen instead of back to landing.
func StartView(authenticated, hasProfile bool) View {
	if !authenticated {
		return ViewAuth
	}
	if !hasProfile {
		return ViewOnboarding
	}
	return ViewDashboard
}
