// Package navigation decides which screen the user may be on. The first-run
// flow is a finite-state machine over the session flags; each state has a
// landing route and a set of routes it allows.
package navigation

import "github.com/dmitrijs2005/cardkeeper/internal/client/models"

// State is a step of the first-run flow.
type State int

const (
	NeedsOnboarding State = iota
	NeedsAuth
	NeedsThankYou
	NeedsPaywall
	InApp
)

// AllStates lists the states in flow order.
var AllStates = []State{NeedsOnboarding, NeedsAuth, NeedsThankYou, NeedsPaywall, InApp}

func (s State) String() string {
	switch s {
	case NeedsOnboarding:
		return "NeedsOnboarding"
	case NeedsAuth:
		return "NeedsAuth"
	case NeedsThankYou:
		return "NeedsThankYou"
	case NeedsPaywall:
		return "NeedsPaywall"
	case InApp:
		return "InApp"
	}
	return "Unknown"
}

// Resolve returns the first unmet requirement of the flow, or InApp when
// every requirement holds.
func Resolve(f models.Flags) State {
	switch {
	case !f.SeenOnboarding:
		return NeedsOnboarding
	case !f.Authenticated:
		return NeedsAuth
	case !f.SeenThankYou:
		return NeedsThankYou
	case !f.SeenPaywall:
		return NeedsPaywall
	}
	return InApp
}

// Next is the transition function. The flags fully determine where the flow
// stands, so the target does not depend on the current state: a satisfied
// requirement moves the machine forward and a revoked one (logout) moves it
// back.
func Next(_ State, f models.Flags) State {
	return Resolve(f)
}

// Landing is the route a state redirects to.
func (s State) Landing() Route {
	switch s {
	case NeedsOnboarding:
		return RouteOnboarding
	case NeedsAuth:
		return RouteSplash
	case NeedsThankYou:
		return RouteThankYou
	case NeedsPaywall:
		return RoutePaywall
	}
	return RouteHome
}

// Allows reports whether r may be shown in state s.
func (s State) Allows(r Route) bool {
	switch s {
	case NeedsOnboarding:
		return r == RouteOnboarding
	case NeedsAuth:
		return r == RouteSplash || r.InAuthGroup()
	case NeedsThankYou:
		return r == RouteThankYou
	case NeedsPaywall:
		return r == RoutePaywall
	}
	return r.InApp()
}

// Evaluate returns the route to redirect to and true when route is not
// allowed under flags. Landing routes are always allowed in their own
// state, so applying the redirect and evaluating again yields no redirect.
func Evaluate(route Route, f models.Flags) (Route, bool) {
	s := Resolve(f)
	if s.Allows(route) {
		return route, false
	}
	return s.Landing(), true
}
