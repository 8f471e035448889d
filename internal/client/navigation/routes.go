package navigation

import "strings"

// Route is a screen path.
type Route string

const (
	RouteOnboarding  Route = "/onboarding"
	RouteSplash      Route = "/splash"
	RouteLogin       Route = "/(auth)/login"
	RouteRegister    Route = "/(auth)/register"
	RouteThankYou    Route = "/thank-you"
	RoutePaywall     Route = "/paywall"
	RouteHome        Route = "/(tabs)"
	RouteProfile     Route = "/(tabs)/profile"
	RouteScan        Route = "/scan"
	RouteContact     Route = "/contact/[id]"
	RouteContactEdit Route = "/contact/edit"
	RouteExport      Route = "/settings/export"
)

// AllRoutes lists every known screen.
var AllRoutes = []Route{
	RouteOnboarding, RouteSplash, RouteLogin, RouteRegister, RouteThankYou,
	RoutePaywall, RouteHome, RouteProfile, RouteScan, RouteContact,
	RouteContactEdit, RouteExport,
}

const authGroup = "/(auth)"

// InAuthGroup reports whether r is one of the login or registration screens.
func (r Route) InAuthGroup() bool {
	return r == authGroup || strings.HasPrefix(string(r), authGroup+"/")
}

// PreApp reports whether r belongs to the first-run flow rather than the
// main app area.
func (r Route) PreApp() bool {
	switch r {
	case RouteOnboarding, RouteSplash, RouteThankYou, RoutePaywall:
		return true
	}
	return r.InAuthGroup()
}

// InApp reports whether r is a screen of the main app area.
func (r Route) InApp() bool {
	s := string(r)
	switch {
	case r == RouteHome, r == RouteScan:
		return true
	case strings.HasPrefix(s, string(RouteHome)+"/"),
		strings.HasPrefix(s, "/contact/"),
		strings.HasPrefix(s, "/settings/"):
		return true
	}
	return false
}
