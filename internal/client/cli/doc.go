// Package cli provides the interactive CardKeeper command-line client.
//
// The App owns every piece of state (session, contacts, entitlement) and
// keeps a current route, the CLI equivalent of a screen. Before each prompt
// the navigation gate is evaluated and any redirect applied, so the first-run
// flow (onboarding, sign-in, thank-you, paywall) is enforced the same way on
// every start. Commands on offer depend on the current route.
//
// A reminder watcher runs next to the REPL under an errgroup; both stop when
// the user exits or the process receives an interrupt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the loop itself.
package cli
