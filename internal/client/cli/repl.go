package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/client/navigation"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	// syncRoute applies any redirect required by the navigation gate.
	syncRoute(ctx context.Context)
	// available lists the commands offered on the current route.
	available() []string
	exec(ctx context.Context, cmd string, args []string) error
}

var inAppCommands = []string{
	"list", "search", "tag", "tags", "show", "scan", "add", "edit", "delete",
	"remind", "export", "premium", "status", "logout",
}

func (a *App) available() []string {
	switch {
	case a.route == navigation.RouteOnboarding:
		return []string{"next"}
	case a.route == navigation.RouteSplash:
		return []string{"continue", "register", "login"}
	case a.route.InAuthGroup():
		return []string{"register", "login"}
	case a.route == navigation.RouteThankYou:
		return []string{"continue"}
	case a.route == navigation.RoutePaywall:
		return []string{"subscribe", "skip"}
	case a.route.InApp():
		return inAppCommands
	}
	return nil
}

func (a *App) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "next":
		return a.Next(ctx)
	case "continue":
		if a.route == navigation.RouteThankYou {
			return a.ThankYouContinue(ctx)
		}
		return a.Register(ctx)
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "subscribe":
		return a.Subscribe(ctx)
	case "skip":
		return a.SkipPaywall(ctx)
	case "list":
		return a.List(ctx)
	case "search":
		return a.Search(ctx, args)
	case "tag":
		return a.FilterTag(ctx, args)
	case "tags":
		return a.Tags(ctx)
	case "show":
		return a.Show(ctx, args)
	case "scan":
		return a.Scan(ctx, args)
	case "add":
		return a.Add(ctx)
	case "edit":
		return a.Edit(ctx, args)
	case "delete":
		return a.Delete(ctx, args)
	case "remind":
		return a.Remind(ctx, args)
	case "export":
		return a.Export(ctx)
	case "premium":
		return a.Premium(ctx, args)
	case "status":
		return a.Status(ctx)
	case "logout":
		return a.Logout(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// runREPL starts a simple read–eval–print loop for the CardKeeper CLI.
//
// Before every prompt the navigation gate is applied, so the prompt always
// reflects the screen the user is allowed to be on. The first token of a
// line is the command; the rest are its arguments. The loop exits on reader
// EOF, when ctx is done, or when the user types "exit" or "quit".
//
// Commands per screen:
//
//	onboarding:   next
//	splash:       continue, register, login
//	auth:         register, login
//	thank-you:    continue
//	paywall:      subscribe, skip
//	main app:     list, search <q>, tag <t>, tags, show <id>, scan [image],
//	              add, edit <id>, delete <id>, remind <id> <days|clear>,
//	              export, premium [on|off], status, logout
//	everywhere:   help, exit | quit
//
// Errors returned by command handlers are printed and the loop goes on. All
// output goes to w, which must be safe for use next to other writers.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		a.syncRoute(ctx)
		fmt.Fprintf(w, "ck %s> \n", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(w, "Available commands: "+strings.Join(append(a.available(), "help", "exit"), ", "))

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			if !slices.Contains(a.available(), cmd) {
				fmt.Fprintln(w, "Unknown command:", cmd)
				continue
			}
			if err := a.exec(ctx, cmd, args); err != nil {
				fmt.Fprintln(w, "Error:", err)
			}
		}
	}
}
