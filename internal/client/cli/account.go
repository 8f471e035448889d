package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/client/navigation"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
)

// Export writes the contact book as CSV. Free accounts are sent to the
// profile screen.
func (a *App) Export(ctx context.Context) error {
	a.navigate(ctx, navigation.RouteExport)

	location, err := a.exporter.Export(ctx)
	if errors.Is(err, common.ErrPremiumRequired) {
		a.println("Export is a Premium feature. Upgrade in your profile.")
		a.navigate(ctx, navigation.RouteProfile)
		return nil
	}
	if err != nil {
		return err
	}

	a.println("Exported to", location)
	return nil
}

// Premium shows or changes the subscription.
func (a *App) Premium(ctx context.Context, args []string) error {
	a.navigate(ctx, navigation.RouteProfile)

	if len(args) > 0 {
		switch args[0] {
		case "on":
			if err := a.entitlement.SetPremium(ctx, true); err != nil {
				return err
			}
		case "off":
			if err := a.entitlement.SetPremium(ctx, false); err != nil {
				return err
			}
		default:
			return errors.New("usage: premium [on|off]")
		}
	}

	if a.entitlement.State().Premium {
		a.println("Plan: Premium")
	} else {
		a.println("Plan: Free")
	}
	return nil
}

// Status prints the profile screen.
func (a *App) Status(ctx context.Context) error {
	a.navigate(ctx, navigation.RouteProfile)

	if u := a.session.User(); u != nil {
		a.printf("%s <%s>\n", u.Name, u.Email)
	}

	st := a.entitlement.State()
	plan := fmt.Sprintf("Free (%d/%d contacts)", st.ContactsCount, st.MaxFreeContacts)
	if st.Premium {
		plan = "Premium"
	}
	a.println("Plan:", plan)
	a.printf("Contacts: %d, tags: %d\n", len(a.contacts.Contacts()), len(a.contacts.Tags()))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.selectedID = ""
	a.println("Signed out.")
	a.syncRoute(ctx)
	return nil
}
