package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/client/forms"
	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/client/navigation"
	"github.com/dmitrijs2005/cardkeeper/internal/client/services"
	"github.com/dmitrijs2005/cardkeeper/internal/timex"
)

const defaultImageRef = "camera://capture"

// idArg returns the contact ID from args, falling back to the contact last
// shown.
func (a *App) idArg(args []string, usage string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.selectedID != "" {
		return a.selectedID, nil
	}
	return "", fmt.Errorf("usage: %s", usage)
}

func (a *App) printContacts(list []models.Contact) {
	if len(list) == 0 {
		a.println("No contacts.")
		return
	}
	for _, c := range list {
		line := c.ID + "  " + c.Name
		if c.Company != "" {
			line += " (" + c.Company + ")"
		}
		if len(c.Tags) > 0 {
			line += "  [" + strings.Join(c.Tags, ", ") + "]"
		}
		a.println(line)
	}
}

func (a *App) List(ctx context.Context) error {
	a.navigate(ctx, navigation.RouteHome)

	if st := a.entitlement.State(); !st.Premium {
		a.printf("Free plan: %d/%d contacts used\n", st.ContactsCount, st.MaxFreeContacts)
	}
	a.printContacts(a.contacts.Contacts())
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	a.navigate(ctx, navigation.RouteHome)
	a.printContacts(a.contacts.SearchContacts(strings.Join(args, " ")))
	return nil
}

func (a *App) FilterTag(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tag <tag>")
	}
	a.navigate(ctx, navigation.RouteHome)
	a.printContacts(a.contacts.FilterContactsByTag(strings.Join(args, " ")))
	return nil
}

func (a *App) Tags(ctx context.Context) error {
	a.navigate(ctx, navigation.RouteHome)
	tags := a.contacts.Tags()
	if len(tags) == 0 {
		a.println("No tags.")
		return nil
	}
	a.println(strings.Join(tags, ", "))
	return nil
}

// Show prints a single contact and makes it the current one.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "show <id>")
	if err != nil {
		return err
	}
	c, err := a.contacts.GetContactByID(id)
	if err != nil {
		return err
	}

	a.selectedID = c.ID
	a.navigate(ctx, navigation.RouteContact)

	a.println("Name:    ", c.Name)
	for _, f := range []struct{ label, value string }{
		{"Position:", c.Position},
		{"Company: ", c.Company},
		{"Email:   ", c.Email},
		{"Phone:   ", c.Phone},
		{"Website: ", c.Website},
		{"Address: ", c.Address},
	} {
		if f.value != "" {
			a.println(f.label, f.value)
		}
	}
	if len(c.Tags) > 0 {
		a.println("Tags:    ", strings.Join(c.Tags, ", "))
	}
	if c.Notes != "" {
		a.println("Notes:")
		a.println(c.Notes)
	}
	if c.ReminderAt != nil {
		a.println("Reminder:", c.ReminderAt.Local().Format(time.DateTime))
	}
	a.println("Added:   ", c.CreatedAt.Local().Format(time.DateTime))
	return nil
}

// Scan runs the card scanner and lets the user review the recognized fields
// before saving.
func (a *App) Scan(ctx context.Context, args []string) error {
	a.navigate(ctx, navigation.RouteScan)

	imageRef := defaultImageRef
	if len(args) > 0 {
		imageRef = args[0]
	}

	a.println("Processing business card...")
	data, err := a.scanner.Scan(ctx, imageRef)
	if err != nil {
		a.navigate(ctx, navigation.RouteHome)
		return err
	}

	a.printf("Found: %s, %s at %s\n", data.Name, data.Position, data.Company)
	a.println("Review the fields; press Enter to keep a value.")

	f := forms.FromData(data)
	if err := a.promptContact(&f); err != nil {
		return err
	}
	if f.Notes, err = GetWithDefault(a.reader, "Notes", f.Notes, a.out); err != nil {
		return err
	}

	reviewed, err := f.ToData()
	if err != nil {
		return a.showFormError(err)
	}

	ok, err := GetYesNo(a.reader, "Save this contact?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.navigate(ctx, navigation.RouteHome)
		return nil
	}
	return a.save(ctx, reviewed, imageRef)
}

func (a *App) promptContact(f *forms.ContactForm) error {
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &f.Name},
		{"Company", &f.Company},
		{"Position", &f.Position},
		{"Email", &f.Email},
		{"Phone", &f.Phone},
		{"Website", &f.Website},
		{"Address", &f.Address},
	}
	for _, fld := range fields {
		v, err := GetWithDefault(a.reader, fld.prompt, *fld.dst, a.out)
		if err != nil {
			return err
		}
		*fld.dst = v
	}

	tags, err := GetWithDefault(a.reader, "Tags (comma separated)", strings.Join(f.Tags, ", "), a.out)
	if err != nil {
		return err
	}
	f.Tags = forms.ParseTags(tags)
	return nil
}

// Add creates a contact from manual input.
func (a *App) Add(ctx context.Context) error {
	a.navigate(ctx, navigation.RouteContactEdit)

	var f forms.ContactForm
	if err := a.promptContact(&f); err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}
	f.Notes = notes

	data, err := f.ToData()
	if err != nil {
		return a.showFormError(err)
	}
	return a.save(ctx, data, "")
}

// save adds a new contact unless the free plan is full, in which case the
// user is sent to the profile screen to upgrade.
func (a *App) save(ctx context.Context, data models.ContactFormData, imageRef string) error {
	if !a.entitlement.CanAddContact() {
		st := a.entitlement.State()
		a.printf("You have reached the free limit of %d contacts. Upgrade to Premium to add more.\n", st.MaxFreeContacts)
		a.navigate(ctx, navigation.RouteProfile)
		return nil
	}

	a.println("Saving...")
	if err := timex.Sleep(ctx, a.config.SaveDelay); err != nil {
		return err
	}

	c, err := a.contacts.AddContact(ctx, data, imageRef)
	if err != nil {
		return err
	}
	if err := a.entitlement.IncrementContactsCount(ctx); err != nil {
		return err
	}

	a.printf("Saved %s (%s)\n", c.Name, c.ID)
	a.selectedID = c.ID
	a.navigate(ctx, navigation.RouteHome)
	return nil
}

// Edit updates a contact field by field; pressing Enter keeps a value.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "edit <id>")
	if err != nil {
		return err
	}
	c, err := a.contacts.GetContactByID(id)
	if err != nil {
		return err
	}

	a.selectedID = c.ID
	a.navigate(ctx, navigation.RouteContactEdit)

	f := forms.FromData(c.ContactFormData)
	if err := a.promptContact(&f); err != nil {
		return err
	}
	if f.Notes, err = GetWithDefault(a.reader, "Notes", f.Notes, a.out); err != nil {
		return err
	}

	data, err := f.ToData()
	if err != nil {
		return a.showFormError(err)
	}

	a.println("Saving...")
	if err := timex.Sleep(ctx, a.config.SaveDelay); err != nil {
		return err
	}
	if err := a.contacts.UpdateContact(ctx, c.ID, data); err != nil {
		return err
	}

	a.println("Contact updated.")
	a.navigate(ctx, navigation.RouteContact)
	return nil
}

// Delete removes a contact after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "delete <id>")
	if err != nil {
		return err
	}
	c, err := a.contacts.GetContactByID(id)
	if err != nil {
		return err
	}

	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete %s?", c.Name), a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.contacts.DeleteContact(ctx, c.ID); err != nil {
		return err
	}
	if a.config.ReleaseSlotOnDelete {
		if err := a.entitlement.DecrementContactsCount(ctx); err != nil {
			return err
		}
	}

	a.println("Contact deleted.")
	a.selectedID = ""
	a.navigate(ctx, navigation.RouteHome)
	return nil
}

// Remind sets or clears a follow-up reminder.
func (a *App) Remind(ctx context.Context, args []string) error {
	presets := make([]string, 0, len(services.ReminderPresets))
	for _, d := range services.ReminderPresets {
		presets = append(presets, strconv.Itoa(d))
	}
	usage := fmt.Errorf("usage: remind <id> <%s|clear>", strings.Join(presets, "|"))

	if len(args) != 2 {
		return usage
	}
	id := args[0]
	if _, err := a.contacts.GetContactByID(id); err != nil {
		return err
	}

	if args[1] == "clear" {
		if err := a.contacts.SetReminder(ctx, id, nil); err != nil {
			return err
		}
		a.println("Reminder cleared.")
		return nil
	}

	days, err := strconv.Atoi(args[1])
	if err != nil || !slices.Contains(services.ReminderPresets, days) {
		return usage
	}

	at := services.ReminderAfter(time.Now(), days)
	if err := a.contacts.SetReminder(ctx, id, &at); err != nil {
		return err
	}
	a.printf("Reminder set for %s.\n", at.Local().Format(time.DateOnly))
	return nil
}
