package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/client/config"
	"github.com/dmitrijs2005/cardkeeper/internal/client/navigation"
	"github.com/dmitrijs2005/cardkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/client/services"
	"github.com/dmitrijs2005/cardkeeper/internal/client/storage"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// acceptScan keeps every recognized field (seven fields, tags, notes) and
// confirms the save.
var acceptScan = strings.Repeat("\n", 9) + "y\n"

type testApp struct {
	*App
	out  *bytes.Buffer
	repo kv.Repository
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		MaxFreeContacts:       2,
		ExportDir:             t.TempDir(),
		ReminderCheckInterval: time.Hour,
	}
}

// newTestApp wires real services over an in-memory repository with no
// simulated delays.
func newTestApp(t *testing.T, cfg *config.Config, repo kv.Repository) *testApp {
	t.Helper()

	old := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = old })

	log := logging.Discard()
	stores := storage.NewStores(repo, storage.PlainCodec())
	contacts := services.NewContactService(stores.Contacts, services.ContactOptions{}, log)
	entitlement := services.NewEntitlementService(stores.Settings, cfg.MaxFreeContacts, log)

	svc := Services{
		Session:     services.NewSessionService(stores.Session, services.SessionOptions{Secret: "test"}, log),
		Contacts:    contacts,
		Entitlement: entitlement,
		Scanner:     services.StubScanner{},
		Export:      services.NewExportService(contacts, entitlement, services.FileSink{Dir: cfg.ExportDir}, log),
	}

	out := &bytes.Buffer{}
	a := newApp(cfg, svc, log, rdr(""), out)
	require.NoError(t, a.Load(context.Background()))
	a.syncRoute(context.Background())

	return &testApp{App: a, out: out, repo: repo}
}

// run feeds input to the prompts of a single command.
func (ta *testApp) run(t *testing.T, input, cmd string, args ...string) {
	t.Helper()
	ta.reader = rdr(input)
	require.Contains(t, ta.available(), cmd, "route %s", ta.route)
	require.NoError(t, ta.exec(context.Background(), cmd, args))
}

// signedIn returns an app that has completed the whole first-run flow.
func signedIn(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	ta := newTestApp(t, cfg, kv.NewMemoryRepository())
	ta.run(t, "", "next")
	ta.run(t, "jane@example.com\nsecret\n", "login")
	ta.run(t, "", "continue")
	ta.run(t, "", "skip")
	require.Equal(t, navigation.RouteHome, ta.route)
	return ta
}

func TestApp_FirstRunFlow(t *testing.T) {
	repo := kv.NewMemoryRepository()
	ta := newTestApp(t, testConfig(t), repo)

	assert.Equal(t, navigation.RouteOnboarding, ta.route)
	assert.Equal(t, []string{"next"}, ta.available())

	ta.run(t, "", "next")
	assert.Equal(t, navigation.RouteSplash, ta.route)

	ta.run(t, "Jane Doe\njane@example.com\npw\npw\ny\n", "continue")
	assert.Equal(t, navigation.RouteThankYou, ta.route)
	require.NotNil(t, ta.session.User())
	assert.Equal(t, "Jane Doe", ta.session.User().Name)

	ta.run(t, "", "continue")
	assert.Equal(t, navigation.RoutePaywall, ta.route)

	ta.run(t, "", "subscribe")
	assert.Equal(t, navigation.RouteHome, ta.route)
	assert.True(t, ta.entitlement.State().Premium)

	// A restart lands directly in the app.
	again := newTestApp(t, testConfig(t), repo)
	assert.Equal(t, navigation.RouteHome, again.route)
	assert.True(t, again.entitlement.State().Premium)
}

func TestApp_SplashOffersRegister(t *testing.T) {
	ta := newTestApp(t, testConfig(t), kv.NewMemoryRepository())
	ta.run(t, "", "next")

	require.Equal(t, navigation.RouteSplash, ta.route)
	assert.Equal(t, []string{"continue", "register", "login"}, ta.available())

	ta.run(t, "Jane\njane@example.com\npw\npw\ny\n", "register")
	assert.Equal(t, navigation.RouteThankYou, ta.route)
}

func TestApp_RegisterValidation(t *testing.T) {
	ta := newTestApp(t, testConfig(t), kv.NewMemoryRepository())
	ta.run(t, "", "next")

	ta.run(t, "Jane\njane@example.com\npw\nother\nn\n", "register")

	assert.Equal(t, navigation.RouteRegister, ta.route)
	assert.Nil(t, ta.session.User())
	assert.Contains(t, ta.out.String(), "passwords do not match")
	assert.Contains(t, ta.out.String(), "please agree to the Terms of Service and Privacy Policy")
}

func TestApp_LoginRequiresFields(t *testing.T) {
	ta := newTestApp(t, testConfig(t), kv.NewMemoryRepository())
	ta.run(t, "", "next")

	ta.run(t, "\n\n", "login")

	assert.Equal(t, navigation.RouteLogin, ta.route)
	assert.Contains(t, ta.out.String(), "Please fix: email is required; password is required")
}

func TestApp_FreeCapRedirectsToProfile(t *testing.T) {
	ta := signedIn(t, testConfig(t))

	ta.run(t, acceptScan, "scan")
	ta.run(t, acceptScan, "scan", "card.png")
	assert.Len(t, ta.contacts.Contacts(), 2)
	assert.Equal(t, navigation.RouteHome, ta.route)

	ta.run(t, acceptScan, "scan")
	assert.Len(t, ta.contacts.Contacts(), 2)
	assert.Equal(t, navigation.RouteProfile, ta.route)
	assert.Contains(t, ta.out.String(), "free limit of 2 contacts")
}

func TestApp_ScanReviewBeforeSave(t *testing.T) {
	ta := signedIn(t, testConfig(t))

	// Rename, keep company and position, fix the email, keep the rest,
	// replace tags and add a note.
	input := "Johnny Smith\n\n\njohnny@acme.com\n\n\n\nexpo\nmet at booth 4\ny\n"
	ta.run(t, input, "scan", "card.png")

	list := ta.contacts.Contacts()
	require.Len(t, list, 1)
	c := list[0]
	assert.Equal(t, "Johnny Smith", c.Name)
	assert.Equal(t, services.SampleCard().Company, c.Company)
	assert.Equal(t, services.SampleCard().Phone, c.Phone)
	assert.Equal(t, "johnny@acme.com", c.Email)
	assert.Equal(t, []string{"expo"}, c.Tags)
	assert.Equal(t, "met at booth 4", c.Notes)
	assert.Equal(t, "card.png", c.ImageRef)
	assert.Equal(t, 1, ta.entitlement.State().ContactsCount)
}

func TestApp_ScanDiscard(t *testing.T) {
	ta := signedIn(t, testConfig(t))

	ta.run(t, strings.Repeat("\n", 9)+"n\n", "scan")
	assert.Empty(t, ta.contacts.Contacts())
	assert.Equal(t, 0, ta.entitlement.State().ContactsCount)
	assert.Equal(t, navigation.RouteHome, ta.route)
}

func TestApp_AddEditDelete(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReleaseSlotOnDelete = true
	ta := signedIn(t, cfg)

	ta.run(t, "Ann Lee\nGlobex\nCTO\nann@globex.com\n555\n\n\nvip, golf\nmet at expo\n\n", "add")
	list := ta.contacts.Contacts()
	require.Len(t, list, 1)
	c := list[0]
	assert.Equal(t, "Globex", c.Company)
	assert.Equal(t, []string{"vip", "golf"}, c.Tags)
	assert.Equal(t, "met at expo", c.Notes)
	assert.Equal(t, 1, ta.entitlement.State().ContactsCount)

	ta.run(t, "", "show", c.ID)
	assert.Equal(t, navigation.RouteContact, ta.route)
	assert.Contains(t, ta.out.String(), "ann@globex.com")

	ta.run(t, "\nInitech\n\n\n\n\n\n\n\n", "edit")
	got, err := ta.contacts.GetContactByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Initech", got.Company)
	assert.Equal(t, "Ann Lee", got.Name)
	assert.Equal(t, []string{"vip", "golf"}, got.Tags)
	assert.Equal(t, navigation.RouteContact, ta.route)

	ta.run(t, "y\n", "delete", c.ID)
	assert.Empty(t, ta.contacts.Contacts())
	assert.Equal(t, 0, ta.entitlement.State().ContactsCount)
	assert.Equal(t, navigation.RouteHome, ta.route)
}

func TestApp_AddRejectsInvalidEmail(t *testing.T) {
	ta := signedIn(t, testConfig(t))

	ta.run(t, "Ann\n\n\nnot-an-email\n\n\n\n\n\n", "add")
	assert.Empty(t, ta.contacts.Contacts())
	assert.Contains(t, ta.out.String(), "invalid email address")
}

func TestApp_DeleteKeepsSlotByDefault(t *testing.T) {
	ta := signedIn(t, testConfig(t))
	ta.run(t, acceptScan, "scan")
	id := ta.contacts.Contacts()[0].ID

	ta.run(t, "y\n", "delete", id)
	assert.Empty(t, ta.contacts.Contacts())
	assert.Equal(t, 1, ta.entitlement.State().ContactsCount)
}

func TestApp_Remind(t *testing.T) {
	ta := signedIn(t, testConfig(t))
	ta.run(t, acceptScan, "scan")
	id := ta.contacts.Contacts()[0].ID

	ta.run(t, "", "remind", id, "7")
	c, err := ta.contacts.GetContactByID(id)
	require.NoError(t, err)
	require.NotNil(t, c.ReminderAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *c.ReminderAt, time.Minute)

	ta.reader = rdr("")
	assert.Error(t, ta.exec(context.Background(), "remind", []string{id, "5"}))

	ta.run(t, "", "remind", id, "clear")
	c, err = ta.contacts.GetContactByID(id)
	require.NoError(t, err)
	assert.Nil(t, c.ReminderAt)
}

func TestApp_ShowUnknownContact(t *testing.T) {
	ta := signedIn(t, testConfig(t))
	err := ta.exec(context.Background(), "show", []string{"nope"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_ExportIsPremiumOnly(t *testing.T) {
	cfg := testConfig(t)
	ta := signedIn(t, cfg)
	ta.run(t, acceptScan, "scan")

	ta.run(t, "", "export")
	assert.Equal(t, navigation.RouteProfile, ta.route)
	assert.Contains(t, ta.out.String(), "Export is a Premium feature")

	ta.run(t, "", "premium", "on")
	ta.run(t, "", "export")
	assert.Equal(t, navigation.RouteExport, ta.route)

	files, err := filepath.Glob(filepath.Join(cfg.ExportDir, "contacts-*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "John Smith")
}

func TestApp_LogoutAndLoginAgain(t *testing.T) {
	ta := signedIn(t, testConfig(t))

	ta.run(t, "", "logout")
	assert.Equal(t, navigation.RouteSplash, ta.route)
	assert.Nil(t, ta.session.User())

	ta.run(t, "jane@example.com\nsecret\n", "login")
	assert.Equal(t, navigation.RouteHome, ta.route)
	assert.Equal(t, "jane", ta.session.User().Name)
}

func TestApp_StatusAndTags(t *testing.T) {
	ta := signedIn(t, testConfig(t))
	ta.run(t, acceptScan, "scan")

	ta.run(t, "", "status")
	assert.Equal(t, navigation.RouteProfile, ta.route)
	assert.Contains(t, ta.out.String(), "jane <jane@example.com>")
	assert.Contains(t, ta.out.String(), "Free (1/2 contacts)")

	ta.run(t, "", "tags")
	assert.Equal(t, navigation.RouteHome, ta.route)
	assert.Equal(t, services.SampleCard().Tags, ta.contacts.Tags())
}

func TestApp_GetStatus(t *testing.T) {
	ta := signedIn(t, testConfig(t))
	assert.Equal(t, "(jane@example.com /(tabs))", ta.getStatus())
}
