package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/cardkeeper/internal/client/config"
	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/client/navigation"
	"github.com/dmitrijs2005/cardkeeper/internal/client/services"
	"github.com/dmitrijs2005/cardkeeper/internal/client/storage"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"golang.org/x/sync/errgroup"
)

// syncWriter serializes writes from the REPL and the reminder watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Services bundles the state holders the App drives.
type Services struct {
	Session     services.SessionService
	Contacts    services.ContactService
	Entitlement services.EntitlementService
	Scanner     services.Scanner
	Export      services.ExportService
}

type App struct {
	config *config.Config
	log    logging.Logger

	session     services.SessionService
	contacts    services.ContactService
	entitlement services.EntitlementService
	scanner     services.Scanner
	exporter    services.ExportService
	gate        *navigation.Gate

	route      navigation.Route
	selectedID string

	reader  *bufio.Reader
	out     io.Writer
	backend *storage.Backend
}

// NewApp opens storage, loads the persisted state and returns an App ready
// to Run.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	backend, err := storage.Open(ctx, c, log)
	if err != nil {
		return nil, fmt.Errorf("error opening storage: %w", err)
	}

	codec, err := storage.OpenCodec(ctx, backend.Repo, c.Passphrase)
	if err != nil {
		backend.Close()
		return nil, err
	}
	stores := storage.NewStores(backend.Repo, codec)

	contacts := services.NewContactService(stores.Contacts, services.ContactOptions{}, log)
	entitlement := services.NewEntitlementService(stores.Settings, c.MaxFreeContacts, log)

	var sink services.ExportSink = services.FileSink{Dir: c.ExportDir}
	if c.S3Bucket != "" {
		sink = services.NewS3Sink(services.S3Config{
			Bucket:   c.S3Bucket,
			Region:   c.S3Region,
			Endpoint: c.S3Endpoint,
			User:     c.S3User,
			Password: c.S3Password,
		}, nil)
	}

	svc := Services{
		Session: services.NewSessionService(stores.Session, services.SessionOptions{
			Delay:  c.AuthDelay,
			Secret: c.SessionSecret,
			TTL:    c.SessionTTL,
		}, log),
		Contacts:    contacts,
		Entitlement: entitlement,
		Scanner:     services.StubScanner{Delay: c.ScanDelay},
		Export:      services.NewExportService(contacts, entitlement, sink, log),
	}

	app := newApp(c, svc, log, bufio.NewReader(os.Stdin), os.Stdout)
	app.backend = backend

	if err := app.Load(ctx); err != nil {
		backend.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, svc Services, log logging.Logger, in *bufio.Reader, out io.Writer) *App {
	return &App{
		config:      c,
		log:         log.With("module", "cli"),
		session:     svc.Session,
		contacts:    svc.Contacts,
		entitlement: svc.Entitlement,
		scanner:     svc.Scanner,
		exporter:    svc.Export,
		gate:        navigation.NewGate(log),
		route:       navigation.RouteSplash,
		reader:      in,
		out:         &syncWriter{w: out},
	}
}

// Load reads the three snapshots, re-checks the stored session and enables
// the navigation gate.
func (a *App) Load(ctx context.Context) error {
	if err := a.session.Load(ctx); err != nil {
		return err
	}
	if err := a.contacts.Load(ctx); err != nil {
		return err
	}
	if err := a.entitlement.Load(ctx); err != nil {
		return err
	}
	if err := a.session.CheckAuth(ctx); err != nil {
		a.log.Warn(ctx, "failed to persist auth check", "error", err)
	}

	a.gate.MarkLoaded(a.session.Flags())
	return nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// Run starts the reminder watcher and the REPL and blocks until the user
// exits or ctx is cancelled. A REPL blocked on input is abandoned on
// cancellation; the process is expected to exit right after.
func (a *App) Run(ctx context.Context) error {
	defer a.backend.Close()

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	watcher := services.NewReminderWatcher(a.contacts, a.config.ReminderCheckInterval, a.announceReminder, a.log)
	g.Go(func() error {
		return watcher.Run(gctx)
	})

	replDone := make(chan struct{})
	go func() {
		defer close(replDone)
		a.println("Welcome to CardKeeper CLI (type 'help' for commands)")
		runREPL(gctx, a, a.getStatus, a.reader, a.out)
	}()

	select {
	case <-replDone:
	case <-gctx.Done():
	}

	stop()
	return g.Wait()
}

func (a *App) announceReminder(c models.Contact) {
	a.printf("\nReminder: follow up with %s (%s)\n", c.Name, c.ID)
}

func (a *App) getStatus() string {
	s := string(a.route)
	if u := a.session.User(); u != nil {
		s = u.Email + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// navigate moves to r and applies the gate right away.
func (a *App) navigate(ctx context.Context, r navigation.Route) {
	a.route = r
	a.syncRoute(ctx)
}

// syncRoute applies the redirect the gate asks for, if any.
func (a *App) syncRoute(ctx context.Context) {
	target, redirect, err := a.gate.Evaluate(ctx, a.route, a.session.Flags())
	if err != nil {
		a.log.Debug(ctx, "gate not ready", "error", err)
		return
	}
	if redirect {
		a.route = target
	}
}
