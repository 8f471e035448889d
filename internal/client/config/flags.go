package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   storage backend: sqlite, postgres, redis or memory
//	-d string   path of the SQLite database file
//	-k string   passphrase for at-rest sealing
//	-m int      number of contacts a free account may add
//	-e string   export directory
//	-r int      reminder check interval (in seconds)
//	-l string   log level
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// components do not cause parse errors.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-s", "-d", "-k", "-m", "-e", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Storage, "s", cfg.Storage, "storage backend")
	fs.StringVar(&cfg.SQLitePath, "d", cfg.SQLitePath, "sqlite database file")
	fs.StringVar(&cfg.Passphrase, "k", cfg.Passphrase, "passphrase for at-rest sealing")
	fs.IntVar(&cfg.MaxFreeContacts, "m", cfg.MaxFreeContacts, "free contacts limit")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "export directory")
	reminderInterval := fs.Int("r", int(cfg.ReminderCheckInterval.Seconds()), "reminder check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ReminderCheckInterval = time.Duration(*reminderInterval) * time.Second
}
