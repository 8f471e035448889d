package config

import "time"

// Storage backend names accepted by Config.Storage.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

// Config holds runtime settings for the CardKeeper CLI.
//
// Units: all intervals and delays are time.Duration values.
type Config struct {
	// Storage selects the key-value backend for the persisted snapshots.
	Storage     string
	SQLitePath  string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Passphrase enables at-rest sealing of the snapshots when not empty.
	Passphrase string

	SessionSecret string
	SessionTTL    time.Duration

	MaxFreeContacts     int
	ReleaseSlotOnDelete bool

	AuthDelay time.Duration
	ScanDelay time.Duration
	SaveDelay time.Duration

	ReminderCheckInterval time.Duration

	ExportDir string

	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3User     string
	S3Password string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Storage = StorageSQLite
	c.SQLitePath = "cardkeeper.db"
	c.PostgresDSN = ""
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.RedisPrefix = "cardkeeper:"
	c.Passphrase = ""
	c.SessionSecret = "cardkeeper-local-session"
	c.SessionTTL = 0
	c.MaxFreeContacts = 3
	c.ReleaseSlotOnDelete = false
	c.AuthDelay = time.Second
	c.ScanDelay = 1500 * time.Millisecond
	c.SaveDelay = 500 * time.Millisecond
	c.ReminderCheckInterval = 30 * time.Second
	c.ExportDir = "exports"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3Endpoint = ""
	c.S3User = ""
	c.S3Password = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
