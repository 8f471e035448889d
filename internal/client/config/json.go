package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cardkeeper/internal/flagx"
	"github.com/dmitrijs2005/cardkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	Storage     string `json:"storage"`
	SQLitePath  string `json:"sqlite_path"`
	PostgresDSN string `json:"postgres_dsn"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	RedisPrefix   string `json:"redis_prefix"`

	Passphrase string `json:"passphrase"`

	SessionSecret string         `json:"session_secret"`
	SessionTTL    timex.Duration `json:"session_ttl"`

	MaxFreeContacts     int  `json:"max_free_contacts"`
	ReleaseSlotOnDelete bool `json:"release_slot_on_delete"`

	AuthDelay timex.Duration `json:"auth_delay"`
	ScanDelay timex.Duration `json:"scan_delay"`
	SaveDelay timex.Duration `json:"save_delay"`

	ReminderCheckInterval timex.Duration `json:"reminder_check_interval"`

	ExportDir string `json:"export_dir"`

	S3Bucket   string `json:"s3_bucket"`
	S3Region   string `json:"s3_region"`
	S3Endpoint string `json:"s3_endpoint"`
	S3User     string `json:"s3_user"`
	S3Password string `json:"s3_password"`

	LogLevel string `json:"log_level"`
}

func toJson(c *Config) JsonConfig {
	return JsonConfig{
		Storage:               c.Storage,
		SQLitePath:            c.SQLitePath,
		PostgresDSN:           c.PostgresDSN,
		RedisAddr:             c.RedisAddr,
		RedisPassword:         c.RedisPassword,
		RedisDB:               c.RedisDB,
		RedisPrefix:           c.RedisPrefix,
		Passphrase:            c.Passphrase,
		SessionSecret:         c.SessionSecret,
		SessionTTL:            timex.Duration{Duration: c.SessionTTL},
		MaxFreeContacts:       c.MaxFreeContacts,
		ReleaseSlotOnDelete:   c.ReleaseSlotOnDelete,
		AuthDelay:             timex.Duration{Duration: c.AuthDelay},
		ScanDelay:             timex.Duration{Duration: c.ScanDelay},
		SaveDelay:             timex.Duration{Duration: c.SaveDelay},
		ReminderCheckInterval: timex.Duration{Duration: c.ReminderCheckInterval},
		ExportDir:             c.ExportDir,
		S3Bucket:              c.S3Bucket,
		S3Region:              c.S3Region,
		S3Endpoint:            c.S3Endpoint,
		S3User:                c.S3User,
		S3Password:            c.S3Password,
		LogLevel:              c.LogLevel,
	}
}

func (jc JsonConfig) apply(c *Config) {
	c.Storage = jc.Storage
	c.SQLitePath = jc.SQLitePath
	c.PostgresDSN = jc.PostgresDSN
	c.RedisAddr = jc.RedisAddr
	c.RedisPassword = jc.RedisPassword
	c.RedisDB = jc.RedisDB
	c.RedisPrefix = jc.RedisPrefix
	c.Passphrase = jc.Passphrase
	c.SessionSecret = jc.SessionSecret
	c.SessionTTL = jc.SessionTTL.Duration
	c.MaxFreeContacts = jc.MaxFreeContacts
	c.ReleaseSlotOnDelete = jc.ReleaseSlotOnDelete
	c.AuthDelay = jc.AuthDelay.Duration
	c.ScanDelay = jc.ScanDelay.Duration
	c.SaveDelay = jc.SaveDelay.Duration
	c.ReminderCheckInterval = jc.ReminderCheckInterval.Duration
	c.ExportDir = jc.ExportDir
	c.S3Bucket = jc.S3Bucket
	c.S3Region = jc.S3Region
	c.S3Endpoint = jc.S3Endpoint
	c.S3User = jc.S3User
	c.S3Password = jc.S3Password
	c.LogLevel = jc.LogLevel
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c or -config in args; without either flag the
// function returns untouched. Keys missing from the file keep their current
// value. Panics on read or unmarshal errors.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	jc := toJson(cfg)
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}
