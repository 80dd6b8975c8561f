package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StorageConfig selects and configures the event storage backend.
type StorageConfig struct {
	// Backend is one of "memory", "redis", "sqlite", "postgres".
	Backend string `yaml:"backend"`

	// PostgresURL is the pgx connection string for the postgres backend.
	PostgresURL string `yaml:"postgres_url"`

	// RedisAddr is the host:port of the redis backend.
	RedisAddr string `yaml:"redis_addr"`

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`
}

// ReminderConfig controls the upcoming-event reminder scan.
type ReminderConfig struct {
	// Cron is the scan schedule (e.g. "*/15 * * * *"). Empty disables it.
	Cron string `yaml:"cron"`

	// HorizonMinutes is how far ahead the scan looks for upcoming events.
	HorizonMinutes int `yaml:"horizon_minutes"`

	// Workers is the size of the publishing worker pool.
	Workers int `yaml:"workers"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Timezone is the IANA display timezone used for day boundaries and
	// slot math (e.g. "Europe/London"). Empty means the host local zone.
	Timezone string `yaml:"timezone"`

	// DisabledWeekday names the weekday on which no event may start.
	DisabledWeekday string `yaml:"disabled_weekday"`

	Storage StorageConfig `yaml:"storage"`

	// AMQPURL enables change notifications when set.
	AMQPURL string `yaml:"amqp_url"`

	Reminder ReminderConfig `yaml:"reminder"`
}

func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		DisabledWeekday: "sunday",
		Storage:         StorageConfig{Backend: "memory"},
		Reminder: ReminderConfig{
			Cron:           "*/15 * * * *",
			HorizonMinutes: 1440,
			Workers:        3,
		},
	}
}

// Normalize fills in missing values so partially-filled configs behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.DisabledWeekday == "" {
		c.DisabledWeekday = "sunday"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	if c.Reminder.Cron == "" {
		c.Reminder.Cron = "*/15 * * * *"
	}
	if c.Reminder.HorizonMinutes <= 0 {
		c.Reminder.HorizonMinutes = 1440
	}
	if c.Reminder.Workers <= 0 {
		c.Reminder.Workers = 3
	}
}

// Load reads YAML configuration from path. A missing file yields the
// defaults rather than an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DisabledDay resolves the configured weekday name.
func (c *Config) DisabledDay() (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(c.DisabledWeekday))]
	if !ok {
		return time.Sunday, fmt.Errorf("unknown weekday %q", c.DisabledWeekday)
	}
	return day, nil
}

// Location resolves the configured display timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
