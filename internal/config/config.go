// Package config provides Viper-based configuration loading for the Eldoria
// combat services.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the progression
// store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds the directories game content YAML is loaded from.
type ContentConfig struct {
	// Root is the base content directory; the per-kind directories below
	// are resolved relative to it when not absolute.
	Root       string `mapstructure:"root"`
	AbilityDir string `mapstructure:"ability_dir"`
	MonsterDir string `mapstructure:"monster_dir"`
	ItemDir    string `mapstructure:"item_dir"`
	StatusDir  string `mapstructure:"status_dir"`
	BalanceDir string `mapstructure:"balance_dir"`
}

// Dir resolves one of the per-kind content directories against Root.
// Absolute paths pass through unchanged.
func (c ContentConfig) Dir(sub string) string {
	if filepath.IsAbs(sub) {
		return sub
	}
	return filepath.Join(c.Root, sub)
}

// BattleConfig holds combat tuning knobs.
type BattleConfig struct {
	// MonsterMaxAP is the monster's per-turn action point budget.
	MonsterMaxAP int `mapstructure:"monster_max_ap"`
	// ExpPerUse is the experience granted per ability use.
	ExpPerUse int `mapstructure:"exp_per_use"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Content  ContentConfig  `mapstructure:"content"`
	Battle   BattleConfig   `mapstructure:"battle"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.Root == "" {
		errs = append(errs, "content.root must not be empty")
	}
	for field, dir := range map[string]string{
		"content.ability_dir": c.AbilityDir,
		"content.monster_dir": c.MonsterDir,
		"content.item_dir":    c.ItemDir,
		"content.status_dir":  c.StatusDir,
		"content.balance_dir": c.BalanceDir,
	} {
		if dir == "" {
			errs = append(errs, field+" must not be empty")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.MonsterMaxAP < 1 {
		errs = append(errs, fmt.Sprintf("battle.monster_max_ap must be >= 1, got %d", b.MonsterMaxAP))
	}
	if b.ExpPerUse < 1 {
		errs = append(errs, fmt.Sprintf("battle.exp_per_use must be >= 1, got %d", b.ExpPerUse))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ELDORIA_ prefix
	v.SetEnvPrefix("ELDORIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "eldoria")
	v.SetDefault("database.password", "eldoria")
	v.SetDefault("database.name", "eldoria")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.root", "content")
	v.SetDefault("content.ability_dir", "abilities")
	v.SetDefault("content.monster_dir", "monsters")
	v.SetDefault("content.item_dir", "items")
	v.SetDefault("content.status_dir", "statuses")
	v.SetDefault("content.balance_dir", "balance")

	v.SetDefault("battle.monster_max_ap", 9)
	v.SetDefault("battle.exp_per_use", 1)
}
