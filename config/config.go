package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"

	"boost-bot/pricing"
)

type Config struct {
	Discord  DiscordConfig  `json:"discord"`
	Pricing  PricingConfig  `json:"pricing"`
	Tickets  TicketsConfig  `json:"tickets"`
	Database DatabaseConfig `json:"database"`
	Lang     LangConfig     `json:"lang"`
}

type DiscordConfig struct {
	Token   string `json:"token"`
	GuildID string `json:"guild_id"`
}

type PricingConfig struct {
	Ranks []string `json:"ranks"`
	// Policy selects the step-cost curve: "tiered" (base + increment per
	// step index) or "flat" (per_level for every step).
	Policy    string  `json:"policy"`
	PerLevel  int     `json:"per_level"`
	BaseCost  int     `json:"base_cost"`
	Increment int     `json:"increment"`
	FeeRatio  float64 `json:"fee_ratio"`
}

type TicketsConfig struct {
	CommandChannel    string `json:"command_channel"`
	Category          string `json:"category"`
	LogChannel        string `json:"log_channel"`
	StaffRole         string `json:"staff_role"`
	CooldownSeconds   int    `json:"cooldown_seconds"`
	CloseDelaySeconds int    `json:"close_delay_seconds"`
}

type DatabaseConfig struct {
	Driver   string         `json:"driver"`
	File     FileConfig     `json:"file"`
	SQLite   SQLiteConfig   `json:"sqlite"`
	MongoDB  MongoDBConfig  `json:"mongodb"`
	Postgres PostgresConfig `json:"postgres"`
}

type FileConfig struct {
	Dir string `json:"dir"`
}

type SQLiteConfig struct {
	Path string `json:"path"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type PostgresConfig struct {
	URL string `json:"url"`
}

type LangConfig struct {
	File string `json:"file"`
}

// DefaultRanks is the ladder the service ships with, lowest to highest.
var DefaultRanks = []string{
	"Bronze 1", "Bronze 2", "Bronze 3",
	"Silver 1", "Silver 2", "Silver 3",
	"Gold 1", "Gold 2", "Gold 3",
	"Platinum 1", "Platinum 2", "Platinum 3",
	"Diamond 1", "Diamond 2", "Diamond 3",
	"Onyx 1", "Onyx 2", "Onyx 3",
	"Nemesis",
	"Archnemesis",
}

// ErrMissing marks required configuration that is absent or malformed.
var ErrMissing = errors.New("missing or invalid configuration")

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

func ApplyDefaults(cfg *Config) {
	if len(cfg.Pricing.Ranks) == 0 {
		cfg.Pricing.Ranks = append([]string(nil), DefaultRanks...)
	}
	if cfg.Pricing.Policy == "" {
		cfg.Pricing.Policy = "tiered"
	}
	if cfg.Pricing.PerLevel <= 0 {
		cfg.Pricing.PerLevel = 50
	}
	if cfg.Pricing.BaseCost <= 0 {
		cfg.Pricing.BaseCost = 100
	}
	if cfg.Pricing.Increment <= 0 {
		cfg.Pricing.Increment = 10
	}
	if cfg.Pricing.FeeRatio == 0 {
		cfg.Pricing.FeeRatio = 0.3
	}
	if cfg.Tickets.CooldownSeconds <= 0 {
		cfg.Tickets.CooldownSeconds = 60
	}
	if cfg.Tickets.CloseDelaySeconds <= 0 {
		cfg.Tickets.CloseDelaySeconds = 2
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "file"
	}
	if cfg.Database.File.Dir == "" {
		cfg.Database.File.Dir = "data"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/boost.db"
	}
	if cfg.Lang.File == "" {
		cfg.Lang.File = "lang.yml"
	}
}

// Validate rejects configuration the bot cannot run with: a broken ladder,
// a fee that would divide by zero, or missing/malformed Discord IDs for the
// ticket flow.
func (cfg *Config) Validate() error {
	if err := pricing.Ladder(cfg.Pricing.Ranks).Validate(); err != nil {
		return fmt.Errorf("%w: pricing.ranks: %v", ErrMissing, err)
	}
	switch cfg.Pricing.Policy {
	case "tiered", "flat":
	default:
		return fmt.Errorf("%w: pricing.policy %q (use \"tiered\" or \"flat\")", ErrMissing, cfg.Pricing.Policy)
	}
	if cfg.Pricing.FeeRatio < 0 || cfg.Pricing.FeeRatio >= 1 {
		return fmt.Errorf("%w: pricing.fee_ratio %v must be in [0, 1)", ErrMissing, cfg.Pricing.FeeRatio)
	}
	if !IsSnowflake(cfg.Tickets.Category) {
		return fmt.Errorf("%w: tickets.category", ErrMissing)
	}
	optional := map[string]string{
		"tickets.command_channel": cfg.Tickets.CommandChannel,
		"tickets.log_channel":     cfg.Tickets.LogChannel,
		"tickets.staff_role":      cfg.Tickets.StaffRole,
	}
	for field, id := range optional {
		if id != "" && !IsSnowflake(id) {
			return fmt.Errorf("%w: %s", ErrMissing, field)
		}
	}
	return nil
}

// StepCost builds the configured pricing policy.
func (p *PricingConfig) StepCost() pricing.StepCost {
	if p.Policy == "flat" {
		return pricing.Flat(p.PerLevel)
	}
	return pricing.Tiered(p.BaseCost, p.Increment)
}

var snowflakeRe = regexp.MustCompile(`^[0-9]{15,21}$`)

// IsSnowflake reports whether id looks like a Discord snowflake.
func IsSnowflake(id string) bool {
	return snowflakeRe.MatchString(id)
}
