package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/tally/internal/invoice"
	"github.com/MrJamesThe3rd/tally/internal/money"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Tally"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
		AuthSecret     string        `envconfig:"AUTH_SECRET"`
	}

	Ledger struct {
		URL     string        `envconfig:"LEDGER_URL"`
		Token   string        `envconfig:"LEDGER_TOKEN"`
		Timeout time.Duration `envconfig:"LEDGER_TIMEOUT" default:"30s"`
	}

	Rounding struct {
		Scale          int32  `envconfig:"ROUNDING_SCALE" default:"2"`
		Mode           string `envconfig:"ROUNDING_MODE" default:"half_up"`
		TaxScale       int32  `envconfig:"ROUNDING_TAX_SCALE" default:"2"`
		TaxMode        string `envconfig:"ROUNDING_TAX_MODE" default:"half_up"`
		CurrencyScales string `envconfig:"ROUNDING_CURRENCY_SCALES"`
	}

	Tags struct {
		Receivable string `envconfig:"TAGS_REQUIRED_RECEIVABLE"`
		Payable    string `envconfig:"TAGS_REQUIRED_PAYABLE"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// RoundingTable builds the rounding table from the ROUNDING_* keys.
func (c *Config) RoundingTable() (money.Table, error) {
	mode, err := money.ParseMode(c.Rounding.Mode)
	if err != nil {
		return money.Table{}, fmt.Errorf("ROUNDING_MODE: %w", err)
	}

	taxMode, err := money.ParseMode(c.Rounding.TaxMode)
	if err != nil {
		return money.Table{}, fmt.Errorf("ROUNDING_TAX_MODE: %w", err)
	}

	if c.Rounding.Scale < 0 || c.Rounding.TaxScale < 0 {
		return money.Table{}, fmt.Errorf("rounding scale must not be negative")
	}

	scales := make(map[string]int32)

	for _, pair := range splitList(c.Rounding.CurrencyScales) {
		currency, value, ok := strings.Cut(pair, ":")
		if !ok {
			return money.Table{}, fmt.Errorf("ROUNDING_CURRENCY_SCALES: malformed entry %q", pair)
		}

		scale, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
		if err != nil || scale < 0 {
			return money.Table{}, fmt.Errorf("ROUNDING_CURRENCY_SCALES: invalid scale in %q", pair)
		}

		scales[strings.ToUpper(strings.TrimSpace(currency))] = int32(scale)
	}

	return money.Table{
		Default: money.Rounding{
			Standard: money.Policy{Scale: c.Rounding.Scale, Mode: mode},
			Tax:      money.Policy{Scale: c.Rounding.TaxScale, Mode: taxMode},
		},
		Scales: scales,
	}, nil
}

// TagPolicy builds the required accounting tags from the TAGS_REQUIRED_* keys.
func (c *Config) TagPolicy() (invoice.TagPolicy, error) {
	receivable, err := parseTagRules(c.Tags.Receivable)
	if err != nil {
		return invoice.TagPolicy{}, fmt.Errorf("TAGS_REQUIRED_RECEIVABLE: %w", err)
	}

	payable, err := parseTagRules(c.Tags.Payable)
	if err != nil {
		return invoice.TagPolicy{}, fmt.Errorf("TAGS_REQUIRED_PAYABLE: %w", err)
	}

	return invoice.TagPolicy{Receivable: receivable, Payable: payable}, nil
}

// parseTagRules reads "1:division,2:department".
func parseTagRules(s string) ([]invoice.TagRule, error) {
	var rules []invoice.TagRule

	for _, pair := range splitList(s) {
		idx, name, _ := strings.Cut(pair, ":")

		index, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil || index < 1 || index > invoice.MaxTagIndex {
			return nil, fmt.Errorf("invalid tag index in %q", pair)
		}

		name = strings.TrimSpace(name)
		if name == "" {
			name = "tag" + strconv.Itoa(index)
		}

		rules = append(rules, invoice.TagRule{Index: index, Name: name})
	}

	return rules, nil
}

func splitList(s string) []string {
	var out []string

	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case StoreMemory, StorePostgres:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return &cfg, nil
}
