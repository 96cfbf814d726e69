package connector

import (
	stdsql "database/sql"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/osql"
	"github.com/syssam/osql/dialect"
	"github.com/syssam/osql/dialect/sql"
)

// Config describes a connector in YAML:
//
//	dialect: postgres
//	host: db.internal
//	port: 5432
//	user: app
//	password: secret
//	database: app
//	encoding: UTF8
//	options:
//	  sslmode: disable
//	stats:
//	  enabled: true
//	  slow_threshold: 200ms
//	cache:
//	  ttl: 1m
//	  size: 1024
type Config struct {
	// Dialect is one of "sqlite", "postgres" or "mysql".
	Dialect  string `yaml:"dialect"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Database is the database name, or the file path for SQLite.
	Database   string            `yaml:"database"`
	Persistent bool              `yaml:"persistent,omitempty"`
	Encoding   string            `yaml:"encoding,omitempty"`
	Options    map[string]string `yaml:"options,omitempty"`

	Debug bool        `yaml:"debug,omitempty"`
	Stats StatsConfig `yaml:"stats,omitempty"`
	Cache CacheConfig `yaml:"cache,omitempty"`
}

// StatsConfig enables query statistics.
type StatsConfig struct {
	Enabled       bool          `yaml:"enabled"`
	SlowThreshold time.Duration `yaml:"slow_threshold,omitempty"`
}

// CacheConfig enables the in-memory result cache when TTL is positive.
// Size bounds the number of cached results; zero means unbounded.
type CacheConfig struct {
	TTL  time.Duration `yaml:"ttl,omitempty"`
	Size int           `yaml:"size,omitempty"`
}

// LoadConfig reads a YAML connector configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connector config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML connector configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse connector config: %w", err)
	}
	if _, err := dialect.For(cfg.Dialect); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		return nil, osql.NewArgumentError("connector config without database")
	}
	return &cfg, nil
}

// Params returns the connection parameters of the configuration.
func (cfg *Config) Params() Params {
	return Params{
		Host:       cfg.Host,
		Port:       cfg.Port,
		User:       cfg.User,
		Password:   cfg.Password,
		Database:   cfg.Database,
		Persistent: cfg.Persistent,
		Options:    cfg.Options,
	}
}

// options turns the configuration into connector options. Explicit opts are
// applied last.
func (cfg *Config) options(opts []Option) []Option {
	var o []Option
	if cfg.Encoding != "" {
		o = append(o, WithEncoding(cfg.Encoding))
	}
	if cfg.Debug {
		o = append(o, WithDebug())
	}
	if cfg.Stats.Enabled {
		var so []sql.StatsOption
		if cfg.Stats.SlowThreshold > 0 {
			so = append(so, sql.WithSlowThreshold(cfg.Stats.SlowThreshold))
		}
		o = append(o, WithStats(so...))
	}
	return append(o, opts...)
}

// Open returns an unconnected connector for the configuration. A positive
// cache TTL wraps it with an in-memory result cache.
func Open(cfg *Config, opts ...Option) (Connector, error) {
	d, err := dialect.For(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	opts = cfg.options(opts)
	var c Connector
	switch d.Name() {
	case dialect.SQLite:
		c = newSQLite(cfg.Params(), opts)
	case dialect.Postgres:
		c = NewPostgres(cfg.Params(), opts...)
	case dialect.MySQL:
		c = NewMySQL(cfg.Params(), opts...)
	default:
		return nil, osql.NewUnsupportedFeatureError("connector", d.Name())
	}
	if cfg.Cache.TTL > 0 {
		c = Cached(c, osql.NewMemoryCache(osql.WithMaxEntries(cfg.Cache.Size)), cfg.Cache.TTL)
	}
	return c, nil
}

// OpenDB returns a connector over an already open handle. The connector
// owns db from now on; Disconnect closes it.
func OpenDB(dialectName string, db *stdsql.DB, opts ...Option) (Connector, error) {
	d, err := dialect.For(dialectName)
	if err != nil {
		return nil, err
	}
	var (
		c    Connector
		base *conn
	)
	switch d.Name() {
	case dialect.SQLite:
		s := newSQLite(Params{Persistent: true}, opts)
		c, base = s, s.conn
	case dialect.Postgres:
		p := NewPostgres(Params{Persistent: true}, opts...)
		c, base = p, p.conn
	case dialect.MySQL:
		m := NewMySQL(Params{Persistent: true}, opts...)
		c, base = m, m.conn
	default:
		return nil, osql.NewUnsupportedFeatureError("connector", d.Name())
	}
	base.configure(db)
	base.attach(db)
	base.log.Debug("attached open handle")
	return c, nil
}
