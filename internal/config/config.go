package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hurou927/pg-parting/internal/keys"
	"github.com/hurou927/pg-parting/internal/schema"
)

// Config represents the top-level YAML configuration.
type Config struct {
	Connection Connection `yaml:"connection"`
	Family     Family     `yaml:"family"`
}

// Connection holds database connection parameters.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Family declares the partition family: its table-name prefix, the key
// scheme shared by every member, and the entity list.
type Family struct {
	Prefix    string   `yaml:"prefix"`
	KeyScheme string   `yaml:"key_scheme"` // "monthly" or "manual"
	KeyFormat string   `yaml:"key_format"` // time layout for monthly, optional
	Entities  []Entity `yaml:"entities"`
}

// Entity declares one logical entity of the family.
type Entity struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
}

// Field declares one column. Target is set only for references fields.
type Field struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Target string `yaml:"target"`
}

// DSN builds a PostgreSQL connection string.
func (c *Connection) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv fills in empty Connection fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	conn := &c.Connection
	if conn.Host == "" {
		conn.Host = envOr("PGHOST", "POSTGRES_HOST")
	}
	if conn.Port == 0 {
		if s := envOr("PGPORT", "POSTGRES_PORT"); s != "" {
			if p, err := strconv.Atoi(s); err == nil {
				conn.Port = p
			}
		}
	}
	if conn.Database == "" {
		conn.Database = envOr("PGDATABASE", "POSTGRES_DB")
	}
	if conn.User == "" {
		conn.User = envOr("PGUSER", "POSTGRES_USER")
	}
	if conn.Password == "" {
		conn.Password = envOr("PGPASSWORD", "POSTGRES_PASSWORD")
	}
	if conn.SSLMode == "" {
		conn.SSLMode = envOr("PGSSLMODE")
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// validate checks connection parameters and applies defaults.
func (c *Config) validate() error {
	if c.Connection.Host == "" {
		return fmt.Errorf("connection.host is required")
	}
	if c.Connection.Port == 0 {
		c.Connection.Port = 5432
	}
	if c.Connection.Database == "" {
		return fmt.Errorf("connection.database is required")
	}
	if c.Connection.User == "" {
		return fmt.Errorf("connection.user is required")
	}
	if c.Connection.SSLMode == "" {
		c.Connection.SSLMode = "disable"
	}
	if c.Family.KeyScheme == "" {
		c.Family.KeyScheme = "monthly"
	}
	return nil
}

// BuildFamily turns the declared family into a validated schema.Family.
// Field types, foreign-key targets, the entity graph, and the key
// scheme are all checked here; a returned family is ready to use.
func (c *Config) BuildFamily() (*schema.Family, error) {
	if len(c.Family.Entities) == 0 {
		return nil, fmt.Errorf("family.entities is empty")
	}

	var provider keys.Provider
	switch c.Family.KeyScheme {
	case "monthly":
		provider = keys.Monthly{Format: c.Family.KeyFormat}
	case "manual":
		// Explicit keys only; "current"/"next" are unavailable.
	default:
		return nil, fmt.Errorf("unknown key_scheme %q (supported: monthly, manual)", c.Family.KeyScheme)
	}

	entities := make([]*schema.LogicalEntity, 0, len(c.Family.Entities))
	for _, ec := range c.Family.Entities {
		le := &schema.LogicalEntity{Name: ec.Name}
		for _, fc := range ec.Fields {
			ft, err := fieldType(fc.Type)
			if err != nil {
				return nil, fmt.Errorf("entity %s field %s: %w", ec.Name, fc.Name, err)
			}
			if ft == schema.TypeReferences && fc.Target == "" {
				return nil, fmt.Errorf("entity %s field %s: references field needs a target", ec.Name, fc.Name)
			}
			le.Fields = append(le.Fields, schema.Field{Name: fc.Name, Type: ft, Target: fc.Target})
		}
		entities = append(entities, le)
	}

	return schema.NewFamily(c.Family.Prefix, provider, entities...)
}

func fieldType(s string) (schema.FieldType, error) {
	switch s {
	case "text":
		return schema.TypeText, nil
	case "integer":
		return schema.TypeInteger, nil
	case "timestamp":
		return schema.TypeTimestamp, nil
	case "references":
		return schema.TypeReferences, nil
	}
	return "", fmt.Errorf("unknown field type %q", s)
}
